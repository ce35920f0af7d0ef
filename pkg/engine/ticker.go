package engine

import (
	"context"
	"time"
)

// RunTicker enqueues an Update every interval until ctx is done or the game
// loop stops. It never touches the world itself.
func (g *Game) RunTicker(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := g.Send(ctx, Update{Now: now}); err != nil {
				return err
			}
		}
	}
}
