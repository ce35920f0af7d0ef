package entity

import "time"

// initialDelta is used for the first tick after creation or a pause toggle,
// when there is no previous tick to measure against.
const initialDelta = 0.001

// GameTime is the simulation clock. Only the game loop mutates it.
type GameTime struct {
	Current float64
	Delta   float64

	paused     bool
	lastUpdate time.Time
}

// NewGameTime returns a clock at zero.
func NewGameTime() *GameTime {
	return &GameTime{}
}

// Update advances the clock by the wall time elapsed since the previous update.
func (t *GameTime) Update(now time.Time) {
	if t.lastUpdate.IsZero() {
		t.Delta = initialDelta
	} else {
		t.Delta = now.Sub(t.lastUpdate).Seconds()
		if t.Delta < 0 {
			t.Delta = 0
		}
	}
	t.Current += t.Delta
	t.lastUpdate = now
}

// Advance moves the clock forward by a fixed delta.
func (t *GameTime) Advance(delta float64) {
	t.Delta = delta
	t.Current += delta
}

// Paused reports whether the clock is halted.
func (t *GameTime) Paused() bool {
	return t.paused
}

// SetPaused halts or resumes the clock. Changing the state forgets the last
// update so the next tick starts from a fresh delta.
func (t *GameTime) SetPaused(paused bool) {
	if t.paused == paused {
		return
	}
	t.paused = paused
	t.lastUpdate = time.Time{}
}
