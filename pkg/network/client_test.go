package network

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/entity"
)

func nextFrame(t *testing.T, c *Client, match func(engine.Snapshot) bool) Frame {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case frame := <-c.Frames():
			if match(frame.Snapshot) {
				return frame
			}
		case <-timeout:
			t.Fatal("no matching frame")
			return Frame{}
		}
	}
}

func TestClient_ReceivesAndAcknowledgesFrames(t *testing.T) {
	ts := startServer(t, testConfig())
	c := NewClient(ts.url, nil)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Disconnect()

	// more frames than the inflight window only arrive when acks flow back
	var last Frame
	for range 10 {
		last = nextFrame(t, c, func(engine.Snapshot) bool { return true })
	}
	assert.GreaterOrEqual(t, last.Counter, uint64(10))
}

func TestClient_DrivesShip(t *testing.T) {
	ts := startServer(t, testConfig())
	c := NewClient(ts.url, nil)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Disconnect()

	require.NoError(t, c.Send(Command{Type: CommandSpawnShip}))
	frame := nextFrame(t, c, func(s engine.Snapshot) bool { return len(s.PlayerShips) > 0 })

	require.NoError(t, c.Send(Command{
		Type:    CommandJoinShip,
		Ship:    string(frame.Snapshot.PlayerShips[0].ID),
		Station: engine.Engineering.String(),
	}))
	require.NoError(t, c.Send(Command{Type: CommandSetPower, System: "Impulse", Value: 150}))

	frame = nextFrame(t, c, func(s engine.Snapshot) bool {
		return s.Ship != nil && s.Ship.Power.Settings != nil
	})
	assert.Equal(t, "Engineering", frame.Snapshot.Type)
	nextFrame(t, c, func(s engine.Snapshot) bool {
		return s.Ship != nil && s.Ship.Power.Settings[entity.Impulse].Level == 150
	})
}

func TestClient_Disconnect(t *testing.T) {
	ts := startServer(t, testConfig())
	c := NewClient(ts.url, nil)
	require.NoError(t, c.Connect(context.Background()))
	done := c.Done()

	require.NoError(t, c.Disconnect())
	require.NoError(t, c.Disconnect())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("message loop did not stop")
	}
	assert.ErrorIs(t, c.Send(Command{Type: CommandStartJump}), ErrNotConnected)
	assert.Eventually(t, func() bool { return ts.server.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestClient_ConnectFailsFast(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1/ws/client", nil)
	c.breaker = NewBreaker("test", testBreakerConfig(), nil)

	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
	assert.ErrorIs(t, c.Send(Command{Type: CommandStartJump}), ErrNotConnected)
}
