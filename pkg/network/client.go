package network

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-starcruiser/pkg/logging"
)

// ErrNotConnected is returned when sending on a client that is not connected.
var ErrNotConnected = errors.New("not connected")

const clientFrameBuffer = 16

// Client is a websocket bridge client. It acknowledges every frame it
// receives and hands the latest ones out on Frames.
type Client struct {
	url     string
	dialer  *websocket.Dialer
	breaker *Breaker
	logger  *logging.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	latency   time.Duration
	cancel    context.CancelFunc

	frames       chan Frame
	pingInterval time.Duration
	done         chan struct{}
}

// NewClient creates a client for the websocket endpoint at url, e.g.
// ws://localhost:35667/ws/client.
func NewClient(url string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("component", "client")
	return &Client{
		url:          url,
		dialer:       &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		breaker:      NewBreaker("starcruiser-client", DefaultBreakerConfig(), logger),
		logger:       logger,
		frames:       make(chan Frame, clientFrameBuffer),
		pingInterval: 5 * time.Second,
	}
}

// Connect dials the server, retrying through the circuit breaker, and
// starts receiving frames.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}

	var conn *websocket.Conn
	err := c.breaker.ExecuteWithRetry(ctx, func() error {
		var dialErr error
		conn, _, dialErr = c.dialer.DialContext(ctx, c.url, nil)
		return dialErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	conn.SetPongHandler(c.handlePong)
	loopCtx, cancel := context.WithCancel(context.Background())
	c.conn = conn
	c.connected = true
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.messageLoop(conn, c.done)
	go c.pingLoop(loopCtx)
	c.logger.Info(ctx, "connected to server", "url", c.url)
	return nil
}

// Frames delivers received snapshot frames. Frames are dropped when the
// reader falls behind. The channel is never closed.
func (c *Client) Frames() <-chan Frame {
	return c.frames
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Latency returns the last measured round trip time.
func (c *Client) Latency() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latency
}

// Send writes a command to the server.
func (c *Client) Send(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(cmd); err != nil {
		return fmt.Errorf("sending %s: %w", cmd.Type, err)
	}
	return nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.cleanupConnection()
	return nil
}

// cleanupConnection must be called with c.mu held.
func (c *Client) cleanupConnection() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.connected = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Client) messageLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			c.handleDisconnect(conn, err)
			return
		}
		if err := c.Send(Command{Type: CommandAck, Counter: frame.Counter}); err != nil {
			c.handleDisconnect(conn, err)
			return
		}

		select {
		case c.frames <- frame:
		default:
			// drop the oldest frame to make room for the newest
			select {
			case <-c.frames:
			default:
			}
			select {
			case c.frames <- frame:
			default:
			}
		}
	}
}

func (c *Client) handleDisconnect(conn *websocket.Conn, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn || !c.connected {
		return
	}
	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.logger.Warn(context.Background(), "connection lost", "error", err)
	}
	c.cleanupConnection()
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.mu.Lock()
			if c.connected {
				payload := []byte(strconv.FormatInt(now.UnixNano(), 10))
				_ = c.conn.WriteControl(websocket.PingMessage, payload, now.Add(writeWait))
			}
			c.mu.Unlock()
		}
	}
}

// handlePong measures latency from the timestamp echoed by the server.
func (c *Client) handlePong(payload string) error {
	sent, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return nil
	}
	c.mu.Lock()
	c.latency = time.Since(time.Unix(0, sent))
	c.mu.Unlock()
	return nil
}
