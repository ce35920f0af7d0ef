package network

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/logging"
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

const (
	writeWait = 10 * time.Second
	// readLimitFactor bounds the bytes buffered per frame; the validator
	// rejects anything above the configured frame size.
	readLimitFactor = 4
)

// Frame is the snapshot envelope pushed to clients. Clients acknowledge
// frames by sending an ack command with the counter.
type Frame struct {
	Counter  uint64          `json:"counter"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// session serves one websocket connection. It only reads and writes the
// socket and talks to the game through messages.
type session struct {
	server *Server
	conn   *websocket.Conn
	id     entity.ObjectID
	logger *logging.Logger

	sent  atomic.Uint64
	acked atomic.Uint64
}

func newSession(server *Server, conn *websocket.Conn) *session {
	id := physics.NewObjectID()
	return &session{
		server: server,
		conn:   conn,
		id:     id,
		logger: server.logger.With("client_id", string(id)),
	}
}

// inflight returns the number of frames sent but not acknowledged.
func (s *session) inflight() uint64 {
	return s.sent.Load() - s.acked.Load()
}

// ack records that the client has seen every frame up to counter.
func (s *session) ack(counter uint64) {
	if counter > s.sent.Load() {
		counter = s.sent.Load()
	}
	for {
		current := s.acked.Load()
		if counter <= current || s.acked.CompareAndSwap(current, counter) {
			return
		}
	}
}

func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	game := s.server.game
	if err := game.Send(ctx, engine.NewGameClient{Client: s.id}); err != nil {
		s.logger.Error(ctx, "registering client failed", err)
		return
	}
	s.logger.Info(ctx, "client connected", "remote_addr", s.conn.RemoteAddr().String())

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		s.writeLoop(ctx)
	}()

	s.readLoop(ctx)
	cancel()
	<-writeDone

	cleanupCtx, cleanupCancel := context.WithTimeout(context.WithoutCancel(ctx), s.server.cfg.Game.SnapshotTimeout)
	defer cleanupCancel()
	if err := game.Send(cleanupCtx, engine.GameClientDisconnected{Client: s.id}); err != nil && !errors.Is(err, engine.ErrStopped) {
		s.logger.Error(cleanupCtx, "unregistering client failed", err)
	}
	s.server.validator.Forget(string(s.id))
	s.logger.Info(cleanupCtx, "client disconnected")
}

func (s *session) readTimeout() time.Duration {
	return 2 * s.server.cfg.Network.PingPeriod
}

func (s *session) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(readLimitFactor * s.server.cfg.Network.MaxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.readTimeout()))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.readTimeout()))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn(ctx, "read failed", "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(s.readTimeout()))

		if err := s.handleFrame(ctx, data); err != nil {
			if errors.Is(err, engine.ErrStopped) || ctx.Err() != nil {
				return
			}
			s.logger.Warn(ctx, "dropping client frame", "error", err)
		}
	}
}

func (s *session) handleFrame(ctx context.Context, data []byte) error {
	if err := s.server.validator.ValidateFrame(data); err != nil {
		return err
	}
	cmd, err := DecodeCommand(data)
	if err != nil {
		return err
	}
	// acks arrive once per frame and are not rate limited
	if cmd.Type == CommandAck {
		s.ack(cmd.Counter)
		return nil
	}
	if err := s.server.validator.Allow(string(s.id)); err != nil {
		return err
	}
	msg, err := cmd.Message(s.id)
	if err != nil {
		return err
	}
	return s.server.game.Send(ctx, msg)
}

func (s *session) writeLoop(ctx context.Context) {
	defer s.conn.Close()

	cfg := s.server.cfg
	snapshots := time.NewTicker(cfg.Game.SnapshotInterval)
	defer snapshots.Stop()
	pings := time.NewTicker(cfg.Network.PingPeriod)
	defer pings.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-pings.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.logger.Debug(ctx, "ping failed", "error", err)
				return
			}
		case <-snapshots.C:
			if s.inflight() >= uint64(cfg.Game.MaxInflightSnapshots) {
				continue
			}
			if err := s.pushSnapshot(ctx); err != nil {
				if !errors.Is(err, context.DeadlineExceeded) {
					s.logger.Debug(ctx, "snapshot push stopped", "error", err)
					return
				}
				s.logger.Warn(ctx, "snapshot timed out", "timeout", cfg.Game.SnapshotTimeout)
			}
		}
	}
}

func (s *session) pushSnapshot(ctx context.Context) error {
	snapCtx, cancel := context.WithTimeout(ctx, s.server.cfg.Game.SnapshotTimeout)
	defer cancel()

	snapshot, err := s.server.game.Snapshot(snapCtx, s.id)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	// counted before writing so an ack can never overtake it
	frame := Frame{Counter: s.sent.Add(1), Snapshot: snapshot}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(frame); err != nil {
		return logging.WrapError(err, "writing frame %d", frame.Counter)
	}
	return nil
}
