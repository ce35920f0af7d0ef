package network

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-starcruiser/pkg/config"
	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/event"
)

type testServer struct {
	game   *engine.Game
	server *Server
	http   *httptest.Server
	url    string

	mu     sync.Mutex
	events []event.Event
}

func (ts *testServer) recorded() []event.Type {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	types := make([]event.Type, 0, len(ts.events))
	for _, e := range ts.events {
		types = append(types, e.GetType())
	}
	return types
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Game.AsteroidCount = 0
	cfg.Game.EnemyShips = 0
	cfg.Game.NeutralShips = 0
	cfg.Game.SnapshotInterval = 5 * time.Millisecond
	cfg.Network.PingPeriod = time.Second
	return cfg
}

func startServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	bus := event.NewEventBus()
	game, err := engine.NewGame(cfg.Game, nil, bus)
	require.NoError(t, err)

	ts := &testServer{game: game}
	for _, typ := range []event.Type{event.ClientConnected, event.ClientDisconnected, event.GameRestarted} {
		bus.Subscribe(typ, func(e event.Event) {
			ts.mu.Lock()
			ts.events = append(ts.events, e)
			ts.mu.Unlock()
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	go game.Run(ctx)

	ts.server = NewServer(game, cfg, nil)
	ts.http = httptest.NewServer(ts.server.Handler())
	ts.url = "ws" + strings.TrimPrefix(ts.http.URL, "http") + ClientPath
	t.Cleanup(func() {
		ts.http.Close()
		cancel()
	})
	return ts
}

func dial(t *testing.T, ts *testServer) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(ts.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func send(t *testing.T, conn *websocket.Conn, cmd Command) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(cmd))
}

// waitFor reads and acknowledges frames until one satisfies match.
func waitFor(t *testing.T, conn *websocket.Conn, match func(engine.Snapshot) bool) engine.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		frame := readFrame(t, conn)
		send(t, conn, Command{Type: CommandAck, Counter: frame.Counter})
		if match(frame.Snapshot) {
			return frame.Snapshot
		}
	}
	t.Fatal("no matching snapshot")
	return engine.Snapshot{}
}

func TestSession_PushesSnapshotFrames(t *testing.T) {
	ts := startServer(t, testConfig())
	conn := dial(t, ts)

	first := readFrame(t, conn)
	second := readFrame(t, conn)

	assert.Equal(t, uint64(1), first.Counter)
	assert.Equal(t, uint64(2), second.Counter)
	assert.Equal(t, engine.SnapshotShipSelection, first.Snapshot.Type)
	assert.Eventually(t, func() bool { return ts.server.Sessions() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSession_ThrottlesUnacknowledgedFrames(t *testing.T) {
	cfg := testConfig()
	ts := startServer(t, cfg)
	conn := dial(t, ts)

	for i := 1; i <= cfg.Game.MaxInflightSnapshots; i++ {
		assert.Equal(t, uint64(i), readFrame(t, conn).Counter)
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	var netErr net.Error
	require.ErrorAs(t, err, &netErr, "no frame may be sent while the window is full")
	assert.True(t, netErr.Timeout())
}

func TestSession_AckReopensWindow(t *testing.T) {
	cfg := testConfig()
	ts := startServer(t, cfg)
	conn := dial(t, ts)

	var last uint64
	for range cfg.Game.MaxInflightSnapshots {
		last = readFrame(t, conn).Counter
	}
	send(t, conn, Command{Type: CommandAck, Counter: last})

	assert.Equal(t, last+1, readFrame(t, conn).Counter)
}

func TestSession_CommandsReachGame(t *testing.T) {
	ts := startServer(t, testConfig())
	conn := dial(t, ts)

	send(t, conn, Command{Type: CommandSpawnShip})
	selection := waitFor(t, conn, func(s engine.Snapshot) bool { return len(s.PlayerShips) == 1 })

	send(t, conn, Command{Type: CommandJoinShip, Ship: string(selection.PlayerShips[0].ID), Station: "Helm"})
	send(t, conn, Command{Type: CommandChangeThrottle, Value: 60})

	s := waitFor(t, conn, func(s engine.Snapshot) bool { return s.Ship != nil && s.Ship.Throttle == 60 })
	assert.Equal(t, "Helm", s.Type)

	send(t, conn, Command{Type: CommandExitShip})
	waitFor(t, conn, func(s engine.Snapshot) bool { return s.Type == engine.SnapshotShipSelection })
}

func TestSession_DropsInvalidFrames(t *testing.T) {
	ts := startServer(t, testConfig())
	conn := dial(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))
	send(t, conn, Command{Type: "selfDestruct"})
	send(t, conn, Command{Type: CommandLaunchTube, Index: -4})
	send(t, conn, Command{Type: CommandSpawnShip})

	s := waitFor(t, conn, func(s engine.Snapshot) bool { return len(s.PlayerShips) == 1 })
	assert.Len(t, s.PlayerShips, 1, "session keeps serving after bad frames")
}

func TestSession_AcksBypassRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Network.MaxCommandsPerSecond = 1
	cfg.Network.CommandBurst = 1
	ts := startServer(t, cfg)
	conn := dial(t, ts)

	for range 20 {
		frame := readFrame(t, conn)
		send(t, conn, Command{Type: CommandAck, Counter: frame.Counter})
	}
	send(t, conn, Command{Type: CommandSpawnShip})

	s := waitFor(t, conn, func(s engine.Snapshot) bool { return len(s.PlayerShips) == 1 })
	assert.Len(t, s.PlayerShips, 1, "the only command token was not spent on acks")
}

func TestSession_RegistersAndUnregistersClient(t *testing.T) {
	ts := startServer(t, testConfig())
	conn := dial(t, ts)
	readFrame(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool {
		types := ts.recorded()
		return len(types) == 2 && types[1] == event.ClientDisconnected
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, event.ClientConnected, ts.recorded()[0])
	assert.Eventually(t, func() bool { return ts.server.Sessions() == 0 }, time.Second, 5*time.Millisecond)
}

func TestServer_Restart(t *testing.T) {
	ts := startServer(t, testConfig())
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := client.Get(ts.http.URL + RestartPath)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Eventually(t, func() bool {
		types := ts.recorded()
		return len(types) == 1 && types[0] == event.GameRestarted
	}, time.Second, 5*time.Millisecond)
}

func TestServer_CORS(t *testing.T) {
	cfg := testConfig()
	cfg.Network.AllowedOrigins = []string{"https://bridge.example"}
	ts := startServer(t, cfg)

	req, err := http.NewRequest(http.MethodGet, ts.http.URL+RestartPath, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://bridge.example")
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://bridge.example", resp.Header.Get("Access-Control-Allow-Origin"))

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err = websocket.DefaultDialer.Dial(ts.url, header)
	assert.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}

func TestServer_ServeStopsWithContext(t *testing.T) {
	cfg := testConfig()
	game, err := engine.NewGame(cfg.Game, nil, nil)
	require.NoError(t, err)
	gameCtx, stopGame := context.WithCancel(context.Background())
	defer stopGame()
	go game.Run(gameCtx)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewServer(game, cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- srv.Serve(ctx, ln) }()

	require.Eventually(t, srv.Listening, time.Second, 5*time.Millisecond)
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+ClientPath, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return srv.Sessions() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.False(t, srv.Listening())
	assert.Equal(t, 0, srv.Sessions())
}
