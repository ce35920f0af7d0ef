// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-starcruiser/pkg/ai"
	"github.com/opd-ai/go-starcruiser/pkg/config"
	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/event"
	"github.com/opd-ai/go-starcruiser/pkg/logging"
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// ErrStopped is returned when the game loop is no longer running.
var ErrStopped = errors.New("game loop stopped")

const (
	playerSpawnRadius = 300
	waypointMinRange  = 500
	waypointMaxRange  = 1000
	npcMinRange       = 500
	npcMaxRange       = 1000
	asteroidMinRange  = 200
	asteroidMaxRange  = 800
	asteroidMinRadius = 8
	asteroidMaxRadius = 32

	// Spatial index used for torpedo proximity checks. Ships outside the
	// bounds still land in the overflow list.
	worldExtent  = 40000
	quadCapacity = 8
)

// Game owns the world. All state is mutated by the goroutine running Run;
// everyone else talks to it through Send and Snapshot.
type Game struct {
	cfg     config.GameConfig
	logger  *logging.Logger
	bus     *event.Bus
	metrics *metrics

	inbox    chan Message
	done     chan struct{}
	lastTick atomic.Int64

	time      *entity.GameTime
	physics   *physics.Engine
	ships     entity.ShipMap
	asteroids map[entity.ObjectID]*entity.Asteroid
	torpedoes map[entity.ObjectID]*entity.Torpedo
	clients   map[entity.ObjectID]*Client
}

// NewGame creates a game with a freshly populated world. A nil logger
// discards output and a nil bus gets a private one.
func NewGame(cfg config.GameConfig, logger *logging.Logger, bus *event.Bus) (*Game, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if bus == nil {
		bus = event.NewEventBus()
	}
	inbox := make(chan Message, max(cfg.InboxSize, 1))
	mt, err := newMetrics(inbox)
	if err != nil {
		return nil, logging.WrapError(err, "creating game metrics")
	}

	g := &Game{
		cfg:     cfg,
		logger:  logger.With("component", "engine"),
		bus:     bus,
		metrics: mt,
		inbox:   inbox,
		done:    make(chan struct{}),
		clients: make(map[entity.ObjectID]*Client),
	}
	g.registerEventHandlers()
	g.initWorld()
	return g, nil
}

// EventBus returns the bus game events are published on. Handlers run on
// the game loop and must not block or call back into Send.
func (g *Game) EventBus() *event.Bus {
	return g.bus
}

// LastTick returns the wall time of the most recent Update, or the zero
// time before the first one.
func (g *Game) LastTick() time.Time {
	nanos := g.lastTick.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// Run processes messages in arrival order until ctx is cancelled. It must be
// called at most once.
func (g *Game) Run(ctx context.Context) error {
	defer close(g.done)
	defer g.Close()
	g.logger.Info(ctx, "game loop started", "inbox_size", cap(g.inbox))

	for {
		select {
		case <-ctx.Done():
			g.logger.Info(ctx, "game loop stopped")
			return ctx.Err()
		case msg := <-g.inbox:
			g.Handle(msg)
		}
	}
}

// Close releases the game's metric callbacks. Run calls it on return; a
// game that is never run should call it when discarded.
func (g *Game) Close() error {
	if err := g.metrics.close(); err != nil {
		return logging.WrapError(err, "unregistering game metrics")
	}
	return nil
}

// Send enqueues msg. It blocks only while the inbox is full.
func (g *Game) Send(ctx context.Context, msg Message) error {
	select {
	case <-g.done:
		return ErrStopped
	default:
	}

	select {
	case g.inbox <- msg:
		return nil
	case <-g.done:
		return ErrStopped
	case <-ctx.Done():
		return fmt.Errorf("sending %s: %w", msg.name(), ctx.Err())
	}
}

// Snapshot asks the game loop for the view of client and waits for it.
func (g *Game) Snapshot(ctx context.Context, client entity.ObjectID) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := g.Send(ctx, GetSnapshot{Client: client, Reply: reply}); err != nil {
		return Snapshot{}, err
	}

	select {
	case s := <-reply:
		return s, nil
	case <-g.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, fmt.Errorf("waiting for snapshot: %w", ctx.Err())
	}
}

// Handle applies one message. It is the game loop body and must not be
// called concurrently with Run.
func (g *Game) Handle(msg Message) {
	switch m := msg.(type) {
	case Update:
		g.update(m.Now)
	case TogglePause:
		g.togglePause()
	case Restart:
		g.restart()
	case SpawnShip:
		g.spawnShip()
	case SpawnNonPlayerShip:
		g.spawnNonPlayerShip(m.Faction)
	case NewGameClient:
		g.addClient(m.Client)
	case GameClientDisconnected:
		g.removeClient(m.Client)
	case JoinShip:
		g.joinShip(m)
	case ChangeStation:
		if c := g.clients[m.Client]; c != nil {
			c.changeStation(m.Station)
		}
	case ExitShip:
		if c := g.clients[m.Client]; c != nil {
			c.exitShip()
		}
	case GetSnapshot:
		select {
		case m.Reply <- g.snapshot(m.Client):
		default:
		}
	case shipCommand:
		if ship := g.shipOf(m.client()); ship != nil {
			m.apply(g, ship)
		}
	}

	g.metrics.messageHandled(msg)
	g.recordCounts()
}

func (g *Game) initWorld() {
	g.time = entity.NewGameTime()
	g.physics = physics.NewEngine()
	g.ships = make(entity.ShipMap)
	g.asteroids = make(map[entity.ObjectID]*entity.Asteroid)
	g.torpedoes = make(map[entity.ObjectID]*entity.Torpedo)

	for range g.cfg.AsteroidCount {
		g.spawnAsteroid()
	}
	for range g.cfg.EnemyShips {
		g.spawnNonPlayerShip(entity.EnemyFaction)
	}
	for range g.cfg.NeutralShips {
		g.spawnNonPlayerShip(entity.NeutralFaction)
	}
}

func (g *Game) update(now time.Time) {
	g.lastTick.Store(now.UnixNano())
	if g.time.Paused() {
		return
	}
	start := time.Now()

	g.time.Update(now)
	g.physics.Step(g.time.Delta)

	ships := g.ships.Ships()
	for _, ship := range ships {
		ship.Update(g.time, g.physics, g.ships)
	}
	for _, asteroid := range g.asteroids {
		asteroid.Update(g.physics)
	}
	g.updateTorpedoes(ships)

	var destroyed []*entity.Ship
	for _, ship := range ships {
		result := ship.EndUpdate()
		for _, launch := range result.Torpedoes {
			g.launchTorpedo(launch)
		}
		if result.Destroyed {
			destroyed = append(destroyed, ship)
		}
	}
	for _, ship := range destroyed {
		g.destroyShip(ship)
	}

	g.metrics.tickDone(time.Since(start))
}

// updateTorpedoes burns every torpedo, detonates those near a ship other
// than their launcher and removes the ones that burnt out.
func (g *Game) updateTorpedoes(ships []*entity.Ship) {
	if len(g.torpedoes) == 0 {
		return
	}

	index := physics.NewQuadTree[*entity.Ship](physics.Rect{Width: worldExtent, Height: worldExtent}, quadCapacity)
	for _, ship := range ships {
		index.Insert(ship.Position, ship)
	}

	for _, torpedo := range g.torpedoes {
		torpedo.Update(g.time, g.physics)
		if target := closestHit(index, torpedo); target != nil {
			target.TakeDamage(entity.RandomPoweredSystem(), torpedo.Template.Damage)
			g.removeTorpedo(torpedo, target.ID)
			continue
		}
		if torpedo.Expired() {
			g.removeTorpedo(torpedo, "")
		}
	}
}

func closestHit(index *physics.QuadTree[*entity.Ship], torpedo *entity.Torpedo) *entity.Ship {
	var hit *entity.Ship
	best := math.Inf(1)
	for _, ship := range index.QueryCircle(torpedo.Proximity()) {
		if ship.ID == torpedo.LaunchedBy {
			continue
		}
		if d := ship.Position.Distance(torpedo.Position); d < best {
			hit, best = ship, d
		}
	}
	return hit
}

func (g *Game) launchTorpedo(launch entity.TorpedoLaunch) {
	torpedo := entity.NewTorpedo(launch)
	g.torpedoes[torpedo.ID] = torpedo
	g.physics.AddTorpedo(torpedo.ID, torpedo.Position, torpedo.Rotation, torpedo.Speed, torpedo.Template.Radius, torpedo.Template.Mass)
	g.bus.Publish(event.NewTorpedoEvent(event.TorpedoLaunched, g, torpedo.ID, torpedo.LaunchedBy, ""))
}

func (g *Game) removeTorpedo(torpedo *entity.Torpedo, hit entity.ObjectID) {
	delete(g.torpedoes, torpedo.ID)
	g.physics.RemoveBody(torpedo.ID)
	g.bus.Publish(event.NewTorpedoEvent(event.TorpedoDetonated, g, torpedo.ID, torpedo.LaunchedBy, hit))
}

// destroyShip moves the crew to ShipDestroyed, lets every other ship forget
// the wreck and removes it from the world.
func (g *Game) destroyShip(ship *entity.Ship) {
	for _, c := range g.clients {
		if id, ok := c.aboard(); ok && id == ship.ID {
			c.shipDestroyed()
		}
	}
	g.bus.Publish(event.NewShipEvent(event.ShipDestroyed, g, ship.ID, ship.Faction.Name))
	g.physics.RemoveBody(ship.ID)
	delete(g.ships, ship.ID)

	g.metrics.shipDestroyed(ship.Faction.Name)
	g.logger.Info(context.Background(), "ship destroyed",
		"ship_id", ship.ID, "designation", ship.Designation, "faction", ship.Faction.Name)
}

func (g *Game) registerEventHandlers() {
	g.bus.Subscribe(event.ShipDestroyed, g.handleShipDestroyedEvent)
}

func (g *Game) handleShipDestroyedEvent(e event.Event) {
	destroyed, ok := e.(*event.ShipEvent)
	if !ok || e.GetSource() != g {
		return
	}
	for _, ship := range g.ships {
		if ship.ID != destroyed.ShipID {
			ship.TargetDestroyed(destroyed.ShipID)
		}
	}
}

func (g *Game) togglePause() {
	paused := !g.time.Paused()
	g.time.SetPaused(paused)

	eventType := event.GameResumed
	if paused {
		eventType = event.GamePaused
	}
	g.bus.Publish(&event.BaseEvent{EventType: eventType, Source: g})
	g.logger.Info(context.Background(), "pause toggled", "paused", paused)
}

func (g *Game) restart() {
	for _, c := range g.clients {
		c.exitShip()
	}
	g.initWorld()
	g.bus.Publish(&event.BaseEvent{EventType: event.GameRestarted, Source: g})
	g.logger.Info(context.Background(), "game restarted",
		"ships", len(g.ships), "asteroids", len(g.asteroids))
}

func (g *Game) spawnShip() *entity.Ship {
	ship := entity.NewShip(
		entity.CarrierTemplate(),
		entity.PlayerFaction,
		entity.RandomDesignation(),
		physics.RandomVector(playerSpawnRadius),
		rand.Float64()*2*math.Pi,
	)
	for range 2 {
		ship.AddWaypoint(ship.Position.Add(physics.RandomVectorBetween(waypointMinRange, waypointMaxRange)))
	}
	g.addShip(ship)
	return ship
}

func (g *Game) spawnNonPlayerShip(faction *entity.Faction) *entity.Ship {
	if faction == nil {
		return nil
	}
	ship := entity.NewShip(
		entity.ScoutTemplate(),
		faction,
		entity.RandomDesignation(),
		physics.RandomVectorBetween(npcMinRange, npcMaxRange),
		rand.Float64()*2*math.Pi,
	)
	ship.Controller = ai.New(faction)
	g.addShip(ship)
	return ship
}

func (g *Game) addShip(ship *entity.Ship) {
	g.ships.Add(ship)
	g.physics.AddShip(ship.ID, ship.Position, ship.Rotation, ship.Template.Density)
	g.bus.Publish(event.NewShipEvent(event.ShipSpawned, g, ship.ID, ship.Faction.Name))
	g.logger.Debug(context.Background(), "ship spawned",
		"ship_id", ship.ID, "designation", ship.Designation, "faction", ship.Faction.Name)
}

func (g *Game) spawnAsteroid() {
	radius := asteroidMinRadius + rand.Float64()*(asteroidMaxRadius-asteroidMinRadius)
	asteroid := entity.NewAsteroid(
		physics.RandomVectorBetween(asteroidMinRange, asteroidMaxRange),
		rand.Float64()*2*math.Pi,
		radius,
	)
	g.asteroids[asteroid.ID] = asteroid
	g.physics.AddAsteroid(asteroid.ID, asteroid.Position, asteroid.Rotation, asteroid.Radius)
}

func (g *Game) addClient(id entity.ObjectID) {
	if _, exists := g.clients[id]; exists {
		return
	}
	g.clients[id] = &Client{ID: id}
	g.bus.Publish(event.NewClientEvent(event.ClientConnected, g, id, ""))
}

func (g *Game) removeClient(id entity.ObjectID) {
	if _, exists := g.clients[id]; !exists {
		return
	}
	delete(g.clients, id)
	g.bus.Publish(event.NewClientEvent(event.ClientDisconnected, g, id, ""))
}

func (g *Game) joinShip(m JoinShip) {
	c := g.clients[m.Client]
	ship := g.ships.Ship(m.Ship)
	if c == nil || ship == nil || !ship.IsPlayerShip() {
		return
	}
	c.joinShip(ship.ID, m.Station)
	g.bus.Publish(event.NewClientEvent(event.ClientJoinedShip, g, c.ID, ship.ID))
}

// shipOf returns the ship client is aboard, or nil.
func (g *Game) shipOf(client entity.ObjectID) *entity.Ship {
	c := g.clients[client]
	if c == nil {
		return nil
	}
	id, ok := c.aboard()
	if !ok {
		return nil
	}
	return g.ships.Ship(id)
}

func (g *Game) recordCounts() {
	g.metrics.counts.ships.Store(int64(len(g.ships)))
	g.metrics.counts.asteroids.Store(int64(len(g.asteroids)))
	g.metrics.counts.torpedoes.Store(int64(len(g.torpedoes)))
	g.metrics.counts.clients.Store(int64(len(g.clients)))
}
