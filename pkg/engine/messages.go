package engine

import (
	"time"

	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// Message is anything the game loop accepts. The set is closed: only the
// types in this file implement it.
type Message interface {
	name() string
}

// Update advances the world to Now.
type Update struct {
	Now time.Time
}

// TogglePause halts or resumes the simulation clock.
type TogglePause struct{}

// Restart throws the world away and builds a fresh one.
type Restart struct{}

// SpawnShip adds a crewable ship.
type SpawnShip struct{}

// SpawnNonPlayerShip adds a ship flown by the AI for Faction.
type SpawnNonPlayerShip struct {
	Faction *entity.Faction
}

// NewGameClient registers a client in ship selection.
type NewGameClient struct {
	Client entity.ObjectID
}

// GameClientDisconnected forgets a client.
type GameClientDisconnected struct {
	Client entity.ObjectID
}

// JoinShip moves a client aboard Ship at Station.
type JoinShip struct {
	Client  entity.ObjectID
	Ship    entity.ObjectID
	Station Station
}

// ChangeStation moves a client aboard a ship to another station.
type ChangeStation struct {
	Client  entity.ObjectID
	Station Station
}

// ExitShip returns a client to ship selection.
type ExitShip struct {
	Client entity.ObjectID
}

// GetSnapshot asks for the view of Client. The reply channel must be
// buffered so the game loop never blocks on it.
type GetSnapshot struct {
	Client entity.ObjectID
	Reply  chan<- Snapshot
}

// Commands issued by a crew to the ship it is aboard.
type (
	ChangeThrottle struct {
		Client entity.ObjectID
		Value  int
	}
	ChangeRudder struct {
		Client entity.ObjectID
		Value  int
	}
	ChangeJumpDistance struct {
		Client entity.ObjectID
		Value  float64
	}
	StartJump struct {
		Client entity.ObjectID
	}
	AddWaypoint struct {
		Client   entity.ObjectID
		Position physics.Vector2D
	}
	DeleteWaypoint struct {
		Client entity.ObjectID
		Index  int
	}
	DeleteSelectedWaypoint struct {
		Client entity.ObjectID
	}
	MapSelectShip struct {
		Client entity.ObjectID
		Target entity.ObjectID
	}
	MapSelectWaypoint struct {
		Client entity.ObjectID
		Index  int
	}
	MapClearSelection struct {
		Client entity.ObjectID
	}
	ScanShip struct {
		Client entity.ObjectID
		Target entity.ObjectID
	}
	ScanSelectedShip struct {
		Client entity.ObjectID
	}
	LockTarget struct {
		Client entity.ObjectID
		Target entity.ObjectID
	}
	SetShieldsUp struct {
		Client entity.ObjectID
		Up     bool
	}
	SetPower struct {
		Client entity.ObjectID
		System entity.PoweredSystem
		Level  int
	}
	SetCoolant struct {
		Client entity.ObjectID
		System entity.PoweredSystem
		Value  float64
	}
	StartRepair struct {
		Client entity.ObjectID
		System entity.PoweredSystem
	}
	LaunchTube struct {
		Client entity.ObjectID
		Index  int
	}
	ReloadTube struct {
		Client entity.ObjectID
		Index  int
	}
)

// shipCommand is a message that acts on the ship its client is aboard.
// It is dropped when the client is not aboard a ship.
type shipCommand interface {
	Message
	client() entity.ObjectID
	apply(g *Game, ship *entity.Ship)
}

func (Update) name() string { return "Update" }
func (TogglePause) name() string { return "TogglePause" }
func (Restart) name() string { return "Restart" }
func (SpawnShip) name() string { return "SpawnShip" }
func (SpawnNonPlayerShip) name() string { return "SpawnNonPlayerShip" }
func (NewGameClient) name() string { return "NewGameClient" }
func (GameClientDisconnected) name() string { return "GameClientDisconnected" }
func (JoinShip) name() string { return "JoinShip" }
func (ChangeStation) name() string { return "ChangeStation" }
func (ExitShip) name() string { return "ExitShip" }
func (GetSnapshot) name() string { return "GetSnapshot" }
func (ChangeThrottle) name() string { return "ChangeThrottle" }
func (ChangeRudder) name() string { return "ChangeRudder" }
func (ChangeJumpDistance) name() string { return "ChangeJumpDistance" }
func (StartJump) name() string { return "StartJump" }
func (AddWaypoint) name() string { return "AddWaypoint" }
func (DeleteWaypoint) name() string { return "DeleteWaypoint" }
func (DeleteSelectedWaypoint) name() string { return "DeleteSelectedWaypoint" }
func (MapSelectShip) name() string { return "MapSelectShip" }
func (MapSelectWaypoint) name() string { return "MapSelectWaypoint" }
func (MapClearSelection) name() string { return "MapClearSelection" }
func (ScanShip) name() string { return "ScanShip" }
func (ScanSelectedShip) name() string { return "ScanSelectedShip" }
func (LockTarget) name() string { return "LockTarget" }
func (SetShieldsUp) name() string { return "SetShieldsUp" }
func (SetPower) name() string { return "SetPower" }
func (SetCoolant) name() string { return "SetCoolant" }
func (StartRepair) name() string { return "StartRepair" }
func (LaunchTube) name() string { return "LaunchTube" }
func (ReloadTube) name() string { return "ReloadTube" }

func (m ChangeThrottle) client() entity.ObjectID { return m.Client }
func (m ChangeRudder) client() entity.ObjectID { return m.Client }
func (m ChangeJumpDistance) client() entity.ObjectID { return m.Client }
func (m StartJump) client() entity.ObjectID { return m.Client }
func (m AddWaypoint) client() entity.ObjectID { return m.Client }
func (m DeleteWaypoint) client() entity.ObjectID { return m.Client }
func (m DeleteSelectedWaypoint) client() entity.ObjectID { return m.Client }
func (m MapSelectShip) client() entity.ObjectID { return m.Client }
func (m MapSelectWaypoint) client() entity.ObjectID { return m.Client }
func (m MapClearSelection) client() entity.ObjectID { return m.Client }
func (m ScanShip) client() entity.ObjectID { return m.Client }
func (m ScanSelectedShip) client() entity.ObjectID { return m.Client }
func (m LockTarget) client() entity.ObjectID { return m.Client }
func (m SetShieldsUp) client() entity.ObjectID { return m.Client }
func (m SetPower) client() entity.ObjectID { return m.Client }
func (m SetCoolant) client() entity.ObjectID { return m.Client }
func (m StartRepair) client() entity.ObjectID { return m.Client }
func (m LaunchTube) client() entity.ObjectID { return m.Client }
func (m ReloadTube) client() entity.ObjectID { return m.Client }

func (m ChangeThrottle) apply(_ *Game, s *entity.Ship) { s.ChangeThrottle(m.Value) }
func (m ChangeRudder) apply(_ *Game, s *entity.Ship) { s.ChangeRudder(m.Value) }
func (m ChangeJumpDistance) apply(_ *Game, s *entity.Ship) { s.ChangeJumpDistance(m.Value) }
func (m StartJump) apply(_ *Game, s *entity.Ship) { s.StartJump() }
func (m AddWaypoint) apply(_ *Game, s *entity.Ship) { s.AddWaypoint(m.Position) }
func (m DeleteWaypoint) apply(_ *Game, s *entity.Ship) { s.DeleteWaypoint(m.Index) }
func (m DeleteSelectedWaypoint) apply(_ *Game, s *entity.Ship) { s.DeleteSelectedWaypoint() }
func (m MapSelectWaypoint) apply(_ *Game, s *entity.Ship) { s.MapSelectWaypoint(m.Index) }
func (m MapClearSelection) apply(_ *Game, s *entity.Ship) { s.MapClearSelection() }
func (m ScanSelectedShip) apply(_ *Game, s *entity.Ship) { s.ScanSelectedShip() }
func (m SetShieldsUp) apply(_ *Game, s *entity.Ship) { s.SetShieldsUp(m.Up) }
func (m SetPower) apply(_ *Game, s *entity.Ship) { s.SetPower(m.System, m.Level) }
func (m SetCoolant) apply(_ *Game, s *entity.Ship) { s.SetCoolant(m.System, m.Value) }
func (m StartRepair) apply(_ *Game, s *entity.Ship) { s.StartRepair(m.System) }
func (m LaunchTube) apply(_ *Game, s *entity.Ship) { s.LaunchTube(m.Index) }
func (m ReloadTube) apply(_ *Game, s *entity.Ship) { s.ReloadTube(m.Index) }

func (m MapSelectShip) apply(g *Game, s *entity.Ship) {
	if g.ships.Ship(m.Target) != nil {
		s.MapSelectShip(m.Target)
	}
}

func (m ScanShip) apply(g *Game, s *entity.Ship) {
	if g.ships.Ship(m.Target) != nil {
		s.StartScan(m.Target)
	}
}

func (m LockTarget) apply(g *Game, s *entity.Ship) {
	if g.ships.Ship(m.Target) != nil {
		s.LockTarget(m.Target)
	}
}
