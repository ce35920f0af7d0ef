package engine

import (
	"cmp"
	"slices"

	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// Snapshot types besides the station names.
const (
	SnapshotShipSelection = "ShipSelection"
	SnapshotShipDestroyed = "ShipDestroyed"
)

// scopeMargin widens the short range scope so contacts at the rim do not flicker.
const scopeMargin = 1.1

// Snapshot is the read-only view of one client. Type is ShipSelection,
// ShipDestroyed or the name of the station the client occupies; the other
// fields are filled according to it.
type Snapshot struct {
	Type          string                       `json:"type"`
	Paused        bool                         `json:"paused"`
	PlayerShips   []entity.PlayerShipMessage   `json:"playerShips,omitempty"`
	Ship          *entity.ShipMessage          `json:"ship,omitempty"`
	ScopeContacts []entity.ScopeContactMessage `json:"scopeContacts,omitempty"`
	Contacts      []entity.ContactMessage      `json:"contacts,omitempty"`
	Asteroids     []entity.AsteroidMessage     `json:"asteroids,omitempty"`
	Torpedoes     []entity.TorpedoMessage      `json:"torpedoes,omitempty"`
}

func (g *Game) snapshot(id entity.ObjectID) Snapshot {
	paused := g.time.Paused()
	if c := g.clients[id]; c != nil {
		switch c.State.Status {
		case StatusShipDestroyed:
			return Snapshot{Type: SnapshotShipDestroyed, Paused: paused}
		case StatusInShip:
			if ship := g.ships.Ship(c.State.Ship); ship != nil {
				return g.stationSnapshot(ship, c.State.Station)
			}
		}
	}
	return Snapshot{Type: SnapshotShipSelection, Paused: paused, PlayerShips: g.playerShips()}
}

func (g *Game) playerShips() []entity.PlayerShipMessage {
	ships := []entity.PlayerShipMessage{}
	for _, ship := range g.ships.Ships() {
		if ship.IsPlayerShip() {
			ships = append(ships, ship.ToPlayerShipMessage())
		}
	}
	return ships
}

func (g *Game) stationSnapshot(ship *entity.Ship, station Station) Snapshot {
	msg := ship.ToMessage(g.ships)
	s := Snapshot{Type: station.String(), Paused: g.time.Paused(), Ship: &msg}

	switch station {
	case Helm, Weapons:
		scope := ship.Template.ShortRangeScopeRange * scopeMargin
		inScope := func(p physics.Vector2D) bool { return p.Distance(ship.Position) < scope }
		for _, other := range g.ships.Ships() {
			if other.ID != ship.ID && inScope(other.Position) {
				s.ScopeContacts = append(s.ScopeContacts, other.ToScopeContactMessage(ship))
			}
		}
		s.Asteroids = g.asteroidMessages(ship.Position, inScope)
		s.Torpedoes = g.torpedoMessages(ship.Position, inScope)
	case Navigation, MainScreen:
		for _, other := range g.ships.Ships() {
			if other.ID != ship.ID && ship.InSensorRange(other.Position) {
				s.Contacts = append(s.Contacts, other.ToContactMessage(ship))
			}
		}
		s.Asteroids = g.asteroidMessages(ship.Position, ship.InSensorRange)
		s.Torpedoes = g.torpedoMessages(ship.Position, ship.InSensorRange)
	}
	return s
}

func (g *Game) asteroidMessages(origin physics.Vector2D, visible func(physics.Vector2D) bool) []entity.AsteroidMessage {
	var msgs []entity.AsteroidMessage
	for _, a := range g.asteroids {
		if visible(a.Position) {
			msgs = append(msgs, a.ToMessage(origin))
		}
	}
	slices.SortFunc(msgs, func(a, b entity.AsteroidMessage) int { return cmp.Compare(a.ID, b.ID) })
	return msgs
}

func (g *Game) torpedoMessages(origin physics.Vector2D, visible func(physics.Vector2D) bool) []entity.TorpedoMessage {
	var msgs []entity.TorpedoMessage
	for _, t := range g.torpedoes {
		if visible(t.Position) {
			msgs = append(msgs, t.ToMessage(origin))
		}
	}
	slices.SortFunc(msgs, func(a, b entity.TorpedoMessage) int { return cmp.Compare(a.ID, b.ID) })
	return msgs
}
