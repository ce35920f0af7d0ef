// pkg/entity/entity.go
package entity

import (
	"fmt"
	"slices"
	"sort"

	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// ObjectID is a unique identifier for an entity
type ObjectID = physics.ObjectID

// Physics is the part of the physics engine entities drive and read back from.
type Physics interface {
	UpdateShip(id ObjectID, thrust, rudder float64)
	UpdateTorpedo(id ObjectID, thrust float64)
	JumpShip(id ObjectID, distance float64)
	BodyParameters(id ObjectID) (physics.BodyParameters, bool)
	FindObstructions(start, end physics.Vector2D, ignore ...ObjectID) []ObjectID
}

// ShipLookup resolves ship ids against the authoritative ship collection.
// Ship returns nil when the id is unknown.
type ShipLookup interface {
	Ship(id ObjectID) *Ship
	Ships() []*Ship
}

// Controller computes commands for a ship that is not crewed by players.
// It is run at the start of every ship update.
type Controller interface {
	Update(ship *Ship, time *GameTime, ships ShipLookup)
	TargetDestroyed(id ObjectID)
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ObjectID
	Position physics.Vector2D
	Rotation float64
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ObjectID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// Heading returns the compass heading of the entity in degrees
func (e *BaseEntity) Heading() float64 {
	return physics.ToHeading(e.Rotation)
}

// ShipMap is a ShipLookup over a plain map.
type ShipMap map[ObjectID]*Ship

// Ship returns the ship with id or nil.
func (m ShipMap) Ship(id ObjectID) *Ship {
	return m[id]
}

// Ships returns all ships ordered by id.
func (m ShipMap) Ships() []*Ship {
	ships := make([]*Ship, 0, len(m))
	for _, s := range m {
		ships = append(ships, s)
	}
	sort.Slice(ships, func(i, j int) bool { return ships[i].ID < ships[j].ID })
	return ships
}

// Add inserts ships keyed by their ids.
func (m ShipMap) Add(ships ...*Ship) {
	for _, s := range ships {
		m[s.ID] = s
	}
}

// parseName returns the position of text in names.
func parseName(kind string, names []string, text []byte) (int, error) {
	if i := slices.Index(names, string(text)); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("unknown %s %q", kind, text)
}
