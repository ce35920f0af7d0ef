package entity

import (
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

type shipUpdate struct {
	thrust float64
	rudder float64
}

// fakePhysics records the commands entities send and returns canned body state.
type fakePhysics struct {
	bodies       map[ObjectID]physics.BodyParameters
	shipUpdates  map[ObjectID][]shipUpdate
	torpedoBurns map[ObjectID]int
	jumps        map[ObjectID]float64
	obstructions []ObjectID
}

func newFakePhysics() *fakePhysics {
	return &fakePhysics{
		bodies:       make(map[ObjectID]physics.BodyParameters),
		shipUpdates:  make(map[ObjectID][]shipUpdate),
		torpedoBurns: make(map[ObjectID]int),
		jumps:        make(map[ObjectID]float64),
	}
}

func (f *fakePhysics) UpdateShip(id ObjectID, thrust, rudder float64) {
	f.shipUpdates[id] = append(f.shipUpdates[id], shipUpdate{thrust: thrust, rudder: rudder})
}

func (f *fakePhysics) UpdateTorpedo(id ObjectID, thrust float64) {
	f.torpedoBurns[id]++
}

func (f *fakePhysics) JumpShip(id ObjectID, distance float64) {
	f.jumps[id] = distance
}

func (f *fakePhysics) BodyParameters(id ObjectID) (physics.BodyParameters, bool) {
	params, ok := f.bodies[id]
	return params, ok
}

func (f *fakePhysics) FindObstructions(start, end physics.Vector2D, ignore ...ObjectID) []ObjectID {
	return f.obstructions
}

func (f *fakePhysics) lastShipUpdate(id ObjectID) shipUpdate {
	updates := f.shipUpdates[id]
	if len(updates) == 0 {
		return shipUpdate{}
	}
	return updates[len(updates)-1]
}

// singleBeamTemplate returns the carrier with only its port beam mounted.
func singleBeamTemplate() *ShipTemplate {
	template := CarrierTemplate()
	template.Beams = template.Beams[:1]
	return template
}

type shipFixture struct {
	ship    *Ship
	time    *GameTime
	physics *fakePhysics
	ships   ShipMap
}

func newShipFixture() *shipFixture {
	ship := NewShip(singleBeamTemplate(), PlayerFaction, "Test", physics.Vector2D{}, 0)
	ships := ShipMap{}
	ships.Add(ship)
	return &shipFixture{
		ship:    ship,
		time:    NewGameTime(),
		physics: newFakePhysics(),
		ships:   ships,
	}
}

func (f *shipFixture) addShip(faction *Faction, position physics.Vector2D) *Ship {
	other := NewShip(CarrierTemplate(), faction, RandomDesignation(), position, 0)
	f.ships.Add(other)
	return other
}

// stepTo advances the clock to seconds and runs one full ship tick.
func (f *shipFixture) stepTo(seconds float64) ShipUpdateResult {
	f.time.Advance(seconds - f.time.Current)
	f.ship.Update(f.time, f.physics, f.ships)
	return f.ship.EndUpdate()
}
