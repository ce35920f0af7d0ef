// Package ai steers ships that are not crewed by players.
package ai

import (
	"cmp"
	"slices"

	"github.com/opd-ai/go-starcruiser/pkg/entity"
)

// component is one concern of a ship's AI.
type component interface {
	execute(s *state)
	targetDestroyed(id entity.ObjectID)
}

// scheduled runs a component at most once per interval seconds of game time.
type scheduled struct {
	component
	interval     float64
	executed     bool
	lastExecuted float64
}

func (c *scheduled) update(s *state) {
	if c.executed && s.time.Current-c.lastExecuted < c.interval {
		return
	}
	c.executed = true
	c.lastExecuted = s.time.Current
	c.execute(s)
}

// state is what a component sees during one update.
type state struct {
	ship  *entity.Ship
	time  *entity.GameTime
	ships entity.ShipLookup
}

// contacts returns the other ships in sensor range, closest first.
func (s *state) contacts() []*entity.Ship {
	var found []*entity.Ship
	if s.ships == nil {
		return found
	}
	for _, other := range s.ships.Ships() {
		if other.ID != s.ship.ID && s.ship.InSensorRange(other.Position) {
			found = append(found, other)
		}
	}
	slices.SortFunc(found, func(a, b *entity.Ship) int {
		return cmp.Compare(s.ship.Position.Distance(a.Position), s.ship.Position.Distance(b.Position))
	})
	return found
}

// closestEnemy returns the nearest contact identified as hostile, or nil.
func (s *state) closestEnemy() *entity.Ship {
	for _, contact := range s.contacts() {
		if s.ship.ContactTypeOf(contact) == entity.ContactEnemy {
			return contact
		}
	}
	return nil
}

// ShipAI is the Controller of a non-player ship. Its components run in a
// fixed order every update; the faction decides whether the ship hunts
// enemies or patrols.
type ShipAI struct {
	behaviour  *behaviourAI
	helm       *helmAI
	homing     *homingAI
	patrol     *patrolAI
	components []*scheduled
}

// New creates the AI for a ship of faction.
func New(faction *entity.Faction) *ShipAI {
	a := &ShipAI{helm: &helmAI{}}

	initial := IdlePatrol
	if faction == entity.EnemyFaction {
		initial = CombatPatrol
	}
	a.behaviour = &behaviourAI{behaviour: initial}

	a.components = []*scheduled{
		{component: a.behaviour},
		{component: shieldAI{}},
		{component: repairAI{}},
		{component: scanAI{}},
		{component: lockAI{}},
		{component: a.helm},
	}

	switch faction {
	case entity.EnemyFaction:
		a.homing = &homingAI{behaviour: a.behaviour, helm: a.helm}
		a.components = append(a.components, &scheduled{component: a.homing})
	case entity.NeutralFaction:
		a.patrol = newPatrolAI(a.behaviour, a.helm)
		a.behaviour.patrol = a.patrol
		a.components = append(a.components, &scheduled{component: a.patrol, interval: patrolInterval})
	}
	return a
}

// Update implements entity.Controller.
func (a *ShipAI) Update(ship *entity.Ship, time *entity.GameTime, ships entity.ShipLookup) {
	s := &state{ship: ship, time: time, ships: ships}
	for _, c := range a.components {
		c.update(s)
	}
}

// TargetDestroyed implements entity.Controller.
func (a *ShipAI) TargetDestroyed(id entity.ObjectID) {
	for _, c := range a.components {
		c.targetDestroyed(id)
	}
}

// Behaviour returns the current behaviour.
func (a *ShipAI) Behaviour() Behaviour {
	return a.behaviour.behaviour
}
