package ai

import (
	"math/rand/v2"

	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

const (
	patrolInterval   = 2.0
	patrolLegLength  = 1000.0
	patrolPointRange = 50.0
	patrolThrottle   = 50
)

// patrolAI flies a triangular path that starts and ends where the ship was
// first seen.
type patrolAI struct {
	behaviour *behaviourAI
	helm      *helmAI
	angle     func() float64

	path        []physics.Vector2D
	pointInPath int
}

func newPatrolAI(behaviour *behaviourAI, helm *helmAI) *patrolAI {
	return &patrolAI{
		behaviour: behaviour,
		helm:      helm,
		angle:     func() float64 { return rand.Float64() * physics.FullCircle },
	}
}

func (p *patrolAI) hasPath() bool {
	return len(p.path) > 0
}

func (p *patrolAI) setPath(path []physics.Vector2D) {
	p.path = path
	p.pointInPath = 0
}

func (p *patrolAI) execute(s *state) {
	if !p.hasPath() {
		p.setPath(p.initialPath(s.ship.Position))
	}
	if p.behaviour.behaviour != Patrol {
		return
	}

	if s.ship.Position.Distance(p.path[p.pointInPath]) < patrolPointRange {
		p.pointInPath = (p.pointInPath + 1) % len(p.path)
	}
	s.ship.ChangeThrottle(patrolThrottle)
	if p.helm.idle() {
		p.helm.steerTo(p.path[p.pointInPath].Sub(s.ship.Position).Angle())
	}
}

func (p *patrolAI) initialPath(origin physics.Vector2D) []physics.Vector2D {
	angle := p.angle()
	return []physics.Vector2D{
		origin.Add(physics.FromAngle(angle, patrolLegLength)),
		origin.Add(physics.FromAngle(angle+physics.FullCircle/3, patrolLegLength)),
		origin,
	}
}

func (p *patrolAI) targetDestroyed(entity.ObjectID) {}
