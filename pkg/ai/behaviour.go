package ai

import "github.com/opd-ai/go-starcruiser/pkg/entity"

// Behaviour is the overall mode of a ship's AI
type Behaviour int

const (
	IdlePatrol Behaviour = iota
	CombatPatrol
	Attack
	Patrol
)

var behaviourNames = []string{"IdlePatrol", "CombatPatrol", "Attack", "Patrol"}

func (b Behaviour) String() string {
	if b >= 0 && int(b) < len(behaviourNames) {
		return behaviourNames[b]
	}
	return "Unknown"
}

type behaviourAI struct {
	behaviour Behaviour
	patrol    *patrolAI
}

func (b *behaviourAI) execute(s *state) {
	switch b.behaviour {
	case IdlePatrol:
		if b.patrol != nil && b.patrol.hasPath() {
			b.behaviour = Patrol
		}
	case CombatPatrol:
		if s.closestEnemy() != nil {
			b.behaviour = Attack
		}
	case Attack:
		if s.closestEnemy() == nil {
			b.behaviour = CombatPatrol
		}
	}
}

func (b *behaviourAI) targetDestroyed(entity.ObjectID) {}
