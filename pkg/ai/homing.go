package ai

import "github.com/opd-ai/go-starcruiser/pkg/entity"

const (
	homingStopRange = 100.0
	homingThrottle  = 70
	cruiseThrottle  = 50
)

// homingAI closes in on the nearest enemy while the ship is attacking.
type homingAI struct {
	behaviour *behaviourAI
	helm      *helmAI
	target    entity.ObjectID
	engaged   bool
}

func (h *homingAI) execute(s *state) {
	if h.behaviour.behaviour != Attack {
		if h.engaged {
			h.engaged = false
			h.target = ""
			s.ship.ChangeThrottle(cruiseThrottle)
		}
		return
	}
	h.engaged = true

	target := h.currentTarget(s)
	if target == nil {
		target = s.closestEnemy()
	}
	if target == nil {
		h.target = ""
		s.ship.ChangeThrottle(cruiseThrottle)
		return
	}
	h.target = target.ID

	relative := target.Position.Sub(s.ship.Position)
	if h.helm.idle() {
		h.helm.steerTo(relative.Angle())
	}
	if relative.Length() < homingStopRange {
		s.ship.ChangeThrottle(0)
	} else {
		s.ship.ChangeThrottle(homingThrottle)
	}
}

// currentTarget returns the tracked target while it exists and is in sensor range.
func (h *homingAI) currentTarget(s *state) *entity.Ship {
	if h.target == "" || s.ships == nil {
		return nil
	}
	target := s.ships.Ship(h.target)
	if target == nil || !s.ship.InSensorRange(target.Position) {
		return nil
	}
	return target
}

func (h *homingAI) targetDestroyed(id entity.ObjectID) {
	if h.target == id {
		h.target = ""
	}
}
