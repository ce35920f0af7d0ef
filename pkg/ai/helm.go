package ai

import (
	"math"

	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

const (
	// helmTolerance is how close to the target rotation counts as on course.
	helmTolerance = 0.01
	// fullRudderAngle is the course error at and above which full rudder is applied.
	fullRudderAngle = math.Pi / 4
	minRudder       = 5
)

// helmAI turns the ship toward targetRotation and then clears it.
type helmAI struct {
	targetRotation *float64
}

func (h *helmAI) idle() bool {
	return h.targetRotation == nil
}

func (h *helmAI) steerTo(rotation float64) {
	h.targetRotation = &rotation
}

func (h *helmAI) execute(s *state) {
	if h.targetRotation == nil {
		return
	}
	diff := physics.NormalizeAngle(*h.targetRotation - s.ship.Rotation)
	if math.Abs(diff) < helmTolerance {
		s.ship.ChangeRudder(0)
		h.targetRotation = nil
		return
	}
	rudder := int(math.Round(diff / fullRudderAngle * 100))
	if rudder > -minRudder && rudder < minRudder {
		rudder = minRudder
		if diff < 0 {
			rudder = -minRudder
		}
	}
	s.ship.ChangeRudder(rudder)
}

func (h *helmAI) targetDestroyed(entity.ObjectID) {}
