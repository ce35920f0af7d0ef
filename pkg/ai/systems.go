package ai

import "github.com/opd-ai/go-starcruiser/pkg/entity"

// shieldRange is the distance to a hostile at which shields are raised.
const shieldRange = 500.0

// shieldAI keeps shields up only while a hostile ship is close.
type shieldAI struct{}

func (shieldAI) execute(s *state) {
	shield := s.ship.Shield()
	hostile := s.closestEnemy()
	if hostile != nil && s.ship.Position.Distance(hostile.Position) <= shieldRange {
		if !shield.Up() && shield.ActivationAllowed() {
			s.ship.SetShieldsUp(true)
		}
		return
	}
	if shield.Up() {
		s.ship.SetShieldsUp(false)
	}
}

func (shieldAI) targetDestroyed(entity.ObjectID) {}

// repairAI repairs the most damaged system whenever damage control is idle.
type repairAI struct{}

func (repairAI) execute(s *state) {
	power := s.ship.Power()
	if _, _, busy := power.Repairing(); busy {
		return
	}
	if system, ok := power.MostDamaged(); ok {
		power.StartRepair(system)
	}
}

func (repairAI) targetDestroyed(entity.ObjectID) {}

// scanAI scans the closest contact that can still be scanned further.
type scanAI struct{}

func (scanAI) execute(s *state) {
	if s.ship.Scan() != nil {
		return
	}
	for _, contact := range s.contacts() {
		if !s.ship.ScanLevelOf(contact.ID).IsMax() {
			s.ship.StartScan(contact.ID)
			return
		}
	}
}

func (scanAI) targetDestroyed(entity.ObjectID) {}

// lockAI locks onto the closest enemy and holds that lock while the target
// stays in sensor range.
type lockAI struct{}

func (lockAI) execute(s *state) {
	if lock := s.ship.Lock(); lock != nil && s.ships != nil {
		if current := s.ships.Ship(lock.TargetID); current != nil && s.ship.InSensorRange(current.Position) {
			return
		}
	}
	if enemy := s.closestEnemy(); enemy != nil {
		s.ship.LockTarget(enemy.ID)
	}
}

func (lockAI) targetDestroyed(entity.ObjectID) {}
