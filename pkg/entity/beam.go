package entity

import (
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// BeamStatus is the state of a beam mount
type BeamStatus int

const (
	BeamIdle BeamStatus = iota
	BeamFiring
	BeamRecharging
)

var beamStatusNames = []string{"Idle", "Firing", "Recharging"}

func (b BeamStatus) String() string {
	if b >= 0 && int(b) < len(beamStatusNames) {
		return beamStatusNames[b]
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (b BeamStatus) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BeamStatus) UnmarshalText(text []byte) error {
	i, err := parseName("beam status", beamStatusNames, text)
	*b = BeamStatus(i)
	return err
}

// BeamHandler runs the fire cycle of one beam mount. A started firing cycle
// always runs into Recharging; damage is dealt once at its end, and only if
// the target is still valid.
type BeamHandler struct {
	weapon   BeamWeapon
	status   BeamStatus
	progress float64
}

// NewBeamHandler creates an idle beam.
func NewBeamHandler(weapon BeamWeapon) *BeamHandler {
	return &BeamHandler{weapon: weapon}
}

// Status returns the current state and its progress.
func (b *BeamHandler) Status() (BeamStatus, float64) {
	return b.status, b.progress
}

// Update advances the beam. Recharging is scaled by boost.
func (b *BeamHandler) Update(t *GameTime, ship *Ship, boost float64, ships ShipLookup, phys Physics) {
	target := b.validTarget(ship, ships, phys)

	switch b.status {
	case BeamIdle:
		if target != nil {
			b.status, b.progress = BeamFiring, 0
		}
	case BeamFiring:
		b.progress = physics.Clamp(b.progress+t.Delta*b.weapon.FiringSpeed, 0, 1)
		if b.progress >= 1 {
			if target != nil {
				target.TakeDamage(RandomPoweredSystem(), b.weapon.Damage)
			}
			b.status, b.progress = BeamRecharging, 0
		}
	case BeamRecharging:
		b.progress = physics.Clamp(b.progress+t.Delta*b.weapon.RechargeSpeed*boost, 0, 1)
		if b.progress >= 1 {
			if target != nil {
				b.status, b.progress = BeamFiring, 0
			} else {
				b.status, b.progress = BeamIdle, 0
			}
		}
	}
}

// validTarget returns the locked target if it can be engaged by this mount.
func (b *BeamHandler) validTarget(ship *Ship, ships ShipLookup, phys Physics) *Ship {
	if ship.lock == nil || !ship.lock.Locked() || ships == nil {
		return nil
	}
	target := ships.Ship(ship.lock.TargetID)
	if target == nil || !b.InRange(ship, target.Position) {
		return nil
	}
	if phys != nil {
		mount := b.mountPosition(ship)
		if len(phys.FindObstructions(mount, target.Position, ship.ID, target.ID)) > 0 {
			return nil
		}
	}
	return target
}

// InRange reports whether position lies within the mount's range band and
// firing arc, computed in the mount's local frame.
func (b *BeamHandler) InRange(ship *Ship, position physics.Vector2D) bool {
	frame := ship.Rotation + physics.ToRadians(b.weapon.Rotation)
	relative := position.Sub(b.mountPosition(ship)).Rotate(-frame)

	distance := relative.Length()
	if distance < b.weapon.MinRange || distance > b.weapon.MaxRange {
		return false
	}
	angle := physics.ToDegrees(relative.Angle())
	return angle <= b.weapon.LeftArc && angle >= -b.weapon.RightArc
}

func (b *BeamHandler) mountPosition(ship *Ship) physics.Vector2D {
	return ship.Position.Add(b.weapon.Position.Rotate(ship.Rotation))
}

// ToMessage renders the beam state.
func (b *BeamHandler) ToMessage() BeamMessage {
	return BeamMessage{
		Position: b.weapon.Position,
		MinRange: b.weapon.MinRange,
		MaxRange: b.weapon.MaxRange,
		LeftArc:  b.weapon.LeftArc,
		RightArc: b.weapon.RightArc,
		Status:   b.status,
		Progress: physics.Round(b.progress, 2),
	}
}
