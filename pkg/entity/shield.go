package entity

import "github.com/opd-ai/go-starcruiser/pkg/physics"

// minimumShieldBoost is the boost level below which shields decay instead of recharging.
const minimumShieldBoost = 0.1

// ShieldHandler manages shield strength and the up request
type ShieldHandler struct {
	template ShieldTemplate

	up                bool
	strength          float64
	activated         bool
	damageSinceUpdate float64
}

// NewShieldHandler creates a raised shield at full strength.
func NewShieldHandler(template ShieldTemplate) *ShieldHandler {
	return &ShieldHandler{
		template: template,
		up:       true,
		strength: template.Strength,
	}
}

// Up reports whether the shield is raised.
func (s *ShieldHandler) Up() bool {
	return s.up
}

// Strength returns the current strength.
func (s *ShieldHandler) Strength() float64 {
	return s.strength
}

// SetUp requests the shield raised or lowered. Raising is refused below the
// activation strength.
func (s *ShieldHandler) SetUp(up bool) {
	if up && !s.ActivationAllowed() {
		return
	}
	s.up = up
}

// ActivationAllowed reports whether the shield may be raised.
func (s *ShieldHandler) ActivationAllowed() bool {
	return s.strength >= s.template.ActivationStrength
}

// Update recharges the shield scaled by boost, or decays it when starved of power.
func (s *ShieldHandler) Update(t *GameTime, boost float64) {
	if boost > minimumShieldBoost {
		s.setStrength(s.strength + s.template.RechargeSpeed*t.Delta*boost)
	} else {
		s.setStrength(s.strength - s.template.DecaySpeed*t.Delta)
	}
}

// EndUpdate drops a failing shield and records whether it absorbed fire this tick.
func (s *ShieldHandler) EndUpdate() {
	if s.strength <= s.template.FailureStrength {
		s.up = false
	}
	s.activated = s.up && s.damageSinceUpdate > 0
	s.damageSinceUpdate = 0
}

// TakeDamage absorbs amount and returns what overflows to the hull.
func (s *ShieldHandler) TakeDamage(amount float64) float64 {
	if !s.up {
		return amount
	}
	overflow := max(0, amount-s.strength)
	s.damageSinceUpdate += amount
	s.setStrength(s.strength - amount)
	return overflow
}

func (s *ShieldHandler) setStrength(value float64) {
	s.strength = physics.Clamp(value, 0, s.template.Strength)
}

// ToMessage renders the shield state.
func (s *ShieldHandler) ToMessage() ShieldMessage {
	return ShieldMessage{
		Radius:    s.template.Radius,
		Up:        s.up,
		Activated: s.activated,
		Strength:  physics.Round(s.strength, 2),
		Max:       s.template.Strength,
	}
}
