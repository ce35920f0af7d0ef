package entity

import (
	"math"

	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// JumpStatus is the state of the jump drive
type JumpStatus int

const (
	JumpReady JumpStatus = iota
	JumpJumping
	JumpRecharging
)

var jumpStatusNames = []string{"Ready", "Jumping", "Recharging"}

func (s JumpStatus) String() string {
	if s >= 0 && int(s) < len(jumpStatusNames) {
		return jumpStatusNames[s]
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s JumpStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *JumpStatus) UnmarshalText(text []byte) error {
	i, err := parseName("jump status", jumpStatusNames, text)
	*s = JumpStatus(i)
	return err
}

// JumpHandler holds the jump distance setpoint and runs the jump cycle.
type JumpHandler struct {
	template JumpDriveTemplate
	ratio    float64
	status   JumpStatus
	progress float64
}

// NewJumpHandler creates a ready drive set to its minimum distance.
func NewJumpHandler(template JumpDriveTemplate) *JumpHandler {
	return &JumpHandler{template: template}
}

// ChangeDistance sets the distance as a ratio of the drive's range.
func (j *JumpHandler) ChangeDistance(ratio float64) {
	j.ratio = physics.Clamp(ratio, 0, 1)
}

// Distance returns the jump distance snapped to the drive's increment.
func (j *JumpHandler) Distance() int {
	span := float64(j.template.MaxDistance - j.template.MinDistance)
	raw := j.ratio * span
	if j.template.Increment > 0 {
		step := float64(j.template.Increment)
		raw = math.Round(raw/step) * step
	}
	return physics.ClampInt(j.template.MinDistance+int(raw), j.template.MinDistance, j.template.MaxDistance)
}

// Status returns the drive state and its progress.
func (j *JumpHandler) Status() (JumpStatus, float64) {
	return j.status, j.progress
}

// Start begins a jump if the drive is ready.
func (j *JumpHandler) Start() bool {
	if j.status != JumpReady {
		return false
	}
	j.status, j.progress = JumpJumping, 0
	return true
}

// Update advances the cycle, scaled by boost. jump is called once when the
// jump completes.
func (j *JumpHandler) Update(t *GameTime, boost float64, jump func(distance float64)) {
	switch j.status {
	case JumpJumping:
		j.progress = physics.Clamp(j.progress+t.Delta*j.template.JumpingSpeed*boost, 0, 1)
		if j.progress >= 1 {
			jump(float64(j.Distance()))
			j.status, j.progress = JumpRecharging, 0
		}
	case JumpRecharging:
		j.progress = physics.Clamp(j.progress+t.Delta*j.template.RechargeSpeed*boost, 0, 1)
		if j.progress >= 1 {
			j.status, j.progress = JumpReady, 0
		}
	}
}

// ToMessage renders the drive state.
func (j *JumpHandler) ToMessage() JumpDriveMessage {
	return JumpDriveMessage{
		Status:      j.status,
		Progress:    physics.Round(j.progress, 2),
		Ratio:       physics.Round(j.ratio, 2),
		Distance:    j.Distance(),
		MinDistance: j.template.MinDistance,
		MaxDistance: j.template.MaxDistance,
	}
}
