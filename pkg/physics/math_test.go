package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHeading(t *testing.T) {
	tests := []struct {
		name     string
		rotation float64
		expected float64
	}{
		{"zero rotation points east", 0, 90},
		{"quarter turn points north", math.Pi / 2, 0},
		{"half turn points west", math.Pi, 270},
		{"negative quarter points south", -math.Pi / 2, 180},
		{"full turns wrap", 4*math.Pi + math.Pi/2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ToHeading(tt.rotation), epsilon)
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, math.Pi/2, NormalizeAngle(math.Pi/2+FullCircle), epsilon)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), epsilon)
	assert.InDelta(t, math.Pi, NormalizeAngle(-math.Pi), epsilon)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, -100.0, Clamp(-150, -100, 100))
	assert.Equal(t, 100.0, Clamp(150, -100, 100))
	assert.Equal(t, 42.0, Clamp(42, -100, 100))

	assert.Equal(t, -100, ClampInt(-150, -100, 100))
	assert.Equal(t, 100, ClampInt(150, -100, 100))
	assert.Equal(t, 7, ClampInt(7, -100, 100))
}

func TestDegreeConversion(t *testing.T) {
	assert.InDelta(t, math.Pi, ToRadians(180), epsilon)
	assert.InDelta(t, 90.0, ToDegrees(math.Pi/2), epsilon)
	assert.InDelta(t, 1.24, Round(1.2351, 2), epsilon)
}
