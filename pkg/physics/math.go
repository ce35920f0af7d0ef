package physics

import "math"

// FullCircle is 2π.
const FullCircle = 2 * math.Pi

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// ToDegrees converts radians to degrees.
func ToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ToHeading converts a body rotation (radians, counter-clockwise from +x)
// into a compass heading in degrees within [0, 360). Rotation 0 is heading 90.
func ToHeading(rotation float64) float64 {
	heading := math.Mod(90-ToDegrees(rotation), 360)
	if heading < 0 {
		heading += 360
	}
	return heading
}

// NormalizeAngle maps an angle in radians into (-π, π].
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, FullCircle)
	if angle > math.Pi {
		angle -= FullCircle
	} else if angle <= -math.Pi {
		angle += FullCircle
	}
	return angle
}

// Clamp limits value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampInt limits value to [min, max].
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Round rounds value to the given number of decimals.
func Round(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
