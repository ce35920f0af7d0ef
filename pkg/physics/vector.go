// pkg/physics/vector.go
package physics

import (
	"math"
	"math/rand/v2"
)

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Angle returns the angle of the vector in radians, counter-clockwise from +x
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Heading returns the compass heading of the vector in degrees
func (v Vector2D) Heading() float64 {
	return ToHeading(v.Angle())
}

// Rotate rotates the vector by angle (in radians)
func (v Vector2D) Rotate(angle float64) Vector2D {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Round returns the vector with both components rounded to the given number of decimals
func (v Vector2D) Round(decimals int) Vector2D {
	return Vector2D{
		X: Round(v.X, decimals),
		Y: Round(v.Y, decimals),
	}
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// RandomVector returns a vector with a uniformly random direction and a
// length in [0, maxLength).
func RandomVector(maxLength float64) Vector2D {
	return FromAngle(rand.Float64()*2*math.Pi, rand.Float64()*maxLength)
}

// RandomVectorBetween returns a vector with a random direction and a length
// in [minLength, maxLength).
func RandomVectorBetween(minLength, maxLength float64) Vector2D {
	return FromAngle(rand.Float64()*2*math.Pi, minLength+rand.Float64()*(maxLength-minLength))
}
