package entity

import "github.com/opd-ai/go-starcruiser/pkg/physics"

// Asteroid is an inert body. Asteroids are created with the world and never destroyed.
type Asteroid struct {
	BaseEntity
	Radius float64
}

// NewAsteroid creates an asteroid with a fresh id.
func NewAsteroid(position physics.Vector2D, rotation, radius float64) *Asteroid {
	return &Asteroid{
		BaseEntity: BaseEntity{
			ID:       physics.NewObjectID(),
			Position: position,
			Rotation: rotation,
		},
		Radius: radius,
	}
}

// Update copies the body state back from physics.
func (a *Asteroid) Update(phys Physics) {
	if params, ok := phys.BodyParameters(a.ID); ok {
		a.Position = params.Position
		a.Rotation = params.Rotation
	}
}

// ToMessage renders the asteroid relative to origin.
func (a *Asteroid) ToMessage(origin physics.Vector2D) AsteroidMessage {
	return AsteroidMessage{
		ID:               a.ID,
		Position:         a.Position.Round(2),
		RelativePosition: a.Position.Sub(origin).Round(2),
		Rotation:         physics.Round(a.Rotation, 4),
		Radius:           a.Radius,
	}
}
