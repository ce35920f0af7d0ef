package entity

import "github.com/opd-ai/go-starcruiser/pkg/physics"

// TorpedoLaunch is emitted by a ship when a tube fires; the game loop turns
// it into a Torpedo.
type TorpedoLaunch struct {
	LaunchedBy ObjectID
	Faction    *Faction
	Position   physics.Vector2D
	Rotation   float64
	Velocity   physics.Vector2D
	Template   TorpedoTemplate
}

// Torpedo is a self-propelled projectile. It burns for a limited time and
// detonates near any ship other than its launcher.
type Torpedo struct {
	BaseEntity
	Speed      physics.Vector2D
	LaunchedBy ObjectID
	Faction    *Faction
	Template   TorpedoTemplate

	burnTime float64
}

// NewTorpedo creates a torpedo from a launch.
func NewTorpedo(launch TorpedoLaunch) *Torpedo {
	return &Torpedo{
		BaseEntity: BaseEntity{
			ID:       physics.NewObjectID(),
			Position: launch.Position,
			Rotation: launch.Rotation,
		},
		Speed:      launch.Velocity,
		LaunchedBy: launch.LaunchedBy,
		Faction:    launch.Faction,
		Template:   launch.Template,
	}
}

// Update burns the motor while fuel lasts and copies the body state back.
func (t *Torpedo) Update(time *GameTime, phys Physics) {
	t.burnTime += time.Delta
	if t.burnTime <= t.Template.MaxBurnTime {
		phys.UpdateTorpedo(t.ID, t.Template.Thrust)
	}
	if params, ok := phys.BodyParameters(t.ID); ok {
		t.Position = params.Position
		t.Rotation = params.Rotation
		t.Speed = params.Velocity
	}
}

// Expired reports whether the motor has burnt out.
func (t *Torpedo) Expired() bool {
	return t.burnTime > t.Template.MaxBurnTime
}

// Proximity returns the detonation sphere of the torpedo.
func (t *Torpedo) Proximity() physics.Circle {
	return physics.Circle{Center: t.Position, Radius: t.Template.DetonationRadius}
}

// ToMessage renders the torpedo relative to origin.
func (t *Torpedo) ToMessage(origin physics.Vector2D) TorpedoMessage {
	return TorpedoMessage{
		ID:               t.ID,
		RelativePosition: t.Position.Sub(origin).Round(2),
		Rotation:         physics.Round(t.Rotation, 4),
	}
}
