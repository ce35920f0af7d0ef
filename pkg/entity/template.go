package entity

import "github.com/opd-ai/go-starcruiser/pkg/physics"

// ShipTemplate contains the static balance data for a ship class
type ShipTemplate struct {
	ClassName string

	Hull                   float64
	AheadThrustFactor      float64
	ReverseThrustFactor    float64
	RudderFactor           float64
	ThrottleResponsiveness float64
	Density                float64

	ScanSpeed            float64
	LockingSpeed         float64
	ShortRangeScopeRange float64
	SensorRange          float64

	Beams            []BeamWeapon
	Tubes            []LaunchTube
	MagazineCapacity int
	Torpedo          TorpedoTemplate
	Shield           ShieldTemplate
	JumpDrive        JumpDriveTemplate

	// Power and damage control
	PoweredSystemDamageCapacity float64
	RepairSpeed                 float64
	RepairAmount                float64
	HeatBuildup                 float64
	CoolingRate                 float64
	OverheatDamage              float64
	MaxCoolant                  float64
}

// BeamWeapon describes one beam mount. Position is in ship coordinates,
// Rotation and the arcs are in degrees relative to the bow.
type BeamWeapon struct {
	Position      physics.Vector2D
	Rotation      float64
	MinRange      float64
	MaxRange      float64
	LeftArc       float64
	RightArc      float64
	RechargeSpeed float64
	FiringSpeed   float64
	Damage        float64
}

// LaunchTube describes one torpedo tube.
type LaunchTube struct {
	Position    physics.Vector2D
	Rotation    float64
	Velocity    float64
	ReloadSpeed float64
}

// ShieldTemplate contains shield balance data
type ShieldTemplate struct {
	Radius             float64
	Strength           float64
	ActivationStrength float64
	FailureStrength    float64
	RechargeSpeed      float64
	DecaySpeed         float64
}

// JumpDriveTemplate contains jump drive balance data. Distances are in world
// units, speeds in progress per second.
type JumpDriveTemplate struct {
	MinDistance   int
	MaxDistance   int
	Increment     int
	JumpingSpeed  float64
	RechargeSpeed float64
}

// TorpedoTemplate contains torpedo balance data
type TorpedoTemplate struct {
	Radius           float64
	Mass             float64
	Thrust           float64
	MaxBurnTime      float64
	Damage           float64
	DetonationRadius float64
}

// DefaultTorpedo is carried by every ship class.
func DefaultTorpedo() TorpedoTemplate {
	return TorpedoTemplate{
		Radius:           1,
		Mass:             100,
		Thrust:           2000,
		MaxBurnTime:      20,
		Damage:           15,
		DetonationRadius: 20,
	}
}

// CarrierTemplate returns the player-crewable ship class.
func CarrierTemplate() *ShipTemplate {
	return &ShipTemplate{
		ClassName:              "Infector",
		Hull:                   100,
		AheadThrustFactor:      0.8,
		ReverseThrustFactor:    0.3,
		RudderFactor:           12,
		ThrottleResponsiveness: 25,
		Density:                0.08,
		ScanSpeed:              0.2,
		LockingSpeed:           0.5,
		ShortRangeScopeRange:   400,
		SensorRange:            2000,
		Beams: []BeamWeapon{
			{
				Position:      physics.Vector2D{X: 8, Y: 4},
				MinRange:      10,
				MaxRange:      200,
				LeftArc:       90,
				RightArc:      45,
				RechargeSpeed: 0.2,
				FiringSpeed:   1,
				Damage:        4,
			},
			{
				Position:      physics.Vector2D{X: 8, Y: -4},
				MinRange:      10,
				MaxRange:      200,
				LeftArc:       45,
				RightArc:      90,
				RechargeSpeed: 0.2,
				FiringSpeed:   1,
				Damage:        4,
			},
		},
		Tubes: []LaunchTube{
			{
				Position:    physics.Vector2D{X: 14, Y: 0},
				Velocity:    15,
				ReloadSpeed: 0.1,
			},
		},
		MagazineCapacity: 10,
		Torpedo:          DefaultTorpedo(),
		Shield: ShieldTemplate{
			Radius:             17,
			Strength:           20,
			ActivationStrength: 5,
			FailureStrength:    1,
			RechargeSpeed:      0.5,
			DecaySpeed:         1,
		},
		JumpDrive: JumpDriveTemplate{
			MinDistance:   1000,
			MaxDistance:   11000,
			Increment:     500,
			JumpingSpeed:  0.25,
			RechargeSpeed: 0.1,
		},
		PoweredSystemDamageCapacity: 100,
		RepairSpeed:                 0.2,
		RepairAmount:                0.25,
		HeatBuildup:                 0.1,
		CoolingRate:                 1,
		OverheatDamage:              0.05,
		MaxCoolant:                  2,
	}
}

// ScoutTemplate returns the light class used for crewless ships.
func ScoutTemplate() *ShipTemplate {
	t := CarrierTemplate()
	t.ClassName = "Scout"
	t.Hull = 60
	t.AheadThrustFactor = 1
	t.RudderFactor = 14
	t.Beams = t.Beams[:1]
	t.Beams[0].Position = physics.Vector2D{X: 10}
	t.Beams[0].LeftArc = 45
	t.Beams[0].RightArc = 45
	t.Tubes = nil
	t.MagazineCapacity = 0
	t.Shield.Strength = 12
	return t
}
