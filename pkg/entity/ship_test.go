package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

func TestShip_Throttle(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"positive", 50, 50},
		{"negative", -50, -50},
		{"clamps upper bound", 150, 100},
		{"clamps lower bound", -150, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newShipFixture()
			f.ship.ChangeThrottle(tt.input)
			f.ship.ChangeRudder(tt.input)

			msg := f.ship.ToMessage(f.ships)
			assert.Equal(t, tt.expected, msg.Throttle)
			assert.Equal(t, tt.expected, msg.Rudder)
		})
	}
}

func TestShip_ThrustFollowsThrottleAtBoundedRate(t *testing.T) {
	f := newShipFixture()
	f.ship.ChangeThrottle(100)

	f.stepTo(2)
	assert.InDelta(t, f.ship.Template.ThrottleResponsiveness*2, f.ship.Thrust, 1e-9)

	previous := 100 - f.ship.Thrust
	for s := 2.5; s <= 10; s += 0.5 {
		f.stepTo(s)
		remaining := 100 - f.ship.Thrust
		assert.LessOrEqual(t, remaining, previous)
		previous = remaining
	}
	assert.InDelta(t, 100.0, f.ship.Thrust, 1e-9)

	f.ship.ChangeThrottle(-100)
	f.stepTo(12)
	assert.InDelta(t, 100-f.ship.Template.ThrottleResponsiveness*2, f.ship.Thrust, 1e-9)
}

func TestShip_JumpDistance(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		expected int
	}{
		{"sets distance", 0.2, 3000},
		{"snaps to increments", 0.24, 3500},
		{"clamps lower bound", -0.5, 1000},
		{"clamps upper bound", 1.5, 11000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newShipFixture()
			f.ship.ChangeJumpDistance(tt.ratio)

			assert.Equal(t, tt.expected, f.ship.ToMessage(nil).JumpDrive.Distance)
		})
	}
}

func TestShip_JumpTeleportsOnCompletion(t *testing.T) {
	f := newShipFixture()
	f.ship.ChangeJumpDistance(0.2)
	f.ship.StartJump()

	f.stepTo(2)
	status, _ := f.ship.Jump().Status()
	assert.Equal(t, JumpJumping, status)
	assert.Empty(t, f.physics.jumps)

	f.stepTo(4)
	status, _ = f.ship.Jump().Status()
	assert.Equal(t, JumpRecharging, status)
	assert.Equal(t, 3000.0, f.physics.jumps[f.ship.ID])

	f.ship.StartJump()
	status, _ = f.ship.Jump().Status()
	assert.Equal(t, JumpRecharging, status)

	f.stepTo(14)
	status, _ = f.ship.Jump().Status()
	assert.Equal(t, JumpReady, status)
}

func TestShip_Waypoints(t *testing.T) {
	f := newShipFixture()
	f.ship.Position = physics.Vector2D{X: 3, Y: -4}

	f.ship.AddWaypoint(physics.Vector2D{X: 5, Y: -4})
	assert.Equal(t, []WaypointMessage{
		{Index: 1, Name: "WP1", Position: physics.Vector2D{X: 5, Y: -4}, RelativePosition: physics.Vector2D{X: 2, Y: 0}, Bearing: 90},
	}, f.ship.ToMessage(nil).Waypoints)

	f.ship.DeleteWaypoint(1)
	assert.Empty(t, f.ship.ToMessage(nil).Waypoints)

	f.ship.AddWaypoint(physics.Vector2D{X: 10, Y: -4})
	f.ship.AddWaypoint(physics.Vector2D{X: 15, Y: -4})
	f.ship.DeleteWaypoint(1)
	f.ship.AddWaypoint(physics.Vector2D{X: 20, Y: -4})

	waypoints := f.ship.ToMessage(nil).Waypoints
	require.Len(t, waypoints, 2)
	assert.Equal(t, 1, waypoints[0].Index)
	assert.Equal(t, physics.Vector2D{X: 20, Y: -4}, waypoints[0].Position)
	assert.Equal(t, 2, waypoints[1].Index)
	assert.Equal(t, physics.Vector2D{X: 15, Y: -4}, waypoints[1].Position)
}

func TestShip_Scan(t *testing.T) {
	t.Run("scans target", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(PlayerFaction, physics.Vector2D{X: 100})

		require.True(t, f.ship.StartScan(target.ID))
		f.stepTo(4)
		assert.Equal(t, ContactUnknown, target.ToContactMessage(f.ship).Type)

		f.stepTo(6)
		assert.Equal(t, ContactFriendly, target.ToContactMessage(f.ship).Type)
		assert.Equal(t, ScanBasic, f.ship.ScanLevelOf(target.ID))
		assert.Nil(t, f.ship.ToMessage(f.ships).ScanProgress)
	})

	t.Run("does not start scan with scan in progress", func(t *testing.T) {
		f := newShipFixture()
		first := f.addShip(PlayerFaction, physics.Vector2D{X: 100})
		second := f.addShip(PlayerFaction, physics.Vector2D{X: 200})

		f.ship.StartScan(first.ID)
		assert.False(t, f.ship.StartScan(second.ID))

		progress := f.ship.ToMessage(f.ships).ScanProgress
		require.NotNil(t, progress)
		assert.Equal(t, first.ID, progress.TargetID)
		assert.Equal(t, first.Designation, progress.Designation)
	})

	t.Run("does not scan target at maximum level", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})

		f.ship.StartScan(target.ID)
		f.stepTo(6)
		f.ship.StartScan(target.ID)
		f.stepTo(12)
		assert.Equal(t, ScanDetailed, f.ship.ScanLevelOf(target.ID))
		assert.Equal(t, ContactEnemy, target.ToContactMessage(f.ship).Type)

		assert.False(t, f.ship.StartScan(target.ID))
		assert.Nil(t, f.ship.Scan())
	})

	t.Run("does not scan itself", func(t *testing.T) {
		f := newShipFixture()
		assert.False(t, f.ship.StartScan(f.ship.ID))
	})

	t.Run("progress is monotonic and ends at one", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(NeutralFaction, physics.Vector2D{X: 100})
		f.ship.StartScan(target.ID)

		previous := 0.0
		for s := 0.5; f.ship.Scan() != nil; s += 0.5 {
			progress := f.ship.Scan().Progress()
			assert.GreaterOrEqual(t, progress, previous)
			assert.LessOrEqual(t, progress, 1.0)
			previous = progress
			f.stepTo(s)
		}
		assert.Equal(t, ScanBasic, f.ship.ScanLevelOf(target.ID))
		assert.Equal(t, ContactNeutral, target.ToContactMessage(f.ship).Type)
	})
}

func TestShip_Lock(t *testing.T) {
	f := newShipFixture()
	target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})
	other := f.addShip(EnemyFaction, physics.Vector2D{X: -100})

	f.stepTo(0.5)
	assert.Equal(t, LockNone, f.ship.ToMessage(f.ships).LockProgress.Status)

	f.ship.LockTarget(target.ID)
	f.stepTo(1.5)
	assert.Equal(t, LockInProgress, f.ship.ToMessage(f.ships).LockProgress.Status)
	assert.InDelta(t, 0.5, f.ship.Lock().Progress(), 1e-9)

	f.ship.LockTarget(target.ID)
	assert.InDelta(t, 0.5, f.ship.Lock().Progress(), 1e-9)

	f.ship.LockTarget(other.ID)
	assert.Equal(t, 0.0, f.ship.Lock().Progress())

	f.stepTo(10)
	lock := f.ship.ToMessage(f.ships).LockProgress
	assert.Equal(t, Locked, lock.Status)
	assert.Equal(t, other.ID, lock.TargetID)
	assert.Equal(t, 1.0, lock.Progress)
}

func lockOnto(t *testing.T, f *shipFixture, target *Ship) {
	t.Helper()
	f.ship.LockTarget(target.ID)
	f.stepTo(10)
	require.Equal(t, Locked, f.ship.Lock().Status())
}

func beamStatus(f *shipFixture) BeamStatus {
	status, _ := f.ship.Beams()[0].Status()
	return status
}

func TestShip_Beams(t *testing.T) {
	t.Run("fires on locked target in range", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})
		lockOnto(t, f, target)
		assert.Equal(t, BeamIdle, beamStatus(f))

		f.stepTo(10.5)
		assert.Equal(t, BeamFiring, beamStatus(f))
		assert.Equal(t, target.Template.Shield.Strength, target.Shield().Strength())

		f.stepTo(11)
		assert.Equal(t, BeamFiring, beamStatus(f))
		assert.Equal(t, target.Template.Shield.Strength, target.Shield().Strength())

		f.stepTo(11.5)
		assert.Equal(t, BeamRecharging, beamStatus(f))
		damage := f.ship.Template.Beams[0].Damage
		assert.InDelta(t, target.Template.Shield.Strength-damage, target.Shield().Strength(), 1e-9)

		f.stepTo(12)
		assert.Equal(t, BeamRecharging, beamStatus(f))
		assert.InDelta(t, target.Template.Shield.Strength-damage, target.Shield().Strength(), 1e-9)

		f.stepTo(17)
		assert.Equal(t, BeamFiring, beamStatus(f))
	})

	t.Run("does not fire if target outside arc", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{Y: -100})
		lockOnto(t, f, target)

		f.stepTo(10.5)
		assert.Equal(t, BeamIdle, beamStatus(f))
	})

	t.Run("does not fire if target outside range", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{X: f.ship.Template.Beams[0].MaxRange + 100})
		lockOnto(t, f, target)

		f.stepTo(10.5)
		assert.Equal(t, BeamIdle, beamStatus(f))
	})

	t.Run("does not fire through obstructions", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})
		f.physics.obstructions = []ObjectID{physics.NewObjectID()}
		lockOnto(t, f, target)

		f.stepTo(10.5)
		assert.Equal(t, BeamIdle, beamStatus(f))
	})

	t.Run("returns to idle when target leaves range while recharging", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})
		lockOnto(t, f, target)
		f.stepTo(10.5)
		f.stepTo(11.5)
		require.Equal(t, BeamRecharging, beamStatus(f))

		target.Position = physics.Vector2D{X: 1000}
		f.stepTo(17)
		assert.Equal(t, BeamIdle, beamStatus(f))
	})

	t.Run("returns to idle when lock is removed while recharging", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})
		lockOnto(t, f, target)
		f.stepTo(10.5)
		f.stepTo(11.5)
		require.Equal(t, BeamRecharging, beamStatus(f))
		strength := target.Shield().Strength()

		f.ship.TargetDestroyed(target.ID)
		f.stepTo(17)
		assert.Equal(t, BeamIdle, beamStatus(f))
		f.stepTo(20)
		assert.Equal(t, BeamIdle, beamStatus(f))
		assert.Equal(t, strength, target.Shield().Strength())
	})

	t.Run("returns to idle when lock moves to a new target while recharging", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})
		other := f.addShip(EnemyFaction, physics.Vector2D{X: 1000})
		lockOnto(t, f, target)
		f.stepTo(10.5)
		f.stepTo(11.5)
		require.Equal(t, BeamRecharging, beamStatus(f))
		strength := target.Shield().Strength()

		f.ship.LockTarget(other.ID)
		f.stepTo(17)
		assert.Equal(t, BeamIdle, beamStatus(f))
		f.stepTo(20)
		assert.Equal(t, BeamIdle, beamStatus(f))
		assert.Equal(t, strength, target.Shield().Strength())
	})

	t.Run("finishes firing without damage when target leaves range", func(t *testing.T) {
		f := newShipFixture()
		target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})
		lockOnto(t, f, target)
		f.stepTo(10.5)
		f.stepTo(11)
		require.Equal(t, BeamFiring, beamStatus(f))

		target.Position = physics.Vector2D{X: 1000}
		f.stepTo(11.2)
		assert.Equal(t, BeamFiring, beamStatus(f))

		f.stepTo(11.5)
		assert.Equal(t, BeamRecharging, beamStatus(f))
		assert.Equal(t, target.Template.Shield.Strength, target.Shield().Strength())
	})

	t.Run("recharge scales with weapons power", func(t *testing.T) {
		f := newShipFixture()
		f.ship.SetPower(Weapons, 200)
		f.ship.SetCoolant(Weapons, 1)
		target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})
		lockOnto(t, f, target)
		f.stepTo(10.5)
		f.stepTo(11.5)
		require.Equal(t, BeamRecharging, beamStatus(f))

		f.stepTo(12.5)
		_, progress := f.ship.Beams()[0].Status()
		assert.InDelta(t, f.ship.Template.Beams[0].RechargeSpeed*2, progress, 1e-9)
		assert.Equal(t, 0.0, f.ship.Power().Heat(Weapons))
	})
}

func TestShip_Shields(t *testing.T) {
	t.Run("recharges after damage", func(t *testing.T) {
		f := newShipFixture()
		shield := f.ship.Template.Shield

		f.ship.TakeDamage(Impulse, 5)
		assert.InDelta(t, shield.Strength-5, f.ship.Shield().Strength(), 1e-9)

		f.stepTo(4)
		assert.InDelta(t, shield.Strength-5+shield.RechargeSpeed*4, f.ship.Shield().Strength(), 1e-9)
	})

	t.Run("overflow damages hull and system", func(t *testing.T) {
		f := newShipFixture()
		shield := f.ship.Template.Shield

		f.ship.TakeDamage(Sensors, shield.Strength+5)
		assert.Equal(t, 0.0, f.ship.Shield().Strength())
		assert.InDelta(t, f.ship.Template.Hull-5, f.ship.Hull, 1e-9)
		assert.InDelta(t, 5/f.ship.Template.PoweredSystemDamageCapacity, f.ship.Power().Damage(Sensors), 1e-9)
		assert.False(t, f.stepTo(0.1).Destroyed)
	})

	t.Run("ship can be destroyed", func(t *testing.T) {
		f := newShipFixture()
		f.ship.TakeDamage(Impulse, f.ship.Template.Shield.Strength+f.ship.Template.Hull+5)

		assert.InDelta(t, -5.0, f.ship.Hull, 1e-9)
		assert.True(t, f.stepTo(0.1).Destroyed)
	})

	t.Run("lowered shield passes all damage to hull", func(t *testing.T) {
		f := newShipFixture()
		f.ship.SetShieldsUp(false)

		f.ship.TakeDamage(Jump, 10)
		assert.Equal(t, f.ship.Template.Shield.Strength, f.ship.Shield().Strength())
		assert.InDelta(t, f.ship.Template.Hull-10, f.ship.Hull, 1e-9)
	})

	t.Run("activation and failure thresholds", func(t *testing.T) {
		template := singleBeamTemplate()
		template.Shield = ShieldTemplate{Strength: 100, ActivationStrength: 20, FailureStrength: 0, RechargeSpeed: 10, DecaySpeed: 1}
		f := newShipFixture()
		f.ship = NewShip(template, PlayerFaction, "Test", physics.Vector2D{}, 0)

		f.ship.TakeDamage(Impulse, 95)
		assert.InDelta(t, 5.0, f.ship.Shield().Strength(), 1e-9)
		assert.Equal(t, template.Hull, f.ship.Hull)
		f.ship.EndUpdate()
		assert.True(t, f.ship.Shield().Up())

		f.ship.SetShieldsUp(false)
		f.ship.SetShieldsUp(true)
		assert.False(t, f.ship.Shield().Up())

		f.ship.SetShieldsUp(false)
		f.stepTo(2)
		f.ship.SetShieldsUp(true)
		require.True(t, f.ship.Shield().Up())

		f.ship.TakeDamage(Impulse, 30)
		f.ship.EndUpdate()
		assert.False(t, f.ship.Shield().Up())
		assert.InDelta(t, template.Hull-5, f.ship.Hull, 1e-9)

		f.ship.SetShieldsUp(true)
		assert.False(t, f.ship.Shield().Up())
	})
}

func TestShip_PowerScalesSubsystems(t *testing.T) {
	t.Run("impulse power scales thrust", func(t *testing.T) {
		f := newShipFixture()
		f.ship.SetPower(Impulse, 150)
		f.ship.ChangeThrottle(50)
		f.ship.ChangeRudder(50)
		f.stepTo(2)

		update := f.physics.lastShipUpdate(f.ship.ID)
		assert.InDelta(t, 50*f.ship.Template.AheadThrustFactor*1.5, update.thrust, 1e-9)
		assert.InDelta(t, 50*f.ship.Template.RudderFactor, update.rudder, 1e-9)
	})

	t.Run("reverse thrust uses reverse factor", func(t *testing.T) {
		f := newShipFixture()
		f.ship.ChangeThrottle(-50)
		f.stepTo(2)

		update := f.physics.lastShipUpdate(f.ship.ID)
		assert.InDelta(t, -50*f.ship.Template.ReverseThrustFactor, update.thrust, 1e-9)
	})

	t.Run("sensor power scales sensor range", func(t *testing.T) {
		tests := []struct {
			level    int
			expected float64
		}{
			{150, 3000},
			{50, 1000},
			{0, 400},
		}
		for _, tt := range tests {
			f := newShipFixture()
			f.ship.SetPower(Sensors, tt.level)
			assert.InDelta(t, tt.expected, f.ship.SensorRange(), 1e-9)
		}
	})

	t.Run("power levels are clamped", func(t *testing.T) {
		f := newShipFixture()
		f.ship.SetPower(Maneuver, 250)
		f.ship.SetPower(Shields, -10)

		settings := f.ship.ToMessage(nil).Power.Settings
		assert.Equal(t, 200, settings[Maneuver].Level)
		assert.Equal(t, 0, settings[Shields].Level)
	})
}

func TestShip_TakesValuesFromPhysics(t *testing.T) {
	f := newShipFixture()
	f.physics.bodies[f.ship.ID] = physics.BodyParameters{
		Position: physics.Vector2D{X: 1, Y: 2},
		Velocity: physics.Vector2D{X: 3, Y: 4},
		Rotation: 5,
	}

	f.stepTo(0.1)

	msg := f.ship.ToMessage(nil)
	assert.Equal(t, physics.Vector2D{X: 1, Y: 2}, msg.Position)
	assert.Equal(t, physics.Vector2D{X: 3, Y: 4}, msg.Speed)
	assert.Equal(t, 5.0, msg.Rotation)
	assert.Equal(t, 5.0, msg.Velocity)
}

func TestShip_History(t *testing.T) {
	f := newShipFixture()

	for s := 0.5; s <= 30; s += 0.5 {
		f.stepTo(s)
	}

	samples := f.ship.ToMessage(nil).History
	require.Len(t, samples, 10)
	for i := 1; i < len(samples); i++ {
		assert.GreaterOrEqual(t, samples[i].Time-samples[i-1].Time, 1.0)
	}
	assert.Equal(t, 29.5, samples[len(samples)-1].Time)
}

func TestShip_MapSelection(t *testing.T) {
	f := newShipFixture()
	target := f.addShip(EnemyFaction, physics.Vector2D{X: 30, Y: 40})
	f.ship.AddWaypoint(physics.Vector2D{X: 10})

	f.ship.MapSelectShip(target.ID)
	selection := f.ship.ToMessage(f.ships).MapSelection
	require.NotNil(t, selection)
	assert.Equal(t, target.Designation, selection.Label)
	assert.Equal(t, 50.0, selection.Range)
	assert.True(t, selection.CanScan)
	assert.Nil(t, selection.Hull)

	assert.True(t, f.ship.ScanSelectedShip())
	assert.Equal(t, target.ID, f.ship.Scan().TargetID)

	f.ship.MapSelectWaypoint(1)
	selection = f.ship.ToMessage(f.ships).MapSelection
	require.NotNil(t, selection)
	assert.Equal(t, "WP1", selection.Label)
	assert.Equal(t, 90.0, selection.Bearing)

	f.ship.DeleteSelectedWaypoint()
	assert.Empty(t, f.ship.Waypoints())
	assert.True(t, f.ship.MapSelection().IsEmpty())

	f.ship.MapSelectWaypoint(7)
	assert.Nil(t, f.ship.ToMessage(f.ships).MapSelection)
}

func TestShip_TargetDestroyed(t *testing.T) {
	f := newShipFixture()
	target := f.addShip(EnemyFaction, physics.Vector2D{X: 100})

	f.ship.LockTarget(target.ID)
	f.ship.StartScan(target.ID)
	f.ship.MapSelectShip(target.ID)

	f.ship.TargetDestroyed(target.ID)

	assert.Nil(t, f.ship.Lock())
	assert.Nil(t, f.ship.Scan())
	assert.True(t, f.ship.MapSelection().IsEmpty())
}

func TestShip_Tubes(t *testing.T) {
	f := newShipFixture()
	magazine := f.ship.Magazine

	assert.False(t, f.ship.LaunchTube(0))
	require.True(t, f.ship.ReloadTube(0))
	assert.Equal(t, magazine-1, f.ship.Magazine)
	assert.False(t, f.ship.ReloadTube(0))
	assert.False(t, f.ship.ReloadTube(5))

	f.stepTo(5)
	status, progress := f.ship.Tubes()[0].Status()
	assert.Equal(t, TubeReloading, status)
	assert.InDelta(t, 0.5, progress, 1e-9)

	f.stepTo(10)
	status, _ = f.ship.Tubes()[0].Status()
	require.Equal(t, TubeReady, status)

	require.True(t, f.ship.LaunchTube(0))
	result := f.stepTo(10.1)
	require.Len(t, result.Torpedoes, 1)
	launch := result.Torpedoes[0]
	assert.Equal(t, f.ship.ID, launch.LaunchedBy)
	assert.InDelta(t, f.ship.Template.Tubes[0].Position.X, launch.Position.X, 1e-9)
	assert.Greater(t, launch.Velocity.X, 0.0)

	assert.Empty(t, f.stepTo(10.2).Torpedoes)
	status, _ = f.ship.Tubes()[0].Status()
	assert.Equal(t, TubeEmpty, status)
}
