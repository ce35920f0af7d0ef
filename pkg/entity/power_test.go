package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advance(p *PowerHandler, clock *GameTime, seconds float64) {
	clock.Advance(seconds)
	p.Update(clock)
}

func TestPowerHandler_Overheat(t *testing.T) {
	template := CarrierTemplate()
	p := NewPowerHandler(template)
	clock := NewGameTime()

	p.SetLevel(Weapons, 200)
	advance(p, clock, 5)
	assert.InDelta(t, 0.5, p.Heat(Weapons), 1e-9)
	assert.Equal(t, 0.0, p.Damage(Weapons))

	advance(p, clock, 5)
	assert.InDelta(t, 1.0, p.Heat(Weapons), 1e-9)
	assert.InDelta(t, 5*template.OverheatDamage, p.Damage(Weapons), 1e-9)
	assert.InDelta(t, 2*(1-5*template.OverheatDamage), p.BoostLevel(Weapons), 1e-9)
}

func TestPowerHandler_Coolant(t *testing.T) {
	t.Run("coolant offsets heat", func(t *testing.T) {
		p := NewPowerHandler(CarrierTemplate())
		clock := NewGameTime()

		p.SetLevel(Impulse, 150)
		p.SetCoolant(Impulse, 0.5)
		advance(p, clock, 20)
		assert.Equal(t, 0.0, p.Heat(Impulse))
	})

	t.Run("total coolant is capped", func(t *testing.T) {
		p := NewPowerHandler(CarrierTemplate())

		p.SetCoolant(Impulse, 1)
		p.SetCoolant(Sensors, 1)
		p.SetCoolant(Weapons, 1)
		assert.Equal(t, 1.0, p.Coolant(Impulse))
		assert.Equal(t, 1.0, p.Coolant(Sensors))
		assert.Equal(t, 0.0, p.Coolant(Weapons))

		p.SetCoolant(Sensors, 0.25)
		p.SetCoolant(Weapons, 1)
		assert.Equal(t, 0.75, p.Coolant(Weapons))
	})

	t.Run("coolant per system is at most one", func(t *testing.T) {
		p := NewPowerHandler(CarrierTemplate())
		p.SetCoolant(Shields, 3)
		assert.Equal(t, 1.0, p.Coolant(Shields))
	})
}

func TestPowerHandler_Repair(t *testing.T) {
	template := CarrierTemplate()
	p := NewPowerHandler(template)
	clock := NewGameTime()

	assert.False(t, p.StartRepair(Impulse))

	p.TakeDamage(Impulse, 50)
	p.TakeDamage(Sensors, 10)
	require.InDelta(t, 0.5, p.Damage(Impulse), 1e-9)

	system, ok := p.MostDamaged()
	require.True(t, ok)
	assert.Equal(t, Impulse, system)

	require.True(t, p.StartRepair(Impulse))
	assert.False(t, p.StartRepair(Sensors))

	advance(p, clock, 2.5)
	system, progress, ok := p.Repairing()
	require.True(t, ok)
	assert.Equal(t, Impulse, system)
	assert.InDelta(t, 0.5, progress, 1e-9)
	assert.InDelta(t, 0.5, p.Damage(Impulse), 1e-9)

	advance(p, clock, 2.5)
	_, _, ok = p.Repairing()
	assert.False(t, ok)
	assert.InDelta(t, 0.5-template.RepairAmount, p.Damage(Impulse), 1e-9)
}

func TestPowerHandler_ReactorDamageReducesOutput(t *testing.T) {
	p := NewPowerHandler(CarrierTemplate())

	p.SetLevel(Reactor, 150)
	assert.Equal(t, 100, p.Level(Reactor))

	p.TakeDamage(Reactor, 50)
	assert.InDelta(t, 0.5, p.BoostLevel(Reactor), 1e-9)
	assert.InDelta(t, 0.5, p.BoostLevel(Impulse), 1e-9)

	p.SetLevel(Impulse, 200)
	assert.InDelta(t, 1.0, p.BoostLevel(Impulse), 1e-9)
}

func TestPoweredSystem_Text(t *testing.T) {
	system, err := ParsePoweredSystem("Maneuver")
	require.NoError(t, err)
	assert.Equal(t, Maneuver, system)

	_, err = ParsePoweredSystem("Warp")
	assert.Error(t, err)

	data, err := json.Marshal(NewPowerHandler(CarrierTemplate()).ToMessage())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Impulse":{`)

	var decoded struct {
		System PoweredSystem `json:"system"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"system":"Jump"}`), &decoded))
	assert.Equal(t, Jump, decoded.System)
}
