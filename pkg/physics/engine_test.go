package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_AddShipReportsBodyParameters(t *testing.T) {
	e := NewEngine()
	id := NewObjectID()

	e.AddShip(id, Vector2D{X: 3, Y: -4}, math.Pi/2, 0.08)

	params, ok := e.BodyParameters(id)
	require.True(t, ok)
	assert.InDelta(t, 3.0, params.Position.X, 1e-6)
	assert.InDelta(t, -4.0, params.Position.Y, 1e-6)
	assert.InDelta(t, math.Pi/2, params.Rotation, 1e-6)
	assert.Equal(t, 1, e.BodyCount())
}

func TestEngine_UnknownBody(t *testing.T) {
	e := NewEngine()

	_, ok := e.BodyParameters(NewObjectID())
	assert.False(t, ok)

	e.UpdateShip(NewObjectID(), 10, 10)
	e.JumpShip(NewObjectID(), 1000)
	e.RemoveBody(NewObjectID())
}

func TestEngine_ThrustMovesShipAlongHeading(t *testing.T) {
	e := NewEngine()
	id := NewObjectID()
	e.AddShip(id, Vector2D{}, 0, 0.08)

	for i := 0; i < 50; i++ {
		e.UpdateShip(id, 100, 0)
		e.Step(0.02)
	}

	params, _ := e.BodyParameters(id)
	assert.Greater(t, params.Position.X, 0.0)
	assert.InDelta(t, 0.0, params.Position.Y, 1e-6)
	assert.Greater(t, params.Velocity.X, 0.0)
}

func TestEngine_RudderRotatesShip(t *testing.T) {
	e := NewEngine()
	id := NewObjectID()
	e.AddShip(id, Vector2D{}, 0, 0.08)

	for i := 0; i < 50; i++ {
		e.UpdateShip(id, 0, 500)
		e.Step(0.02)
	}

	params, _ := e.BodyParameters(id)
	assert.Greater(t, params.Rotation, 0.0)
}

func TestEngine_JumpShipTranslatesAlongHeading(t *testing.T) {
	e := NewEngine()
	id := NewObjectID()
	e.AddShip(id, Vector2D{X: 10, Y: 10}, math.Pi/2, 0.08)

	e.JumpShip(id, 1000)

	params, _ := e.BodyParameters(id)
	assert.InDelta(t, 10.0, params.Position.X, 1e-3)
	assert.InDelta(t, 1010.0, params.Position.Y, 1e-3)
	assert.InDelta(t, math.Pi/2, params.Rotation, 1e-6)
}

func TestEngine_FindObstructions(t *testing.T) {
	e := NewEngine()
	shooter := NewObjectID()
	target := NewObjectID()
	rock := NewObjectID()
	e.AddShip(shooter, Vector2D{}, 0, 0.08)
	e.AddShip(target, Vector2D{X: 200}, 0, 0.08)
	e.AddAsteroid(rock, Vector2D{X: 100}, 0, 10)

	found := e.FindObstructions(Vector2D{}, Vector2D{X: 200}, shooter, target)
	assert.Equal(t, []ObjectID{rock}, found)

	e.RemoveBody(rock)
	assert.Empty(t, e.FindObstructions(Vector2D{}, Vector2D{X: 200}, shooter, target))
	assert.Empty(t, e.FindObstructions(Vector2D{X: 5}, Vector2D{X: 5}))
}

func TestEngine_TorpedoKeepsLaunchVelocity(t *testing.T) {
	e := NewEngine()
	id := NewObjectID()

	e.AddTorpedo(id, Vector2D{}, 0, Vector2D{X: 10}, 1, 100)

	params, ok := e.BodyParameters(id)
	require.True(t, ok)
	assert.InDelta(t, 10.0, params.Velocity.X, 1e-6)

	e.UpdateTorpedo(id, 2000)
	e.Step(0.1)

	params, _ = e.BodyParameters(id)
	assert.Greater(t, params.Position.X, 0.0)
}
