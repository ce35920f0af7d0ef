package physics

import (
	"math"

	"github.com/ByteArena/box2d"
)

const (
	velocityIterations = 6
	positionIterations = 2

	linearDamping  = 0.4
	angularDamping = 0.95

	asteroidDensity = 0.02
)

// shipHull is the collision footprint shared by every ship class, in body
// coordinates with the bow pointing along +x.
var shipHull = [][]Vector2D{
	{{-14.1, 3.3}, {-13.24, 4.7}, {-7, 4.7}, {-7, -4.7}, {-13.24, -4.7}, {-14.1, -3.3}},
	{{-12.4, 3.4}, {9.2, 3.4}, {9.2, -3.4}, {-12.4, -3.4}},
	{{9, 3.7}, {11.9, 3}, {12.5, 2.4}, {13, 1.1}, {13, -1.1}, {12.5, -2.4}, {11.9, -3}, {9, -3.7}},
}

// BodyParameters is the kinematic state of one body after the last step.
type BodyParameters struct {
	Position Vector2D
	Velocity Vector2D
	Rotation float64
}

// Engine wraps a zero-gravity box2d world. Bodies are keyed by ObjectID and
// must be added and removed explicitly by the owner of the game state.
// Engine is not safe for concurrent use.
type Engine struct {
	world  box2d.B2World
	bodies map[ObjectID]*box2d.B2Body
}

// NewEngine creates an empty world.
func NewEngine() *Engine {
	return &Engine{
		world:  box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		bodies: make(map[ObjectID]*box2d.B2Body),
	}
}

// Step advances the world by delta seconds.
func (e *Engine) Step(delta float64) {
	if delta <= 0 {
		return
	}
	e.world.Step(delta, velocityIterations, positionIterations)
}

// AddShip creates a dynamic body with the ship hull footprint.
func (e *Engine) AddShip(id ObjectID, position Vector2D, rotation, density float64) {
	body := e.createDynamicBody(id, position, rotation)
	for _, vertices := range shipHull {
		shape := box2d.MakeB2PolygonShape()
		shape.Set(toB2Vertices(vertices), len(vertices))
		body.CreateFixture(&shape, density)
	}
}

// AddAsteroid creates a dynamic circular body.
func (e *Engine) AddAsteroid(id ObjectID, position Vector2D, rotation, radius float64) {
	body := e.createDynamicBody(id, position, rotation)
	shape := box2d.MakeB2CircleShape()
	shape.M_radius = radius
	body.CreateFixture(&shape, asteroidDensity)
}

// AddTorpedo creates a small circular body with the given mass moving at
// the given initial velocity.
func (e *Engine) AddTorpedo(id ObjectID, position Vector2D, rotation float64, velocity Vector2D, radius, mass float64) {
	body := e.createDynamicBody(id, position, rotation)
	shape := box2d.MakeB2CircleShape()
	shape.M_radius = radius
	body.CreateFixture(&shape, mass/(math.Pi*radius*radius))
	body.SetLinearVelocity(toB2Vec(velocity))
}

// RemoveBody destroys the body for id. Unknown ids are ignored.
func (e *Engine) RemoveBody(id ObjectID) {
	body, ok := e.bodies[id]
	if !ok {
		return
	}
	e.world.DestroyBody(body)
	delete(e.bodies, id)
}

// UpdateShip applies a forward force of magnitude thrust along the body's
// heading and a torque of magnitude rudder.
func (e *Engine) UpdateShip(id ObjectID, thrust, rudder float64) {
	body, ok := e.bodies[id]
	if !ok {
		return
	}
	if thrust != 0 {
		body.ApplyForceToCenter(toB2Vec(FromAngle(body.GetAngle(), thrust)), true)
	}
	if rudder != 0 {
		body.ApplyTorque(rudder, true)
	}
}

// UpdateTorpedo applies a forward force of magnitude thrust.
func (e *Engine) UpdateTorpedo(id ObjectID, thrust float64) {
	e.UpdateShip(id, thrust, 0)
}

// JumpShip translates the body distance units along its current heading
// without integrating the motion.
func (e *Engine) JumpShip(id ObjectID, distance float64) {
	body, ok := e.bodies[id]
	if !ok {
		return
	}
	angle := body.GetAngle()
	target := fromB2Vec(body.GetPosition()).Add(FromAngle(angle, distance))
	body.SetTransform(toB2Vec(target), angle)
}

// BodyParameters returns the kinematic state of id.
func (e *Engine) BodyParameters(id ObjectID) (BodyParameters, bool) {
	body, ok := e.bodies[id]
	if !ok {
		return BodyParameters{}, false
	}
	return BodyParameters{
		Position: fromB2Vec(body.GetPosition()),
		Velocity: fromB2Vec(body.GetLinearVelocity()),
		Rotation: body.GetAngle(),
	}, true
}

// FindObstructions returns the ids of all bodies crossed by the segment from
// start to end, excluding the ignored ids.
func (e *Engine) FindObstructions(start, end Vector2D, ignore ...ObjectID) []ObjectID {
	if start.Sub(end).LengthSquared() < 1e-9 {
		return nil
	}

	skip := make(map[ObjectID]struct{}, len(ignore))
	for _, id := range ignore {
		skip[id] = struct{}{}
	}

	seen := make(map[ObjectID]struct{})
	var found []ObjectID
	callback := func(fixture *box2d.B2Fixture, point, normal box2d.B2Vec2, fraction float64) float64 {
		id, ok := fixture.GetBody().GetUserData().(ObjectID)
		if !ok {
			return -1
		}
		if _, ignored := skip[id]; ignored {
			return -1
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			found = append(found, id)
		}
		return 1
	}
	e.world.RayCast(callback, toB2Vec(start), toB2Vec(end))
	return found
}

// BodyCount returns the number of bodies in the world.
func (e *Engine) BodyCount() int {
	return len(e.bodies)
}

func (e *Engine) createDynamicBody(id ObjectID, position Vector2D, rotation float64) *box2d.B2Body {
	e.RemoveBody(id)

	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_dynamicBody
	def.Position = toB2Vec(position)
	def.Angle = rotation
	def.LinearDamping = linearDamping
	def.AngularDamping = angularDamping
	def.UserData = id

	body := e.world.CreateBody(&def)
	e.bodies[id] = body
	return body
}

func toB2Vec(v Vector2D) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X, v.Y)
}

func fromB2Vec(v box2d.B2Vec2) Vector2D {
	return Vector2D{X: v.X, Y: v.Y}
}

func toB2Vertices(vertices []Vector2D) []box2d.B2Vec2 {
	out := make([]box2d.B2Vec2, len(vertices))
	for i, v := range vertices {
		out[i] = toB2Vec(v)
	}
	return out
}
