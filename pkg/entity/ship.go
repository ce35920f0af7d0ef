// pkg/entity/ship.go
package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

const (
	minThrottle = -100
	maxThrottle = 100
	minRudder   = -100
	maxRudder   = 100
)

var designationPrefixes = []string{
	"Kestrel", "Halcyon", "Meridian", "Corvid", "Vanguard", "Solace", "Tempest", "Aurora", "Basilisk", "Perihelion",
}

// RandomDesignation generates a ship name.
func RandomDesignation() string {
	return fmt.Sprintf("%s %d", designationPrefixes[rand.IntN(len(designationPrefixes))], 100+rand.IntN(900))
}

// Ship is a starship. Ships without a Controller are crewed by players; the
// subsystem composition is the same either way.
type Ship struct {
	BaseEntity
	Template    *ShipTemplate
	Designation string
	Faction     *Faction
	Controller  Controller

	Speed    physics.Vector2D
	Throttle int
	Rudder   int
	Thrust   float64
	Hull     float64
	Magazine int

	scans        map[ObjectID]ScanLevel
	scan         *ScanHandler
	lock         *LockHandler
	power        *PowerHandler
	shield       *ShieldHandler
	beams        []*BeamHandler
	tubes        []*TubeHandler
	jump         *JumpHandler
	waypoints    Waypoints
	mapSelection MapSelection
	history      History
}

// ShipUpdateResult reports what happened to a ship during a tick
type ShipUpdateResult struct {
	ID        ObjectID
	Destroyed bool
	Torpedoes []TorpedoLaunch
}

// NewShip creates a ship at position with full hull and shields.
func NewShip(template *ShipTemplate, faction *Faction, designation string, position physics.Vector2D, rotation float64) *Ship {
	s := &Ship{
		BaseEntity: BaseEntity{
			ID:       physics.NewObjectID(),
			Position: position,
			Rotation: rotation,
		},
		Template:    template,
		Designation: designation,
		Faction:     faction,
		Hull:        template.Hull,
		Magazine:    template.MagazineCapacity,
		scans:       make(map[ObjectID]ScanLevel),
		power:       NewPowerHandler(template),
		shield:      NewShieldHandler(template.Shield),
		jump:        NewJumpHandler(template.JumpDrive),
	}
	for _, b := range template.Beams {
		s.beams = append(s.beams, NewBeamHandler(b))
	}
	for _, t := range template.Tubes {
		s.tubes = append(s.tubes, NewTubeHandler(t))
	}
	return s
}

// Power returns the power handler.
func (s *Ship) Power() *PowerHandler { return s.power }

// Shield returns the shield handler.
func (s *Ship) Shield() *ShieldHandler { return s.shield }

// Jump returns the jump drive handler.
func (s *Ship) Jump() *JumpHandler { return s.jump }

// Beams returns the beam handlers.
func (s *Ship) Beams() []*BeamHandler { return s.beams }

// Tubes returns the tube handlers.
func (s *Ship) Tubes() []*TubeHandler { return s.tubes }

// Waypoints returns the ship's waypoints.
func (s *Ship) Waypoints() []Waypoint { return s.waypoints.All() }

// MapSelection returns the current map selection.
func (s *Ship) MapSelection() MapSelection { return s.mapSelection }

// Scan returns the running scan, or nil.
func (s *Ship) Scan() *ScanHandler { return s.scan }

// Lock returns the current lock, or nil.
func (s *Ship) Lock() *LockHandler { return s.lock }

// IsPlayerShip reports whether the ship is crewed by players.
func (s *Ship) IsPlayerShip() bool { return s.Controller == nil }

// Update runs one tick: controller, subsystems in fixed order, then physics
// submission and read back.
func (s *Ship) Update(t *GameTime, phys Physics, ships ShipLookup) {
	if s.Controller != nil {
		s.Controller.Update(s, t, ships)
	}

	s.power.Update(t)
	for _, b := range s.beams {
		b.Update(t, s, s.power.BoostLevel(Weapons), ships, phys)
	}
	s.shield.Update(t, s.power.BoostLevel(Shields))
	s.jump.Update(t, s.power.BoostLevel(Jump), func(distance float64) {
		phys.JumpShip(s.ID, distance)
	})
	for _, tube := range s.tubes {
		tube.Update(t, s.power.BoostLevel(Weapons))
	}
	s.updateScan(t, ships)
	s.updateLock(t, ships)
	s.updateThrust(t)
	s.updatePhysics(phys)
	s.history.Add(t.Current, s.Position)
}

func (s *Ship) updateScan(t *GameTime, ships ShipLookup) {
	if s.scan == nil {
		return
	}
	if ships != nil && ships.Ship(s.scan.TargetID) == nil {
		s.scan = nil
		return
	}
	if s.scan.Update(t, s.Template.ScanSpeed, s.power.BoostLevel(Sensors)) {
		id := s.scan.TargetID
		s.scans[id] = s.scans[id].Next()
		s.scan = nil
	}
}

func (s *Ship) updateLock(t *GameTime, ships ShipLookup) {
	if s.lock == nil {
		return
	}
	if ships != nil && ships.Ship(s.lock.TargetID) == nil {
		s.lock = nil
		return
	}
	s.lock.Update(t, s.Template.LockingSpeed, s.power.BoostLevel(Sensors))
}

// updateThrust moves thrust toward the throttle setpoint at the template's
// responsiveness rate.
func (s *Ship) updateThrust(t *GameTime) {
	step := s.Template.ThrottleResponsiveness * t.Delta
	diff := physics.Clamp(float64(s.Throttle)-s.Thrust, -step, step)
	s.Thrust = physics.Clamp(s.Thrust+diff, minThrottle, maxThrottle)
}

func (s *Ship) effectiveThrust() float64 {
	factor := s.Template.AheadThrustFactor
	if s.Thrust < 0 {
		factor = s.Template.ReverseThrustFactor
	}
	return s.Thrust * factor * s.power.BoostLevel(Impulse)
}

func (s *Ship) effectiveRudder() float64 {
	return float64(s.Rudder) * s.Template.RudderFactor * s.power.BoostLevel(Maneuver)
}

func (s *Ship) updatePhysics(phys Physics) {
	phys.UpdateShip(s.ID, s.effectiveThrust(), s.effectiveRudder())
	if params, ok := phys.BodyParameters(s.ID); ok {
		s.Position = params.Position
		s.Speed = params.Velocity
		s.Rotation = params.Rotation
	}
}

// EndUpdate settles the shield and reports destruction and torpedo launches.
func (s *Ship) EndUpdate() ShipUpdateResult {
	s.shield.EndUpdate()
	result := ShipUpdateResult{ID: s.ID, Destroyed: s.Hull <= 0}
	for _, tube := range s.tubes {
		if tube.takeLaunch() {
			result.Torpedoes = append(result.Torpedoes, s.torpedoLaunch(tube))
		}
	}
	return result
}

func (s *Ship) torpedoLaunch(tube *TubeHandler) TorpedoLaunch {
	rotation := s.Rotation + physics.ToRadians(tube.tube.Rotation)
	return TorpedoLaunch{
		LaunchedBy: s.ID,
		Faction:    s.Faction,
		Position:   s.Position.Add(tube.tube.Position.Rotate(s.Rotation)),
		Rotation:   rotation,
		Velocity:   s.Speed.Add(physics.FromAngle(rotation, tube.tube.Velocity)),
		Template:   s.Template.Torpedo,
	}
}

// SensorRange is the template range scaled by sensor boost, never below the
// short range scope.
func (s *Ship) SensorRange() float64 {
	return max(s.Template.ShortRangeScopeRange, s.Template.SensorRange*s.power.BoostLevel(Sensors))
}

// InSensorRange reports whether position can be seen by this ship.
func (s *Ship) InSensorRange(position physics.Vector2D) bool {
	return s.Position.Distance(position) <= s.SensorRange()
}

// ScanLevelOf returns this ship's scan level of target.
func (s *Ship) ScanLevelOf(target ObjectID) ScanLevel {
	return s.scans[target]
}

// ContactTypeOf classifies target. Unscanned ships are Unknown.
func (s *Ship) ContactTypeOf(target *Ship) ContactType {
	if s.ScanLevelOf(target.ID) == ScanNone {
		return ContactUnknown
	}
	return s.Faction.ContactType(target.Faction)
}

// ChangeThrottle sets the throttle setpoint, clamped to [-100, 100].
func (s *Ship) ChangeThrottle(value int) {
	s.Throttle = physics.ClampInt(value, minThrottle, maxThrottle)
}

// ChangeRudder sets the rudder setpoint, clamped to [-100, 100].
func (s *Ship) ChangeRudder(value int) {
	s.Rudder = physics.ClampInt(value, minRudder, maxRudder)
}

// ChangeJumpDistance sets the jump distance as a ratio of the drive's range.
func (s *Ship) ChangeJumpDistance(ratio float64) {
	s.jump.ChangeDistance(ratio)
}

// StartJump starts the jump drive if it is ready.
func (s *Ship) StartJump() {
	s.jump.Start()
}

// AddWaypoint adds a waypoint in the lowest free slot.
func (s *Ship) AddWaypoint(position physics.Vector2D) int {
	return s.waypoints.Add(position)
}

// DeleteWaypoint removes a waypoint and any map selection of it.
func (s *Ship) DeleteWaypoint(index int) {
	if s.waypoints.Delete(index) && s.mapSelection.WaypointIndex == index {
		s.mapSelection = MapSelection{}
	}
}

// DeleteSelectedWaypoint removes the waypoint selected on the map.
func (s *Ship) DeleteSelectedWaypoint() {
	if s.mapSelection.WaypointIndex != 0 {
		s.DeleteWaypoint(s.mapSelection.WaypointIndex)
	}
}

// MapSelectWaypoint selects a waypoint. Unknown indices clear the selection.
func (s *Ship) MapSelectWaypoint(index int) {
	if _, ok := s.waypoints.Get(index); ok {
		s.mapSelection = MapSelection{WaypointIndex: index}
	} else {
		s.mapSelection = MapSelection{}
	}
}

// MapSelectShip selects a ship on the map.
func (s *Ship) MapSelectShip(id ObjectID) {
	s.mapSelection = MapSelection{ShipID: id}
}

// MapClearSelection clears the map selection.
func (s *Ship) MapClearSelection() {
	s.mapSelection = MapSelection{}
}

// StartScan begins scanning target. It is refused while a scan is running,
// for the ship itself and for targets already at the maximum scan level.
func (s *Ship) StartScan(target ObjectID) bool {
	if s.scan != nil || target == s.ID || target == "" || s.scans[target].IsMax() {
		return false
	}
	s.scan = &ScanHandler{TargetID: target}
	return true
}

// ScanSelectedShip scans the ship selected on the map.
func (s *Ship) ScanSelectedShip() bool {
	if s.mapSelection.ShipID == "" {
		return false
	}
	return s.StartScan(s.mapSelection.ShipID)
}

// LockTarget starts locking target. Re-issuing the current target keeps the
// progress; a different target restarts from zero.
func (s *Ship) LockTarget(target ObjectID) {
	if target == s.ID || target == "" {
		return
	}
	if s.lock != nil && s.lock.TargetID == target {
		return
	}
	s.lock = &LockHandler{TargetID: target}
}

// SetShieldsUp requests the shield raised or lowered.
func (s *Ship) SetShieldsUp(up bool) {
	s.shield.SetUp(up)
}

// SetPower sets the power level of system.
func (s *Ship) SetPower(system PoweredSystem, level int) {
	s.power.SetLevel(system, level)
}

// SetCoolant sets the coolant share of system.
func (s *Ship) SetCoolant(system PoweredSystem, coolant float64) {
	s.power.SetCoolant(system, coolant)
}

// StartRepair starts damage control on system.
func (s *Ship) StartRepair(system PoweredSystem) bool {
	return s.power.StartRepair(system)
}

// LaunchTube fires tube index if it is ready.
func (s *Ship) LaunchTube(index int) bool {
	if index < 0 || index >= len(s.tubes) {
		return false
	}
	return s.tubes[index].Launch()
}

// ReloadTube loads tube index from the magazine if it is empty.
func (s *Ship) ReloadTube(index int) bool {
	if index < 0 || index >= len(s.tubes) {
		return false
	}
	return s.tubes[index].Reload(&s.Magazine)
}

// TakeDamage applies amount to the shield first. Whatever overflows damages
// the hull and the targeted system.
func (s *Ship) TakeDamage(system PoweredSystem, amount float64) {
	hullDamage := s.shield.TakeDamage(amount)
	if hullDamage <= 0 {
		return
	}
	s.Hull -= hullDamage
	s.power.TakeDamage(system, hullDamage)
}

// TargetDestroyed drops every reference to a ship that no longer exists.
func (s *Ship) TargetDestroyed(id ObjectID) {
	if s.lock != nil && s.lock.TargetID == id {
		s.lock = nil
	}
	if s.scan != nil && s.scan.TargetID == id {
		s.scan = nil
	}
	if s.mapSelection.ShipID == id {
		s.mapSelection = MapSelection{}
	}
	delete(s.scans, id)
	if s.Controller != nil {
		s.Controller.TargetDestroyed(id)
	}
}
