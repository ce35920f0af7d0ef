package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// PoweredSystem identifies a ship system that draws power and can be damaged
type PoweredSystem int

const (
	Reactor PoweredSystem = iota
	Impulse
	Maneuver
	Sensors
	Shields
	Weapons
	Jump
)

// PoweredSystems lists every powered system in display order.
var PoweredSystems = []PoweredSystem{Reactor, Impulse, Maneuver, Sensors, Shields, Weapons, Jump}

var poweredSystemNames = []string{"Reactor", "Impulse", "Maneuver", "Sensors", "Shields", "Weapons", "Jump"}

const (
	nominalPowerLevel = 100
	maxPowerLevel     = 200
)

func (p PoweredSystem) String() string {
	if p >= 0 && int(p) < len(poweredSystemNames) {
		return poweredSystemNames[p]
	}
	return fmt.Sprintf("PoweredSystem(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p PoweredSystem) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PoweredSystem) UnmarshalText(text []byte) error {
	parsed, err := ParsePoweredSystem(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePoweredSystem resolves a system by name.
func ParsePoweredSystem(name string) (PoweredSystem, error) {
	for i, n := range poweredSystemNames {
		if n == name {
			return PoweredSystem(i), nil
		}
	}
	return 0, fmt.Errorf("unknown powered system %q", name)
}

// RandomPoweredSystem picks the system hit by incoming fire.
func RandomPoweredSystem() PoweredSystem {
	return PoweredSystems[rand.IntN(len(PoweredSystems))]
}

type poweredSystem struct {
	level   int
	damage  float64
	heat    float64
	coolant float64
}

type repairJob struct {
	system   PoweredSystem
	progress float64
}

// PowerHandler tracks power level, heat, coolant and damage per system and
// runs damage control. The reactor's level is fixed; its damage reduces the
// output of every other system.
type PowerHandler struct {
	template *ShipTemplate
	systems  map[PoweredSystem]*poweredSystem
	repair   *repairJob
}

// NewPowerHandler creates a handler with all systems at nominal power.
func NewPowerHandler(template *ShipTemplate) *PowerHandler {
	systems := make(map[PoweredSystem]*poweredSystem, len(PoweredSystems))
	for _, s := range PoweredSystems {
		systems[s] = &poweredSystem{level: nominalPowerLevel}
	}
	return &PowerHandler{template: template, systems: systems}
}

// Update runs heat transfer, overheat damage and repair progress.
func (p *PowerHandler) Update(t *GameTime) {
	for _, s := range p.systems {
		load := float64(s.level-nominalPowerLevel)/nominalPowerLevel - s.coolant*p.template.CoolingRate
		s.heat = physics.Clamp(s.heat+t.Delta*p.template.HeatBuildup*load, 0, 1)
		if s.heat >= 1 {
			s.damage = physics.Clamp(s.damage+t.Delta*p.template.OverheatDamage, 0, 1)
		}
	}
	p.updateRepair(t)
}

func (p *PowerHandler) updateRepair(t *GameTime) {
	if p.repair == nil {
		return
	}
	p.repair.progress = physics.Clamp(p.repair.progress+t.Delta*p.template.RepairSpeed, 0, 1)
	if p.repair.progress < 1 {
		return
	}
	s := p.systems[p.repair.system]
	s.damage = physics.Clamp(s.damage-p.template.RepairAmount, 0, 1)
	p.repair = nil
}

// BoostLevel is the rate multiplier for system: level/100 × (1 − damage),
// further reduced by reactor damage.
func (p *PowerHandler) BoostLevel(system PoweredSystem) float64 {
	s, ok := p.systems[system]
	if !ok {
		return 0
	}
	boost := float64(s.level) / nominalPowerLevel * (1 - s.damage)
	if system != Reactor {
		boost *= 1 - p.systems[Reactor].damage
	}
	return boost
}

// Level returns the power level of system.
func (p *PowerHandler) Level(system PoweredSystem) int {
	if s, ok := p.systems[system]; ok {
		return s.level
	}
	return 0
}

// Damage returns the damage of system in [0, 1].
func (p *PowerHandler) Damage(system PoweredSystem) float64 {
	if s, ok := p.systems[system]; ok {
		return s.damage
	}
	return 0
}

// Heat returns the heat of system in [0, 1].
func (p *PowerHandler) Heat(system PoweredSystem) float64 {
	if s, ok := p.systems[system]; ok {
		return s.heat
	}
	return 0
}

// Coolant returns the coolant share assigned to system.
func (p *PowerHandler) Coolant(system PoweredSystem) float64 {
	if s, ok := p.systems[system]; ok {
		return s.coolant
	}
	return 0
}

// SetLevel sets the power level of system, clamped to [0, 200].
func (p *PowerHandler) SetLevel(system PoweredSystem, level int) {
	s, ok := p.systems[system]
	if !ok || system == Reactor {
		return
	}
	s.level = physics.ClampInt(level, 0, maxPowerLevel)
}

// SetCoolant assigns coolant to system, clamped to [0, 1] and to what the
// other systems leave of the ship's coolant capacity.
func (p *PowerHandler) SetCoolant(system PoweredSystem, coolant float64) {
	s, ok := p.systems[system]
	if !ok {
		return
	}
	used := 0.0
	for other, o := range p.systems {
		if other != system {
			used += o.coolant
		}
	}
	available := max(0, p.template.MaxCoolant-used)
	s.coolant = physics.Clamp(coolant, 0, min(1, available))
}

// TakeDamage adds hull-equivalent damage to system.
func (p *PowerHandler) TakeDamage(system PoweredSystem, amount float64) {
	s, ok := p.systems[system]
	if !ok || amount <= 0 || p.template.PoweredSystemDamageCapacity <= 0 {
		return
	}
	s.damage = physics.Clamp(s.damage+amount/p.template.PoweredSystemDamageCapacity, 0, 1)
}

// StartRepair begins repairing system. It is rejected while another repair
// is running or when the system is undamaged.
func (p *PowerHandler) StartRepair(system PoweredSystem) bool {
	s, ok := p.systems[system]
	if !ok || p.repair != nil || s.damage <= 0 {
		return false
	}
	p.repair = &repairJob{system: system}
	return true
}

// Repairing returns the system under repair, if any.
func (p *PowerHandler) Repairing() (PoweredSystem, float64, bool) {
	if p.repair == nil {
		return 0, 0, false
	}
	return p.repair.system, p.repair.progress, true
}

// MostDamaged returns the system with the highest damage, if any is damaged.
func (p *PowerHandler) MostDamaged() (PoweredSystem, bool) {
	var (
		worst  PoweredSystem
		damage float64
	)
	for _, system := range PoweredSystems {
		if d := p.systems[system].damage; d > damage {
			worst, damage = system, d
		}
	}
	return worst, damage > 0
}

// ToMessage renders the power settings.
func (p *PowerHandler) ToMessage() PowerMessage {
	settings := make(map[PoweredSystem]PoweredSystemMessage, len(p.systems))
	for system, s := range p.systems {
		settings[system] = PoweredSystemMessage{
			Damage:  physics.Round(s.damage, 2),
			Level:   s.level,
			Heat:    physics.Round(s.heat, 2),
			Coolant: physics.Round(s.coolant, 2),
		}
	}
	msg := PowerMessage{Settings: settings}
	if p.repair != nil {
		msg.Repairing = &RepairProgressMessage{
			System:   p.repair.system,
			Progress: physics.Round(p.repair.progress, 2),
		}
	}
	return msg
}
