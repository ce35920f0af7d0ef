package entity

import (
	"fmt"
	"slices"
)

// Faction groups ships; Enemies lists the names of hostile factions.
type Faction struct {
	Name    string
	Enemies []string
}

// Built-in factions
var (
	PlayerFaction  = &Faction{Name: "Player", Enemies: []string{"Enemy"}}
	EnemyFaction   = &Faction{Name: "Enemy", Enemies: []string{"Player"}}
	NeutralFaction = &Faction{Name: "Neutral"}
)

// FactionByName returns one of the built-in factions.
func FactionByName(name string) (*Faction, bool) {
	for _, f := range []*Faction{PlayerFaction, EnemyFaction, NeutralFaction} {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// IsEnemy reports whether other is hostile to f.
func (f *Faction) IsEnemy(other *Faction) bool {
	if f == nil || other == nil {
		return false
	}
	return slices.Contains(f.Enemies, other.Name)
}

// ContactType classifies a ship of faction other as seen from f.
func (f *Faction) ContactType(other *Faction) ContactType {
	switch {
	case f == nil || other == nil:
		return ContactUnknown
	case f.Name == other.Name:
		return ContactFriendly
	case f.IsEnemy(other):
		return ContactEnemy
	default:
		return ContactNeutral
	}
}

// ContactType is the identification of a contact shown to a crew
type ContactType int

const (
	ContactUnknown ContactType = iota
	ContactFriendly
	ContactEnemy
	ContactNeutral
)

var contactTypeNames = []string{"Unknown", "Friendly", "Enemy", "Neutral"}

func (c ContactType) String() string {
	if int(c) < len(contactTypeNames) {
		return contactTypeNames[c]
	}
	return fmt.Sprintf("ContactType(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c ContactType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ContactType) UnmarshalText(text []byte) error {
	i, err := parseName("contact type", contactTypeNames, text)
	*c = ContactType(i)
	return err
}

// ScanLevel is the per-target fidelity unlocked by completed scans
type ScanLevel int

const (
	ScanNone ScanLevel = iota
	ScanBasic
	ScanDetailed
)

var scanLevelNames = []string{"None", "Basic", "Detailed"}

// Next returns the following scan level, saturating at ScanDetailed.
func (s ScanLevel) Next() ScanLevel {
	if s >= ScanDetailed {
		return ScanDetailed
	}
	return s + 1
}

// IsMax reports whether no further scans can raise the level.
func (s ScanLevel) IsMax() bool {
	return s >= ScanDetailed
}

func (s ScanLevel) String() string {
	if int(s) < len(scanLevelNames) {
		return scanLevelNames[s]
	}
	return fmt.Sprintf("ScanLevel(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ScanLevel) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ScanLevel) UnmarshalText(text []byte) error {
	i, err := parseName("scan level", scanLevelNames, text)
	*s = ScanLevel(i)
	return err
}
