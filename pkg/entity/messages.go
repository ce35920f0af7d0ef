package entity

import "github.com/opd-ai/go-starcruiser/pkg/physics"

// Outward-facing, immutable renderings of entity state. They are copied out
// of the game loop and may be serialized from any goroutine.

// PlayerShipMessage lists a crewable ship in ship selection
type PlayerShipMessage struct {
	ID        ObjectID `json:"id"`
	Name      string   `json:"name"`
	ShipClass string   `json:"shipClass"`
}

// ShipMessage is the full state of the ship a client is aboard
type ShipMessage struct {
	ID                   ObjectID             `json:"id"`
	Designation          string               `json:"designation"`
	ShipClass            string               `json:"shipClass"`
	Faction              string               `json:"faction"`
	Position             physics.Vector2D     `json:"position"`
	Speed                physics.Vector2D     `json:"speed"`
	Rotation             float64              `json:"rotation"`
	Heading              float64              `json:"heading"`
	Velocity             float64              `json:"velocity"`
	Throttle             int                  `json:"throttle"`
	Thrust               float64              `json:"thrust"`
	Rudder               int                  `json:"rudder"`
	Hull                 float64              `json:"hull"`
	HullMax              float64              `json:"hullMax"`
	History              []HistorySample      `json:"history"`
	ShortRangeScopeRange float64              `json:"shortRangeScopeRange"`
	SensorRange          float64              `json:"sensorRange"`
	Waypoints            []WaypointMessage    `json:"waypoints"`
	ScanProgress         *ScanProgress        `json:"scanProgress,omitempty"`
	LockProgress         LockProgress         `json:"lockProgress"`
	Beams                []BeamMessage        `json:"beams"`
	Tubes                []TubeMessage        `json:"tubes"`
	Magazine             int                  `json:"magazine"`
	Shield               ShieldMessage        `json:"shield"`
	JumpDrive            JumpDriveMessage     `json:"jumpDrive"`
	Power                PowerMessage         `json:"power"`
	MapSelection         *MapSelectionMessage `json:"mapSelection,omitempty"`
}

// ContactMessage is another ship as shown on navigation and main screen
type ContactMessage struct {
	ID               ObjectID         `json:"id"`
	Type             ContactType      `json:"type"`
	ScanLevel        ScanLevel        `json:"scanLevel"`
	Designation      string           `json:"designation"`
	Position         physics.Vector2D `json:"position"`
	RelativePosition physics.Vector2D `json:"relativePosition"`
	Speed            physics.Vector2D `json:"speed"`
	Rotation         float64          `json:"rotation"`
	Heading          float64          `json:"heading"`
	Bearing          float64          `json:"bearing"`
	Velocity         float64          `json:"velocity"`
	History          []HistorySample  `json:"history"`
	Locked           bool             `json:"locked"`
}

// ScopeContactMessage is another ship as shown on the short range scope
type ScopeContactMessage struct {
	ID               ObjectID         `json:"id"`
	Type             ContactType      `json:"type"`
	Designation      string           `json:"designation"`
	RelativePosition physics.Vector2D `json:"relativePosition"`
	Rotation         float64          `json:"rotation"`
	Locked           bool             `json:"locked"`
}

// AsteroidMessage is an asteroid relative to the viewing ship
type AsteroidMessage struct {
	ID               ObjectID         `json:"id"`
	Position         physics.Vector2D `json:"position"`
	RelativePosition physics.Vector2D `json:"relativePosition"`
	Rotation         float64          `json:"rotation"`
	Radius           float64          `json:"radius"`
}

// TorpedoMessage is a torpedo in flight relative to the viewing ship
type TorpedoMessage struct {
	ID               ObjectID         `json:"id"`
	RelativePosition physics.Vector2D `json:"relativePosition"`
	Rotation         float64          `json:"rotation"`
}

// WaypointMessage is a waypoint relative to its ship
type WaypointMessage struct {
	Index            int              `json:"index"`
	Name             string           `json:"name"`
	Position         physics.Vector2D `json:"position"`
	RelativePosition physics.Vector2D `json:"relativePosition"`
	Bearing          float64          `json:"bearing"`
}

// ScanProgress is the state of a running scan
type ScanProgress struct {
	TargetID    ObjectID `json:"targetId"`
	Designation string   `json:"designation"`
	Progress    float64  `json:"progress"`
}

// LockProgress is the state of the target lock
type LockProgress struct {
	Status   LockStatus `json:"status"`
	TargetID ObjectID   `json:"targetId,omitempty"`
	Progress float64    `json:"progress"`
}

// BeamMessage is the state of one beam mount
type BeamMessage struct {
	Position physics.Vector2D `json:"position"`
	MinRange float64          `json:"minRange"`
	MaxRange float64          `json:"maxRange"`
	LeftArc  float64          `json:"leftArc"`
	RightArc float64          `json:"rightArc"`
	Status   BeamStatus       `json:"status"`
	Progress float64          `json:"progress"`
}

// TubeMessage is the state of one launch tube
type TubeMessage struct {
	Position physics.Vector2D `json:"position"`
	Rotation float64          `json:"rotation"`
	Status   TubeStatus       `json:"status"`
	Progress float64          `json:"progress"`
}

// ShieldMessage is the state of the shield
type ShieldMessage struct {
	Radius    float64 `json:"radius"`
	Up        bool    `json:"up"`
	Activated bool    `json:"activated"`
	Strength  float64 `json:"strength"`
	Max       float64 `json:"max"`
}

// JumpDriveMessage is the state of the jump drive
type JumpDriveMessage struct {
	Status      JumpStatus `json:"status"`
	Progress    float64    `json:"progress"`
	Ratio       float64    `json:"ratio"`
	Distance    int        `json:"distance"`
	MinDistance int        `json:"minDistance"`
	MaxDistance int        `json:"maxDistance"`
}

// PoweredSystemMessage is the state of one powered system
type PoweredSystemMessage struct {
	Damage  float64 `json:"damage"`
	Level   int     `json:"level"`
	Heat    float64 `json:"heat"`
	Coolant float64 `json:"coolant"`
}

// RepairProgressMessage is the state of a running repair
type RepairProgressMessage struct {
	System   PoweredSystem `json:"system"`
	Progress float64       `json:"progress"`
}

// PowerMessage is the state of all powered systems
type PowerMessage struct {
	Settings  map[PoweredSystem]PoweredSystemMessage `json:"settings"`
	Repairing *RepairProgressMessage                 `json:"repairing,omitempty"`
}

// MapSelectionMessage describes the selected map object
type MapSelectionMessage struct {
	Label     string           `json:"label"`
	Position  physics.Vector2D `json:"position"`
	Bearing   float64          `json:"bearing"`
	Range     float64          `json:"range"`
	ShipID    ObjectID         `json:"shipId,omitempty"`
	Waypoint  int              `json:"waypoint,omitempty"`
	ScanLevel *ScanLevel       `json:"scanLevel,omitempty"`
	Hull      *float64         `json:"hull,omitempty"`
	Shield    *ShieldMessage   `json:"shield,omitempty"`
	CanScan   bool             `json:"canScan"`
	CanDelete bool             `json:"canDelete"`
}
