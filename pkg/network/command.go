package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/physics"
	"github.com/opd-ai/go-starcruiser/pkg/validation"
)

// ErrUnknownCommand is returned for commands with an unrecognised type.
var ErrUnknownCommand = errors.New("unknown command")

// Command types accepted from clients
const (
	CommandAck                    = "ack"
	CommandTogglePause            = "togglePause"
	CommandSpawnShip              = "spawnShip"
	CommandSpawnNonPlayerShip     = "spawnNonPlayerShip"
	CommandJoinShip               = "joinShip"
	CommandChangeStation          = "changeStation"
	CommandExitShip               = "exitShip"
	CommandChangeThrottle         = "changeThrottle"
	CommandChangeRudder           = "changeRudder"
	CommandChangeJumpDistance     = "changeJumpDistance"
	CommandStartJump              = "startJump"
	CommandAddWaypoint            = "addWaypoint"
	CommandDeleteWaypoint         = "deleteWaypoint"
	CommandDeleteSelectedWaypoint = "deleteSelectedWaypoint"
	CommandMapSelectShip          = "mapSelectShip"
	CommandMapSelectWaypoint      = "mapSelectWaypoint"
	CommandMapClearSelection      = "mapClearSelection"
	CommandScanShip               = "scanShip"
	CommandScanSelectedShip       = "scanSelectedShip"
	CommandLockTarget             = "lockTarget"
	CommandSetShieldsUp           = "setShieldsUp"
	CommandSetPower               = "setPower"
	CommandSetCoolant             = "setCoolant"
	CommandStartRepair            = "startRepair"
	CommandLaunchTube             = "launchTube"
	CommandReloadTube             = "reloadTube"
)

// Command is a client frame. Only the fields its Type uses are read.
type Command struct {
	Type    string  `json:"type"`
	Counter uint64  `json:"counter,omitempty"`
	Value   float64 `json:"value,omitempty"`
	Index   int     `json:"index,omitempty"`
	Ship    string  `json:"ship,omitempty"`
	Target  string  `json:"target,omitempty"`
	Station string  `json:"station,omitempty"`
	System  string  `json:"system,omitempty"`
	Faction string  `json:"faction,omitempty"`
	Up      bool    `json:"up,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
}

// DecodeCommand parses a client frame.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decoding command: %w", err)
	}
	if cmd.Type == "" {
		return Command{}, fmt.Errorf("%w: missing type", ErrUnknownCommand)
	}
	return cmd, nil
}

// Message converts the command into the game message issued by client. Ack
// is handled by the session and has no game message.
func (c Command) Message(client entity.ObjectID) (engine.Message, error) {
	switch c.Type {
	case CommandTogglePause:
		return engine.TogglePause{}, nil
	case CommandSpawnShip:
		return engine.SpawnShip{}, nil
	case CommandSpawnNonPlayerShip:
		faction, ok := entity.FactionByName(c.Faction)
		if !ok {
			return nil, fmt.Errorf("%w: faction %q", validation.ErrInvalidField, c.Faction)
		}
		return engine.SpawnNonPlayerShip{Faction: faction}, nil
	case CommandJoinShip:
		station, err := c.station()
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateObjectID("ship", c.Ship); err != nil {
			return nil, err
		}
		return engine.JoinShip{Client: client, Ship: entity.ObjectID(c.Ship), Station: station}, nil
	case CommandChangeStation:
		station, err := c.station()
		if err != nil {
			return nil, err
		}
		return engine.ChangeStation{Client: client, Station: station}, nil
	case CommandExitShip:
		return engine.ExitShip{Client: client}, nil
	}
	return c.shipMessage(client)
}

func (c Command) shipMessage(client entity.ObjectID) (engine.Message, error) {
	switch c.Type {
	case CommandChangeThrottle, CommandChangeRudder:
		if err := validation.ValidateFinite("value", c.Value); err != nil {
			return nil, err
		}
		value := roundSetting(c.Value)
		if c.Type == CommandChangeThrottle {
			return engine.ChangeThrottle{Client: client, Value: value}, nil
		}
		return engine.ChangeRudder{Client: client, Value: value}, nil
	case CommandChangeJumpDistance:
		if err := validation.ValidateFinite("value", c.Value); err != nil {
			return nil, err
		}
		return engine.ChangeJumpDistance{Client: client, Value: c.Value}, nil
	case CommandStartJump:
		return engine.StartJump{Client: client}, nil
	case CommandAddWaypoint:
		if err := validation.ValidatePosition(c.X, c.Y); err != nil {
			return nil, err
		}
		return engine.AddWaypoint{Client: client, Position: physics.Vector2D{X: c.X, Y: c.Y}}, nil
	case CommandDeleteWaypoint:
		if err := validation.ValidateWaypointIndex(c.Index); err != nil {
			return nil, err
		}
		return engine.DeleteWaypoint{Client: client, Index: c.Index}, nil
	case CommandDeleteSelectedWaypoint:
		return engine.DeleteSelectedWaypoint{Client: client}, nil
	case CommandMapSelectWaypoint:
		if err := validation.ValidateWaypointIndex(c.Index); err != nil {
			return nil, err
		}
		return engine.MapSelectWaypoint{Client: client, Index: c.Index}, nil
	case CommandMapClearSelection:
		return engine.MapClearSelection{Client: client}, nil
	case CommandMapSelectShip, CommandScanShip, CommandLockTarget:
		if err := validation.ValidateObjectID("target", c.Target); err != nil {
			return nil, err
		}
		target := entity.ObjectID(c.Target)
		switch c.Type {
		case CommandMapSelectShip:
			return engine.MapSelectShip{Client: client, Target: target}, nil
		case CommandScanShip:
			return engine.ScanShip{Client: client, Target: target}, nil
		}
		return engine.LockTarget{Client: client, Target: target}, nil
	case CommandScanSelectedShip:
		return engine.ScanSelectedShip{Client: client}, nil
	case CommandSetShieldsUp:
		return engine.SetShieldsUp{Client: client, Up: c.Up}, nil
	case CommandSetPower, CommandSetCoolant, CommandStartRepair:
		system, err := entity.ParsePoweredSystem(c.System)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", validation.ErrInvalidField, err)
		}
		if err := validation.ValidateFinite("value", c.Value); err != nil {
			return nil, err
		}
		switch c.Type {
		case CommandSetPower:
			return engine.SetPower{Client: client, System: system, Level: roundSetting(c.Value)}, nil
		case CommandSetCoolant:
			return engine.SetCoolant{Client: client, System: system, Value: c.Value}, nil
		}
		return engine.StartRepair{Client: client, System: system}, nil
	case CommandLaunchTube, CommandReloadTube:
		if err := validation.ValidateMountIndex("tube", c.Index); err != nil {
			return nil, err
		}
		if c.Type == CommandLaunchTube {
			return engine.LaunchTube{Client: client, Index: c.Index}, nil
		}
		return engine.ReloadTube{Client: client, Index: c.Index}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, c.Type)
}

func (c Command) station() (engine.Station, error) {
	station, err := engine.ParseStation(c.Station)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", validation.ErrInvalidField, err)
	}
	return station, nil
}

// roundSetting turns a slider value into the integer the ship clamps.
func roundSetting(value float64) int {
	return int(math.Round(math.Max(-1000, math.Min(1000, value))))
}
