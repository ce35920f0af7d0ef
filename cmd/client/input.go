package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/network"
)

var errUsage = errors.New("usage")

const help = `commands:
  spawn | npc <faction> | join <n> <station> | station <name> | exit | pause
  throttle <v> | rudder <v> | jumpdist <v> | jump
  waypoint <x> <y> | delwaypoint <n> | select <n> | clear
  scan <n> | lock <n> | shields up|down
  power <system> <level> | coolant <system> <v> | repair <system>
  fire <tube> | reload <tube> | zoom <units per cell> | quit`

// parseInput turns a console line into a command. Ship and contact numbers
// refer to the lists in the last snapshot, starting at 1.
func parseInput(line string, last engine.Snapshot) (network.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return network.Command{}, errUsage
	}
	args := fields[1:]

	switch fields[0] {
	case "spawn":
		return network.Command{Type: network.CommandSpawnShip}, nil
	case "npc":
		if len(args) != 1 {
			return network.Command{}, errUsage
		}
		return network.Command{Type: network.CommandSpawnNonPlayerShip, Faction: args[0]}, nil
	case "join":
		if len(args) != 2 {
			return network.Command{}, errUsage
		}
		n, err := pick(args[0], len(last.PlayerShips))
		if err != nil {
			return network.Command{}, err
		}
		return network.Command{
			Type:    network.CommandJoinShip,
			Ship:    string(last.PlayerShips[n].ID),
			Station: args[1],
		}, nil
	case "station":
		if len(args) != 1 {
			return network.Command{}, errUsage
		}
		return network.Command{Type: network.CommandChangeStation, Station: args[0]}, nil
	case "exit":
		return network.Command{Type: network.CommandExitShip}, nil
	case "pause":
		return network.Command{Type: network.CommandTogglePause}, nil
	case "throttle", "rudder", "jumpdist":
		v, err := number(args)
		if err != nil {
			return network.Command{}, err
		}
		types := map[string]string{
			"throttle": network.CommandChangeThrottle,
			"rudder":   network.CommandChangeRudder,
			"jumpdist": network.CommandChangeJumpDistance,
		}
		return network.Command{Type: types[fields[0]], Value: v}, nil
	case "jump":
		return network.Command{Type: network.CommandStartJump}, nil
	case "waypoint":
		if len(args) != 2 {
			return network.Command{}, errUsage
		}
		x, errX := strconv.ParseFloat(args[0], 64)
		y, errY := strconv.ParseFloat(args[1], 64)
		if err := errors.Join(errX, errY); err != nil {
			return network.Command{}, err
		}
		return network.Command{Type: network.CommandAddWaypoint, X: x, Y: y}, nil
	case "delwaypoint", "select":
		v, err := number(args)
		if err != nil {
			return network.Command{}, err
		}
		typ := network.CommandDeleteWaypoint
		if fields[0] == "select" {
			typ = network.CommandMapSelectWaypoint
		}
		return network.Command{Type: typ, Index: int(v)}, nil
	case "clear":
		return network.Command{Type: network.CommandMapClearSelection}, nil
	case "scan", "lock":
		if len(args) != 1 {
			return network.Command{}, errUsage
		}
		ids := contactIDs(last)
		n, err := pick(args[0], len(ids))
		if err != nil {
			return network.Command{}, err
		}
		typ := network.CommandScanShip
		if fields[0] == "lock" {
			typ = network.CommandLockTarget
		}
		return network.Command{Type: typ, Target: string(ids[n])}, nil
	case "shields":
		if len(args) != 1 || (args[0] != "up" && args[0] != "down") {
			return network.Command{}, errUsage
		}
		return network.Command{Type: network.CommandSetShieldsUp, Up: args[0] == "up"}, nil
	case "power", "coolant":
		if len(args) != 2 {
			return network.Command{}, errUsage
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return network.Command{}, err
		}
		typ := network.CommandSetPower
		if fields[0] == "coolant" {
			typ = network.CommandSetCoolant
		}
		return network.Command{Type: typ, System: args[0], Value: v}, nil
	case "repair":
		if len(args) != 1 {
			return network.Command{}, errUsage
		}
		return network.Command{Type: network.CommandStartRepair, System: args[0]}, nil
	case "fire", "reload":
		v, err := number(args)
		if err != nil {
			return network.Command{}, err
		}
		typ := network.CommandLaunchTube
		if fields[0] == "reload" {
			typ = network.CommandReloadTube
		}
		return network.Command{Type: typ, Index: int(v)}, nil
	}
	return network.Command{}, fmt.Errorf("unknown command %q", fields[0])
}

func number(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	return strconv.ParseFloat(args[0], 64)
}

// pick converts a 1-based list number into an index.
func pick(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, err
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("no entry %d, %d listed", i, n)
	}
	return i - 1, nil
}

func contactIDs(s engine.Snapshot) []entity.ObjectID {
	var ids []entity.ObjectID
	for _, c := range s.ScopeContacts {
		ids = append(ids, c.ID)
	}
	for _, c := range s.Contacts {
		ids = append(ids, c.ID)
	}
	return ids
}
