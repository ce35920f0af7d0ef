package engine

import (
	"fmt"

	"github.com/opd-ai/go-starcruiser/pkg/entity"
)

// Station is a bridge position a client can occupy
type Station int

const (
	Helm Station = iota
	Weapons
	Navigation
	Engineering
	MainScreen
)

var stationNames = []string{"Helm", "Weapons", "Navigation", "Engineering", "MainScreen"}

func (s Station) String() string {
	if s >= 0 && int(s) < len(stationNames) {
		return stationNames[s]
	}
	return fmt.Sprintf("Station(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Station) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Station) UnmarshalText(text []byte) error {
	parsed, err := ParseStation(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStation resolves a station by name.
func ParseStation(name string) (Station, error) {
	for i, n := range stationNames {
		if n == name {
			return Station(i), nil
		}
	}
	return 0, fmt.Errorf("unknown station %q", name)
}

// ClientStatus is where a client is in the join flow
type ClientStatus int

const (
	StatusShipSelection ClientStatus = iota
	StatusInShip
	StatusShipDestroyed
)

// ClientState is the state of one connected client. Ship and Station are
// only meaningful while aboard.
type ClientState struct {
	Status  ClientStatus
	Ship    entity.ObjectID
	Station Station
}

// Client is a connected bridge console
type Client struct {
	ID    entity.ObjectID
	State ClientState
}

func (c *Client) joinShip(ship entity.ObjectID, station Station) {
	c.State = ClientState{Status: StatusInShip, Ship: ship, Station: station}
}

// changeStation only applies while aboard.
func (c *Client) changeStation(station Station) {
	if c.State.Status == StatusInShip {
		c.State.Station = station
	}
}

func (c *Client) exitShip() {
	c.State = ClientState{Status: StatusShipSelection}
}

func (c *Client) shipDestroyed() {
	c.State = ClientState{Status: StatusShipDestroyed}
}

// aboard returns the ship the client crews, if any.
func (c *Client) aboard() (entity.ObjectID, bool) {
	if c.State.Status != StatusInShip {
		return "", false
	}
	return c.State.Ship, true
}
