package entity

import (
	"fmt"
	"sort"

	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// Waypoint is a numbered navigation marker owned by one ship
type Waypoint struct {
	Index    int
	Position physics.Vector2D
}

// Name returns the display name of the waypoint.
func (w Waypoint) Name() string {
	return fmt.Sprintf("WP%d", w.Index)
}

// toMessage renders the waypoint relative to origin.
func (w Waypoint) toMessage(origin physics.Vector2D) WaypointMessage {
	relative := w.Position.Sub(origin)
	return WaypointMessage{
		Index:            w.Index,
		Name:             w.Name(),
		Position:         w.Position.Round(2),
		RelativePosition: relative.Round(2),
		Bearing:          physics.Round(relative.Heading(), 2),
	}
}

// Waypoints keeps waypoints sorted by index with unique indices.
type Waypoints struct {
	items []Waypoint
}

// Add places a waypoint in the lowest free index slot and returns the index.
func (w *Waypoints) Add(position physics.Vector2D) int {
	used := make(map[int]bool, len(w.items))
	for _, wp := range w.items {
		used[wp.Index] = true
	}
	index := 1
	for used[index] {
		index++
	}
	w.items = append(w.items, Waypoint{Index: index, Position: position})
	sort.Slice(w.items, func(i, j int) bool { return w.items[i].Index < w.items[j].Index })
	return index
}

// Delete removes the waypoint with index. It reports whether one was removed.
func (w *Waypoints) Delete(index int) bool {
	for i, wp := range w.items {
		if wp.Index == index {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the waypoint with index.
func (w *Waypoints) Get(index int) (Waypoint, bool) {
	for _, wp := range w.items {
		if wp.Index == index {
			return wp, true
		}
	}
	return Waypoint{}, false
}

// All returns the waypoints in index order.
func (w *Waypoints) All() []Waypoint {
	return append([]Waypoint(nil), w.items...)
}

// Len returns the number of waypoints.
func (w *Waypoints) Len() int {
	return len(w.items)
}

const (
	historyLength   = 10
	historyInterval = 1.0
)

// HistorySample is a past position used for contact trails
type HistorySample struct {
	Time     float64          `json:"time"`
	Position physics.Vector2D `json:"position"`
}

// History is a bounded ring of position samples taken at least one second apart.
type History struct {
	samples []HistorySample
}

// Add records position unless the newest sample is less than a second old.
func (h *History) Add(time float64, position physics.Vector2D) {
	if n := len(h.samples); n > 0 && time-h.samples[n-1].Time < historyInterval {
		return
	}
	h.samples = append(h.samples, HistorySample{Time: time, Position: position})
	if len(h.samples) > historyLength {
		h.samples = h.samples[len(h.samples)-historyLength:]
	}
}

// Samples returns the samples from oldest to newest.
func (h *History) Samples() []HistorySample {
	return append([]HistorySample(nil), h.samples...)
}

// MapSelection is what a navigation crew has selected on the map.
// The zero value is no selection.
type MapSelection struct {
	ShipID        ObjectID
	WaypointIndex int
}

// IsEmpty reports whether nothing is selected.
func (m MapSelection) IsEmpty() bool {
	return m.ShipID == "" && m.WaypointIndex == 0
}
