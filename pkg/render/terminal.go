// Package render draws station snapshots as ASCII for terminal clients.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// Screen symbols
const (
	SymbolOwnShip  = '@'
	SymbolAsteroid = 'o'
	SymbolTorpedo  = '.'
)

var contactSymbols = map[entity.ContactType]rune{
	entity.ContactUnknown:  '?',
	entity.ContactFriendly: 'F',
	entity.ContactEnemy:    'E',
	entity.ContactNeutral:  'N',
}

// TerminalRenderer draws the surroundings of the viewing ship on a
// character grid. The viewing ship is always at the centre and north is up.
type TerminalRenderer struct {
	width  int
	height int
	buffer [][]rune
	scale  float64
	out    io.Writer
}

// NewTerminalRenderer creates a renderer of width by height cells where one
// cell covers scale world units.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}
	return &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    out,
	}
}

// SetScale changes the world units per cell.
func (r *TerminalRenderer) SetScale(scale float64) {
	if scale > 0 {
		r.scale = scale
	}
}

// relativeToScreen maps a position relative to the viewing ship to a cell.
func (r *TerminalRenderer) relativeToScreen(rel physics.Vector2D) (int, int) {
	x := int(math.Floor(rel.X/r.scale + float64(r.width)/2))
	y := int(math.Floor(float64(r.height)/2 - rel.Y/r.scale))
	return x, y
}

func (r *TerminalRenderer) plot(rel physics.Vector2D, symbol rune) {
	x, y := r.relativeToScreen(rel)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear blanks the grid.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Render draws s and writes it out.
func (r *TerminalRenderer) Render(s engine.Snapshot) error {
	r.Clear()
	var b strings.Builder

	switch {
	case s.Type == engine.SnapshotShipSelection:
		b.WriteString("SHIP SELECTION\n")
		if len(s.PlayerShips) == 0 {
			b.WriteString("  no ships, type 'spawn' to create one\n")
		}
		for i, ship := range s.PlayerShips {
			fmt.Fprintf(&b, "  [%d] %s (%s)\n", i+1, ship.Name, ship.ShipClass)
		}
	case s.Type == engine.SnapshotShipDestroyed:
		b.WriteString("SHIP DESTROYED, type 'exit' to return to ship selection\n")
	case s.Ship != nil:
		r.drawScene(s)
		r.writeGrid(&b)
		writeStatus(&b, s)
	}
	if s.Paused {
		b.WriteString("-- PAUSED --\n")
	}

	_, err := io.WriteString(r.out, "\033[H\033[2J"+b.String())
	return err
}

func (r *TerminalRenderer) drawScene(s engine.Snapshot) {
	for _, w := range s.Ship.Waypoints {
		if w.Index < 10 {
			r.plot(w.RelativePosition, rune('0'+w.Index))
		}
	}
	for _, a := range s.Asteroids {
		r.plot(a.RelativePosition, SymbolAsteroid)
	}
	for _, t := range s.Torpedoes {
		r.plot(t.RelativePosition, SymbolTorpedo)
	}
	for _, c := range s.Contacts {
		r.plot(c.RelativePosition, contactSymbols[c.Type])
	}
	for _, c := range s.ScopeContacts {
		r.plot(c.RelativePosition, contactSymbols[c.Type])
	}
	r.plot(physics.Vector2D{}, SymbolOwnShip)
}

func (r *TerminalRenderer) writeGrid(b *strings.Builder) {
	border := "+" + strings.Repeat("-", r.width) + "+\n"
	b.WriteString(border)
	for _, row := range r.buffer {
		b.WriteString("|")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}
	b.WriteString(border)
}

func writeStatus(b *strings.Builder, s engine.Snapshot) {
	ship := s.Ship
	fmt.Fprintf(b, "%s  %s %s  station %s\n", ship.Designation, ship.Faction, ship.ShipClass, s.Type)
	fmt.Fprintf(b, "hull %.0f/%.0f  shield %.0f/%.0f %s  heading %03.0f  speed %.1f\n",
		ship.Hull, ship.HullMax, ship.Shield.Strength, ship.Shield.Max, upDown(ship.Shield.Up),
		ship.Heading, ship.Velocity)
	fmt.Fprintf(b, "throttle %d  rudder %d  jump %s %d  magazine %d\n",
		ship.Throttle, ship.Rudder, ship.JumpDrive.Status, ship.JumpDrive.Distance, ship.Magazine)
	if ship.LockProgress.Status != entity.LockNone {
		fmt.Fprintf(b, "lock %s\n", ship.LockProgress.Status)
	}
	if ship.ScanProgress != nil {
		fmt.Fprintf(b, "scanning %s %.0f%%\n", ship.ScanProgress.Designation, ship.ScanProgress.Progress*100)
	}
}

func upDown(up bool) string {
	if up {
		return "up"
	}
	return "down"
}
