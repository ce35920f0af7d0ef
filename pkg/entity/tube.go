package entity

import "github.com/opd-ai/go-starcruiser/pkg/physics"

// TubeStatus is the state of a launch tube
type TubeStatus int

const (
	TubeEmpty TubeStatus = iota
	TubeReloading
	TubeReady
)

var tubeStatusNames = []string{"Empty", "Reloading", "Ready"}

func (s TubeStatus) String() string {
	if s >= 0 && int(s) < len(tubeStatusNames) {
		return tubeStatusNames[s]
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s TubeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TubeStatus) UnmarshalText(text []byte) error {
	i, err := parseName("tube status", tubeStatusNames, text)
	*s = TubeStatus(i)
	return err
}

// TubeHandler runs the reload/launch cycle of one launch tube
type TubeHandler struct {
	tube       LaunchTube
	status     TubeStatus
	progress   float64
	newTorpedo bool
}

// NewTubeHandler creates an empty tube.
func NewTubeHandler(tube LaunchTube) *TubeHandler {
	return &TubeHandler{tube: tube}
}

// Status returns the tube state and reload progress.
func (h *TubeHandler) Status() (TubeStatus, float64) {
	return h.status, h.progress
}

// Update advances reloading, scaled by boost.
func (h *TubeHandler) Update(t *GameTime, boost float64) {
	if h.status != TubeReloading {
		return
	}
	h.progress = physics.Clamp(h.progress+t.Delta*h.tube.ReloadSpeed*boost, 0, 1)
	if h.progress >= 1 {
		h.status, h.progress = TubeReady, 0
	}
}

// Reload loads a torpedo from the magazine into an empty tube.
func (h *TubeHandler) Reload(magazine *int) bool {
	if h.status != TubeEmpty || *magazine <= 0 {
		return false
	}
	*magazine--
	h.status, h.progress = TubeReloading, 0
	return true
}

// Launch fires a ready tube.
func (h *TubeHandler) Launch() bool {
	if h.status != TubeReady {
		return false
	}
	h.status = TubeEmpty
	h.newTorpedo = true
	return true
}

// takeLaunch reports and clears a pending launch.
func (h *TubeHandler) takeLaunch() bool {
	launched := h.newTorpedo
	h.newTorpedo = false
	return launched
}

// ToMessage renders the tube state.
func (h *TubeHandler) ToMessage() TubeMessage {
	return TubeMessage{
		Position: h.tube.Position,
		Rotation: h.tube.Rotation,
		Status:   h.status,
		Progress: physics.Round(h.progress, 2),
	}
}
