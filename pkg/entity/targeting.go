package entity

import "github.com/opd-ai/go-starcruiser/pkg/physics"

// ScanHandler tracks the progress of one scan. It is discarded once the
// scan completes.
type ScanHandler struct {
	TargetID ObjectID
	progress float64
}

// Progress returns the scan progress in [0, 1].
func (s *ScanHandler) Progress() float64 {
	return s.progress
}

// Update advances the scan and reports whether it completed.
func (s *ScanHandler) Update(t *GameTime, speed, boost float64) bool {
	s.progress = physics.Clamp(s.progress+t.Delta*speed*boost, 0, 1)
	return s.progress >= 1
}

// LockStatus is the state of a lock
type LockStatus int

const (
	LockNone LockStatus = iota
	LockInProgress
	Locked
)

var lockStatusNames = []string{"NoLock", "InProgress", "Locked"}

func (l LockStatus) String() string {
	if l >= 0 && int(l) < len(lockStatusNames) {
		return lockStatusNames[l]
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (l LockStatus) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LockStatus) UnmarshalText(text []byte) error {
	i, err := parseName("lock status", lockStatusNames, text)
	*l = LockStatus(i)
	return err
}

// LockHandler tracks the progress of a target lock. Once locked it stays
// locked until the target changes or disappears.
type LockHandler struct {
	TargetID ObjectID
	progress float64
}

// Progress returns the lock progress in [0, 1].
func (l *LockHandler) Progress() float64 {
	return l.progress
}

// Locked reports whether the lock is complete.
func (l *LockHandler) Locked() bool {
	return l.progress >= 1
}

// Update advances the lock unless it is already complete.
func (l *LockHandler) Update(t *GameTime, speed, boost float64) {
	if l.Locked() {
		return
	}
	l.progress = physics.Clamp(l.progress+t.Delta*speed*boost, 0, 1)
}

// Status returns the lock status.
func (l *LockHandler) Status() LockStatus {
	switch {
	case l == nil:
		return LockNone
	case l.Locked():
		return Locked
	default:
		return LockInProgress
	}
}
