// Package validation checks client frames and command fields before they
// are turned into game messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Limits on command fields
const (
	MaxCoordinate = 1_000_000
	MaxMountIndex = 15
	MaxWaypoint   = 1000

	idleClientPeriod = time.Minute
)

// Sentinel errors; returned errors wrap one of them.
var (
	ErrMessageTooLarge = errors.New("message too large")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrRateLimited     = errors.New("rate limit exceeded")
	ErrInvalidField    = errors.New("invalid field")
)

// MessageValidator checks raw frames for size, encoding and rate
type MessageValidator struct {
	maxSize     int64
	rateLimiter *RateLimiter
}

// NewMessageValidator creates a validator accepting frames of up to maxSize
// bytes and perSecond frames per client with the given burst.
func NewMessageValidator(maxSize int64, perSecond float64, burst int) *MessageValidator {
	return &MessageValidator{
		maxSize:     maxSize,
		rateLimiter: NewRateLimiter(perSecond, burst, idleClientPeriod),
	}
}

// Close releases resources used by the message validator
func (v *MessageValidator) Close() {
	v.rateLimiter.Close()
}

// Forget drops the rate limiting state of a disconnected client.
func (v *MessageValidator) Forget(clientID string) {
	v.rateLimiter.Forget(clientID)
}

// ValidateMessage validates a raw frame from clientID.
func (v *MessageValidator) ValidateMessage(data []byte, clientID string) error {
	if err := v.ValidateFrame(data); err != nil {
		return err
	}
	return v.Allow(clientID)
}

// ValidateFrame checks size and encoding without spending rate budget.
func (v *MessageValidator) ValidateFrame(data []byte) error {
	if int64(len(data)) > v.maxSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLarge, len(data), v.maxSize)
	}
	if !utf8.Valid(data) || !json.Valid(data) {
		return ErrInvalidJSON
	}
	return nil
}

// Allow spends one token of clientID's rate budget.
func (v *MessageValidator) Allow(clientID string) error {
	if !v.rateLimiter.Allow(clientID) {
		return ErrRateLimited
	}
	return nil
}

// ValidateObjectID checks that id is a well formed entity identifier.
func ValidateObjectID(field, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidField, field)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s %q is not an id", ErrInvalidField, field, id)
	}
	return nil
}

// ValidateMountIndex checks a beam or tube index.
func ValidateMountIndex(field string, index int) error {
	if index < 0 || index > MaxMountIndex {
		return fmt.Errorf("%w: %s %d (must be 0-%d)", ErrInvalidField, field, index, MaxMountIndex)
	}
	return nil
}

// ValidateWaypointIndex checks a waypoint index; waypoints are numbered from 1.
func ValidateWaypointIndex(index int) error {
	if index < 1 || index > MaxWaypoint {
		return fmt.Errorf("%w: waypoint %d (must be 1-%d)", ErrInvalidField, index, MaxWaypoint)
	}
	return nil
}

// ValidatePosition checks that a map position is finite and inside the
// playable area.
func ValidatePosition(x, y float64) error {
	for _, c := range []float64{x, y} {
		if math.IsNaN(c) || math.IsInf(c, 0) || math.Abs(c) > MaxCoordinate {
			return fmt.Errorf("%w: position (%g, %g) out of range", ErrInvalidField, x, y)
		}
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s is not a number", ErrInvalidField, field)
	}
	return nil
}
