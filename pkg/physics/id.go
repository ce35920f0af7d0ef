package physics

import "github.com/google/uuid"

// ObjectID identifies every simulated object and doubles as its body handle
// in the Engine. IDs are random and never reused.
type ObjectID string

// NewObjectID returns a fresh random ObjectID.
func NewObjectID() ObjectID {
	return ObjectID(uuid.NewString())
}

// String implements fmt.Stringer.
func (id ObjectID) String() string {
	return string(id)
}
