package core

import (
	"github.com/google/uuid"
)

// RunID identifies one batch invocation in logs and summaries.
type RunID string

// NewRunID creates a time-ordered identifier using UUID v7,
// falling back to v4 when v7 generation fails.
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

// String returns the string representation
func (id RunID) String() string {
	return string(id)
}

// Short returns the trailing segment of the identifier, enough to
// tell runs apart in a terminal without the full UUID.
func (id RunID) Short() string {
	s := string(id)
	if len(s) <= 12 {
		return s
	}
	return s[len(s)-12:]
}

// IsEmpty checks if the ID is empty
func (id RunID) IsEmpty() bool {
	return id == ""
}
