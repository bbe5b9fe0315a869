package entry

import (
	"fmt"

	"github.com/google/uuid"
)

// EntryID is a value object representing an entry's unique identifier
type EntryID struct {
	value uuid.UUID
}

// NewEntryID creates a new EntryID with a generated UUID
func NewEntryID() EntryID {
	return EntryID{value: uuid.New()}
}

// ParseEntryID creates an EntryID from an existing UUID string
func ParseEntryID(id string) (EntryID, error) {
	if id == "" {
		return EntryID{}, fmt.Errorf("entry id cannot be empty")
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return EntryID{}, fmt.Errorf("invalid entry id format: %w", err)
	}
	if parsed == uuid.Nil {
		return EntryID{}, fmt.Errorf("entry id cannot be the nil UUID")
	}

	return EntryID{value: parsed}, nil
}

// MustParseEntryID parses an EntryID, panicking if invalid.
// Use this only for ids that were already validated (e.g., read back from the database)
func MustParseEntryID(id string) EntryID {
	eid, err := ParseEntryID(id)
	if err != nil {
		panic(err)
	}
	return eid
}

// UUID returns the underlying UUID
func (e EntryID) UUID() uuid.UUID {
	return e.value
}

// String returns the canonical string form of the EntryID
func (e EntryID) String() string {
	if e.IsZero() {
		return ""
	}
	return e.value.String()
}

// Equals checks if two EntryIDs are equal
func (e EntryID) Equals(other EntryID) bool {
	return e.value == other.value
}

// IsZero checks if the EntryID is the zero value (uninitialized)
func (e EntryID) IsZero() bool {
	return e.value == uuid.Nil
}
