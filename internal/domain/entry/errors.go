package entry

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound is returned by repositories when no entry matches the id
var ErrEntryNotFound = errors.New("entry not found")

// ErrInvalidEntry represents validation errors for entries
type ErrInvalidEntry struct {
	Field  string
	Reason string
}

func (e *ErrInvalidEntry) Error() string {
	return fmt.Sprintf("invalid entry: %s - %s", e.Field, e.Reason)
}
