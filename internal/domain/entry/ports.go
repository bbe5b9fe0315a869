package entry

import "context"

// EntryRepository defines persistence operations for entries
type EntryRepository interface {
	// Create persists a new entry
	Create(ctx context.Context, entry *Entry) error

	// FindByID retrieves an entry by its ID, returning ErrEntryNotFound when absent
	FindByID(ctx context.Context, id EntryID) (*Entry, error)

	// List retrieves entries matching the options
	List(ctx context.Context, opts ListOptions) ([]*Entry, error)

	// Update overwrites every field of an existing entry and returns the rows affected
	Update(ctx context.Context, entry *Entry) (int64, error)

	// Delete removes an entry and returns the rows affected (0 when it did not exist)
	Delete(ctx context.Context, id EntryID) (int64, error)
}

// ListOptions defines filtering and pagination options for entry queries
type ListOptions struct {
	// ID restricts the listing to a single entry
	ID *EntryID

	// Pagination; Limit 0 means no limit
	Limit  int
	Offset int
}

// DefaultListOptions returns options listing every entry, newest first
func DefaultListOptions() ListOptions {
	return ListOptions{}
}
