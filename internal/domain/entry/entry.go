package entry

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 500
)

// Entry is the aggregate root representing a single ledger entry
type Entry struct {
	id          EntryID
	title       string
	amount      decimal.Decimal
	description string
	date        time.Time
}

// NewEntry creates a new entry with validation
func NewEntry(id EntryID, title string, amount decimal.Decimal, description string, date time.Time) (*Entry, error) {
	if id.IsZero() {
		return nil, &ErrInvalidEntry{Field: "id", Reason: "id cannot be empty"}
	}

	e := &Entry{
		id:          id,
		title:       title,
		amount:      amount,
		description: description,
		date:        date.UTC(),
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// ReconstructEntry reconstructs an entry from persistence without validation
func ReconstructEntry(id EntryID, title string, amount decimal.Decimal, description string, date time.Time) *Entry {
	return &Entry{
		id:          id,
		title:       title,
		amount:      amount,
		description: description,
		date:        date.UTC(),
	}
}

// Validate checks that the entry satisfies all invariants
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.title) == "" {
		return &ErrInvalidEntry{Field: "title", Reason: "title cannot be empty"}
	}
	if n := utf8.RuneCountInString(e.title); n > MaxTitleLength {
		return &ErrInvalidEntry{
			Field:  "title",
			Reason: fmt.Sprintf("title must be at most %d characters, got %d", MaxTitleLength, n),
		}
	}

	if !e.amount.IsPositive() {
		return &ErrInvalidEntry{Field: "amount", Reason: "amount must be greater than 0"}
	}

	if n := utf8.RuneCountInString(e.description); n > MaxDescriptionLength {
		return &ErrInvalidEntry{
			Field:  "description",
			Reason: fmt.Sprintf("description must be at most %d characters, got %d", MaxDescriptionLength, n),
		}
	}

	return nil
}

// EntryPatch holds the optional fields of a partial update. Nil fields keep their current value.
type EntryPatch struct {
	Title       *string
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// IsEmpty reports whether the patch changes nothing
func (p EntryPatch) IsEmpty() bool {
	return p.Title == nil && p.Amount == nil && p.Description == nil && p.Date == nil
}

// Apply returns a validated copy of the entry with the patch applied. The receiver is not modified.
func (e *Entry) Apply(p EntryPatch) (*Entry, error) {
	updated := *e

	if p.Title != nil {
		updated.title = *p.Title
	}
	if p.Amount != nil {
		updated.amount = *p.Amount
	}
	if p.Description != nil {
		updated.description = *p.Description
	}
	if p.Date != nil {
		updated.date = p.Date.UTC()
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Getters

func (e *Entry) ID() EntryID {
	return e.id
}

func (e *Entry) Title() string {
	return e.title
}

func (e *Entry) Amount() decimal.Decimal {
	return e.amount
}

func (e *Entry) Description() string {
	return e.description
}

func (e *Entry) Date() time.Time {
	return e.date
}

// String provides a human-readable representation
func (e *Entry) String() string {
	return fmt.Sprintf("Entry[%s, title=%q, amount=%s, date=%s]",
		e.id, e.title, e.amount.String(), e.date.Format(time.RFC3339))
}
