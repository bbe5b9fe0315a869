package entry_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/entries-go/internal/domain/entry"
)

var fixedDate = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewEntry_Valid(t *testing.T) {
	// Arrange
	id := entry.NewEntryID()

	// Act
	e, err := entry.NewEntry(id, "Groceries", decimal.RequireFromString("42.50"), "weekly shop", fixedDate)

	// Assert
	require.NoError(t, err)
	assert.True(t, e.ID().Equals(id))
	assert.Equal(t, "Groceries", e.Title())
	assert.True(t, decimal.RequireFromString("42.5").Equal(e.Amount()))
	assert.Equal(t, "weekly shop", e.Description())
	assert.Equal(t, fixedDate, e.Date())
}

func TestNewEntry_Invariants(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		amount      string
		description string
		field       string
	}{
		{"empty title", "", "1", "", "title"},
		{"blank title", "   ", "1", "", "title"},
		{"title too long", strings.Repeat("a", 51), "1", "", "title"},
		{"zero amount", "Rent", "0", "", "amount"},
		{"negative amount", "Rent", "-3", "", "amount"},
		{"description too long", "Rent", "1", strings.Repeat("d", 501), "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entry.NewEntry(entry.NewEntryID(), tt.title, decimal.RequireFromString(tt.amount), tt.description, fixedDate)

			var invalid *entry.ErrInvalidEntry
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestNewEntry_BoundaryLengthsAccepted(t *testing.T) {
	_, err := entry.NewEntry(entry.NewEntryID(), strings.Repeat("é", 50), decimal.NewFromInt(1), strings.Repeat("d", 500), fixedDate)

	assert.NoError(t, err)
}

func TestEntry_ApplyPatch(t *testing.T) {
	// Arrange
	original, err := entry.NewEntry(entry.NewEntryID(), "Coffee", decimal.NewFromInt(3), "", fixedDate)
	require.NoError(t, err)
	title := "Espresso"
	later := fixedDate.Add(time.Hour)

	// Act
	updated, err := original.Apply(entry.EntryPatch{Title: &title, Date: &later})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Espresso", updated.Title())
	assert.True(t, decimal.NewFromInt(3).Equal(updated.Amount()))
	assert.Equal(t, later, updated.Date())
	assert.Equal(t, "Coffee", original.Title())
}

func TestEntry_ApplyRejectsInvalidPatch(t *testing.T) {
	original, err := entry.NewEntry(entry.NewEntryID(), "Coffee", decimal.NewFromInt(3), "", fixedDate)
	require.NoError(t, err)
	negative := decimal.NewFromInt(-1)

	_, err = original.Apply(entry.EntryPatch{Amount: &negative})

	assert.Error(t, err)
}

func TestEntryPatch_IsEmpty(t *testing.T) {
	desc := ""

	assert.True(t, entry.EntryPatch{}.IsEmpty())
	assert.False(t, entry.EntryPatch{Description: &desc}.IsEmpty())
}

func TestParseEntryID(t *testing.T) {
	id := entry.NewEntryID()

	parsed, err := entry.ParseEntryID(id.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(id))

	_, err = entry.ParseEntryID("not-a-uuid")
	assert.Error(t, err)

	_, err = entry.ParseEntryID("")
	assert.Error(t, err)

	_, err = entry.ParseEntryID("00000000-0000-0000-0000-000000000000")
	assert.Error(t, err)
}
