package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/entries-go/internal/adapters/persistence"
	"github.com/andrescamacho/entries-go/internal/domain/entry"
	"github.com/andrescamacho/entries-go/test/helpers"
)

var day = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

func newEntry(t *testing.T, title string, amount string, date time.Time) *entry.Entry {
	t.Helper()
	e, err := entry.NewEntry(entry.NewEntryID(), title, decimal.RequireFromString(amount), "", date)
	require.NoError(t, err)
	return e
}

func TestEntryRepository_CreateAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntryRepository(db)
	e, err := entry.NewEntry(entry.NewEntryID(), "Salary", decimal.RequireFromString("2500.75"), "April", day)
	require.NoError(t, err)

	// Act - Create
	err = repo.Create(context.Background(), e)

	// Assert
	require.NoError(t, err)

	// Act - FindByID
	found, err := repo.FindByID(context.Background(), e.ID())

	// Assert
	require.NoError(t, err)
	assert.True(t, found.ID().Equals(e.ID()))
	assert.Equal(t, "Salary", found.Title())
	assert.True(t, e.Amount().Equal(found.Amount()))
	assert.Equal(t, "April", found.Description())
	assert.True(t, day.Equal(found.Date()))
}

func TestEntryRepository_NotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntryRepository(db)

	_, err := repo.FindByID(context.Background(), entry.NewEntryID())

	assert.ErrorIs(t, err, entry.ErrEntryNotFound)
}

func TestEntryRepository_ListNewestFirstWithFilter(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntryRepository(db)
	older := newEntry(t, "older", "1", day)
	newer := newEntry(t, "newer", "2", day.Add(time.Hour))
	require.NoError(t, repo.Create(context.Background(), older))
	require.NoError(t, repo.Create(context.Background(), newer))

	// Act
	all, err := repo.List(context.Background(), entry.DefaultListOptions())
	require.NoError(t, err)
	id := older.ID()
	filtered, err := repo.List(context.Background(), entry.ListOptions{ID: &id})
	require.NoError(t, err)
	paged, err := repo.List(context.Background(), entry.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 2)
	assert.Equal(t, "newer", all[0].Title())
	assert.Equal(t, "older", all[1].Title())
	require.Len(t, filtered, 1)
	assert.Equal(t, "older", filtered[0].Title())
	require.Len(t, paged, 1)
	assert.Equal(t, "older", paged[0].Title())
}

func TestEntryRepository_UpdateAndDelete(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntryRepository(db)
	e := newEntry(t, "Coffee", "3", day)
	require.NoError(t, repo.Create(context.Background(), e))
	title := "Tea"
	desc := "green"
	updated, err := e.Apply(entry.EntryPatch{Title: &title, Description: &desc})
	require.NoError(t, err)

	// Act
	rows, err := repo.Update(context.Background(), updated)
	require.NoError(t, err)
	found, err := repo.FindByID(context.Background(), e.ID())
	require.NoError(t, err)
	deleted, err := repo.Delete(context.Background(), e.ID())
	require.NoError(t, err)
	deletedAgain, err := repo.Delete(context.Background(), e.ID())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, "Tea", found.Title())
	assert.Equal(t, "green", found.Description())
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, int64(0), deletedAgain)
}

func TestEntryRepository_UpdateMissingEntryAffectsNoRows(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEntryRepository(db)

	rows, err := repo.Update(context.Background(), newEntry(t, "ghost", "1", day))

	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}
