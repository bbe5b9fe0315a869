package commands_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/entries-go/internal/application/entry/commands"
	"github.com/andrescamacho/entries-go/internal/application/validation"
	"github.com/andrescamacho/entries-go/internal/domain/entry"
	"github.com/andrescamacho/entries-go/test/helpers"
)

func seedEntry(t *testing.T, repo *helpers.MockEntryRepository) *entry.Entry {
	t.Helper()
	e, err := entry.NewEntry(entry.NewEntryID(), "Groceries", decimal.NewFromInt(40), "market", now)
	require.NoError(t, err)
	repo.AddEntry(e)
	return e
}

func TestUpdateEntryHandler_PartialUpdate(t *testing.T) {
	// Arrange
	repo := helpers.NewMockEntryRepository()
	existing := seedEntry(t, repo)
	handler := commands.NewUpdateEntryHandler(repo)
	amount := decimal.RequireFromString("41.99")

	// Act
	result, err := handler.Handle(context.Background(), &commands.UpdateEntryCommand{
		ID:     existing.ID().String(),
		Amount: &amount,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 200, result.StatusCode())
	assert.Equal(t, int64(1), result.Data().RowsAffected)

	stored, _ := repo.Get(existing.ID())
	assert.Equal(t, "Groceries", stored.Title())
	assert.Equal(t, "market", stored.Description())
	assert.True(t, amount.Equal(stored.Amount()))
}

func TestUpdateEntryHandler_UnknownEntryIsNotFound(t *testing.T) {
	// Arrange
	repo := helpers.NewMockEntryRepository()
	handler := commands.NewUpdateEntryHandler(repo)
	title := "anything"

	// Act
	result, err := handler.Handle(context.Background(), &commands.UpdateEntryCommand{
		ID:    entry.NewEntryID().String(),
		Title: &title,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 404, result.StatusCode())
	assert.Equal(t, []string{commands.EntryNotFoundMessage}, result.Errors())
	assert.Equal(t, 0, repo.UpdateCalls)
}

func TestUpdateEntryHandler_MalformedIDIsBadRequest(t *testing.T) {
	handler := commands.NewUpdateEntryHandler(helpers.NewMockEntryRepository())

	result, err := handler.Handle(context.Background(), &commands.UpdateEntryCommand{ID: "nope"})

	require.NoError(t, err)
	assert.Equal(t, 400, result.StatusCode())
}

func TestUpdateEntryValidators(t *testing.T) {
	validators := commands.NewUpdateEntryValidators(validation.NewValidate())
	empty := ""
	long := strings.Repeat("x", 501)
	zero := decimal.Zero

	var messages []string
	for _, v := range validators {
		failures, err := v.Validate(context.Background(), &commands.UpdateEntryCommand{
			ID:          "not-a-uuid",
			Title:       &empty,
			Amount:      &zero,
			Description: &long,
		})
		require.NoError(t, err)
		messages = append(messages, validation.Messages(failures)...)
	}

	assert.Equal(t, []string{
		"id must be a valid UUID",
		"title must be at least 1 characters",
		"amount must be greater than 0",
		"description must be at most 500 characters",
	}, messages)
}

func TestUpdateEntryValidators_OmittedFieldsPass(t *testing.T) {
	validators := commands.NewUpdateEntryValidators(nil)

	for _, v := range validators {
		failures, err := v.Validate(context.Background(), &commands.UpdateEntryCommand{ID: entry.NewEntryID().String()})
		require.NoError(t, err)
		assert.Empty(t, failures)
	}
}
