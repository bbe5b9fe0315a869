package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/entries-go/internal/adapters/metrics"
	"github.com/andrescamacho/entries-go/internal/application/logging"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/application/validation"
	"github.com/andrescamacho/entries-go/internal/domain/entry"
)

// DeleteEntryCommand represents a command to delete an entry by id
type DeleteEntryCommand struct {
	mediator.Command[mediator.Result[DeleteEntryResponse]]

	ID string `json:"id" validate:"required,uuid"`
}

// DeleteEntryResponse represents the result of deleting an entry.
// RowsAffected is 0 when the entry did not exist.
type DeleteEntryResponse struct {
	RowsAffected int64 `json:"rowsAffected"`
}

// DeleteEntryHandler handles the DeleteEntry command
type DeleteEntryHandler struct {
	entryRepo entry.EntryRepository
}

// NewDeleteEntryHandler creates a new DeleteEntryHandler
func NewDeleteEntryHandler(entryRepo entry.EntryRepository) *DeleteEntryHandler {
	return &DeleteEntryHandler{entryRepo: entryRepo}
}

// Handle executes the DeleteEntry command
func (h *DeleteEntryHandler) Handle(ctx context.Context, cmd *DeleteEntryCommand) (mediator.Result[DeleteEntryResponse], error) {
	id, err := entry.ParseEntryID(cmd.ID)
	if err != nil {
		return mediator.Failure[DeleteEntryResponse](http.StatusBadRequest, "id must be a valid UUID"), nil
	}

	rows, err := h.entryRepo.Delete(ctx, id)
	if err != nil {
		return mediator.Result[DeleteEntryResponse]{}, fmt.Errorf("failed to delete entry: %w", err)
	}

	if rows > 0 {
		metrics.RecordEntryChange("delete", 0)
	}

	logging.LoggerFromContext(ctx).InfoContext(ctx, "entry deleted", "entry_id", id.String(), "rows_affected", rows)
	return mediator.Success(http.StatusOK, DeleteEntryResponse{RowsAffected: rows}), nil
}

// NewDeleteEntryValidators returns the validators for DeleteEntryCommand
func NewDeleteEntryValidators(validate *validator.Validate) []validation.Validator[*DeleteEntryCommand] {
	return []validation.Validator[*DeleteEntryCommand]{
		validation.NewStructValidator[*DeleteEntryCommand](validate),
	}
}
