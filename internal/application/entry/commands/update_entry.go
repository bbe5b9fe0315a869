package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/entries-go/internal/adapters/metrics"
	"github.com/andrescamacho/entries-go/internal/application/logging"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/application/validation"
	"github.com/andrescamacho/entries-go/internal/domain/entry"
)

// EntryNotFoundMessage is the failure message returned for unknown entry ids
const EntryNotFoundMessage = "Entry not found."

// UpdateEntryCommand represents a partial update of an entry. Nil fields are left unchanged.
type UpdateEntryCommand struct {
	mediator.Command[mediator.Result[UpdateEntryResponse]]

	ID          string           `json:"id" validate:"required,uuid"`
	Title       *string          `json:"title,omitempty" validate:"omitnil,min=1,max=50"`
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitnil,dgt=0"`
	Description *string          `json:"description,omitempty" validate:"omitnil,max=500"`
	Date        *time.Time       `json:"date,omitempty"`
}

// UpdateEntryResponse represents the result of updating an entry
type UpdateEntryResponse struct {
	RowsAffected int64 `json:"rowsAffected"`
}

// UpdateEntryHandler handles the UpdateEntry command
type UpdateEntryHandler struct {
	entryRepo entry.EntryRepository
}

// NewUpdateEntryHandler creates a new UpdateEntryHandler
func NewUpdateEntryHandler(entryRepo entry.EntryRepository) *UpdateEntryHandler {
	return &UpdateEntryHandler{entryRepo: entryRepo}
}

// Handle executes the UpdateEntry command
func (h *UpdateEntryHandler) Handle(ctx context.Context, cmd *UpdateEntryCommand) (mediator.Result[UpdateEntryResponse], error) {
	logger := logging.LoggerFromContext(ctx)

	id, err := entry.ParseEntryID(cmd.ID)
	if err != nil {
		return mediator.Failure[UpdateEntryResponse](http.StatusBadRequest, "id must be a valid UUID"), nil
	}

	existing, err := h.entryRepo.FindByID(ctx, id)
	if errors.Is(err, entry.ErrEntryNotFound) {
		logger.InfoContext(ctx, "entry not found", "entry_id", id.String())
		return mediator.Failure[UpdateEntryResponse](http.StatusNotFound, EntryNotFoundMessage), nil
	}
	if err != nil {
		return mediator.Result[UpdateEntryResponse]{}, fmt.Errorf("failed to load entry: %w", err)
	}

	updated, err := existing.Apply(entry.EntryPatch{
		Title:       cmd.Title,
		Amount:      cmd.Amount,
		Description: cmd.Description,
		Date:        cmd.Date,
	})
	if err != nil {
		var invalid *entry.ErrInvalidEntry
		if errors.As(err, &invalid) {
			return mediator.Failure[UpdateEntryResponse](http.StatusBadRequest, invalid.Reason), nil
		}
		return mediator.Result[UpdateEntryResponse]{}, err
	}

	rows, err := h.entryRepo.Update(ctx, updated)
	if err != nil {
		return mediator.Result[UpdateEntryResponse]{}, fmt.Errorf("failed to update entry: %w", err)
	}

	amount, _ := updated.Amount().Float64()
	metrics.RecordEntryChange("update", amount)

	logger.InfoContext(ctx, "entry updated", "entry_id", id.String(), "rows_affected", rows)
	return mediator.Success(http.StatusOK, UpdateEntryResponse{RowsAffected: rows}), nil
}

// NewUpdateEntryValidators returns the validators for UpdateEntryCommand
func NewUpdateEntryValidators(validate *validator.Validate) []validation.Validator[*UpdateEntryCommand] {
	return []validation.Validator[*UpdateEntryCommand]{
		validation.NewStructValidator[*UpdateEntryCommand](validate),
	}
}
