package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/entries-go/internal/adapters/metrics"
	"github.com/andrescamacho/entries-go/internal/application/logging"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/application/validation"
	"github.com/andrescamacho/entries-go/internal/domain/entry"
	"github.com/andrescamacho/entries-go/internal/domain/shared"
)

// CreateEntryCommand represents a command to record a new ledger entry
type CreateEntryCommand struct {
	mediator.Command[mediator.Result[CreateEntryResponse]]

	Title       string          `json:"title" validate:"required,max=50"`
	Amount      decimal.Decimal `json:"amount" validate:"dgt=0"`
	Description string          `json:"description" validate:"max=500"`
	Date        time.Time       `json:"date"` // Optional: zero means now
}

// CreateEntryResponse represents the result of creating an entry
type CreateEntryResponse struct {
	ID string `json:"id"`
}

// CreateEntryHandler handles the CreateEntry command
type CreateEntryHandler struct {
	entryRepo entry.EntryRepository
	clock     shared.Clock
	newID     func() entry.EntryID
}

// NewCreateEntryHandler creates a new CreateEntryHandler
func NewCreateEntryHandler(entryRepo entry.EntryRepository, clock shared.Clock) *CreateEntryHandler {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &CreateEntryHandler{
		entryRepo: entryRepo,
		clock:     clock,
		newID:     entry.NewEntryID,
	}
}

// Handle executes the CreateEntry command
func (h *CreateEntryHandler) Handle(ctx context.Context, cmd *CreateEntryCommand) (mediator.Result[CreateEntryResponse], error) {
	logger := logging.LoggerFromContext(ctx)

	date := cmd.Date
	if date.IsZero() {
		date = h.clock.Now()
	}

	e, err := entry.NewEntry(h.newID(), cmd.Title, cmd.Amount, cmd.Description, date)
	if err != nil {
		var invalid *entry.ErrInvalidEntry
		if errors.As(err, &invalid) {
			return mediator.Failure[CreateEntryResponse](http.StatusBadRequest, invalid.Reason), nil
		}
		return mediator.Result[CreateEntryResponse]{}, fmt.Errorf("failed to create entry: %w", err)
	}

	if err := h.entryRepo.Create(ctx, e); err != nil {
		return mediator.Result[CreateEntryResponse]{}, fmt.Errorf("failed to persist entry: %w", err)
	}

	amount, _ := e.Amount().Float64()
	metrics.RecordEntryChange("create", amount)

	logger.InfoContext(ctx, "entry created", "entry_id", e.ID().String())
	return mediator.Success(http.StatusCreated, CreateEntryResponse{ID: e.ID().String()}), nil
}

// NewCreateEntryValidators returns the validators for CreateEntryCommand: the struct
// tag rules plus a check that the title is not only whitespace
func NewCreateEntryValidators(validate *validator.Validate) []validation.Validator[*CreateEntryCommand] {
	return []validation.Validator[*CreateEntryCommand]{
		validation.NewStructValidator[*CreateEntryCommand](validate),
		validation.ValidatorFunc[*CreateEntryCommand](func(ctx context.Context, cmd *CreateEntryCommand) ([]validation.FieldError, error) {
			if cmd.Title != "" && strings.TrimSpace(cmd.Title) == "" {
				return []validation.FieldError{{Field: "title", Message: "must not be blank"}}, nil
			}
			return nil, nil
		}),
	}
}
