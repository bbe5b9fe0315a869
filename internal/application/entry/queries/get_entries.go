package queries

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/domain/entry"
)

// InvalidIDMessage is the failure message for a malformed id filter
const InvalidIDMessage = "If you pass an ID it must be of type UUID."

// GetEntriesQuery represents a query to retrieve entries, optionally a single one by id
type GetEntriesQuery struct {
	mediator.Query[mediator.Result[[]EntryDTO]]

	ID     *string `json:"id,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}

// EntryDTO represents an entry data transfer object
type EntryDTO struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// GetEntriesHandler handles the GetEntries query
type GetEntriesHandler struct {
	entryRepo entry.EntryRepository
}

// NewGetEntriesHandler creates a new GetEntriesHandler
func NewGetEntriesHandler(entryRepo entry.EntryRepository) *GetEntriesHandler {
	return &GetEntriesHandler{entryRepo: entryRepo}
}

// Handle executes the GetEntries query. An unknown id yields an empty list, not a failure.
func (h *GetEntriesHandler) Handle(ctx context.Context, query *GetEntriesQuery) (mediator.Result[[]EntryDTO], error) {
	opts := entry.DefaultListOptions()

	if query.ID != nil {
		id, err := entry.ParseEntryID(*query.ID)
		if err != nil {
			return mediator.Failure[[]EntryDTO](http.StatusBadRequest, InvalidIDMessage), nil
		}
		opts.ID = &id
	}
	if query.Limit < 0 || query.Offset < 0 {
		return mediator.Failure[[]EntryDTO](http.StatusBadRequest, "limit and offset must not be negative"), nil
	}
	opts.Limit = query.Limit
	opts.Offset = query.Offset

	entries, err := h.entryRepo.List(ctx, opts)
	if err != nil {
		return mediator.Result[[]EntryDTO]{}, fmt.Errorf("failed to query entries: %w", err)
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = ToDTO(e)
	}

	return mediator.Success(http.StatusOK, dtos), nil
}

// ToDTO converts a domain entry into its transfer representation
func ToDTO(e *entry.Entry) EntryDTO {
	return EntryDTO{
		ID:          e.ID().String(),
		Title:       e.Title(),
		Amount:      e.Amount(),
		Description: e.Description(),
		Date:        e.Date(),
	}
}
