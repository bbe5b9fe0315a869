package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andrescamacho/entries-go/internal/application/entry/commands"
	"github.com/andrescamacho/entries-go/internal/application/entry/queries"
	"github.com/andrescamacho/entries-go/internal/application/logging"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

const (
	entriesPath     = "/api/v1/entries"
	maxBodyBytes    = 1 << 20
	invalidBodyText = "request body must be valid JSON"
)

type entriesHandler struct {
	sender  mediator.Sender
	baseURL string
}

func (h *entriesHandler) create(w http.ResponseWriter, r *http.Request) {
	logger := logging.LoggerFromContext(r.Context())

	var cmd commands.CreateEntryCommand
	if !decodeBody(w, r, &cmd) {
		return
	}

	result, ok := dispatch(w, r, h.sender, &cmd)
	if !ok {
		return
	}

	if result.IsSuccess() {
		w.Header().Set("Location", h.baseURL+entriesPath+"/"+result.Data().ID)
	}
	writeResult(w, logger, result)
}

func (h *entriesHandler) list(w http.ResponseWriter, r *http.Request) {
	logger := logging.LoggerFromContext(r.Context())
	params := r.URL.Query()

	var query queries.GetEntriesQuery
	if id := params.Get("id"); id != "" {
		query.ID = &id
	}

	var err error
	if query.Limit, err = intParam(params.Get("limit")); err != nil {
		writeFailure(w, logger, http.StatusBadRequest, "limit must be an integer")
		return
	}
	if query.Offset, err = intParam(params.Get("offset")); err != nil {
		writeFailure(w, logger, http.StatusBadRequest, "offset must be an integer")
		return
	}

	h.writeEntries(w, r, &query)
}

func (h *entriesHandler) get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.writeEntries(w, r, &queries.GetEntriesQuery{ID: &id})
}

func (h *entriesHandler) writeEntries(w http.ResponseWriter, r *http.Request, query *queries.GetEntriesQuery) {
	result, ok := dispatch(w, r, h.sender, query)
	if !ok {
		return
	}
	writeResult(w, logging.LoggerFromContext(r.Context()), result)
}

func (h *entriesHandler) update(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateEntryCommand
	if !decodeBody(w, r, &cmd) {
		return
	}

	result, ok := dispatch(w, r, h.sender, &cmd)
	if !ok {
		return
	}
	writeResult(w, logging.LoggerFromContext(r.Context()), result)
}

func (h *entriesHandler) delete(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteEntryCommand{ID: r.PathValue("id")}

	result, ok := dispatch(w, r, h.sender, &cmd)
	if !ok {
		return
	}
	writeResult(w, logging.LoggerFromContext(r.Context()), result)
}

// dispatch sends a request through the mediator. It reports false when the
// response has already been written (or the client is gone).
func dispatch[R mediator.Envelope](w http.ResponseWriter, r *http.Request, sender mediator.Sender, request mediator.Request[R]) (R, bool) {
	logger := logging.LoggerFromContext(r.Context())

	result, err := mediator.Send(r.Context(), sender, request)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("client went away before the response was written")
			return result, false
		}
		logger.Error("dispatch failed", "error", err)
		writeFailure(w, logger, http.StatusInternalServerError, "internal server error")
		return result, false
	}

	return result, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		logging.LoggerFromContext(r.Context()).Debug("rejected request body", "error", err)
		writeFailure(w, logging.LoggerFromContext(r.Context()), http.StatusBadRequest, invalidBodyText)
		return false
	}
	return true
}

func intParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
