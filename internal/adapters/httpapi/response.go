package httpapi

import (
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const contentTypeJSON = "application/json; charset=utf-8"

// writeResult writes an envelope using its status code as the HTTP status
func writeResult(w http.ResponseWriter, logger *slog.Logger, result mediator.Envelope) {
	writeJSON(w, logger, result.StatusCode(), result)
}

// writeFailure writes a failure envelope produced by the transport itself
func writeFailure(w http.ResponseWriter, logger *slog.Logger, status int, messages ...string) {
	writeResult(w, logger, mediator.Failure[any](status, messages...))
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		logger.Error("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		payload, _ = json.Marshal(mediator.Failure[any](status, "failed to encode response"))
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		logger.Debug("failed to write response", "error", err)
	}
}
