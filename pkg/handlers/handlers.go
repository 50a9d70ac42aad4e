// Package handlers provides HTTP response utilities for JSON APIs.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Coded is implemented by errors that carry a stable, machine-readable code.
type Coded interface {
	Code() string
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondJSON writes a JSON response with the given status code and data.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondCreated writes a 201 response with a Location header.
func RespondCreated(w http.ResponseWriter, location string, data any) {
	w.Header().Set("Location", location)
	RespondJSON(w, http.StatusCreated, data)
}

// RespondError logs the error and writes a JSON error body. Server errors are
// logged at error level, client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
	} else {
		logger.Warn("request rejected", "error", err, "status", status)
	}

	body := ErrorBody{Error: err.Error()}

	var coded Coded
	if errors.As(err, &coded) {
		body.Code = coded.Code()
	}

	RespondJSON(w, status, body)
}
