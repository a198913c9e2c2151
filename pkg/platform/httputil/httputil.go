// Package httputil centralizes JSON encoding and domain error translation
// for HTTP handlers so every endpoint shares the same response envelope.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	derrors "statlab/pkg/domain-errors"
)

// Validator is implemented by request DTOs that carry their own
// field-level validation.
type Validator interface {
	Validate() error
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors omit the description so implementation details never
// reach clients; all other codes include it to help callers fix requests.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	status := derrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	var de *derrors.Error
	if code != derrors.CodeInternal && errors.As(err, &de) {
		body["error_description"] = de.Message
	}
	WriteJSON(w, status, body)
}

// DecodeAndPrepare decodes a JSON request body into T and runs its
// validation when T implements Validator. On failure it writes the error
// response and returns ok=false; handlers should simply return.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request decode failed",
				"request_id", requestID,
				"path", r.URL.Path,
				"error", err,
			)
		}
		WriteError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid JSON body"))
		return req, false
	}
	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			WriteError(w, err)
			return req, false
		}
	}
	return req, true
}
