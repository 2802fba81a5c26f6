package httputil

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/scatter/pkg/errors"
)

// DefaultBodyLimit caps request bodies read by DecodeJSON.
const DefaultBodyLimit = 4 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusFor returns the HTTP status for an error code.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidCatalog,
		errors.ErrCodeInvalidFormat, errors.ErrCodeUnknownBlueprint:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeLayoutInfeasible, errors.ErrCodePlacementRejected,
		errors.ErrCodePlacementExhausted, errors.ErrCodeGroupsExceedAmount:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody and returns the status used.
// Errors without a code are reported as internal errors with a generic
// message.
func WriteError(w http.ResponseWriter, err error) int {
	code := errors.GetCode(err)
	body := ErrorBody{Code: code, Message: errors.UserMessage(err)}
	if code == "" {
		body = ErrorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	status := StatusFor(body.Code)
	WriteJSON(w, status, body)
	return status
}

// DecodeJSON decodes the request body into v. Bodies larger than limit
// (DefaultBodyLimit when limit <= 0) and unknown fields are rejected.
func DecodeJSON(r *http.Request, v any, limit int64) error {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, limit+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body truncated or larger than %d bytes", limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
