package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/target/clubdesk/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteServiceError maps a service error onto a JSON error response.
func WriteServiceError(w http.ResponseWriter, err error) {
	code, msg := classify(err, false)
	errCode := string(apperrors.GetCode(err))
	if errCode == "" {
		errCode = "internal"
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: errors.New(msg)})
}

// classify picks the HTTP status and user-facing text for a service error.
// With backendVerbatim set, errors that carry no application code came from
// the auth backend and their text is shown as-is; otherwise they are masked.
func classify(err error, backendVerbatim bool) (int, string) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		if backendVerbatim {
			return http.StatusBadRequest, err.Error()
		}
		return http.StatusInternalServerError, genericFailure
	}
	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		return http.StatusUnprocessableEntity, appErr.Message
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized, appErr.Message
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden, appErr.Message
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound, appErr.Message
	case apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return http.StatusConflict, appErr.Message
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, appErr.Message
	default:
		return http.StatusInternalServerError, genericFailure
	}
}

const genericFailure = "Something went wrong. Please try again."
