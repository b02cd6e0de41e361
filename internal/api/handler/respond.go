package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/barberbook/barberbook/internal/domain"
)

// errorBody is the failure envelope shared by every endpoint.
type errorBody struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Details string              `json:"details,omitempty"`
	Parts   []domain.PartResult `json:"parts,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// respondOutcome reports a notification that was not fully delivered.
// summary is the human-facing error; the cause goes in details.
func respondOutcome(w http.ResponseWriter, out *domain.SendOutcome, summary string) {
	status := statusFor(out.Err)
	if status == http.StatusBadRequest {
		respondJSON(w, status, errorBody{Error: out.Error, Parts: out.Parts})
		return
	}
	respondJSON(w, http.StatusInternalServerError, errorBody{
		Error:   summary,
		Details: out.Error,
		Parts:   out.Parts,
	})
}

// statusFor translates domain sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnsupportedCarrier):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// mapError writes the envelope for err. All mapping lives here so
// individual handlers stay concise.
func mapError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		respondError(w, status, "internal server error")
		return
	}
	respondError(w, status, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "is not valid JSON"}
	}
	return nil
}
