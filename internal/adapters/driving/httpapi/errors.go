package httpapi

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// errorBody is the JSON envelope for every error response.
type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`

	// Conflicts and Suggestions are set for slot_unavailable.
	Conflicts   []conflictJSON `json:"conflicts,omitempty"`
	Suggestions []slotJSON     `json:"suggestions,omitempty"`
}

// statusError lets handlers answer with a specific status and code.
type statusError struct {
	status int
	code   string
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &statusError{status: http.StatusBadRequest, code: "bad_request", msg: msg}
}

var errorTable = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{domain.ErrInUse, http.StatusConflict, "in_use"},
	{domain.ErrImportInProgress, http.StatusConflict, "import_in_progress"},
	{domain.ErrSlotUnavailable, http.StatusConflict, "slot_unavailable"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, "invalid_transition"},
	{domain.ErrPlanLimitReached, http.StatusUnprocessableEntity, "plan_limit_reached"},
	{domain.ErrUnsupportedType, http.StatusUnprocessableEntity, "unsupported_type"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{domain.ErrNotImplemented, http.StatusNotImplemented, "not_implemented"},
	{domain.ErrLLMUnavailable, http.StatusServiceUnavailable, "llm_unavailable"},
	{domain.ErrCalendarUnavailable, http.StatusServiceUnavailable, "calendar_unavailable"},
}

// toAPIError maps err to a status code and response body.
func toAPIError(err error) (int, apiError) {
	var se *statusError
	if errors.As(err, &se) {
		return se.status, apiError{Code: se.code, Message: se.msg}
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge, apiError{Code: "too_large", Message: "request body too large"}
	}

	var slotErr *domain.SlotError
	if errors.As(err, &slotErr) {
		body := apiError{Code: "slot_unavailable", Message: err.Error()}
		for _, c := range slotErr.Conflicts {
			body.Conflicts = append(body.Conflicts, conflictJSON(c))
		}
		for _, s := range slotErr.Suggestions {
			body.Suggestions = append(body.Suggestions, slotJSON(s))
		}
		return http.StatusConflict, body
	}

	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			body := apiError{Code: e.code, Message: err.Error()}
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				body.Field = ve.Field
				body.Message = ve.Message
			}
			return e.status, body
		}
	}

	return http.StatusInternalServerError, apiError{Code: "internal", Message: "internal server error"}
}
