package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baechuer/integrations-hub/internal/domain"
	appCtx "github.com/baechuer/integrations-hub/internal/pkg/context"
)

// Envelope is the stable wire shape for every JSON response: exactly one
// of Data or Error is populated.
type Envelope struct {
	Data  any           `json:"data,omitempty"`
	Error *ErrorPayload `json:"error,omitempty"`
}

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Data writes a successful envelope with the given status and payload.
func Data(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Data: payload})
}

// NoContent writes a bodyless response (e.g. DELETE 204).
func NoContent(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// Err maps a domain.AppError to its HTTP status and writes the error
// envelope; any other error becomes a 500 "internal_error".
func Err(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal error"
	var meta map[string]string

	var ae *domain.AppError
	if errors.As(err, &ae) {
		status, code = mapCode(ae.Code)
		message = ae.Message
		meta = ae.Meta
	}

	reqID := appCtx.RequestID(r.Context())

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		Error: ErrorPayload{
			Code:      code,
			Message:   message,
			Meta:      meta,
			RequestID: reqID,
		},
	})
}

func mapCode(c domain.ErrCode) (status int, code string) {
	switch c {
	case domain.CodeValidation:
		return http.StatusUnprocessableEntity, "validation_error"
	case domain.CodeForbidden:
		return http.StatusForbidden, "forbidden"
	case domain.CodeNotFound:
		return http.StatusNotFound, "not_found"
	case domain.CodeInvalidState:
		return http.StatusConflict, "invalid_state"
	case domain.CodeConflict:
		return http.StatusConflict, "conflict"
	default:
		return http.StatusUnprocessableEntity, "validation_error"
	}
}
