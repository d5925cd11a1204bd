package handlers

import (
	"net/http"

	"github.com/baechuer/integrations-hub/internal/application/outbox"
	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/baechuer/integrations-hub/internal/transport/http/dto"
	"github.com/baechuer/integrations-hub/internal/transport/http/response"
	"github.com/baechuer/integrations-hub/internal/transport/http/validate"
)

type EventsHandler struct {
	svc *outbox.Service
}

func NewEventsHandler(svc *outbox.Service) *EventsHandler {
	return &EventsHandler{svc: svc}
}

// Publish implements POST /api/v1/events (§4.2, §6.1).
func (h *EventsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req dto.PublishEventReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}
	if len(req.Payload) == 0 {
		response.Err(w, r, domain.ErrValidation("payload is required"))
		return
	}

	e, err := h.svc.Publish(r.Context(), domain.EventType(req.EventType), req.Payload)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToOutboxEventResp(e))
}
