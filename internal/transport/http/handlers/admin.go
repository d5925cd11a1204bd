package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/integrations-hub/internal/application/delivery"
	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/baechuer/integrations-hub/internal/logger"
	"github.com/baechuer/integrations-hub/internal/transport/http/dto"
	"github.com/baechuer/integrations-hub/internal/transport/http/response"
	"github.com/baechuer/integrations-hub/internal/transport/http/validate"
)

type AdminHandler struct {
	svc *delivery.Service
}

func NewAdminHandler(svc *delivery.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListAttempts implements GET /api/v1/admin/events/{id}/attempts (§4.7).
func (h *AdminHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	attempts, err := h.svc.ListAttempts(r.Context(), eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToDeliveryAttemptResps(attempts))
}

// Replay implements POST /api/v1/admin/dead-letters/{id}/replay (§4.6).
// The response body always reports "replayed" once the dead letter is
// found, regardless of whether the fresh delivery attempt it triggers
// succeeds; only absence of the dead letter itself maps to 404. A dead
// letter whose event or subscription can no longer be loaded is also
// reported as "replayed".
func (h *AdminHandler) Replay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrNotFound("dead letter not found"))
		return
	}

	dl, err := h.svc.GetDeadLetter(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	delivered, err := h.svc.Replay(r.Context(), dl.ID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if !delivered {
		logger.WithCtx(r.Context()).Info().Str("dead_letter_id", dl.ID).Msg("replay_did_not_redeliver")
	}

	response.Data(w, http.StatusOK, dto.ReplayResp{Status: "replayed", DeadLetterID: dl.ID})
}
