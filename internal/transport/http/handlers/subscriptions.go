package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/integrations-hub/internal/application/subscription"
	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/baechuer/integrations-hub/internal/transport/http/dto"
	"github.com/baechuer/integrations-hub/internal/transport/http/response"
	"github.com/baechuer/integrations-hub/internal/transport/http/validate"
)

type SubscriptionsHandler struct {
	svc *subscription.Service
}

func NewSubscriptionsHandler(svc *subscription.Service) *SubscriptionsHandler {
	return &SubscriptionsHandler{svc: svc}
}

func (h *SubscriptionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubscriptionReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}

	sub, err := h.svc.Create(r.Context(), subscription.CreateCmd{
		URL:     req.URL,
		Secret:  req.Secret,
		Events:  toEventTypes(req.Events),
		Enabled: req.Enabled,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToSubscriptionResp(sub))
}

func (h *SubscriptionsHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToSubscriptionResps(subs))
}

func (h *SubscriptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrNotFound("subscription not found"))
		return
	}

	sub, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToSubscriptionResp(sub))
}

func (h *SubscriptionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrNotFound("subscription not found"))
		return
	}

	var req dto.UpdateSubscriptionReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}

	var events []domain.EventType
	if req.Events != nil {
		events = toEventTypes(req.Events)
	}

	sub, err := h.svc.Update(r.Context(), id, subscription.UpdateCmd{
		URL:     req.URL,
		Secret:  req.Secret,
		Events:  events,
		Enabled: req.Enabled,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToSubscriptionResp(sub))
}

func (h *SubscriptionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrNotFound("subscription not found"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.NoContent(w, http.StatusNoContent)
}

func toEventTypes(tags []string) []domain.EventType {
	out := make([]domain.EventType, len(tags))
	for i, t := range tags {
		out[i] = domain.EventType(t)
	}
	return out
}
