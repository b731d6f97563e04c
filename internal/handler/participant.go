package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// ParticipantHandler serves the /participant routes.
type ParticipantHandler struct {
	responder
	svc *service.ParticipantService
}

// NewParticipantHandler constructs a ParticipantHandler.
func NewParticipantHandler(svc *service.ParticipantService, log logrus.FieldLogger) *ParticipantHandler {
	return &ParticipantHandler{responder: responder{log: log}, svc: svc}
}

// List handles GET /participant.
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.svc.ListParticipants(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if participants == nil {
		participants = []model.Participant{}
	}
	writeJSON(w, http.StatusOK, participants)
}

// Get handles GET /participant/id/{id}.
func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.svc.GetParticipant(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetByEmail handles GET /participant/{email}.
func (h *ParticipantHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetParticipantByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
