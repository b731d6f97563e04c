package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// LocationHandler serves the /locations routes.
type LocationHandler struct {
	responder
	svc *service.LocationService
}

// NewLocationHandler constructs a LocationHandler.
func NewLocationHandler(svc *service.LocationService, log logrus.FieldLogger) *LocationHandler {
	return &LocationHandler{responder: responder{log: log}, svc: svc}
}

// List handles GET /locations.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.svc.ListLocations(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	writeJSON(w, http.StatusOK, locations)
}

// Get handles GET /locations/{id}.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	location, err := h.svc.GetLocation(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

// GetByName handles GET /locations/name/{name}.
func (h *LocationHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	location, err := h.svc.GetLocationByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

// Create handles POST /locations/add.
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	location, err := h.svc.CreateLocation(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, location)
}

// Update handles PUT /locations/update/{id}.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var patch model.LocationPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.badBody(w, err)
		return
	}
	location, err := h.svc.UpdateLocation(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

// Delete handles DELETE /locations/delete/{id}.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	location, err := h.svc.DeleteLocation(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}
