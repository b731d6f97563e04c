package handler

import (
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/activity-planner/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// ActivityHandler serves the /activities routes.
type ActivityHandler struct {
	responder
	svc     *service.ActivityService
	metrics *metrics.Metrics
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, m *metrics.Metrics, log logrus.FieldLogger) *ActivityHandler {
	return &ActivityHandler{responder: responder{log: log}, svc: svc, metrics: m}
}

func activitiesOrEmpty(a []model.Activity) []model.Activity {
	if a == nil {
		return []model.Activity{}
	}
	return a
}

// List handles GET /activities. What the caller sees depends on their role.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeUnauthorized(w, "You are not authorized to access this resource.")
		return
	}
	activities, err := h.svc.ListActivities(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activitiesOrEmpty(activities))
}

// Get handles GET /activities/{id}.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	activity, err := h.svc.GetActivity(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// ListByParticipant handles GET /activities/participant/{email}.
func (h *ActivityHandler) ListByParticipant(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListByParticipantEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activitiesOrEmpty(activities))
}

// Create handles POST /activities/add.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	activity, err := h.svc.CreateActivity(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

// Update handles PUT /activities/update/{id}.
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var patch model.ActivityPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.badBody(w, err)
		return
	}
	activity, err := h.svc.UpdateActivity(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// Finish handles PUT /activities/finish/{id}.
func (h *ActivityHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	activity, err := h.svc.FinishActivity(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// Delete handles DELETE /activities/delete/{id}.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	activity, err := h.svc.DeleteActivity(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func enrollmentIDs(r *http.Request) (activityID, participantID int64, err error) {
	if activityID, err = pathID(r, "activityId"); err != nil {
		return 0, 0, err
	}
	if participantID, err = pathID(r, "participantId"); err != nil {
		return 0, 0, err
	}
	return activityID, participantID, nil
}

// AddParticipant handles PUT /activities/add/{activityId}/participant/{participantId}.
func (h *ActivityHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	activityID, participantID, err := enrollmentIDs(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	activity, err := h.svc.AddParticipant(r.Context(), activityID, participantID)
	switch {
	case errors.Is(err, service.ErrCapacityReached):
		h.metrics.RecordEnrollment(metrics.EnrollmentFull)
	case err != nil:
		h.metrics.RecordEnrollment(metrics.EnrollmentRejected)
	default:
		h.metrics.RecordEnrollment(metrics.EnrollmentAdded)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// RemoveParticipant handles PUT /activities/remove/{activityId}/participant/{participantId}.
func (h *ActivityHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	activityID, participantID, err := enrollmentIDs(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	activity, err := h.svc.RemoveParticipant(r.Context(), activityID, participantID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.metrics.RecordEnrollment(metrics.EnrollmentRemoved)
	writeJSON(w, http.StatusOK, activity)
}
