package handler

import (
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/activity-planner/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// UserHandler serves the /users routes.
type UserHandler struct {
	responder
	svc      *service.UserService
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc *service.UserService, m *metrics.Metrics, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		responder: responder{log: log},
		svc:       svc,
		metrics:   m,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetByEmail handles GET /users/email/{email}.
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUserByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, verrs[0].Field()+" is required")
			return
		}
		h.fail(w, r, err)
		return
	}

	resp, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	h.metrics.RecordLogin(err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Signup handles POST /users/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	user, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Update handles PUT /users/update/{email}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.badBody(w, err)
		return
	}
	user, err := h.svc.UpdateUser(r.Context(), chi.URLParam(r, "email"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/delete/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.svc.DeleteUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
