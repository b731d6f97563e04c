// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/repository"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const (
	statusError       = "error"
	statusApplication = "application error"

	maxBodyBytes = 1 << 20 // 1 MB
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Status: statusError, ErrorMessage: msg})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Status: statusApplication, Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.ValidationError{Field: name, Message: fmt.Sprintf("Invalid %s: %q", name, raw)}
	}
	return id, nil
}

// responder maps service failures to HTTP responses. Shared by every handler.
type responder struct {
	log logrus.FieldLogger
}

// fail writes err as an error response. Authorization failures become 401,
// everything else 400. Storage causes are logged and never sent to the client.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		svcErr     *service.Error
		validErr   *model.ValidationError
		storageErr *repository.StorageError
	)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeUnauthorized(w, err.Error())
	case errors.As(err, &svcErr), errors.As(err, &validErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &storageErr):
		rs.log.WithFields(logrus.Fields{
			"op":         storageErr.Op,
			"error":      storageErr.Err,
			"request_id": middleware.GetReqID(r.Context()),
		}).Error("storage failure")
		writeError(w, http.StatusBadRequest, storageErr.Error())
	default:
		rs.log.WithFields(logrus.Fields{
			"error":      err,
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
		}).Error("unexpected failure")
		writeError(w, http.StatusBadRequest, "Unexpected error, see server log for details")
	}
}

func (rs responder) badBody(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
}

// ─── Status and docs ──────────────────────────────────────────────────────────

// Status handles GET /status, the unauthenticated health check.
func Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.StatusResponse{Message: "Back-end is running..."})
}

// RouteDoc describes one registered route.
type RouteDoc struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}

// APIDocs lists the routes registered on router. The walk happens per request
// so the handler can be mounted on the router it describes.
func APIDocs(router chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs := []RouteDoc{}
		err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			docs = append(docs, RouteDoc{Method: method, Pattern: route})
			return nil
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, docs)
	}
}
