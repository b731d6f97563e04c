package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/activity-planner/internal/auth"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Parse(token string) (*auth.Claims, error)
}

// RequestID reuses the caller's X-Request-Id or assigns a fresh one, and
// stores it where middleware.GetReqID finds it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger emits one structured access log entry per request.
func Logger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration":    time.Since(start).String(),
				"request_id":  middleware.GetReqID(r.Context()),
				"remote_addr": r.RemoteAddr,
			}).Info("request")
		})
	}
}

// CORS allows the configured front-end origins to call the API with a
// bearer token.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// publicPaths never require a token.
var publicPaths = map[string]bool{
	"/users/login":  true,
	"/users/signup": true,
	"/status":       true,
	"/metrics":      true,
	"/api-docs":     true,
}

func isPublic(path string) bool {
	return publicPaths[path] || strings.HasPrefix(path, "/api-docs/")
}

// Auth verifies the bearer token on every non-public request and stores the
// claims in the request context.
func Auth(tokens TokenVerifier, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			deny := func(reason, msg string) {
				log.WithFields(logrus.Fields{
					"path":       r.URL.Path,
					"reason":     reason,
					"request_id": middleware.GetReqID(r.Context()),
				}).Warn("request not authorized")
				writeUnauthorized(w, msg)
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				deny("missing authorization header", "Missing authorization header")
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				deny("malformed authorization header", "Authorization header must be Bearer <token>")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(token))
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				deny("token expired", "Token expired")
				return
			case err != nil:
				deny("invalid token", "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the caller stored by Auth.
func IdentityFrom(ctx context.Context) (service.Identity, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return service.Identity{}, false
	}
	return service.Identity{Email: claims.Email, Role: claims.Role}, true
}
