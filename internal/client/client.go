// Package client is a Go client for the activity planner API. Login returns a
// Session that authenticated calls take explicitly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
)

// ErrNoSession is returned by authenticated calls made without a token.
var ErrNoSession = errors.New("client: no session, log in first")

// APIError is a non-2xx response decoded from the API's error envelope.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the server rejected the session.
func (e *APIError) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// Session is the logged-in caller.
type Session struct {
	Token    string
	Email    string
	FullName string
	Role     model.Role
}

// Client talks to one API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: strings.TrimRight(cfg.BaseURL, "/"), httpClient: hc}
}

// doAuth sends an authenticated request. A nil session or one without a token
// fails with ErrNoSession before anything is sent.
func (c *Client) doAuth(ctx context.Context, s *Session, method, path string, in, out any) error {
	if s == nil || s.Token == "" {
		return ErrNoSession
	}
	return c.do(ctx, s.Token, method, path, in, out)
}

// do sends a request, adding a bearer header when token is set.
func (c *Client) do(ctx context.Context, token, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope model.ErrorResponse
		if json.Unmarshal(respBody, &envelope) == nil {
			apiErr.Status = envelope.Status
			apiErr.Message = envelope.ErrorMessage
			if apiErr.Message == "" {
				apiErr.Message = envelope.Message
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func esc(s string) string { return url.PathEscape(s) }

// =============================================================================
// Public endpoints
// =============================================================================

// Status calls the health check.
func (c *Client) Status(ctx context.Context) (string, error) {
	var out model.StatusResponse
	if err := c.do(ctx, "", http.MethodGet, "/status", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Login authenticates and returns a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out model.AuthResponse
	err := c.do(ctx, "", http.MethodPost, "/users/login", model.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &Session{Token: out.Token, Email: out.Email, FullName: out.FullName, Role: out.Role}, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, "", http.MethodPost, "/users/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Activities
// =============================================================================

// Activities lists the activities visible to the session's role.
func (c *Client) Activities(ctx context.Context, s *Session) ([]model.Activity, error) {
	var out []model.Activity
	err := c.doAuth(ctx, s, http.MethodGet, "/activities", nil, &out)
	return out, err
}

// Activity fetches one activity.
func (c *Client) Activity(ctx context.Context, s *Session, activityID int64) (*model.Activity, error) {
	return c.activity(ctx, s, http.MethodGet, "/activities/"+id(activityID), nil)
}

// ActivitiesByParticipant lists the activities a participant is enrolled in.
func (c *Client) ActivitiesByParticipant(ctx context.Context, s *Session, email string) ([]model.Activity, error) {
	var out []model.Activity
	err := c.doAuth(ctx, s, http.MethodGet, "/activities/participant/"+esc(email), nil, &out)
	return out, err
}

// CreateActivity creates an activity.
func (c *Client) CreateActivity(ctx context.Context, s *Session, req model.CreateActivityRequest) (*model.Activity, error) {
	return c.activity(ctx, s, http.MethodPost, "/activities/add", req)
}

// UpdateActivity applies a partial update.
func (c *Client) UpdateActivity(ctx context.Context, s *Session, activityID int64, patch model.ActivityPatch) (*model.Activity, error) {
	return c.activity(ctx, s, http.MethodPut, "/activities/update/"+id(activityID), patch)
}

// FinishActivity marks an activity finished.
func (c *Client) FinishActivity(ctx context.Context, s *Session, activityID int64) (*model.Activity, error) {
	return c.activity(ctx, s, http.MethodPut, "/activities/finish/"+id(activityID), nil)
}

// DeleteActivity deletes an activity and returns it.
func (c *Client) DeleteActivity(ctx context.Context, s *Session, activityID int64) (*model.Activity, error) {
	return c.activity(ctx, s, http.MethodDelete, "/activities/delete/"+id(activityID), nil)
}

// Enroll adds a participant to an activity.
func (c *Client) Enroll(ctx context.Context, s *Session, activityID, participantID int64) (*model.Activity, error) {
	return c.activity(ctx, s, http.MethodPut, "/activities/add/"+id(activityID)+"/participant/"+id(participantID), nil)
}

// Withdraw removes a participant from an activity.
func (c *Client) Withdraw(ctx context.Context, s *Session, activityID, participantID int64) (*model.Activity, error) {
	return c.activity(ctx, s, http.MethodPut, "/activities/remove/"+id(activityID)+"/participant/"+id(participantID), nil)
}

func (c *Client) activity(ctx context.Context, s *Session, method, path string, in any) (*model.Activity, error) {
	var out model.Activity
	if err := c.doAuth(ctx, s, method, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Locations and participants
// =============================================================================

// Locations lists all locations.
func (c *Client) Locations(ctx context.Context, s *Session) ([]model.Location, error) {
	var out []model.Location
	err := c.doAuth(ctx, s, http.MethodGet, "/locations", nil, &out)
	return out, err
}

// Location fetches one location by id.
func (c *Client) Location(ctx context.Context, s *Session, locationID int64) (*model.Location, error) {
	var out model.Location
	if err := c.doAuth(ctx, s, http.MethodGet, "/locations/"+id(locationID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLocation creates a location.
func (c *Client) CreateLocation(ctx context.Context, s *Session, req model.CreateLocationRequest) (*model.Location, error) {
	var out model.Location
	if err := c.doAuth(ctx, s, http.MethodPost, "/locations/add", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Participants lists all participants.
func (c *Client) Participants(ctx context.Context, s *Session) ([]model.Participant, error) {
	var out []model.Participant
	err := c.doAuth(ctx, s, http.MethodGet, "/participant", nil, &out)
	return out, err
}
