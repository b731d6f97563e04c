package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/activity-planner/internal/auth"
	"github.com/Shivanand-hulikatti/activity-planner/internal/handler"
	"github.com/Shivanand-hulikatti/activity-planner/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/Shivanand-hulikatti/activity-planner/internal/testing/memstore"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) (*Client, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	tokens := auth.NewTokenIssuer("client-test-secret", "activity_planner_app", time.Hour)
	log, _ := logtest.NewNullLogger()
	router := handler.NewRouter(handler.Services{
		Users:        service.NewUserService(store.Users(), auth.NewBcryptHasher(bcrypt.MinCost), tokens),
		Activities:   service.NewActivityService(store.Activities(), store.Users(), store.Locations(), store.Participants()),
		Locations:    service.NewLocationService(store.Locations(), store.Activities()),
		Participants: service.NewParticipantService(store.Participants()),
	}, handler.RouterConfig{
		Tokens:  tokens,
		Metrics: metrics.New(),
		Log:     log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", HTTPClient: srv.Client()}), store
}

func TestClient_Status(t *testing.T) {
	c, _ := newServer(t)

	msg, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Back-end is running...", msg)
}

func TestClient_SessionFlow(t *testing.T) {
	c, _ := newServer(t)
	ctx := context.Background()

	_, err := c.Signup(ctx, model.SignupRequest{
		Name: "Ana", FamilyName: "Lopez", Email: "ana@x.com", Role: model.RoleUser, Password: "s3cret",
	})
	require.NoError(t, err)
	_, err = c.Signup(ctx, model.SignupRequest{
		Name: "Gus", FamilyName: "Guest", Email: "gus@x.com", Role: model.RoleGuest, Password: "s3cret",
	})
	require.NoError(t, err)

	session, err := c.Login(ctx, "ana@x.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", session.FullName)
	assert.Equal(t, model.RoleUser, session.Role)
	assert.NotEmpty(t, session.Token)

	loc, err := c.CreateLocation(ctx, session, model.CreateLocationRequest{
		Name: "Hall", Locality: "Madrid", Street: "Gran Via", StreetNumber: 1, PostalCode: 28013, Capacity: 1,
	})
	require.NoError(t, err)
	got, err := c.Location(ctx, session, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hall", got.Name)

	activity, err := c.CreateActivity(ctx, session, model.CreateActivityRequest{
		ActivityName: "Yoga", Description: "Morning", CategoryName: "Sport",
		Date: time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC), UserEmail: "ana@x.com", LocationName: "Hall",
	})
	require.NoError(t, err)

	participants, err := c.Participants(ctx, session)
	require.NoError(t, err)
	require.Len(t, participants, 1)

	activity, err = c.Enroll(ctx, session, activity.ID, participants[0].ID)
	require.NoError(t, err)
	assert.Len(t, activity.Participants, 1)

	byParticipant, err := c.ActivitiesByParticipant(ctx, session, "gus@x.com")
	require.NoError(t, err)
	assert.Len(t, byParticipant, 1)

	guest, err := c.Login(ctx, "gus@x.com", "s3cret")
	require.NoError(t, err)
	visible, err := c.Activities(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	desc := "Evening"
	activity, err = c.UpdateActivity(ctx, session, activity.ID, model.ActivityPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Evening", activity.Description)

	activity, err = c.FinishActivity(ctx, session, activity.ID)
	require.NoError(t, err)
	assert.True(t, activity.Finished)

	activity, err = c.Withdraw(ctx, session, activity.ID, participants[0].ID)
	require.NoError(t, err)
	assert.Empty(t, activity.Participants)

	_, err = c.DeleteActivity(ctx, session, activity.ID)
	require.NoError(t, err)

	_, err = c.Activity(ctx, session, activity.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Activity does not exist", apiErr.Message)

	locations, err := c.Locations(ctx, session)
	require.NoError(t, err)
	assert.Len(t, locations, 1)
}

func TestClient_CapacityError(t *testing.T) {
	c, store := newServer(t)
	ctx := context.Background()

	_, err := c.Signup(ctx, model.SignupRequest{
		Name: "Ana", FamilyName: "Lopez", Email: "ana@x.com", Role: model.RoleAdmin, Password: "s3cret",
	})
	require.NoError(t, err)
	session, err := c.Login(ctx, "ana@x.com", "s3cret")
	require.NoError(t, err)

	_, err = c.CreateLocation(ctx, session, model.CreateLocationRequest{Name: "Booth", Locality: "L", Street: "S", Capacity: 0})
	require.NoError(t, err)
	activity, err := c.CreateActivity(ctx, session, model.CreateActivityRequest{
		ActivityName: "Talk", Description: "d", CategoryName: "c", UserEmail: "ana@x.com", LocationName: "Booth",
	})
	require.NoError(t, err)
	p, err := store.Participants().Create(ctx, &model.Participant{Name: "P", Email: "p@x.com"})
	require.NoError(t, err)

	_, err = c.Enroll(ctx, session, activity.ID, p.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "error", apiErr.Status)
	assert.Equal(t, "Cannot add participant, total capacity reached", apiErr.Message)
}

func TestClient_Unauthorized(t *testing.T) {
	c, _ := newServer(t)
	ctx := context.Background()

	_, err := c.Activities(ctx, &Session{Token: "garbage"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Unauthorized())
	assert.Equal(t, "application error", apiErr.Status)
	assert.Equal(t, "Invalid token", apiErr.Message)

	_, err = c.Activities(ctx, &Session{})
	assert.True(t, errors.Is(err, ErrNoSession))

	_, err = c.Login(ctx, "ghost@x.com", "pw")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "User with email ghost@x.com not found", apiErr.Message)
}

func TestClient_NoSessionSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"message":"up"}`))
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	calls := map[string]func(*Session) error{
		"activities": func(s *Session) error { _, err := c.Activities(ctx, s); return err },
		"activity":   func(s *Session) error { _, err := c.Activity(ctx, s, 1); return err },
		"by participant": func(s *Session) error {
			_, err := c.ActivitiesByParticipant(ctx, s, "ann@x.com")
			return err
		},
		"enroll":       func(s *Session) error { _, err := c.Enroll(ctx, s, 1, 1); return err },
		"withdraw":     func(s *Session) error { _, err := c.Withdraw(ctx, s, 1, 1); return err },
		"locations":    func(s *Session) error { _, err := c.Locations(ctx, s); return err },
		"location":     func(s *Session) error { _, err := c.Location(ctx, s, 1); return err },
		"participants": func(s *Session) error { _, err := c.Participants(ctx, s); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(nil), ErrNoSession)
			assert.ErrorIs(t, call(&Session{Email: "ann@x.com"}), ErrNoSession)
		})
	}
	assert.Zero(t, hits.Load())

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "up", status)
	assert.EqualValues(t, 1, hits.Load())
}
