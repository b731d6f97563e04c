// Package service implements business logic, authorization and cross-entity
// validation between the HTTP handlers and the repository layer.
package service

import (
	"context"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
)

// Identity is the caller as asserted by a verified token.
type Identity struct {
	Email string
	Role  model.Role
}

// UserStore is the persistence contract for users.
//
// CreateGuest and UpdateGuest write the user and the matching participant
// record atomically: either both are stored or neither is.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	CreateGuest(ctx context.Context, u *model.User, p *model.Participant) (*model.User, error)
	Update(ctx context.Context, id int64, u *model.User) (*model.User, error)
	UpdateGuest(ctx context.Context, id int64, u *model.User, previousEmail string, p *model.Participant) (*model.User, error)
	Delete(ctx context.Context, id int64) (*model.User, error)
}

// LocationStore is the persistence contract for locations.
//
// Update must return repository.ErrOverCapacity when an activity hosted at the
// location has more participants than the new capacity.
type LocationStore interface {
	List(ctx context.Context) ([]model.Location, error)
	GetByID(ctx context.Context, id int64) (*model.Location, error)
	GetByName(ctx context.Context, name string) (*model.Location, error)
	Create(ctx context.Context, l *model.Location) (*model.Location, error)
	Update(ctx context.Context, id int64, l *model.Location) (*model.Location, error)
	Delete(ctx context.Context, id int64) (*model.Location, error)
}

// ParticipantStore is the persistence contract for participants.
type ParticipantStore interface {
	List(ctx context.Context) ([]model.Participant, error)
	GetByID(ctx context.Context, id int64) (*model.Participant, error)
	GetByEmail(ctx context.Context, email string) (*model.Participant, error)
	Create(ctx context.Context, p *model.Participant) (*model.Participant, error)
}

// ActivityStore is the persistence contract for activities.
//
// AddParticipant must check capacity and enroll atomically, returning
// repository.ErrCapacityReached when the location is full. Update must return
// repository.ErrOverCapacity when the enrolled participants do not fit the new
// location.
type ActivityStore interface {
	List(ctx context.Context) ([]model.Activity, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Activity, error)
	ListByLocation(ctx context.Context, locationID int64) ([]model.Activity, error)
	ListByParticipantEmail(ctx context.Context, email string) ([]model.Activity, error)
	GetByID(ctx context.Context, id int64) (*model.Activity, error)
	Create(ctx context.Context, a *model.Activity) (*model.Activity, error)
	Update(ctx context.Context, id int64, a *model.Activity) (*model.Activity, error)
	SetFinished(ctx context.Context, id int64, finished bool) (*model.Activity, error)
	Delete(ctx context.Context, id int64) (*model.Activity, error)
	AddParticipant(ctx context.Context, activityID, participantID int64) (*model.Activity, error)
	RemoveParticipant(ctx context.Context, activityID, participantID int64) (*model.Activity, error)
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(email string, role model.Role) (string, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
