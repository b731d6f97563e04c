package service

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/repository"
)

// ActivityService orchestrates activity operations and enrollment.
type ActivityService struct {
	activities   ActivityStore
	users        UserStore
	locations    LocationStore
	participants ParticipantStore
}

// NewActivityService constructs an ActivityService with its dependencies.
func NewActivityService(
	activities ActivityStore,
	users UserStore,
	locations LocationStore,
	participants ParticipantStore,
) *ActivityService {
	return &ActivityService{
		activities:   activities,
		users:        users,
		locations:    locations,
		participants: participants,
	}
}

// ListActivities returns the activities visible to id: admins see all of
// them, users the ones they organize and guests the ones they are enrolled in.
func (s *ActivityService) ListActivities(ctx context.Context, id Identity) ([]model.Activity, error) {
	switch id.Role {
	case model.RoleAdmin:
		return s.activities.List(ctx)
	case model.RoleUser:
		user, err := s.users.GetByEmail(ctx, id.Email)
		if err != nil {
			return nil, orNotFound(err, notFound("User with the email: %s does not exist", id.Email))
		}
		return s.activities.ListByUser(ctx, user.ID)
	case model.RoleGuest:
		return s.activities.ListByParticipantEmail(ctx, id.Email)
	default:
		return nil, errNotAuthorized
	}
}

// GetActivity returns a single activity.
func (s *ActivityService) GetActivity(ctx context.Context, id int64) (*model.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}
	return a, nil
}

// ListByParticipantEmail returns the activities the participant with email is
// enrolled in.
func (s *ActivityService) ListByParticipantEmail(ctx context.Context, email string) ([]model.Activity, error) {
	if _, err := s.participants.GetByEmail(ctx, email); err != nil {
		return nil, orNotFound(err, errParticipantNotFound)
	}
	return s.activities.ListByParticipantEmail(ctx, email)
}

// CreateActivity resolves the organizer and location and stores a new,
// unfinished activity.
func (s *ActivityService) CreateActivity(ctx context.Context, req model.CreateActivityRequest) (*model.Activity, error) {
	user, err := s.users.GetByEmail(ctx, req.UserEmail)
	if err != nil {
		return nil, orNotFound(err, notFound("User with the email: %s does not exist", req.UserEmail))
	}
	location, err := s.locations.GetByName(ctx, req.LocationName)
	if err != nil {
		return nil, orNotFound(err, notFound("Location with the name: %s does not exist", req.LocationName))
	}

	activity, err := model.NewActivity(model.Activity{
		ActivityName: req.ActivityName,
		Description:  req.Description,
		CategoryName: req.CategoryName,
		Date:         req.Date,
		Finished:     false,
		User:         user,
		Location:     location,
	})
	if err != nil {
		return nil, err
	}
	return s.activities.Create(ctx, activity)
}

// UpdateActivity merges patch over the stored activity.
func (s *ActivityService) UpdateActivity(ctx context.Context, id int64, patch model.ActivityPatch) (*model.Activity, error) {
	existing, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}

	var location *model.Location
	if patch.LocationName != nil {
		location, err = s.locations.GetByName(ctx, *patch.LocationName)
		if err != nil {
			return nil, orNotFound(err, notFound("Location with the name: %s does not exist", *patch.LocationName))
		}
	}

	merged, err := model.NewActivity(patch.Apply(*existing, location))
	if err != nil {
		return nil, err
	}
	updated, err := s.activities.Update(ctx, id, merged)
	if errors.Is(err, repository.ErrOverCapacity) {
		return nil, errCapacityBelowEnrollment
	}
	if err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}
	return updated, nil
}

// FinishActivity marks an activity as finished.
func (s *ActivityService) FinishActivity(ctx context.Context, id int64) (*model.Activity, error) {
	a, err := s.activities.SetFinished(ctx, id, true)
	if err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}
	return a, nil
}

// DeleteActivity removes an activity.
func (s *ActivityService) DeleteActivity(ctx context.Context, id int64) (*model.Activity, error) {
	if _, err := s.activities.GetByID(ctx, id); err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}
	a, err := s.activities.Delete(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}
	return a, nil
}

// AddParticipant enrolls a participant unless the location is full.
func (s *ActivityService) AddParticipant(ctx context.Context, activityID, participantID int64) (*model.Activity, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}
	if _, err := s.participants.GetByID(ctx, participantID); err != nil {
		return nil, orNotFound(err, errParticipantNotFound)
	}
	if activity.IsFull() && !activity.HasParticipant(participantID) {
		return nil, errCapacityReached
	}

	// The store re-checks capacity under a lock; this is the authoritative check.
	a, err := s.activities.AddParticipant(ctx, activityID, participantID)
	switch {
	case errors.Is(err, repository.ErrCapacityReached):
		return nil, errCapacityReached
	case err != nil:
		return nil, orNotFound(err, errActivityNotFound)
	}
	return a, nil
}

// RemoveParticipant withdraws a participant. Withdrawing someone who was not
// enrolled is not an error.
func (s *ActivityService) RemoveParticipant(ctx context.Context, activityID, participantID int64) (*model.Activity, error) {
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}
	if _, err := s.participants.GetByID(ctx, participantID); err != nil {
		return nil, orNotFound(err, errParticipantNotFound)
	}
	a, err := s.activities.RemoveParticipant(ctx, activityID, participantID)
	if err != nil {
		return nil, orNotFound(err, errActivityNotFound)
	}
	return a, nil
}
