package service

import (
	"context"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
)

// ParticipantService exposes read access to participants.
type ParticipantService struct {
	participants ParticipantStore
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(participants ParticipantStore) *ParticipantService {
	return &ParticipantService{participants: participants}
}

// ListParticipants returns all participants.
func (s *ParticipantService) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	return s.participants.List(ctx)
}

// GetParticipant returns the participant with id.
func (s *ParticipantService) GetParticipant(ctx context.Context, id int64) (*model.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, errParticipantNotFound)
	}
	return p, nil
}

// GetParticipantByEmail returns the participant with email.
func (s *ParticipantService) GetParticipantByEmail(ctx context.Context, email string) (*model.Participant, error) {
	p, err := s.participants.GetByEmail(ctx, email)
	if err != nil {
		return nil, orNotFound(err, errParticipantNotFound)
	}
	return p, nil
}
