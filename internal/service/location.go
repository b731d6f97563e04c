package service

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/repository"
)

// LocationService orchestrates location operations.
type LocationService struct {
	locations  LocationStore
	activities ActivityStore
}

// NewLocationService constructs a LocationService.
func NewLocationService(locations LocationStore, activities ActivityStore) *LocationService {
	return &LocationService{locations: locations, activities: activities}
}

func locationIDNotFound(id int64) error {
	return notFound("Location with id: %d does not exist", id)
}

// ListLocations returns all locations.
func (s *LocationService) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.locations.List(ctx)
}

// GetLocationByName returns the location called name.
func (s *LocationService) GetLocationByName(ctx context.Context, name string) (*model.Location, error) {
	l, err := s.locations.GetByName(ctx, name)
	if err != nil {
		return nil, orNotFound(err, notFound("Location with the name: %s does not exist", name))
	}
	return l, nil
}

// GetLocation returns the location with id.
func (s *LocationService) GetLocation(ctx context.Context, id int64) (*model.Location, error) {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, locationIDNotFound(id))
	}
	return l, nil
}

// CreateLocation validates and stores a new location.
func (s *LocationService) CreateLocation(ctx context.Context, req model.CreateLocationRequest) (*model.Location, error) {
	location, err := model.NewLocation(model.Location{
		Name:         req.Name,
		Locality:     req.Locality,
		Street:       req.Street,
		StreetNumber: req.StreetNumber,
		PostalCode:   req.PostalCode,
		Capacity:     req.Capacity,
	})
	if err != nil {
		return nil, err
	}
	created, err := s.locations.Create(ctx, location)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, conflict("Location with the name: %s already exists", req.Name)
	}
	return created, err
}

// UpdateLocation merges patch over the stored location. Capacity cannot drop
// below the enrollment of any activity hosted there. The store repeats that
// check while holding the location, so concurrent enrollments cannot slip past.
func (s *LocationService) UpdateLocation(ctx context.Context, id int64, patch model.LocationPatch) (*model.Location, error) {
	existing, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, locationIDNotFound(id))
	}

	merged, err := model.NewLocation(patch.Apply(*existing))
	if err != nil {
		return nil, err
	}

	if merged.Capacity < existing.Capacity {
		hosted, err := s.activities.ListByLocation(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, a := range hosted {
			if len(a.Participants) > merged.Capacity {
				return nil, conflict("Capacity cannot be lower than the %d participants of %s", len(a.Participants), a.ActivityName)
			}
		}
	}

	updated, err := s.locations.Update(ctx, id, merged)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, conflict("Location with the name: %s already exists", merged.Name)
	case errors.Is(err, repository.ErrOverCapacity):
		return nil, errCapacityBelowEnrollment
	}
	if err != nil {
		return nil, orNotFound(err, locationIDNotFound(id))
	}
	return updated, nil
}

// DeleteLocation removes a location that hosts no activities.
func (s *LocationService) DeleteLocation(ctx context.Context, id int64) (*model.Location, error) {
	if _, err := s.locations.GetByID(ctx, id); err != nil {
		return nil, orNotFound(err, locationIDNotFound(id))
	}
	l, err := s.locations.Delete(ctx, id)
	if errors.Is(err, repository.ErrReferenced) {
		return nil, conflict("Location still hosts activities")
	}
	if err != nil {
		return nil, orNotFound(err, locationIDNotFound(id))
	}
	return l, nil
}
