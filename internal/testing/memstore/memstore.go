// Package memstore provides in-memory implementations of the service store
// interfaces for tests. Stores share one mutex, return copies and report the
// same sentinel errors as the Postgres repositories.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/repository"
)

type activityRow struct {
	activity     model.Activity
	userID       int64
	locationID   int64
	participants []int64
}

// Store holds every table. Use the Users, Locations, Participants and
// Activities views to satisfy the service interfaces.
type Store struct {
	mu     sync.Mutex
	nextID int64

	users        map[int64]model.User
	locations    map[int64]model.Location
	participants map[int64]model.Participant
	activities   map[int64]*activityRow

	// Err, when set, is returned by every call.
	Err error

	// ParticipantErr, when set, is returned by every call that writes a
	// participant, after the rest of the call has been validated.
	ParticipantErr error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:        make(map[int64]model.User),
		locations:    make(map[int64]model.Location),
		participants: make(map[int64]model.Participant),
		activities:   make(map[int64]*activityRow),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// participantID returns the id of the participant with email, or 0. Callers
// hold the lock.
func (s *Store) participantID(email string) int64 {
	for id, p := range s.participants {
		if p.Email == email {
			return id
		}
	}
	return 0
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Users returns the user view.
func (s *Store) Users() *Users { return &Users{s} }

// Locations returns the location view.
func (s *Store) Locations() *Locations { return &Locations{s} }

// Participants returns the participant view.
func (s *Store) Participants() *Participants { return &Participants{s} }

// Activities returns the activity view.
func (s *Store) Activities() *Activities { return &Activities{s} }

// Users is the user table.
type Users struct{ s *Store }

// List returns all users ordered by id.
func (v *Users) List(_ context.Context) ([]model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	out := []model.User{}
	for _, id := range sortedIDs(v.s.users) {
		out = append(out, v.s.users[id])
	}
	return out, nil
}

// GetByID returns the user with id or repository.ErrNotFound.
func (v *Users) GetByID(_ context.Context, id int64) (*model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	u, ok := v.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// GetByEmail returns the user with email or repository.ErrNotFound.
func (v *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	for _, u := range v.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Create stores u under a fresh id. A taken email yields repository.ErrDuplicate.
func (v *Users) Create(_ context.Context, u *model.User) (*model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	if v.emailTaken(0, u.Email) {
		return nil, repository.ErrDuplicate
	}
	row := *u
	row.ID = v.s.id()
	v.s.users[row.ID] = row
	return &row, nil
}

// CreateGuest stores u and, unless one already carries its email, the
// participant p. Nothing is stored when either write fails.
func (v *Users) CreateGuest(_ context.Context, u *model.User, p *model.Participant) (*model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	if v.emailTaken(0, u.Email) {
		return nil, repository.ErrDuplicate
	}
	if v.s.ParticipantErr != nil {
		return nil, v.s.ParticipantErr
	}
	row := *u
	row.ID = v.s.id()
	v.s.users[row.ID] = row
	if v.s.participantID(p.Email) == 0 {
		pr := *p
		pr.ID = v.s.id()
		v.s.participants[pr.ID] = pr
	}
	return &row, nil
}

// Update replaces the user with id.
func (v *Users) Update(_ context.Context, id int64, u *model.User) (*model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	if _, ok := v.s.users[id]; !ok {
		return nil, repository.ErrNotFound
	}
	if v.emailTaken(id, u.Email) {
		return nil, repository.ErrDuplicate
	}
	row := *u
	row.ID = id
	v.s.users[id] = row
	return &row, nil
}

// UpdateGuest replaces the user with id and moves the participant registered
// under previousEmail to p, creating it when missing. Nothing is stored when
// either write fails.
func (v *Users) UpdateGuest(_ context.Context, id int64, u *model.User, previousEmail string, p *model.Participant) (*model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	if _, ok := v.s.users[id]; !ok {
		return nil, repository.ErrNotFound
	}
	if v.emailTaken(id, u.Email) {
		return nil, repository.ErrDuplicate
	}
	pid := v.s.participantID(previousEmail)
	if other := v.s.participantID(p.Email); pid != 0 && other != 0 && other != pid {
		return nil, repository.ErrDuplicate
	}
	if v.s.ParticipantErr != nil {
		return nil, v.s.ParticipantErr
	}

	row := *u
	row.ID = id
	v.s.users[id] = row
	switch {
	case pid != 0:
		pr := *p
		pr.ID = pid
		v.s.participants[pid] = pr
	case v.s.participantID(p.Email) == 0:
		pr := *p
		pr.ID = v.s.id()
		v.s.participants[pr.ID] = pr
	}
	return &row, nil
}

// emailTaken reports whether a user other than id uses email. Callers hold
// the lock.
func (v *Users) emailTaken(id int64, email string) bool {
	for otherID, existing := range v.s.users {
		if otherID != id && existing.Email == email {
			return true
		}
	}
	return false
}

// Delete removes the user with id unless it organizes an activity.
func (v *Users) Delete(_ context.Context, id int64) (*model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	u, ok := v.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, a := range v.s.activities {
		if a.userID == id {
			return nil, repository.ErrReferenced
		}
	}
	delete(v.s.users, id)
	return &u, nil
}

// Locations is the location table.
type Locations struct{ s *Store }

// List returns all locations ordered by name.
func (v *Locations) List(_ context.Context) ([]model.Location, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	out := []model.Location{}
	for _, l := range v.s.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetByID returns the location with id or repository.ErrNotFound.
func (v *Locations) GetByID(_ context.Context, id int64) (*model.Location, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	l, ok := v.s.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

// GetByName returns the location called name or repository.ErrNotFound.
func (v *Locations) GetByName(_ context.Context, name string) (*model.Location, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	for _, l := range v.s.locations {
		if l.Name == name {
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Create stores l under a fresh id. A taken name yields repository.ErrDuplicate.
func (v *Locations) Create(_ context.Context, l *model.Location) (*model.Location, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	for _, existing := range v.s.locations {
		if existing.Name == l.Name {
			return nil, repository.ErrDuplicate
		}
	}
	row := *l
	row.ID = v.s.id()
	v.s.locations[row.ID] = row
	return &row, nil
}

// Update replaces the location with id. A capacity below the enrollment of a
// hosted activity yields repository.ErrOverCapacity.
func (v *Locations) Update(_ context.Context, id int64, l *model.Location) (*model.Location, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	if _, ok := v.s.locations[id]; !ok {
		return nil, repository.ErrNotFound
	}
	for otherID, existing := range v.s.locations {
		if otherID != id && existing.Name == l.Name {
			return nil, repository.ErrDuplicate
		}
	}
	for _, a := range v.s.activities {
		if a.locationID == id && len(a.participants) > l.Capacity {
			return nil, repository.ErrOverCapacity
		}
	}
	row := *l
	row.ID = id
	v.s.locations[id] = row
	return &row, nil
}

// Delete removes the location with id unless it hosts an activity.
func (v *Locations) Delete(_ context.Context, id int64) (*model.Location, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	l, ok := v.s.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, a := range v.s.activities {
		if a.locationID == id {
			return nil, repository.ErrReferenced
		}
	}
	delete(v.s.locations, id)
	return &l, nil
}

// Participants is the participant table.
type Participants struct{ s *Store }

// List returns all participants ordered by id.
func (v *Participants) List(_ context.Context) ([]model.Participant, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	out := []model.Participant{}
	for _, id := range sortedIDs(v.s.participants) {
		out = append(out, v.s.participants[id])
	}
	return out, nil
}

// GetByID returns the participant with id or repository.ErrNotFound.
func (v *Participants) GetByID(_ context.Context, id int64) (*model.Participant, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	p, ok := v.s.participants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// GetByEmail returns the participant with email or repository.ErrNotFound.
func (v *Participants) GetByEmail(_ context.Context, email string) (*model.Participant, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	for _, p := range v.s.participants {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Create stores p under a fresh id. A taken email yields repository.ErrDuplicate.
func (v *Participants) Create(_ context.Context, p *model.Participant) (*model.Participant, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	for _, existing := range v.s.participants {
		if existing.Email == p.Email {
			return nil, repository.ErrDuplicate
		}
	}
	if v.s.ParticipantErr != nil {
		return nil, v.s.ParticipantErr
	}
	row := *p
	row.ID = v.s.id()
	v.s.participants[row.ID] = row
	return &row, nil
}

// Activities is the activity table with its enrollment join.
type Activities struct{ s *Store }

// materialize resolves a row's references. Callers hold the lock.
func (v *Activities) materialize(row *activityRow) model.Activity {
	a := row.activity
	if u, ok := v.s.users[row.userID]; ok {
		a.User = &u
	}
	if l, ok := v.s.locations[row.locationID]; ok {
		a.Location = &l
	}
	a.Participants = make([]model.Participant, 0, len(row.participants))
	for _, pid := range row.participants {
		a.Participants = append(a.Participants, v.s.participants[pid])
	}
	return a
}

func (v *Activities) filter(keep func(*activityRow) bool) ([]model.Activity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	out := []model.Activity{}
	for _, id := range sortedIDs(v.s.activities) {
		if row := v.s.activities[id]; keep(row) {
			out = append(out, v.materialize(row))
		}
	}
	return out, nil
}

// List returns every activity ordered by id.
func (v *Activities) List(_ context.Context) ([]model.Activity, error) {
	return v.filter(func(*activityRow) bool { return true })
}

// ListByUser returns the activities organized by userID.
func (v *Activities) ListByUser(_ context.Context, userID int64) ([]model.Activity, error) {
	return v.filter(func(r *activityRow) bool { return r.userID == userID })
}

// ListByLocation returns the activities hosted at locationID.
func (v *Activities) ListByLocation(_ context.Context, locationID int64) ([]model.Activity, error) {
	return v.filter(func(r *activityRow) bool { return r.locationID == locationID })
}

// ListByParticipantEmail reads the participant table inside filter's lock.
func (v *Activities) ListByParticipantEmail(_ context.Context, email string) ([]model.Activity, error) {
	return v.filter(func(r *activityRow) bool {
		for _, pid := range r.participants {
			if v.s.participants[pid].Email == email {
				return true
			}
		}
		return false
	})
}

// GetByID returns the activity with id or repository.ErrNotFound.
func (v *Activities) GetByID(_ context.Context, id int64) (*model.Activity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	row, ok := v.s.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := v.materialize(row)
	return &a, nil
}

// references checks the foreign keys of a. Callers hold the lock.
func (v *Activities) references(a *model.Activity) error {
	if a.User == nil || a.Location == nil {
		return repository.ErrNotFound
	}
	if _, ok := v.s.users[a.User.ID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := v.s.locations[a.Location.ID]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

// Create stores a with its current participants.
func (v *Activities) Create(_ context.Context, a *model.Activity) (*model.Activity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	if err := v.references(a); err != nil {
		return nil, err
	}
	row := &activityRow{activity: *a, userID: a.User.ID, locationID: a.Location.ID}
	row.activity.ID = v.s.id()
	for _, p := range a.Participants {
		row.participants = append(row.participants, p.ID)
	}
	v.s.activities[row.activity.ID] = row
	out := v.materialize(row)
	return &out, nil
}

// Update replaces the scalar fields and references. Enrollment is untouched;
// repository.ErrOverCapacity is returned when it does not fit the new location.
func (v *Activities) Update(_ context.Context, id int64, a *model.Activity) (*model.Activity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	row, ok := v.s.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := v.references(a); err != nil {
		return nil, err
	}
	if len(row.participants) > v.s.locations[a.Location.ID].Capacity {
		return nil, repository.ErrOverCapacity
	}
	row.activity = *a
	row.activity.ID = id
	row.userID = a.User.ID
	row.locationID = a.Location.ID
	out := v.materialize(row)
	return &out, nil
}

// SetFinished sets the finished flag of the activity with id.
func (v *Activities) SetFinished(_ context.Context, id int64, finished bool) (*model.Activity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	row, ok := v.s.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	row.activity.Finished = finished
	out := v.materialize(row)
	return &out, nil
}

// Delete removes the activity with id and returns it as it was.
func (v *Activities) Delete(_ context.Context, id int64) (*model.Activity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	row, ok := v.s.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := v.materialize(row)
	delete(v.s.activities, id)
	return &out, nil
}

// AddParticipant checks capacity and enrolls under the store lock.
func (v *Activities) AddParticipant(_ context.Context, activityID, participantID int64) (*model.Activity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	row, ok := v.s.activities[activityID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if _, ok := v.s.participants[participantID]; !ok {
		return nil, repository.ErrNotFound
	}
	enrolled := false
	for _, pid := range row.participants {
		if pid == participantID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		if len(row.participants) >= v.s.locations[row.locationID].Capacity {
			return nil, repository.ErrCapacityReached
		}
		row.participants = append(row.participants, participantID)
	}
	out := v.materialize(row)
	return &out, nil
}

// RemoveParticipant withdraws participantID. Withdrawing someone not enrolled is a no-op.
func (v *Activities) RemoveParticipant(_ context.Context, activityID, participantID int64) (*model.Activity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	row, ok := v.s.activities[activityID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := row.participants[:0]
	for _, pid := range row.participants {
		if pid != participantID {
			kept = append(kept, pid)
		}
	}
	row.participants = kept
	out := v.materialize(row)
	return &out, nil
}
