package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Activities always come back with their organizer, location and participants.
const activitySelect = `
SELECT a.id, a.activity_name, a.description, a.category_name, a.date, a.finished,
       u.id, u.name, u.family_name, u.email, u.password, u.role,
       l.id, l.name, l.locality, l.street, l.street_number, l.postal_code, l.capacity
FROM activities a
JOIN users u ON u.id = a.user_id
JOIN locations l ON l.id = a.location_id`

const activityOrder = ` ORDER BY a.date, a.id`

// ActivityRepository handles persistence for activities and enrollments.
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns every activity.
func (r *ActivityRepository) List(ctx context.Context) ([]model.Activity, error) {
	return r.query(ctx, r.db, "list activities", activitySelect+activityOrder)
}

// ListByUser returns the activities organized by the user with userID.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID int64) ([]model.Activity, error) {
	return r.query(ctx, r.db, "list activities by user",
		activitySelect+` WHERE a.user_id = $1`+activityOrder, userID)
}

// ListByLocation returns the activities hosted at the location with locationID.
func (r *ActivityRepository) ListByLocation(ctx context.Context, locationID int64) ([]model.Activity, error) {
	return r.query(ctx, r.db, "list activities by location",
		activitySelect+` WHERE a.location_id = $1`+activityOrder, locationID)
}

// ListByParticipantEmail returns the activities the participant with email is enrolled in.
func (r *ActivityRepository) ListByParticipantEmail(ctx context.Context, email string) ([]model.Activity, error) {
	return r.query(ctx, r.db, "list activities by participant",
		activitySelect+` WHERE a.id IN (
			SELECT ap.activity_id
			FROM activity_participants ap
			JOIN participants p ON p.id = ap.participant_id
			WHERE p.email = $1
		)`+activityOrder, email)
}

// GetByID returns a single activity or ErrNotFound.
func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*model.Activity, error) {
	return r.get(ctx, r.db, id)
}

// Create inserts a and returns the stored activity.
func (r *ActivityRepository) Create(ctx context.Context, a *model.Activity) (*model.Activity, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO activities (activity_name, description, category_name, date, finished, user_id, location_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		a.ActivityName, a.Description, a.CategoryName, a.Date, a.Finished, a.User.ID, a.Location.ID,
	).Scan(&id)
	if err != nil {
		return nil, classify("insert activity", err)
	}
	return r.get(ctx, r.db, id)
}

// Update replaces the mutable fields of the activity with id. The organizer
// and the participant list are not touched.
//
// The activity row is locked and the target location share-locked before the
// current enrollment is checked against its capacity. ErrOverCapacity is
// returned when the participants would not fit.
func (r *ActivityRepository) Update(ctx context.Context, id int64, a *model.Activity) (*model.Activity, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM activities WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		return nil, classify("lock activity row", err)
	}

	var capacity int
	err = tx.QueryRow(ctx, `SELECT capacity FROM locations WHERE id = $1 FOR SHARE`, a.Location.ID).Scan(&capacity)
	if err != nil {
		return nil, classify("lock location row", err)
	}

	var count int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM activity_participants WHERE activity_id = $1`, id).Scan(&count)
	if err != nil {
		return nil, classify("count participants", err)
	}
	if count > capacity {
		return nil, ErrOverCapacity
	}

	_, err = tx.Exec(ctx,
		`UPDATE activities
		 SET activity_name = $1, description = $2, category_name = $3, date = $4, location_id = $5
		 WHERE id = $6`,
		a.ActivityName, a.Description, a.CategoryName, a.Date, a.Location.ID, id,
	)
	if err != nil {
		return nil, classify("update activity", err)
	}

	activity, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, classify("commit transaction", err)
	}
	return activity, nil
}

// SetFinished flips the finished flag of the activity with id.
func (r *ActivityRepository) SetFinished(ctx context.Context, id int64, finished bool) (*model.Activity, error) {
	tag, err := r.db.Exec(ctx, `UPDATE activities SET finished = $1 WHERE id = $2`, finished, id)
	if err != nil {
		return nil, classify("finish activity", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.get(ctx, r.db, id)
}

// Delete removes the activity with id and returns it as it was.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) (*model.Activity, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	activity, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id); err != nil {
		return nil, classify("delete activity", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, classify("commit transaction", err)
	}
	return activity, nil
}

// AddParticipant enrolls a participant, enforcing the location capacity.
//
// The check and the insert run in one transaction holding a row lock on the
// activity and a share lock on its location, so neither a concurrent
// enrollment nor a capacity change can invalidate the check.
// Enrolling someone who is already enrolled is a no-op.
func (r *ActivityRepository) AddParticipant(ctx context.Context, activityID, participantID int64) (*model.Activity, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var capacity int
	err = tx.QueryRow(ctx,
		`SELECT l.capacity
		 FROM activities a
		 JOIN locations l ON l.id = a.location_id
		 WHERE a.id = $1
		 FOR UPDATE OF a
		 FOR SHARE OF l`,
		activityID,
	).Scan(&capacity)
	if err != nil {
		return nil, classify("lock activity row", err)
	}

	var enrolled bool
	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(BOOL_OR(participant_id = $2), FALSE)
		 FROM activity_participants
		 WHERE activity_id = $1`,
		activityID, participantID,
	).Scan(&count, &enrolled)
	if err != nil {
		return nil, classify("count participants", err)
	}

	if !enrolled {
		if count >= capacity {
			return nil, ErrCapacityReached
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO activity_participants (activity_id, participant_id) VALUES ($1, $2)`,
			activityID, participantID,
		)
		if err != nil {
			if err = classify("insert participant link", err); errors.Is(err, ErrReferenced) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	activity, err := r.get(ctx, tx, activityID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, classify("commit transaction", err)
	}
	return activity, nil
}

// RemoveParticipant withdraws a participant. Removing someone who is not
// enrolled succeeds and leaves the list unchanged.
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, activityID, participantID int64) (*model.Activity, error) {
	_, err := r.db.Exec(ctx,
		`DELETE FROM activity_participants WHERE activity_id = $1 AND participant_id = $2`,
		activityID, participantID,
	)
	if err != nil {
		return nil, classify("delete participant link", err)
	}
	return r.get(ctx, r.db, activityID)
}

func (r *ActivityRepository) get(ctx context.Context, q querier, id int64) (*model.Activity, error) {
	activities, err := r.query(ctx, q, "get activity", activitySelect+` WHERE a.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, ErrNotFound
	}
	return &activities[0], nil
}

// query runs an activitySelect statement and attaches the participants of
// every returned activity.
func (r *ActivityRepository) query(ctx context.Context, q querier, op, sql string, args ...any) ([]model.Activity, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(op, err)
	}

	var (
		raw []model.Activity
		ids []int64
	)
	for rows.Next() {
		var (
			a    model.Activity
			u    model.User
			l    model.Location
			role string
		)
		err := rows.Scan(
			&a.ID, &a.ActivityName, &a.Description, &a.CategoryName, &a.Date, &a.Finished,
			&u.ID, &u.Name, &u.FamilyName, &u.Email, &u.Password, &role,
			&l.ID, &l.Name, &l.Locality, &l.Street, &l.StreetNumber, &l.PostalCode, &l.Capacity,
		)
		if err != nil {
			rows.Close()
			return nil, classify(op, err)
		}
		u.Role = model.Role(role)
		a.User, a.Location = &u, &l
		raw = append(raw, a)
		ids = append(ids, a.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	participants, err := r.participantsOf(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	activities := make([]model.Activity, 0, len(raw))
	for _, a := range raw {
		a.Participants = participants[a.ID]
		activity, err := model.NewActivity(a)
		if err != nil {
			return nil, reconstructErr(op, fmt.Errorf("activity %d: %w", a.ID, err))
		}
		activities = append(activities, *activity)
	}
	return activities, nil
}

func (r *ActivityRepository) participantsOf(ctx context.Context, q querier, activityIDs []int64) (map[int64][]model.Participant, error) {
	out := make(map[int64][]model.Participant, len(activityIDs))
	if len(activityIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx,
		`SELECT ap.activity_id, p.id, p.name, p.email
		 FROM activity_participants ap
		 JOIN participants p ON p.id = ap.participant_id
		 WHERE ap.activity_id = ANY($1)
		 ORDER BY p.id`,
		activityIDs,
	)
	if err != nil {
		return nil, classify("list enrolled participants", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			activityID int64
			p          model.Participant
		)
		if err := rows.Scan(&activityID, &p.ID, &p.Name, &p.Email); err != nil {
			return nil, classify("scan enrolled participant", err)
		}
		out[activityID] = append(out[activityID], p)
	}
	return out, classify("list enrolled participants", rows.Err())
}
