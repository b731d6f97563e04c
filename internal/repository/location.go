package repository

import (
	"context"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const locationColumns = `id, name, locality, street, street_number, postal_code, capacity`

// LocationRepository handles persistence for locations.
type LocationRepository struct {
	db *pgxpool.Pool
}

// NewLocationRepository constructs a LocationRepository.
func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{db: db}
}

func scanLocation(row pgx.Row) (*model.Location, error) {
	var l model.Location
	err := row.Scan(&l.ID, &l.Name, &l.Locality, &l.Street, &l.StreetNumber, &l.PostalCode, &l.Capacity)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) one(ctx context.Context, op, sql string, args ...any) (*model.Location, error) {
	return r.oneIn(ctx, r.db, op, sql, args...)
}

func (r *LocationRepository) oneIn(ctx context.Context, q querier, op, sql string, args ...any) (*model.Location, error) {
	l, err := scanLocation(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(op, err)
	}
	loc, err := model.NewLocation(*l)
	if err != nil {
		return nil, reconstructErr(op, err)
	}
	return loc, nil
}

// List returns all locations ordered by name.
func (r *LocationRepository) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.db.Query(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY name`)
	if err != nil {
		return nil, classify("list locations", err)
	}
	defer rows.Close()

	locations := []model.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, classify("scan location", err)
		}
		loc, err := model.NewLocation(*l)
		if err != nil {
			return nil, reconstructErr("list locations", err)
		}
		locations = append(locations, *loc)
	}
	return locations, classify("list locations", rows.Err())
}

// GetByID returns a single location or ErrNotFound.
func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	return r.one(ctx, "get location", `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
}

// GetByName returns the location called name or ErrNotFound.
func (r *LocationRepository) GetByName(ctx context.Context, name string) (*model.Location, error) {
	return r.one(ctx, "get location by name", `SELECT `+locationColumns+` FROM locations WHERE name = $1`, name)
}

// Create inserts l and returns it with its generated id.
func (r *LocationRepository) Create(ctx context.Context, l *model.Location) (*model.Location, error) {
	return r.one(ctx, "insert location",
		`INSERT INTO locations (name, locality, street, street_number, postal_code, capacity)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+locationColumns,
		l.Name, l.Locality, l.Street, l.StreetNumber, l.PostalCode, l.Capacity,
	)
}

// Update replaces the mutable fields of the location with id.
//
// The location row stays locked while the largest enrollment among its
// activities is compared with the new capacity. Enrollment takes a share lock
// on the same row, so neither side can act on a stale capacity. A capacity
// below that enrollment yields ErrOverCapacity.
func (r *LocationRepository) Update(ctx context.Context, id int64, l *model.Location) (*model.Location, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM locations WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		return nil, classify("lock location row", err)
	}

	var enrolled int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(n), 0)
		 FROM (
			SELECT COUNT(*) AS n
			FROM activity_participants ap
			JOIN activities a ON a.id = ap.activity_id
			WHERE a.location_id = $1
			GROUP BY ap.activity_id
		 ) per_activity`,
		id,
	).Scan(&enrolled)
	if err != nil {
		return nil, classify("count hosted participants", err)
	}
	if enrolled > l.Capacity {
		return nil, ErrOverCapacity
	}

	updated, err := r.oneIn(ctx, tx, "update location",
		`UPDATE locations
		 SET name = $1, locality = $2, street = $3, street_number = $4, postal_code = $5, capacity = $6
		 WHERE id = $7
		 RETURNING `+locationColumns,
		l.Name, l.Locality, l.Street, l.StreetNumber, l.PostalCode, l.Capacity, id,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, classify("commit transaction", err)
	}
	return updated, nil
}

// Delete removes the location with id and returns it.
func (r *LocationRepository) Delete(ctx context.Context, id int64) (*model.Location, error) {
	return r.one(ctx, "delete location", `DELETE FROM locations WHERE id = $1 RETURNING `+locationColumns, id)
}
