// Package repository implements all database queries for the activity planner.
// It uses pgx directly (no ORM) and rebuilds every row through the model
// constructors, so callers only ever see valid entities.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique column (email, location name) collides.
var ErrDuplicate = errors.New("duplicate key")

// ErrReferenced is returned when a row cannot be deleted because others point to it.
var ErrReferenced = errors.New("still referenced")

// ErrCapacityReached is returned when an activity's location is full.
var ErrCapacityReached = errors.New("capacity reached")

// ErrOverCapacity is returned when a location change would leave an activity
// with more participants than seats.
var ErrOverCapacity = errors.New("enrollment exceeds capacity")

// StorageError wraps a driver failure. Its message is safe to show to clients;
// the cause is available through Unwrap for logging.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "Database error, see server log for details"
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// classify turns driver errors into the package sentinels, wrapping anything
// unexpected in a StorageError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return ErrDuplicate
		case "23503": // foreign_key_violation
			return ErrReferenced
		}
	}
	return &StorageError{Op: op, Err: err}
}

// reconstructErr flags a stored row that no longer passes entity validation.
func reconstructErr(op string, err error) error {
	return &StorageError{Op: op + ": reconstruct", Err: err}
}
