package repository

import (
	"context"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, family_name, email, password, role`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.FamilyName, &u.Email, &u.Password, &role); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}

func (r *UserRepository) one(ctx context.Context, op, sql string, args ...any) (*model.User, error) {
	return r.oneIn(ctx, r.db, op, sql, args...)
}

func (r *UserRepository) oneIn(ctx context.Context, q querier, op, sql string, args ...any) (*model.User, error) {
	u, err := scanUser(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(op, err)
	}
	user, err := model.NewUser(*u)
	if err != nil {
		return nil, reconstructErr(op, err)
	}
	return user, nil
}

// List returns all users ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, classify("list users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify("scan user", err)
		}
		user, err := model.NewUser(*u)
		if err != nil {
			return nil, reconstructErr("list users", err)
		}
		users = append(users, *user)
	}
	return users, classify("list users", rows.Err())
}

// GetByID returns a single user or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.one(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail returns the user registered with email or ErrNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.one(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

const (
	insertUserSQL = `INSERT INTO users (name, family_name, email, password, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + userColumns

	updateUserSQL = `UPDATE users
		 SET name = $1, family_name = $2, email = $3, password = $4, role = $5
		 WHERE id = $6
		 RETURNING ` + userColumns
)

// Create inserts u and returns it with its generated id.
func (r *UserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return r.one(ctx, "insert user", insertUserSQL,
		u.Name, u.FamilyName, u.Email, u.Password, string(u.Role))
}

// Update replaces the mutable fields of the user with id.
func (r *UserRepository) Update(ctx context.Context, id int64, u *model.User) (*model.User, error) {
	return r.one(ctx, "update user", updateUserSQL,
		u.Name, u.FamilyName, u.Email, u.Password, string(u.Role), id)
}

// CreateGuest inserts u and its participant record p in one transaction.
// A participant already registered under p's email is kept as is.
func (r *UserRepository) CreateGuest(ctx context.Context, u *model.User, p *model.Participant) (*model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := r.oneIn(ctx, tx, "insert user", insertUserSQL,
		u.Name, u.FamilyName, u.Email, u.Password, string(u.Role))
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO participants (name, email) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING`,
		p.Name, p.Email,
	)
	if err != nil {
		return nil, classify("insert guest participant", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, classify("commit transaction", err)
	}
	return created, nil
}

// UpdateGuest replaces the user with id and, in the same transaction, moves
// the participant record registered under previousEmail to p. The record is
// created when none exists.
func (r *UserRepository) UpdateGuest(ctx context.Context, id int64, u *model.User, previousEmail string, p *model.Participant) (*model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := r.oneIn(ctx, tx, "update user", updateUserSQL,
		u.Name, u.FamilyName, u.Email, u.Password, string(u.Role), id)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE participants SET name = $1, email = $2 WHERE email = $3`,
		p.Name, p.Email, previousEmail,
	)
	if err != nil {
		return nil, classify("update guest participant", err)
	}
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO participants (name, email) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING`,
			p.Name, p.Email,
		)
		if err != nil {
			return nil, classify("insert guest participant", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classify("commit transaction", err)
	}
	return updated, nil
}

// Delete removes the user with id and returns it.
func (r *UserRepository) Delete(ctx context.Context, id int64) (*model.User, error) {
	return r.one(ctx, "delete user", `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
}
