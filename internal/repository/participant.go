package repository

import (
	"context"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParticipantRepository handles persistence for participants.
type ParticipantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository constructs a ParticipantRepository.
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) one(ctx context.Context, op, sql string, args ...any) (*model.Participant, error) {
	var p model.Participant
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Name, &p.Email); err != nil {
		return nil, classify(op, err)
	}
	participant, err := model.NewParticipant(p)
	if err != nil {
		return nil, reconstructErr(op, err)
	}
	return participant, nil
}

// List returns all participants ordered by id.
func (r *ParticipantRepository) List(ctx context.Context) ([]model.Participant, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email FROM participants ORDER BY id`)
	if err != nil {
		return nil, classify("list participants", err)
	}
	defer rows.Close()

	participants := []model.Participant{}
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, classify("scan participant", err)
		}
		participant, err := model.NewParticipant(p)
		if err != nil {
			return nil, reconstructErr("list participants", err)
		}
		participants = append(participants, *participant)
	}
	return participants, classify("list participants", rows.Err())
}

// GetByID returns a single participant or ErrNotFound.
func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*model.Participant, error) {
	return r.one(ctx, "get participant", `SELECT id, name, email FROM participants WHERE id = $1`, id)
}

// GetByEmail returns the participant with email or ErrNotFound.
func (r *ParticipantRepository) GetByEmail(ctx context.Context, email string) (*model.Participant, error) {
	return r.one(ctx, "get participant by email", `SELECT id, name, email FROM participants WHERE email = $1`, email)
}

// Create inserts p and returns it with its generated id.
func (r *ParticipantRepository) Create(ctx context.Context, p *model.Participant) (*model.Participant, error) {
	return r.one(ctx, "insert participant",
		`INSERT INTO participants (name, email) VALUES ($1, $2) RETURNING id, name, email`,
		p.Name, p.Email,
	)
}
