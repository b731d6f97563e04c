package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		family_name TEXT NOT NULL,
		email       TEXT NOT NULL UNIQUE,
		password    TEXT NOT NULL,
		role        TEXT NOT NULL CHECK (role IN ('admin', 'user', 'guest'))
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL UNIQUE,
		locality      TEXT NOT NULL,
		street        TEXT NOT NULL,
		street_number INTEGER NOT NULL CHECK (street_number >= 0),
		postal_code   INTEGER NOT NULL CHECK (postal_code >= 0),
		capacity      INTEGER NOT NULL CHECK (capacity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id    BIGSERIAL PRIMARY KEY,
		name  TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id            BIGSERIAL PRIMARY KEY,
		activity_name TEXT NOT NULL,
		description   TEXT NOT NULL,
		category_name TEXT NOT NULL,
		date          TIMESTAMPTZ NOT NULL,
		finished      BOOLEAN NOT NULL DEFAULT FALSE,
		user_id       BIGINT NOT NULL REFERENCES users(id),
		location_id   BIGINT NOT NULL REFERENCES locations(id)
	)`,
	`CREATE TABLE IF NOT EXISTS activity_participants (
		activity_id    BIGINT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		participant_id BIGINT NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		PRIMARY KEY (activity_id, participant_id)
	)`,
	`CREATE INDEX IF NOT EXISTS activities_user_id_idx ON activities (user_id)`,
	`CREATE INDEX IF NOT EXISTS activity_participants_participant_idx ON activity_participants (participant_id)`,
}

// Migrate applies the schema to db.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
