package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/models"
)

type SessionRepo struct {
	DB DBTX
}

const createSession = `-- name: CreateSession
INSERT INTO sessions (token, user_id, created_at, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING token, user_id, created_at, expires_at
`

func (r *SessionRepo) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, createSession, session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	saved, err := pgx.CollectOneRow(rows, rowToSession)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

const getSession = `-- name: GetSession
SELECT token, user_id, created_at, expires_at FROM sessions
WHERE token = $1
`

// Get session by token
// Returns the session even if it expired already: expiry is the caller's call
func (r *SessionRepo) GetSession(ctx context.Context, token string) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, getSession, token)
	session, err := pgx.CollectOneRow(rows, rowToSession)

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, pgx.ErrNoRows):
		return session, apperrors.ErrSessionNotFound
	default:
		return session, fmt.Errorf("db error: %w", err)
	}
}

const deleteSession = `-- name: DeleteSession
DELETE FROM sessions
WHERE token = $1
`

func (r *SessionRepo) DeleteSession(ctx context.Context, token string) error {
	tag, err := r.DB.Exec(ctx, deleteSession, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

const deleteUserSessions = `-- name: DeleteUserSessions
DELETE FROM sessions
WHERE user_id = $1
`

func (r *SessionRepo) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, deleteUserSessions, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func rowToSession(row pgx.CollectableRow) (models.Session, error) {
	var s models.Session
	err := row.Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	return s, err
}
