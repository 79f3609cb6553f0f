package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/models"
	"github.com/dkarpov/goblog/internal/repository"
)

const (
	defaultSessionTTL = 24 * time.Hour

	// 32 random bytes, 64 hex letters in the cookie
	sessionTokenBytesLen = 32
)

type SessionConfig struct {
	// Session lifetime, default is used when zero
	TTL time.Duration
}

// SessionManager issues and resolves opaque session tokens
// The token itself carries no data: everything lives in the sessions table
type SessionManager struct {
	ttl         time.Duration
	sessionRepo repository.SessionRepo
}

func NewSessionManager(cfg SessionConfig, sessionRepo repository.SessionRepo) (*SessionManager, error) {
	if sessionRepo == nil {
		return nil, errors.New("session repo must not be nil")
	}

	if cfg.TTL == 0 {
		cfg.TTL = defaultSessionTTL
	}

	return &SessionManager{
		ttl:         cfg.TTL,
		sessionRepo: sessionRepo,
	}, nil
}

// Issue creates a fresh session for the user
// Previous sessions of the user are dropped: one active session per user
func (m *SessionManager) Issue(ctx context.Context, user models.User) (models.Session, error) {
	var session models.Session

	if err := m.sessionRepo.DeleteUserSessions(ctx, user.ID); err != nil {
		return session, fmt.Errorf("error while dropping old sessions. Err: %w", err)
	}

	b := make([]byte, sessionTokenBytesLen)
	if _, err := rand.Read(b); err != nil {
		return session, fmt.Errorf("error while generating session token. Err: %w", err)
	}

	now := time.Now()
	session = models.Session{
		Token:     hex.EncodeToString(b),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	session, err := m.sessionRepo.CreateSession(ctx, session)
	if err != nil {
		return session, fmt.Errorf("error while saving session. Err: %w", err)
	}

	return session, nil
}

// Resolve returns the session for the token if it is still alive
// Expired sessions are removed on sight and read as not authenticated
func (m *SessionManager) Resolve(ctx context.Context, token string) (models.Session, error) {
	session, err := m.sessionRepo.GetSession(ctx, token)
	if err != nil {
		return session, err
	}

	if session.Expired(time.Now()) {
		_ = m.sessionRepo.DeleteSession(ctx, session.Token)
		return session, apperrors.ErrSessionExpired
	}

	return session, nil
}

// Revoke deletes the session for the token
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	return m.sessionRepo.DeleteSession(ctx, token)
}

// TTL reports the configured session lifetime
// Handlers need it to set the cookie max age
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}
