package auth

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/models"
	"github.com/dkarpov/goblog/internal/repository/postgres"
	"github.com/dkarpov/goblog/internal/testutil"
)

func Test_SessionManager(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withManager := func(t *testing.T, cfg SessionConfig, fn func(m *SessionManager, user models.User)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}
			user, err := userRepo.CreateUser(t.Context(), "alice", "hash")
			require.NoError(t, err)

			m, err := NewSessionManager(cfg, &postgres.SessionRepo{DB: tx})
			require.NoError(t, err)

			fn(m, user)
		})
	}

	t.Run("issue and resolve ok", func(t *testing.T) {
		withManager(t, SessionConfig{}, func(m *SessionManager, user models.User) {
			session, err := m.Issue(t.Context(), user)

			require.NoError(t, err)
			assert.Len(t, session.Token, 64, "token should be 32 random bytes hex encoded")
			assert.Equal(t, user.ID, session.UserID)
			assert.WithinDuration(t, time.Now().Add(defaultSessionTTL), session.ExpiresAt, time.Minute)

			got, err := m.Resolve(t.Context(), session.Token)
			require.NoError(t, err)
			assert.Equal(t, session.UserID, got.UserID)
		})
	})

	t.Run("issue drops previous sessions", func(t *testing.T) {
		withManager(t, SessionConfig{}, func(m *SessionManager, user models.User) {
			first, err := m.Issue(t.Context(), user)
			require.NoError(t, err)

			second, err := m.Issue(t.Context(), user)
			require.NoError(t, err)

			_, err = m.Resolve(t.Context(), first.Token)
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

			_, err = m.Resolve(t.Context(), second.Token)
			assert.NoError(t, err)
		})
	})

	t.Run("resolve unknown token fails", func(t *testing.T) {
		withManager(t, SessionConfig{}, func(m *SessionManager, user models.User) {
			_, err := m.Resolve(t.Context(), "no-such-token")

			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})

	t.Run("resolve expired session fails and removes it", func(t *testing.T) {
		withManager(t, SessionConfig{TTL: time.Nanosecond}, func(m *SessionManager, user models.User) {
			session, err := m.Issue(t.Context(), user)
			require.NoError(t, err)

			_, err = m.Resolve(t.Context(), session.Token)
			assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

			// The expired session is gone now
			_, err = m.Resolve(t.Context(), session.Token)
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})

	t.Run("revoke deletes session", func(t *testing.T) {
		withManager(t, SessionConfig{}, func(m *SessionManager, user models.User) {
			session, err := m.Issue(t.Context(), user)
			require.NoError(t, err)

			err = m.Revoke(t.Context(), session.Token)
			require.NoError(t, err)

			_, err = m.Resolve(t.Context(), session.Token)
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})
}
