package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/models"
	"github.com/dkarpov/goblog/internal/testutil"
)

func Test_SessionRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createUser := func(t *testing.T, tx pgx.Tx, username string) models.User {
		t.Helper()
		r := UserRepo{DB: tx}
		user, err := r.CreateUser(t.Context(), username, "hash")
		require.NoError(t, err)
		return user
	}

	newSession := func(userID uuid.UUID, token string) models.Session {
		now := time.Now().Truncate(time.Microsecond) // postgres keeps microseconds
		return models.Session{
			Token:     token,
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(24 * time.Hour),
		}
	}

	t.Run("create and get session ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createUser(t, tx, "alice")
			r := SessionRepo{DB: tx}

			saved, err := r.CreateSession(t.Context(), newSession(user.ID, "token-1"))
			require.NoError(t, err)

			got, err := r.GetSession(t.Context(), "token-1")

			require.NoError(t, err)
			assert.Equal(t, saved.Token, got.Token)
			assert.Equal(t, user.ID, got.UserID)
			assert.Equal(t, saved.ExpiresAt, got.ExpiresAt)
		})
	})

	t.Run("get session returns expired sessions too", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createUser(t, tx, "alice")
			r := SessionRepo{DB: tx}

			s := newSession(user.ID, "stale")
			s.ExpiresAt = time.Now().Add(-time.Hour)
			_, err := r.CreateSession(t.Context(), s)
			require.NoError(t, err)

			got, err := r.GetSession(t.Context(), "stale")

			require.NoError(t, err, "expiry handling belongs to the service layer")
			assert.True(t, got.Expired(time.Now()))
		})
	})

	t.Run("get session not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := SessionRepo{DB: tx}

			_, err := r.GetSession(t.Context(), "no-such-token")

			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})

	t.Run("delete session ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createUser(t, tx, "alice")
			r := SessionRepo{DB: tx}
			_, err := r.CreateSession(t.Context(), newSession(user.ID, "token-1"))
			require.NoError(t, err)

			err = r.DeleteSession(t.Context(), "token-1")
			require.NoError(t, err)

			_, err = r.GetSession(t.Context(), "token-1")
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})

	t.Run("delete session not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := SessionRepo{DB: tx}

			err := r.DeleteSession(t.Context(), "no-such-token")

			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	})

	t.Run("delete user sessions removes all of them", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			alice := createUser(t, tx, "alice")
			bob := createUser(t, tx, "bob")
			r := SessionRepo{DB: tx}

			_, err := r.CreateSession(t.Context(), newSession(alice.ID, "alice-1"))
			require.NoError(t, err)
			_, err = r.CreateSession(t.Context(), newSession(alice.ID, "alice-2"))
			require.NoError(t, err)
			_, err = r.CreateSession(t.Context(), newSession(bob.ID, "bob-1"))
			require.NoError(t, err)

			err = r.DeleteUserSessions(t.Context(), alice.ID)
			require.NoError(t, err)

			_, err = r.GetSession(t.Context(), "alice-1")
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
			_, err = r.GetSession(t.Context(), "alice-2")
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

			_, err = r.GetSession(t.Context(), "bob-1")
			assert.NoError(t, err, "other users sessions must survive")
		})
	})
}
