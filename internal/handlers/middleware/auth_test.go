package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkarpov/goblog/internal/handlers/userctx"
	"github.com/dkarpov/goblog/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, token string) (models.User, error)

func (f authFunc) Authenticate(ctx context.Context, token string) (models.User, error) {
	return f(ctx, token)
}

func TestAuthMiddleware_Require(t *testing.T) {
	// Simple handler that writes username and token from the context
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		require.True(t, ok, "middleware must put the user into the context")
		token, ok := userctx.TokenFromContext(r.Context())
		require.True(t, ok, "middleware must put the session token into the context")

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(user.Username + ":" + token))
		require.NoError(t, err)
	})

	// Requests should observe redirects, not follow them
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	t.Run("valid session cookie ok", func(t *testing.T) {
		m := NewAuth(authFunc(func(ctx context.Context, token string) (models.User, error) {
			require.Equal(t, "token-1", token)
			return models.User{Username: "alice"}, nil
		}), "/login/")

		srv := httptest.NewServer(m.Require(handler))
		defer srv.Close()

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/post/new/", nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token-1"})

		resp, err := client.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "alice:token-1", string(body))
	})

	t.Run("no cookie redirects to login", func(t *testing.T) {
		m := NewAuth(authFunc(func(ctx context.Context, token string) (models.User, error) {
			t.Fatal("auth service must not be called without a cookie")
			return models.User{}, nil
		}), "/login/")

		srv := httptest.NewServer(m.Require(handler))
		defer srv.Close()

		resp, err := client.Get(srv.URL + "/post/new/")
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/login/?next=%2Fpost%2Fnew%2F", resp.Header.Get("Location"), "original path should ride along")
	})

	t.Run("rejected token redirects to login", func(t *testing.T) {
		m := NewAuth(authFunc(func(ctx context.Context, token string) (models.User, error) {
			return models.User{}, errors.New("session is expired")
		}), "/login/")

		srv := httptest.NewServer(m.Require(handler))
		defer srv.Close()

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/post/new/", nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	})
}
