package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/dkarpov/goblog/internal/handlers"
	"github.com/dkarpov/goblog/internal/handlers/flash"
	"github.com/dkarpov/goblog/internal/handlers/middleware"
	"github.com/dkarpov/goblog/internal/repository/postgres"
	"github.com/dkarpov/goblog/internal/service/auth"
	"github.com/dkarpov/goblog/internal/service/post"
	"github.com/dkarpov/goblog/internal/testutil"
)

type Services struct {
	AuthService *auth.AuthService
	PostService *post.PostService
	Sessions    *auth.SessionManager
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		userRepo := &postgres.UserRepo{DB: tx}
		postRepo := &postgres.PostRepo{DB: tx}
		sessionRepo := &postgres.SessionRepo{DB: tx}

		// Initialize services
		sessions, err := auth.NewSessionManager(auth.SessionConfig{}, sessionRepo)
		require.NoError(t, err, "session manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, sessions, userRepo)
		require.NoError(t, err, "auth service starting error")

		ps := post.NewService(postRepo)

		fl, err := flash.New("test-secret")
		require.NoError(t, err, "flash signer should be created without errors")

		// Complete all together as router
		router := handlers.NewRouter(
			handlers.NewAuth(as, fl, sessions.TTL()),
			handlers.NewPost(ps, fl),
			middleware.NewAuth(as, "/login/"),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService: as,
			PostService: ps,
			Sessions:    sessions,
		})
	})
}
