package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dkarpov/goblog/internal/db"
	"github.com/dkarpov/goblog/internal/handlers"
	"github.com/dkarpov/goblog/internal/handlers/flash"
	"github.com/dkarpov/goblog/internal/handlers/middleware"
	"github.com/dkarpov/goblog/internal/logger"
	"github.com/dkarpov/goblog/internal/repository/postgres"
	"github.com/dkarpov/goblog/internal/service/auth"
	"github.com/dkarpov/goblog/internal/service/post"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	userRepo := &postgres.UserRepo{DB: pool}
	postRepo := &postgres.PostRepo{DB: pool}
	sessionRepo := &postgres.SessionRepo{DB: pool}

	// Initialize services
	sessions, err := auth.NewSessionManager(auth.SessionConfig{TTL: c.SessionTTL}, sessionRepo)
	if err != nil {
		return nil, fmt.Errorf("error while creating session manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, sessions, userRepo)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	postService := post.NewService(postRepo)

	fl, err := flash.New(c.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("error while creating flash signer. Err: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuth(authService, fl, sessions.TTL())
	postHandler := handlers.NewPost(postService, fl)
	authMiddleware := middleware.NewAuth(authService, "/login/")

	mux := handlers.NewRouter(
		authHandler,
		postHandler,
		authMiddleware,
		middleware.LoggerMiddleware(logger),
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
