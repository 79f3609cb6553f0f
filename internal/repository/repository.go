package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dkarpov/goblog/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Replace the user's password hash
	// If user not found must return apperrors.ErrUserNotFound
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) (models.User, error)
}

// Post repository interface
type PostRepo interface {
	// Create post owned by authorID
	// Assigns id and created_at; seq is assigned by the database
	CreatePost(ctx context.Context, authorID uuid.UUID, title string, content string) (models.Post, error)

	// Get post by id
	// If post not found must return apperrors.ErrPostNotFound
	GetPost(ctx context.Context, id uuid.UUID) (models.Post, error)

	// Update title and content only; id, author and created_at stay as they are
	// If post not found must return apperrors.ErrPostNotFound
	UpdatePost(ctx context.Context, id uuid.UUID, title string, content string) (models.Post, error)

	// Delete post permanently
	// If post not found must return apperrors.ErrPostNotFound
	DeletePost(ctx context.Context, id uuid.UUID) error

	// List all posts ordered by created_at descending, then seq descending
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// Session repository interface
type SessionRepo interface {
	// Persist session
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)

	// Get session by token regardless of expiry
	// If session not found must return apperrors.ErrSessionNotFound
	GetSession(ctx context.Context, token string) (models.Session, error)

	// Delete session by token
	// If session not found must return apperrors.ErrSessionNotFound
	DeleteSession(ctx context.Context, token string) error

	// Delete every session that belongs to the user
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
}
