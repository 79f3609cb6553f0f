package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/models"
	"github.com/dkarpov/goblog/internal/repository"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher used during registration and login
	// Default bcrypt hasher is used when nil
	Hasher PasswordHasher
}

// AuthService drives the session state machine: anonymous and authenticated
// are the only states, transitions are register+login, logout and the
// password change self transition
type AuthService struct {
	hasher   PasswordHasher
	sessions *SessionManager
	userRepo repository.UserRepo
}

func NewService(cfg Config, sessions *SessionManager, userRepo repository.UserRepo) (*AuthService, error) {
	if sessions == nil || userRepo == nil {
		return nil, errors.New("sessions and user repo must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	return &AuthService{
		hasher:   hasher,
		sessions: sessions,
		userRepo: userRepo,
	}, nil
}

// Register creates the user
// It deliberately does not start a session: the new user logs in separately
func (s *AuthService) Register(ctx context.Context, username string, password string) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, hash)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login verifies credentials and starts a session
// Any failure reads the same: whether the username exists stays secret
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.User, models.Session, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, models.Session{}, apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, models.Session{}, apperrors.ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return models.User{}, models.Session{}, fmt.Errorf("error while issuing session. Err: %w", err)
	}

	return user, session, nil
}

// Logout terminates the session for the token
// Unknown tokens are fine: logging out twice must not be an error
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.sessions.Revoke(ctx, token)
	if err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		return fmt.Errorf("error while revoking session. Err: %w", err)
	}

	return nil
}

// ChangePassword replaces the user's credential after checking the old one
// The current session stays authenticated
func (s *AuthService) ChangePassword(ctx context.Context, user models.User, oldPassword string, newPassword string) error {
	if err := s.hasher.Compare(user.HashedPassword, oldPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password, error=%w", err)
	}

	if _, err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	return nil
}

// Authenticate resolves a session token to its user
// Expired or unknown tokens mean the caller is anonymous
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}
