package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/handlers/flash"
	"github.com/dkarpov/goblog/internal/handlers/middleware"
	"github.com/dkarpov/goblog/internal/handlers/render"
	"github.com/dkarpov/goblog/internal/handlers/userctx"
	"github.com/dkarpov/goblog/internal/models"
)

type authService interface {
	// Register user with username and password
	// Has to return apperrors.ErrUserAlreadyExists if username is taken
	Register(ctx context.Context, username string, password string) (models.User, error)

	// Login user and issue a session
	// Has to return apperrors.ErrInvalidCredentials on any failure
	Login(ctx context.Context, username string, password string) (models.User, models.Session, error)

	// Terminate the session for the token, idempotent
	Logout(ctx context.Context, token string) error

	// Replace user's credential after verifying the old one
	// Has to return apperrors.ErrInvalidCredentials if the old one is wrong
	ChangePassword(ctx context.Context, user models.User, oldPassword string, newPassword string) error
}

type AuthHandler struct {
	auth       authService
	flash      *flash.Flash
	sessionTTL time.Duration
}

func NewAuth(auth authService, flash *flash.Flash, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		flash:      flash,
		sessionTTL: sessionTTL,
	}
}

func (h *AuthHandler) signupForm(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Notification string `json:"notification,omitempty"`
	}

	render.JSON(w, response{Notification: h.flash.Pop(w, r)})
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	type SignupRequest struct {
		Username        string `json:"username" validate:"required,min=2,max=50"`
		Password        string `json:"password" validate:"required,min=8"`
		PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	}

	data, err := render.BindAndValidate[SignupRequest](w, r)
	if err != nil {
		return
	}

	_, err = h.auth.Register(r.Context(), data.Username, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	// Signing up does not log the new user in: send them to the login page
	h.flash.Set(w, "Your account has been created! Please log in.")
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Notification string `json:"notification,omitempty"`
	}

	render.JSON(w, response{Notification: h.flash.Pop(w, r)})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	user, session, err := h.auth.Login(r.Context(), data.Username, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			// Same answer whether the username exists or not
			render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.setSessionCookie(w, session.Token)
	h.flash.Set(w, fmt.Sprintf("Welcome back, %s!", user.Username))
	http.Redirect(w, r, safeNextURL(r), http.StatusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	token, ok := userctx.TokenFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.clearSessionCookie(w)
	h.flash.Set(w, fmt.Sprintf("Goodbye %s! You have been successfully logged out.", user.Username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) passwordChangeForm(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Notification string `json:"notification,omitempty"`
	}

	render.JSON(w, response{Notification: h.flash.Pop(w, r)})
}

func (h *AuthHandler) passwordChange(w http.ResponseWriter, r *http.Request) {
	type PasswordChangeRequest struct {
		OldPassword        string `json:"old_password" validate:"required"`
		NewPassword        string `json:"new_password" validate:"required,min=8"`
		NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := render.BindAndValidate[PasswordChangeRequest](w, r)
	if err != nil {
		return
	}

	err = h.auth.ChangePassword(r.Context(), user, data.OldPassword, data.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			// Recoverable form error, the session stays authenticated
			render.FieldErrors(w, map[string]string{"old_password": "Your old password was entered incorrectly"})
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.flash.Set(w, "Your password has been changed successfully!")
	http.Redirect(w, r, "/password_change/done/", http.StatusSeeOther)
}

func (h *AuthHandler) passwordChangeDone(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Notification string `json:"notification,omitempty"`
	}

	render.JSON(w, response{Notification: h.flash.Pop(w, r)})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNextURL returns the local path the login form asked to come back to
// Anything absolute or scheme-relative is discarded to keep redirects on
// site; backslashes are rejected too since browsers treat them as slashes,
// which would turn "/\evil.example" into a scheme-relative url
func safeNextURL(r *http.Request) string {
	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	if strings.ContainsRune(next, '\\') {
		return "/"
	}
	if _, err := url.Parse(next); err != nil {
		return "/"
	}
	return next
}
