package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dkarpov/goblog/internal/handlers/userctx"
	"github.com/dkarpov/goblog/internal/models"
)

// SessionCookieName is the cookie the opaque session token travels in
const SessionCookieName = "sessionid"

type authService interface {
	// Resolve a session token to its user
	Authenticate(ctx context.Context, token string) (models.User, error)
}

type AuthMiddleware struct {
	auth authService

	// Where anonymous visitors are sent, usually /login/
	loginURL string
}

func NewAuth(auth authService, loginURL string) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, loginURL: loginURL}
}

// Require gates next behind a live session
// Anonymous visitors are redirected to the login page, not shown an error:
// the original path rides along in the next parameter
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			m.redirectToLogin(w, r)
			return
		}

		user, err := m.auth.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			m.redirectToLogin(w, r)
			return
		}

		ctx := userctx.New(r.Context(), user, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := m.loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusSeeOther)
}
