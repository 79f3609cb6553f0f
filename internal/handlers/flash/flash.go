// Package flash carries one-shot status notifications between requests.
//
// A notification is set right before a redirect and displayed by whatever
// page renders next, at most once. It travels in a cookie signed with
// HS256 so the client can neither forge nor alter it, and it expires on
// its own if never consumed.
package flash

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName the notification travels in
	CookieName = "blognotice"

	// An unconsumed notification dies on its own after this
	messageTTL = 5 * time.Minute
)

type messageClaims struct {
	jwt.RegisteredClaims
	Message string `json:"msg"`
}

type Flash struct {
	key []byte
	alg jwt.SigningMethod
}

func New(secretKey string) (*Flash, error) {
	if secretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	return &Flash{
		key: []byte(secretKey),
		alg: jwt.SigningMethodHS256,
	}, nil
}

// Set stores msg as the pending notification for the next response
func (f *Flash) Set(w http.ResponseWriter, msg string) {
	now := time.Now()
	token := jwt.NewWithClaims(f.alg, messageClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(messageTTL)),
		},
		Message: msg,
	})

	signed, err := token.SignedString(f.key)
	if err != nil {
		// Losing a status message must never fail the request itself
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(messageTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notification and clears it
// Missing, tampered or expired cookies read as no notification at all
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}

	// Clear regardless of whether the value parses: one display max
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	claims := &messageClaims{}
	_, err = jwt.ParseWithClaims(
		cookie.Value,
		claims,
		func(t *jwt.Token) (any, error) { return f.key, nil },
		jwt.WithValidMethods([]string{f.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ""
	}

	return claims.Message
}
