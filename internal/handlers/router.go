package handlers

import (
	"net/http"

	"github.com/dkarpov/goblog/internal/handlers/middleware"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter wires the whole HTTP surface
// Reads are public, everything that mutates sits behind the auth middleware;
// the ownership check stays inside the post handlers because it needs the
// fetched post first
func NewRouter(
	authHandler *AuthHandler,
	postHandler *PostHandler,
	authMiddleware *middleware.AuthMiddleware,
	mds ...func(next http.Handler) http.Handler,
) http.Handler {
	withAuth := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Require(h)
	}

	mux := http.NewServeMux()

	// Public reads
	mux.HandleFunc("GET /{$}", postHandler.home)
	mux.HandleFunc("GET /post/{id}/{$}", postHandler.view)

	// Post mutations, author only
	mux.Handle("GET /post/new/{$}", withAuth(postHandler.createForm))
	mux.Handle("POST /post/new/{$}", withAuth(postHandler.create))
	mux.Handle("GET /post/{id}/edit/{$}", withAuth(postHandler.editForm))
	mux.Handle("POST /post/{id}/edit/{$}", withAuth(postHandler.edit))
	mux.Handle("GET /post/{id}/delete/{$}", withAuth(postHandler.deleteForm))
	mux.Handle("POST /post/{id}/delete/{$}", withAuth(postHandler.delete))

	// Auth flows
	mux.HandleFunc("GET /signup/{$}", authHandler.signupForm)
	mux.HandleFunc("POST /signup/{$}", authHandler.signup)
	mux.HandleFunc("GET /login/{$}", authHandler.loginForm)
	mux.HandleFunc("POST /login/{$}", authHandler.login)
	mux.Handle("GET /logout/{$}", withAuth(authHandler.logout))
	mux.Handle("POST /logout/{$}", withAuth(authHandler.logout))
	mux.Handle("GET /password_change/{$}", withAuth(authHandler.passwordChangeForm))
	mux.Handle("POST /password_change/{$}", withAuth(authHandler.passwordChange))
	mux.Handle("GET /password_change/done/{$}", withAuth(authHandler.passwordChangeDone))

	return chain(mux, mds...)
}
