package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/sanLimbu/taskplanner-api/internal"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "planner_session"

const headerRequestedWith = "X-Requested-With"

type contextKey string

const userContextKey contextKey = "user"

// UserResolver resolves a session token into the account it belongs to.
type UserResolver interface {
	UserFromSession(ctx context.Context, token string) (internal.User, error)
}

// RequireAuth guards a handler behind an authenticated session. Browser
// requests are redirected to the login route, partial/AJAX and API requests
// get a 401 payload instead.
func RequireAuth(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				challenge(w, r)
				return
			}

			user, err := resolver.UserFromSession(r.Context(), cookie.Value)
			if err != nil {
				challenge(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}

func challenge(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		renderErrorResponse(r.Context(), w, "authentication required",
			internal.NewErrorf(internal.ErrorCodeUnauthorized, "no session"))
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// wantsJSON reports whether the caller is a partial/AJAX or API client
// rather than a browser navigating pages.
func wantsJSON(r *http.Request) bool {
	if r.Header.Get(headerRequestedWith) == "XMLHttpRequest" {
		return true
	}

	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// userFromContext returns the authenticated user stored by RequireAuth.
func userFromContext(ctx context.Context) (internal.User, bool) {
	user, ok := ctx.Value(userContextKey).(internal.User)

	return user, ok
}
