package http

import (
	"context"
	"net/http"
	"strings"

	"booklending/internal/domain"
	context_ "booklending/internal/infra/context"
	"booklending/internal/infra/logging"
)

// SessionVerifier validates a bearer token and resolves the session it carries.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (domain.Session, error)
}

// AuthorizingMiddleware creates middleware that validates session tokens.
// Requests without a valid bearer token in the Authorization header are
// rejected with 401. On success the session is added to the request context.
func AuthorizingMiddleware(
	next http.Handler,
	verifier SessionVerifier,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			log.WarnContext(r.Context(), "no session token provided")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

			return
		}

		session, err := verifier.VerifySession(r.Context(), token)
		if err != nil {
			log.WarnContext(r.Context(), "verify session failed", "error", err)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r.WithContext(context_.WithSession(r.Context(), session)))
	})
}

// Only the Bearer scheme is accepted; a bare token in the header is not.
func bearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
