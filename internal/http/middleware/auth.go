package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/response"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "session_claims"

func ClaimsFromContext(ctx context.Context) (*security.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*security.SessionClaims)
	return claims, ok
}

// RequireSession rejects requests without a valid session token. The token is
// read from the session cookie first, then from a bearer header.
func RequireSession(jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := sessionClaims(r, jwtMgr)
			if claims == nil {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims)))
		})
	}
}

func sessionClaims(r *http.Request, jwtMgr *security.JWTManager) *security.SessionClaims {
	if jwtMgr == nil || r == nil {
		return nil
	}
	raw := security.GetCookie(r, security.SessionCookieName)
	if raw == "" {
		auth := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
			raw = strings.TrimSpace(auth[len("bearer "):])
		}
	}
	if raw == "" {
		return nil
	}
	claims, err := jwtMgr.ParseSessionToken(raw)
	if err != nil {
		return nil
	}
	return claims
}
