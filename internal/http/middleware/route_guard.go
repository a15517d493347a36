package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/security"
)

// RouteGuardConfig names the page paths the guard cares about. Protected
// paths require a session; auth-only paths bounce signed-in users back to
// the board.
type RouteGuardConfig struct {
	ProtectedPrefixes []string
	AuthOnlyPrefixes  []string
	SignInPath        string
	BoardPath         string
}

func DefaultRouteGuardConfig() RouteGuardConfig {
	return RouteGuardConfig{
		ProtectedPrefixes: []string{"/dashboard"},
		AuthOnlyPrefixes:  []string{"/signin", "/signup", "/verify-email", "/email-verified"},
		SignInPath:        "/signin",
		BoardPath:         "/dashboard",
	}
}

type routeGuard struct {
	cfg    RouteGuardConfig
	jwtMgr *security.JWTManager
}

// RouteGuard runs before any application logic. Unauthenticated requests to
// protected paths are redirected to sign-in with the original path and query
// preserved as callbackUrl; authenticated requests to auth-only pages are
// redirected to the board. Everything else passes through unmodified.
func RouteGuard(cfg RouteGuardConfig, jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	g := &routeGuard{cfg: cfg, jwtMgr: jwtMgr}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if target, ok := g.redirectTarget(r); ok {
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g *routeGuard) redirectTarget(r *http.Request) (string, bool) {
	path := r.URL.Path
	authenticated := sessionClaims(r, g.jwtMgr) != nil

	if hasPrefixAny(path, g.cfg.ProtectedPrefixes) && !authenticated {
		callback := path
		if r.URL.RawQuery != "" {
			callback += "?" + r.URL.RawQuery
		}
		return g.cfg.SignInPath + "?callbackUrl=" + url.QueryEscape(callback), true
	}
	if hasPrefixAny(path, g.cfg.AuthOnlyPrefixes) && authenticated {
		return g.cfg.BoardPath, true
	}
	return "", false
}

func hasPrefixAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
