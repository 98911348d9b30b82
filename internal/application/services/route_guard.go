package services

import (
	"context"
	"net/url"
	"strings"
)

// LoginPath is where protected routes send visitors without a session
const LoginPath = "/login"

// PublicRoutes never trigger a coin refresh and need no token
var PublicRoutes = map[string]struct{}{
	"/":                {},
	"/login":           {},
	"/signup":          {},
	"/find-password":   {},
	"/oauth2/redirect": {},
}

// NavigationDecision is the outcome of a route transition
type NavigationDecision struct {
	Path      string
	Public    bool
	Redirect  string
	Refreshed bool
}

// Allowed reports whether the route renders
func (d NavigationDecision) Allowed() bool {
	return d.Redirect == ""
}

// RouteGuard decides route transitions and reconciles the coin balance on protected routes
type RouteGuard struct {
	tokens TokenChecker
	coins  *CoinService
}

// NewRouteGuard creates a route guard
func NewRouteGuard(tokens TokenChecker, coins *CoinService) *RouteGuard {
	return &RouteGuard{tokens: tokens, coins: coins}
}

// IsPublic reports whether path is on the public allow-list
func IsPublic(path string) bool {
	_, ok := PublicRoutes[normalizePath(path)]
	return ok
}

// Navigate handles one transition to path. A protected route with a token issues exactly one coin refresh;
// refresh failures are logged by the coin service and do not block the route.
// Without a valid token the refresh zeroes the balance locally and the route redirects to login.
func (g *RouteGuard) Navigate(ctx context.Context, path string) NavigationDecision {
	p := normalizePath(path)
	decision := NavigationDecision{Path: p}

	if _, ok := PublicRoutes[p]; ok {
		decision.Public = true
		return decision
	}

	if !g.tokens.HasValidToken(ctx) {
		_ = g.coins.Refresh(ctx)
		decision.Redirect = LoginPath
		return decision
	}

	_ = g.coins.Refresh(ctx)
	decision.Refreshed = true
	return decision
}

func normalizePath(path string) string {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
