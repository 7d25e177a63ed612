package cli

import (
	"context"

	"github.com/tapetrack/tapectl/internal/client/session"
	"github.com/tapetrack/tapectl/internal/logging"
)

// Route is one addressable screen.
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
}

// routes is the full route table. Paths are matched exactly.
var routes = []Route{
	{Path: "/", Name: "home"},
	{Path: "/login", Name: "login"},
	{Path: "/about", Name: "about"},
	{Path: "/privacy", Name: "privacy"},
	{Path: "/terms", Name: "terms"},
	{Path: "/security", Name: "security"},
	{Path: "/dashboard", Name: "dashboard", RequiresAuth: true},
	{Path: "/projects", Name: "projects", RequiresAuth: true},
	{Path: "/specs", Name: "specifications", RequiresAuth: true},
	{Path: "/checklists", Name: "checklists", RequiresAuth: true},
	{Path: "/speclint", Name: "spec-lint", RequiresAuth: true},
	{Path: "/vendors", Name: "vendors", RequiresAuth: true},
	{Path: "/companies", Name: "companies", RequiresAuth: true},
	{Path: "/settings", Name: "settings", RequiresAuth: true},
	{Path: "/settings/branding", Name: "branding", RequiresAuth: true},
	{Path: "/profile", Name: "profile", RequiresAuth: true},
}

// Outcome is the result of resolving a navigation.
type Outcome struct {
	Route Route

	// RedirectedFrom is the originally requested path when the guard
	// diverted the navigation, "" otherwise.
	RedirectedFrom string
}

// Guard decides whether a navigation may proceed. Admission to protected
// screens requires only a stored token; the screens themselves hit the
// backend and surface a login redirect if the token turns out to be dead.
type Guard struct {
	session *session.Session
	log     logging.Logger
}

// NewGuard creates a guard over the session.
func NewGuard(s *session.Session, log logging.Logger) *Guard {
	return &Guard{session: s, log: log}
}

// Resolve maps a requested path to the screen navigation actually lands on.
// Unknown paths land on home. If resolution itself fails, the navigation is
// allowed as requested: a broken guard must never lock the user out of the
// whole client.
func (g *Guard) Resolve(path string) (out Outcome) {
	requested := Route{Path: path, Name: path}
	defer func() {
		if r := recover(); r != nil {
			g.log.Error(context.Background(), "route guard failed, allowing navigation", "path", path, "panic", r)
			out = Outcome{Route: requested}
		}
	}()

	route, ok := findRoute(path)
	if !ok {
		return Outcome{Route: mustRoute("/"), RedirectedFrom: path}
	}
	if route.RequiresAuth && !g.session.HasToken() {
		return Outcome{Route: mustRoute("/login"), RedirectedFrom: path}
	}
	if route.Path == "/login" && g.session.HasToken() {
		return Outcome{Route: mustRoute("/dashboard"), RedirectedFrom: path}
	}
	return Outcome{Route: route}
}

// findRoute is a variable so tests can inject a failing lookup.
var findRoute = func(path string) (Route, bool) {
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

func mustRoute(path string) Route {
	r, ok := findRoute(path)
	if !ok {
		panic("unknown route " + path)
	}
	return r
}
