package cli

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tapetrack/tapectl/internal/client/session"
	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/logging"
	"github.com/tapetrack/tapectl/internal/tokenx"
)

// memRepo is an in-memory tokens.Repository for guard tests.
type memRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func (r *memRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *memRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *memRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func (r *memRepo) ClearAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = make(map[string]string)
	return nil
}

func (r *memRepo) FirstValid(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range common.TokenKeys() {
		if v, ok := r.values[key]; ok && !tokenx.IsPlaceholder(v) {
			return v, nil
		}
	}
	return "", nil
}

func guardWithToken(t *testing.T, token string) *Guard {
	t.Helper()
	log := logging.NewText(slog.LevelError)
	repo := &memRepo{values: make(map[string]string)}
	if token != "" {
		require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, token))
	}
	s := session.New(nil, repo, log)
	require.NoError(t, s.Restore(context.Background()))
	return NewGuard(s, log)
}

func TestGuardAllowsPublicRoutes(t *testing.T) {
	g := guardWithToken(t, "")
	for _, path := range []string{"/", "/login", "/about", "/privacy", "/terms", "/security"} {
		out := g.Resolve(path)
		require.Equal(t, path, out.Route.Path)
		require.Empty(t, out.RedirectedFrom)
	}
}

func TestGuardRedirectsProtectedWithoutToken(t *testing.T) {
	g := guardWithToken(t, "")
	for _, path := range []string{"/dashboard", "/projects", "/specs", "/checklists", "/vendors", "/companies", "/settings", "/settings/branding", "/profile"} {
		out := g.Resolve(path)
		require.Equal(t, "/login", out.Route.Path, "path %s", path)
		require.Equal(t, path, out.RedirectedFrom)
	}
}

func TestGuardAdmitsOnTokenAlone(t *testing.T) {
	// Presence of a token admits; the screen's own backend call is the
	// real validity check.
	g := guardWithToken(t, "tok123")
	out := g.Resolve("/projects")
	require.Equal(t, "/projects", out.Route.Path)
	require.Empty(t, out.RedirectedFrom)
}

func TestGuardBouncesLoginWhenAuthenticated(t *testing.T) {
	g := guardWithToken(t, "tok123")
	out := g.Resolve("/login")
	require.Equal(t, "/dashboard", out.Route.Path)
	require.Equal(t, "/login", out.RedirectedFrom)
}

func TestGuardAllowsNavigationWhenResolutionPanics(t *testing.T) {
	orig := findRoute
	findRoute = func(string) (Route, bool) { panic("route table corrupted") }
	t.Cleanup(func() { findRoute = orig })

	// A broken guard must never lock the user out: the navigation goes
	// through as requested.
	g := guardWithToken(t, "")
	out := g.Resolve("/projects")
	require.Equal(t, "/projects", out.Route.Path)
	require.Empty(t, out.RedirectedFrom)
}

func TestGuardUnknownPathLandsHome(t *testing.T) {
	g := guardWithToken(t, "tok123")
	out := g.Resolve("/no-such-screen")
	require.Equal(t, "/", out.Route.Path)
	require.Equal(t, "/no-such-screen", out.RedirectedFrom)
}
