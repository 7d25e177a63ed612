package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/logging"
	"github.com/tapetrack/tapectl/internal/tokenx"
)

// memRepo is an in-memory tokens.Repository for dispatcher tests.
type memRepo struct {
	mu         sync.Mutex
	values     map[string]string
	clearCalls int
}

func newMemRepo() *memRepo {
	return &memRepo{values: make(map[string]string)}
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
	r.clearCalls++
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

func (r *memRepo) clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearCalls
}

func testLogger() logging.Logger {
	return logging.NewText(slog.LevelError)
}

func newTestDispatcher(t *testing.T, handler http.Handler, repo *memRepo, opts ...Option) *Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, repo, testLogger(), opts...)
}

func TestDoInjectsBearerHeader(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	var gotAuth, gotRequestID string
	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotRequestID = req.Header.Get(common.RequestIDHeader)
		w.Write([]byte(`[]`))
	})

	d := newTestDispatcher(t, r, repo)
	resp, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, "Bearer tok123", gotAuth)
	require.NotEmpty(t, gotRequestID)
	require.Equal(t, gotRequestID, resp.RequestID)
}

func TestDoRepairsDoubleBearer(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "Bearer tok123"))

	var gotAuth string
	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	d := newTestDispatcher(t, r, repo)
	_, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer tok123", gotAuth)
}

func TestDoWithoutTokenSynthesizes401(t *testing.T) {
	repo := newMemRepo()
	hit := false
	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) { hit = true })

	d := newTestDispatcher(t, r, repo)
	resp, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.True(t, resp.IsAuthError)
	require.False(t, resp.IsNetworkError)
	require.Contains(t, resp.ErrorDetail, "log in")
	require.False(t, hit, "request must not reach the network without a token")
}

func TestDoSkipsPlaceholderTokens(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "undefined"))
	require.NoError(t, repo.Set(context.Background(), "token", "legacy456"))

	var gotAuth string
	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	d := newTestDispatcher(t, r, repo)
	_, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer legacy456", gotAuth)
}

func TestRedirectPreservesAuthorization(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	var redirectedAuth string
	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/v1/projects-v2", http.StatusTemporaryRedirect)
	})
	r.Get("/api/v1/projects-v2", func(w http.ResponseWriter, req *http.Request) {
		redirectedAuth = req.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	d := newTestDispatcher(t, r, repo)
	resp, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, "Bearer tok123", redirectedAuth)
}

func TestRedirectFollowsOnlyOneHop(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	r := chi.NewRouter()
	r.Get("/api/v1/a", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/v1/b", http.StatusTemporaryRedirect)
	})
	r.Get("/api/v1/b", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/v1/c", http.StatusTemporaryRedirect)
	})
	r.Get("/api/v1/c", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{}`))
	})

	d := newTestDispatcher(t, r, repo)
	resp, err := d.Do(context.Background(), http.MethodGet, "/a", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
}

func TestRedirectWithoutLocationReturnsResponse(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTemporaryRedirect)
		w.Write([]byte(`{"detail":"relocation pending"}`))
	})

	d := newTestDispatcher(t, r, repo)
	resp, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	require.Contains(t, string(resp.Body), "relocation pending")
}

func Test401OnDataEndpointKeepsToken(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	handlerCalled := false
	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"You lack permission for this project"}`))
	})

	d := newTestDispatcher(t, r, repo, WithAuthFailureHandler(func(string) { handlerCalled = true }))
	resp, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.True(t, resp.IsAuthError)
	require.Equal(t, "You lack permission for this project", resp.ErrorDetail)
	require.Equal(t, 0, repo.clears())
	require.False(t, handlerCalled)
}

func Test401OnAuthEndpointClearsTokens(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	var gotDetail string
	r := chi.NewRouter()
	r.Get("/api/v1/auth/me", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Not authenticated"}`))
	})

	d := newTestDispatcher(t, r, repo, WithAuthFailureHandler(func(detail string) { gotDetail = detail }))
	resp, err := d.Do(context.Background(), http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)
	require.True(t, resp.IsAuthError)
	require.Equal(t, 1, repo.clears())
	require.Equal(t, "Not authenticated", gotDetail)

	tok, err := repo.FirstValid(context.Background())
	require.NoError(t, err)
	require.Empty(t, tok)
}

func Test401WithStructuredCodeClearsTokens(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"TOKEN_EXPIRED","detail":"Session timed out"}`))
	})

	d := newTestDispatcher(t, r, repo)
	resp, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.True(t, resp.IsAuthError)
	require.Equal(t, 1, repo.clears())
}

func TestNetworkErrorSynthesizesResponse(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // guaranteed connection refused

	d := New(srv.URL, repo, testLogger())
	resp, err := d.Do(context.Background(), http.MethodGet, "/projects", nil)
	require.NoError(t, err)
	require.True(t, resp.IsNetworkError)
	require.False(t, resp.IsAuthError)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotEmpty(t, resp.ErrorDetail)
	require.Equal(t, 0, repo.clears())
}

func TestDoAnonymousSendsNoAuthHeader(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	var gotAuth string
	r := chi.NewRouter()
	r.Post("/api/v1/auth/login", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	})

	d := newTestDispatcher(t, r, repo)
	resp, err := d.DoAnonymous(context.Background(), http.MethodPost, "/auth/login", &Options{Body: []byte(`{}`)})
	require.NoError(t, err)
	require.Empty(t, gotAuth)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	// Bad credentials on login are not a session failure.
	require.False(t, resp.IsAuthError)
	require.Equal(t, 0, repo.clears())
}

func TestContentTypeDefaultsToJSON(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	var gotCT string
	r := chi.NewRouter()
	r.Post("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		gotCT = req.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	})

	d := newTestDispatcher(t, r, repo)
	_, err := d.Do(context.Background(), http.MethodPost, "/projects", &Options{Body: []byte(`{"name":"x"}`)})
	require.NoError(t, err)
	require.Equal(t, "application/json", gotCT)
}

func TestCallerCannotOverrideAuthorization(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Set(context.Background(), common.PrimaryTokenKey, "tok123"))

	var gotAuth string
	r := chi.NewRouter()
	r.Get("/api/v1/projects", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	h := make(http.Header)
	h.Set("Authorization", "Bearer forged")
	d := newTestDispatcher(t, r, repo)
	_, err := d.Do(context.Background(), http.MethodGet, "/projects", &Options{Header: h})
	require.NoError(t, err)
	require.Equal(t, "Bearer tok123", gotAuth)
}
