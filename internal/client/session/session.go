// Package session owns the authenticated identity of the client: the
// current token, the loaded user profile, and the login/logout/check-auth
// lifecycle around them.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/client/models"
	"github.com/tapetrack/tapectl/internal/client/repositories/tokens"
	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/logging"
	"github.com/tapetrack/tapectl/internal/tokenx"
)

// DefaultAuthCheckTimeout bounds a background auth probe so a slow
// backend cannot hang startup.
const DefaultAuthCheckTimeout = 5 * time.Second

// Session tracks the current credentials and profile. All reads and
// writes of the token/user pair go through the mutex.
type Session struct {
	mu      sync.RWMutex
	token   string
	user    *models.UserProfile
	loading bool

	api              *api.Dispatcher
	tokens           tokens.Repository
	log              logging.Logger
	authCheckTimeout time.Duration
}

// New creates a session with no credentials loaded. Call Restore to pick
// up a persisted token.
func New(dispatcher *api.Dispatcher, repo tokens.Repository, log logging.Logger) *Session {
	return &Session{
		api:              dispatcher,
		tokens:           repo,
		log:              log,
		authCheckTimeout: DefaultAuthCheckTimeout,
	}
}

// SetAuthCheckTimeout overrides the background auth probe deadline.
func (s *Session) SetAuthCheckTimeout(d time.Duration) {
	if d > 0 {
		s.authCheckTimeout = d
	}
}

// Restore loads the first usable persisted token into memory. Placeholder
// values are skipped at the repository level. No network call is made.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.tokens.FirstValid(ctx)
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Bootstrap verifies a restored token against the backend in the
// background. It is a no-op when there is no token or the profile is
// already loaded.
func (s *Session) Bootstrap(ctx context.Context) {
	s.mu.RLock()
	needed := s.token != "" && s.user == nil
	s.mu.RUnlock()
	if !needed {
		return
	}
	go func() {
		if _, err := s.CheckAuth(ctx); err != nil {
			s.log.Debug(ctx, "background auth check failed", "error", err)
		}
	}()
}

// IsAuthenticated reports whether the session holds a non-expired token
// and a loaded user profile. A token alone is not enough: the profile is
// the proof the backend accepted it.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.user == nil {
		return false
	}
	return !tokenx.IsExpired(s.token, tokenx.DefaultExpiryBuffer)
}

// HasToken reports whether any token is loaded, expired or not.
func (s *Session) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the in-memory token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the loaded profile, or nil.
func (s *Session) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether an auth operation is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a token, persists it, and loads the
// user profile. Any failure after the token exchange clears all persisted
// tokens so the session never ends up half-authenticated.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("encoding login request: %w", err)
	}

	resp, err := s.api.DoAnonymous(ctx, http.MethodPost, "/auth/login", &api.Options{Body: body})
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("login failed: %s", api.ParseError(resp, "invalid credentials"))
	}

	var lr loginResponse
	if err := resp.Decode(&lr); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}
	token := lr.Token
	if token == "" {
		token = lr.AccessToken
	}
	if tokenx.IsPlaceholder(token) {
		return fmt.Errorf("login response: %w", common.ErrNoToken)
	}

	if err := s.tokens.Set(ctx, common.PrimaryTokenKey, token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.loadProfile(ctx); err != nil {
		s.clear(ctx)
		return fmt.Errorf("loading profile after login: %w", err)
	}
	s.log.Info(ctx, "logged in", "email", email)
	return nil
}

func (s *Session) loadProfile(ctx context.Context) error {
	resp, err := s.api.Do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%s: %w", api.ParseError(resp, "profile fetch failed"), common.ErrUnauthorized)
		}
		return fmt.Errorf("profile fetch failed: %s", api.ParseError(resp, resp.Status))
	}
	var user models.UserProfile
	if err := resp.Decode(&user); err != nil {
		return fmt.Errorf("decoding profile: %w", err)
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Logout notifies the backend on a best-effort basis and always clears
// local state, even when the request fails.
func (s *Session) Logout(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	if s.Token() != "" {
		if _, err := s.api.Do(ctx, http.MethodPost, "/auth/logout", nil); err != nil {
			s.log.Debug(ctx, "logout request failed", "error", err)
		}
	}
	s.clear(ctx)
	s.log.Info(ctx, "logged out")
}

// CheckAuth verifies the current token with the backend. A network
// failure is inconclusive and keeps the token; a 401/403 clears it.
func (s *Session) CheckAuth(ctx context.Context) (bool, error) {
	if s.Token() == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.authCheckTimeout)
	defer cancel()

	resp, err := s.api.Do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return false, fmt.Errorf("auth check: %w", err)
	}
	if resp.IsNetworkError {
		return false, fmt.Errorf("auth check: %w", common.ErrUnavailable)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		s.clear(ctx)
		return false, nil
	}
	if !resp.OK() {
		return false, fmt.Errorf("auth check: unexpected status %d", resp.StatusCode)
	}
	var user models.UserProfile
	if err := resp.Decode(&user); err != nil {
		return false, fmt.Errorf("decoding auth check response: %w", err)
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return true, nil
}

// HandleAuthFailure drops in-memory credentials after the dispatcher has
// already cleared persisted tokens. Wired as the dispatcher's auth
// failure handler.
func (s *Session) HandleAuthFailure(detail string) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.log.Warn(context.Background(), "session terminated by server", "detail", detail)
}

func (s *Session) clear(ctx context.Context) {
	if err := s.tokens.ClearAll(ctx); err != nil {
		s.log.Debug(ctx, "clearing persisted tokens failed", "error", err)
	}
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}
