package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/client/models"
	"github.com/tapetrack/tapectl/internal/logging"
)

// Branding is the store for the tenant's branding settings.
type Branding struct {
	tracker

	mu       sync.RWMutex
	settings *models.BrandingSettings

	api *api.Dispatcher
	log logging.Logger
}

// NewBranding creates an empty branding store.
func NewBranding(dispatcher *api.Dispatcher, log logging.Logger) *Branding {
	return &Branding{api: dispatcher, log: log}
}

// Settings returns the last-fetched branding, or nil.
func (s *Branding) Settings() *models.BrandingSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Load fetches the branding settings.
func (s *Branding) Load(ctx context.Context) (b *models.BrandingSettings, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, "/settings/branding", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching branding: %s", api.ParseError(resp, "request failed"))
	}
	var out models.BrandingSettings
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding branding: %w", err)
	}
	s.mu.Lock()
	s.settings = &out
	s.mu.Unlock()
	return &out, nil
}

// Update replaces the branding settings and stores the backend's echo.
func (s *Branding) Update(ctx context.Context, settings models.BrandingSettings) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding branding: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPut, "/settings/branding", &api.Options{Body: body})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("updating branding: %s", api.ParseError(resp, "request failed"))
	}
	var out models.BrandingSettings
	if err := resp.Decode(&out); err != nil {
		// Some deployments answer with an empty body; keep what was sent.
		out = settings
	}
	s.mu.Lock()
	s.settings = &out
	s.mu.Unlock()
	return nil
}
