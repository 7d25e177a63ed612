package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/client/models"
	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/logging"
)

// Companies is the store for customer organizations.
type Companies struct {
	tracker

	mu    sync.RWMutex
	items []models.Company

	api *api.Dispatcher
	log logging.Logger
}

// NewCompanies creates an empty companies store.
func NewCompanies(dispatcher *api.Dispatcher, log logging.Logger) *Companies {
	return &Companies{api: dispatcher, log: log}
}

// Items returns the last-fetched company list.
func (s *Companies) Items() []models.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// List fetches all companies and replaces the local collection.
func (s *Companies) List(ctx context.Context) (items []models.Company, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	if err = s.reload(ctx); err != nil {
		return nil, err
	}
	return s.Items(), nil
}

// Get fetches a single company by ID.
func (s *Companies) Get(ctx context.Context, id int64) (c *models.Company, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, companyPath(id), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetching company %d: %w", id, common.ErrNotFound)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching company %d: %s", id, api.ParseError(resp, "request failed"))
	}
	var out models.Company
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding company: %w", err)
	}
	return &out, nil
}

// Create creates a company and reloads the collection.
func (s *Companies) Create(ctx context.Context, params models.CreateCompanyParams) (c *models.Company, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding company: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPost, "/companies", &api.Options{Body: body})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("creating company: %s", api.ParseError(resp, "request failed"))
	}
	var out models.Company
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding created company: %w", err)
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial update and reloads the collection.
func (s *Companies) Update(ctx context.Context, id int64, params models.UpdateCompanyParams) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding company update: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPut, companyPath(id), &api.Options{Body: body})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("updating company %d: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// Delete removes a company and reloads the collection. A 404 counts as
// success; only the stale local copy is dropped.
func (s *Companies) Delete(ctx context.Context, id int64) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodDelete, companyPath(id), nil)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		s.mu.Lock()
		kept := s.items[:0]
		for _, c := range s.items {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		s.items = kept
		s.mu.Unlock()
		return nil
	}
	if !resp.OK() {
		return fmt.Errorf("deleting company %d: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

func (s *Companies) reload(ctx context.Context) error {
	resp, err := s.api.Do(ctx, http.MethodGet, "/companies", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("listing companies: %s", api.ParseError(resp, "request failed"))
	}
	var items []models.Company
	if err := resp.Decode(&items); err != nil {
		return fmt.Errorf("decoding companies: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func companyPath(id int64) string {
	return "/companies/" + strconv.FormatInt(id, 10)
}
