package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/client/models"
	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/logging"
)

// Vendors is the store for foundry and IP partners.
type Vendors struct {
	tracker

	mu    sync.RWMutex
	items []models.Vendor

	api *api.Dispatcher
	log logging.Logger
}

// NewVendors creates an empty vendors store.
func NewVendors(dispatcher *api.Dispatcher, log logging.Logger) *Vendors {
	return &Vendors{api: dispatcher, log: log}
}

// Items returns the last-fetched vendor list.
func (s *Vendors) Items() []models.Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// List fetches all vendors and replaces the local collection.
func (s *Vendors) List(ctx context.Context) (items []models.Vendor, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	if err = s.reload(ctx); err != nil {
		return nil, err
	}
	return s.Items(), nil
}

// Get fetches a single vendor by ID.
func (s *Vendors) Get(ctx context.Context, id string) (v *models.Vendor, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, "/vendors/"+id, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetching vendor %s: %w", id, common.ErrNotFound)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching vendor %s: %s", id, api.ParseError(resp, "request failed"))
	}
	var out models.Vendor
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding vendor: %w", err)
	}
	return &out, nil
}

// Create registers a vendor and reloads the collection.
func (s *Vendors) Create(ctx context.Context, params models.VendorParams) (v *models.Vendor, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding vendor: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPost, "/vendors", &api.Options{Body: body})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("creating vendor: %s", api.ParseError(resp, "request failed"))
	}
	var out models.Vendor
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding created vendor: %w", err)
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a vendor's fields and reloads the collection.
func (s *Vendors) Update(ctx context.Context, id string, params models.VendorParams) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding vendor update: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPut, "/vendors/"+id, &api.Options{Body: body})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("updating vendor %s: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// Delete removes a vendor and reloads the collection. A 404 counts as
// success; only the stale local copy is dropped.
func (s *Vendors) Delete(ctx context.Context, id string) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodDelete, "/vendors/"+id, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		s.mu.Lock()
		kept := s.items[:0]
		for _, v := range s.items {
			if v.ID != id {
				kept = append(kept, v)
			}
		}
		s.items = kept
		s.mu.Unlock()
		return nil
	}
	if !resp.OK() {
		return fmt.Errorf("deleting vendor %s: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

func (s *Vendors) reload(ctx context.Context) error {
	resp, err := s.api.Do(ctx, http.MethodGet, "/vendors", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("listing vendors: %s", api.ParseError(resp, "request failed"))
	}
	var items []models.Vendor
	if err := resp.Decode(&items); err != nil {
		return fmt.Errorf("decoding vendors: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}
