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

// Checklists is the store for sign-off checklists and their templates.
type Checklists struct {
	tracker

	mu    sync.RWMutex
	items []models.Checklist

	api *api.Dispatcher
	log logging.Logger
}

// NewChecklists creates an empty checklists store.
func NewChecklists(dispatcher *api.Dispatcher, log logging.Logger) *Checklists {
	return &Checklists{api: dispatcher, log: log}
}

// Items returns the last-fetched checklist list.
func (s *Checklists) Items() []models.Checklist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// List fetches all checklists, optionally restricted to templates.
func (s *Checklists) List(ctx context.Context, templatesOnly bool) (items []models.Checklist, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	path := "/checklists"
	if templatesOnly {
		path += "?is_template=true"
	}
	resp, err := s.api.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("listing checklists: %s", api.ParseError(resp, "request failed"))
	}
	if err := resp.Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding checklists: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return items, nil
}

// Get fetches a single checklist by ID.
func (s *Checklists) Get(ctx context.Context, id int64) (c *models.Checklist, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, checklistPath(id), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetching checklist %d: %w", id, common.ErrNotFound)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching checklist %d: %s", id, api.ParseError(resp, "request failed"))
	}
	var out models.Checklist
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding checklist: %w", err)
	}
	return &out, nil
}

// Create creates a checklist or template and reloads the collection.
func (s *Checklists) Create(ctx context.Context, params models.ChecklistParams) (c *models.Checklist, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding checklist: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPost, "/checklists", &api.Options{Body: body})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("creating checklist: %s", api.ParseError(resp, "request failed"))
	}
	var out models.Checklist
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding created checklist: %w", err)
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a checklist's fields and reloads the collection.
func (s *Checklists) Update(ctx context.Context, id int64, params models.ChecklistParams) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding checklist update: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPut, checklistPath(id), &api.Options{Body: body})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("updating checklist %d: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// Delete removes a checklist and reloads the collection. A 404 counts as
// success; only the stale local copy is dropped.
func (s *Checklists) Delete(ctx context.Context, id int64) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodDelete, checklistPath(id), nil)
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
		return fmt.Errorf("deleting checklist %d: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// Assign sets the users responsible for completing a checklist.
func (s *Checklists) Assign(ctx context.Context, id int64, userIDs []string) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(map[string][]string{"assigned_to": userIDs})
	if err != nil {
		return fmt.Errorf("encoding assignment: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPost, checklistPath(id)+"/assign", &api.Options{Body: body})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("assigning checklist %d: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// Approve signs off a completed checklist.
func (s *Checklists) Approve(ctx context.Context, id int64) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodPost, checklistPath(id)+"/approve", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("approving checklist %d: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// Export fetches the checklist rendered as a document. The filename comes
// from the Content-Disposition header when present.
func (s *Checklists) Export(ctx context.Context, id int64) (filename string, data []byte, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, checklistPath(id)+"/export", nil)
	if err != nil {
		return "", nil, err
	}
	if !resp.OK() {
		return "", nil, fmt.Errorf("exporting checklist %d: %s", id, api.ParseError(resp, "export failed"))
	}
	filename = dispositionFilename(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = fmt.Sprintf("checklist-%d", id)
	}
	return filename, resp.Body, nil
}

func (s *Checklists) reload(ctx context.Context) error {
	resp, err := s.api.Do(ctx, http.MethodGet, "/checklists", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("reloading checklists: %s", api.ParseError(resp, "request failed"))
	}
	var items []models.Checklist
	if err := resp.Decode(&items); err != nil {
		return fmt.Errorf("decoding checklists: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func checklistPath(id int64) string {
	return "/checklists/" + strconv.FormatInt(id, 10)
}
