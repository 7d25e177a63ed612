package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/client/models"
	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/logging"
)

// Projects is the store for tape-out projects.
type Projects struct {
	tracker

	mu    sync.RWMutex
	items []models.Project

	api *api.Dispatcher
	log logging.Logger
}

// NewProjects creates an empty projects store.
func NewProjects(dispatcher *api.Dispatcher, log logging.Logger) *Projects {
	return &Projects{api: dispatcher, log: log}
}

// Items returns the last-fetched project list.
func (s *Projects) Items() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// List fetches all projects and replaces the local collection.
func (s *Projects) List(ctx context.Context) (items []models.Project, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("listing projects: %s", api.ParseError(resp, "request failed"))
	}
	if err := resp.Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding projects: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return items, nil
}

// Get fetches a single project by ID.
func (s *Projects) Get(ctx context.Context, id string) (p *models.Project, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, "/projects/"+id, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetching project %s: %w", id, common.ErrNotFound)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching project %s: %s", id, api.ParseError(resp, "request failed"))
	}
	var project models.Project
	if err := resp.Decode(&project); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	return &project, nil
}

// Create creates a project and reloads the collection so local state
// matches whatever the backend filled in.
func (s *Projects) Create(ctx context.Context, params models.CreateProjectParams) (p *models.Project, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding project: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPost, "/projects", &api.Options{Body: body})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("creating project: %s", api.ParseError(resp, "request failed"))
	}
	var project models.Project
	if err := resp.Decode(&project); err != nil {
		return nil, fmt.Errorf("decoding created project: %w", err)
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return &project, nil
}

// Update applies a partial update and reloads the collection.
func (s *Projects) Update(ctx context.Context, id string, params models.UpdateProjectParams) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding project update: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPut, "/projects/"+id, &api.Options{Body: body})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("updating project %s: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// Delete removes a project and reloads the collection. A 404 is treated as
// success — the project is already gone server-side, so only the stale
// local copy is dropped.
func (s *Projects) Delete(ctx context.Context, id string) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodDelete, "/projects/"+id, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		s.mu.Lock()
		kept := s.items[:0]
		for _, p := range s.items {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.items = kept
		s.mu.Unlock()
		return nil
	}
	if !resp.OK() {
		return fmt.Errorf("deleting project %s: %s", id, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// LinkSpec attaches a specification to a project.
func (s *Projects) LinkSpec(ctx context.Context, projectID, specID string) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	path := fmt.Sprintf("/projects/%s/specs/%s", projectID, specID)
	resp, err := s.api.Do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("linking spec %s to project %s: %s", specID, projectID, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// UnlinkSpec detaches a specification from a project.
func (s *Projects) UnlinkSpec(ctx context.Context, projectID, specID string) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	path := fmt.Sprintf("/projects/%s/specs/%s", projectID, specID)
	resp, err := s.api.Do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("unlinking spec %s from project %s: %s", specID, projectID, api.ParseError(resp, "request failed"))
	}
	return s.reload(ctx)
}

// LinkedContent fetches everything attached to a project, partitioned by
// kind. A millisecond timestamp is appended so no intermediary serves a
// stale aggregate right after a link change.
func (s *Projects) LinkedContent(ctx context.Context, projectID string) (lc models.LinkedContent, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	path := fmt.Sprintf("/projects/%s/linked-content?t=%d", projectID, time.Now().UnixMilli())
	resp, err := s.api.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return models.LinkedContent{}, err
	}
	if !resp.OK() {
		return models.LinkedContent{}, fmt.Errorf("fetching linked content for %s: %s", projectID, api.ParseError(resp, "request failed"))
	}
	var items []models.LinkedContentItem
	if err := resp.Decode(&items); err != nil {
		return models.LinkedContent{}, fmt.Errorf("decoding linked content: %w", err)
	}
	return models.PartitionLinkedContent(items), nil
}

func (s *Projects) reload(ctx context.Context) error {
	resp, err := s.api.Do(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("reloading projects: %s", api.ParseError(resp, "request failed"))
	}
	var items []models.Project
	if err := resp.Decode(&items); err != nil {
		return fmt.Errorf("decoding projects: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}
