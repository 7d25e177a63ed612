package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/client/cache"
	"github.com/tapetrack/tapectl/internal/client/models"
	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/logging"
)

// specCachePrefix namespaces every specification cache key so a single
// Invalidate call can drop them all after a mutation.
const specCachePrefix = "specs-"

// Specifications is the store for design specification documents. List
// reads go through the TTL cache; every mutation invalidates the whole
// specification namespace.
type Specifications struct {
	tracker

	mu    sync.RWMutex
	items []models.Specification

	api   *api.Dispatcher
	cache *cache.Cache
	log   logging.Logger
}

// NewSpecifications creates an empty specifications store backed by c.
func NewSpecifications(dispatcher *api.Dispatcher, c *cache.Cache, log logging.Logger) *Specifications {
	return &Specifications{api: dispatcher, cache: c, log: log}
}

// Items returns the last-fetched specification list.
func (s *Specifications) Items() []models.Specification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Statuses returns the status values a specification can hold, in
// workflow order.
func (s *Specifications) Statuses() []string {
	return []string{
		models.SpecDraft,
		models.SpecPendingReview,
		models.SpecApproved,
		models.SpecRejected,
		models.SpecUpdated,
		models.SpecArchived,
	}
}

// List fetches specifications matching the filters. Results are cached
// per filter combination, so repeat reads within the TTL skip the network.
func (s *Specifications) List(ctx context.Context, filters models.SpecificationFilters) (items []models.Specification, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	path := "/specifications"
	if query := filters.Query().Encode(); query != "" {
		path += "?" + query
	}
	key := specCachePrefix + path

	items, err = cache.Fetch(ctx, s.cache, key, cache.DefaultTTL, func(ctx context.Context) ([]models.Specification, error) {
		resp, err := s.api.Do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, fmt.Errorf("listing specifications: %s", api.ParseError(resp, "request failed"))
		}
		var fetched []models.Specification
		if err := resp.Decode(&fetched); err != nil {
			return nil, fmt.Errorf("decoding specifications: %w", err)
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return items, nil
}

// Get fetches a single specification by ID, bypassing the cache.
func (s *Specifications) Get(ctx context.Context, id string) (spec *models.Specification, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, "/specifications/"+id, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetching specification %s: %w", id, common.ErrNotFound)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching specification %s: %s", id, api.ParseError(resp, "request failed"))
	}
	var out models.Specification
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding specification: %w", err)
	}
	return &out, nil
}

// UploadParams describes a specification upload.
type UploadParams struct {
	Name        string
	Version     string
	Description string
	FileName    string
	File        []byte
}

// Upload sends the document as multipart form data and invalidates the
// cached lists.
func (s *Specifications) Upload(ctx context.Context, params UploadParams) (spec *models.Specification, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        params.Name,
		"version":     params.Version,
		"description": params.Description,
	}
	for field, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", field, err)
		}
	}
	part, err := w.CreateFormFile("file", params.FileName)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(params.File); err != nil {
		return nil, fmt.Errorf("writing form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	resp, err := s.api.Do(ctx, http.MethodPost, "/specifications/upload-spec", &api.Options{
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("uploading specification: %s", api.ParseError(resp, "upload failed"))
	}
	var out models.Specification
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding uploaded specification: %w", err)
	}
	s.InvalidateCache()
	return &out, nil
}

// Update applies a metadata update and invalidates the cached lists.
func (s *Specifications) Update(ctx context.Context, id string, fields map[string]any) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding specification update: %w", err)
	}
	resp, err := s.api.Do(ctx, http.MethodPut, "/specifications/"+id, &api.Options{Body: body})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("updating specification %s: %s", id, api.ParseError(resp, "request failed"))
	}
	s.InvalidateCache()
	return nil
}

// Delete removes a specification and invalidates the cached lists.
func (s *Specifications) Delete(ctx context.Context, id string) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodDelete, "/specifications/"+id, nil)
	if err != nil {
		return err
	}
	if !resp.OK() && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("deleting specification %s: %s", id, api.ParseError(resp, "request failed"))
	}
	s.InvalidateCache()
	return nil
}

// Approve moves a specification to the Approved status.
func (s *Specifications) Approve(ctx context.Context, id string) error {
	return s.transition(ctx, id, "approve", nil)
}

// Reject moves a specification to the Rejected status with a reason.
func (s *Specifications) Reject(ctx context.Context, id, reason string) error {
	body, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return fmt.Errorf("encoding rejection: %w", err)
	}
	return s.transition(ctx, id, "reject", body)
}

func (s *Specifications) transition(ctx context.Context, id, action string, body []byte) (err error) {
	s.begin()
	defer func() { s.finish(err) }()

	var opts *api.Options
	if body != nil {
		opts = &api.Options{Body: body}
	}
	resp, err := s.api.Do(ctx, http.MethodPost, fmt.Sprintf("/specifications/%s/%s", id, action), opts)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%s specification %s: %s", action, id, api.ParseError(resp, "request failed"))
	}
	s.InvalidateCache()
	return nil
}

// Download fetches the document bytes. The filename comes from the
// Content-Disposition header when the backend sets one.
func (s *Specifications) Download(ctx context.Context, id string) (filename string, data []byte, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	resp, err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/specifications/%s/download", id), nil)
	if err != nil {
		return "", nil, err
	}
	if !resp.OK() {
		return "", nil, fmt.Errorf("downloading specification %s: %s", id, api.ParseError(resp, "download failed"))
	}
	filename = dispositionFilename(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = id
	}
	return filename, resp.Body, nil
}

// InvalidateCache drops every cached specification list.
func (s *Specifications) InvalidateCache() {
	s.cache.Invalidate(specCachePrefix)
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
