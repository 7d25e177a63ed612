package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/client/cache"
	"github.com/tapetrack/tapectl/internal/logging"
)

const metadataCachePrefix = "metadata-"

// Enums holds the backend-defined option lists used by project forms.
type Enums struct {
	Platforms       []string
	EDATools        []string
	ProjectTypes    []string
	ProjectStatuses []string
}

// Metadata fetches the enum lists that drive project forms. The four
// endpoints are independent, so a load fans out in parallel; results are
// cached because these lists change on the order of releases, not requests.
type Metadata struct {
	tracker

	mu    sync.RWMutex
	enums Enums

	api   *api.Dispatcher
	cache *cache.Cache
	log   logging.Logger
}

// NewMetadata creates an empty metadata store backed by c.
func NewMetadata(dispatcher *api.Dispatcher, c *cache.Cache, log logging.Logger) *Metadata {
	return &Metadata{api: dispatcher, cache: c, log: log}
}

// Enums returns the last-loaded option lists.
func (s *Metadata) Enums() Enums {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enums
}

// Load fetches all four enum endpoints concurrently. One failing endpoint
// fails the whole load; partial enums would render broken forms.
func (s *Metadata) Load(ctx context.Context) (enums Enums, err error) {
	s.begin()
	defer func() { s.finish(err) }()

	g, ctx := errgroup.WithContext(ctx)
	targets := []struct {
		path string
		dst  *[]string
	}{
		{"/metadata/platforms", &enums.Platforms},
		{"/metadata/eda-tools", &enums.EDATools},
		{"/metadata/project-types", &enums.ProjectTypes},
		{"/metadata/project-statuses", &enums.ProjectStatuses},
	}
	for _, t := range targets {
		t := t
		g.Go(func() error {
			values, err := s.fetchList(ctx, t.path)
			if err != nil {
				return err
			}
			*t.dst = values
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return Enums{}, err
	}

	s.mu.Lock()
	s.enums = enums
	s.mu.Unlock()
	return enums, nil
}

func (s *Metadata) fetchList(ctx context.Context, path string) ([]string, error) {
	return cache.Fetch(ctx, s.cache, metadataCachePrefix+path, cache.DefaultTTL, func(ctx context.Context) ([]string, error) {
		resp, err := s.api.Do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, fmt.Errorf("fetching %s: %s", path, api.ParseError(resp, "request failed"))
		}
		var values []string
		if err := resp.Decode(&values); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return values, nil
	})
}
