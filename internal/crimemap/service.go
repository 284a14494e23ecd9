// Package crimemap is the entry point of the map core: it turns a district
// selection into a rendered document through the render cache.
package crimemap

import (
	"context"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/model"
	"github.com/sells-group/crime-map/internal/rendercache"
)

// Renderer renders one selection.
type Renderer interface {
	Render(sel model.Selection) (model.Document, error)
}

// Result is a document plus where it came from.
type Result struct {
	Document model.Document
	Cached   bool
}

// Service answers selection updates. It is safe for concurrent use.
type Service struct {
	base  *model.Base
	cache *rendercache.Cache
}

// New wires a service over base. A nil cache gets a fresh one backed by
// renderer.
func New(base *model.Base, renderer Renderer, cache *rendercache.Cache) *Service {
	if cache == nil {
		cache = rendercache.New(renderer.Render)
	}
	return &Service{base: base, cache: cache}
}

// Update returns the map document for the selected districts. Order and
// duplicates do not affect which cache entry is used.
func (s *Service) Update(selection []string) (model.Document, error) {
	res, err := s.Resolve(selection)
	return res.Document, err
}

// Resolve is Update that also reports whether the document was cached.
func (s *Service) Resolve(selection []string) (Result, error) {
	doc, hit, err := s.cache.Resolve(model.Selection(selection))
	if err != nil {
		return Result{}, eris.Wrap(err, "crimemap: update")
	}
	return Result{Document: doc, Cached: hit}, nil
}

// Districts returns the checkbox options: the aggregate table districts in
// reverse table order.
func (s *Service) Districts() []string {
	names := s.base.DistrictNames()
	slices.Reverse(names)
	return names
}

// DefaultSelection is the initial selection: every aggregate table district
// in table order.
func (s *Service) DefaultSelection() []string {
	return s.base.DistrictNames()
}

// Base returns the startup data.
func (s *Service) Base() *model.Base { return s.base }

// Stats returns render cache statistics.
func (s *Service) Stats() rendercache.Stats {
	return s.cache.Stats()
}

// Warm renders each selection into the cache, stopping at the first error or
// when ctx is done.
func (s *Service) Warm(ctx context.Context, selections ...[]string) error {
	for _, sel := range selections {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "crimemap: warm")
		}
		start := time.Now()
		if _, err := s.Update(sel); err != nil {
			return eris.Wrap(err, "crimemap: warm")
		}
		zap.L().Info("crimemap: warmed selection",
			zap.Int("districts", len(sel)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return nil
}
