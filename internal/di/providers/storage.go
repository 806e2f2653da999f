package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/config"
	"github.com/nikoapp/niko-server/internal/logger"
	"github.com/nikoapp/niko-server/internal/search"
)

// CacheHandle wraps the badger fallback cache with Shutdownable.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the local fallback cache. A cache that fails to
// open is fatal: without it the fail-open guarantees are gone.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.Open(filepath.Join(cfg.Data.BasePath, "cache"), log.Logger)
	if err != nil {
		return nil, err
	}
	return &CacheHandle{Cache: c}, nil
}

// SearchIndexHandle wraps the bleve note index with Shutdownable.
type SearchIndexHandle struct {
	*search.NoteIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the note search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.Open(cfg.Data.BasePath, log.Logger)
	if err != nil {
		return nil, err
	}
	return &SearchIndexHandle{NoteIndex: index}, nil
}
