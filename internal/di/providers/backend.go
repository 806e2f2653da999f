package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/nikoapp/niko-server/internal/config"
	"github.com/nikoapp/niko-server/internal/logger"
	"github.com/nikoapp/niko-server/internal/remote"
	"github.com/nikoapp/niko-server/internal/remote/postgrest"
	"github.com/nikoapp/niko-server/internal/remote/sqliteremote"
)

// BackendHandle wraps the remote persistence client. The embedded SQLite
// backend owns a database handle and needs closing; the hosted HTTP
// backend does not.
type BackendHandle struct {
	Client remote.Client

	sqlite *sqliteremote.Client
}

// Shutdown implements do.Shutdownable.
func (h *BackendHandle) Shutdown() error {
	if h.sqlite != nil {
		return h.sqlite.Close()
	}
	return nil
}

// ProvideBackend provides the remote persistence client. With no backend
// URL configured the server runs against the embedded SQLite backend.
func ProvideBackend(i do.Injector) (*BackendHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Backend.UseEmbedded() {
		client, err := sqliteremote.Open(filepath.Join(cfg.Data.BasePath, "niko.db"), log.Logger)
		if err != nil {
			return nil, err
		}
		log.Info("Using embedded backend", "path", filepath.Join(cfg.Data.BasePath, "niko.db"))
		return &BackendHandle{Client: client, sqlite: client}, nil
	}

	client := postgrest.New(cfg.Backend.URL, cfg.Backend.APIKey, log.Logger,
		postgrest.WithTimeout(cfg.Backend.Timeout))
	log.Info("Using hosted backend", "url", cfg.Backend.URL)
	return &BackendHandle{Client: client}, nil
}
