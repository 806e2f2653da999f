// Package service holds the application services. Each service owns the
// entity collections for its slice of the domain and exposes the
// operations the API layer calls.
package service

import (
	"github.com/nikoapp/niko-server/internal/id"
	"github.com/nikoapp/niko-server/internal/store"
)

// newID mints a prefixed ID, or a local placeholder when the collection
// is already degraded so offline-created rows stay recognizable.
func newID(prefix string, status store.Status) string {
	if status.Degraded {
		return id.Local()
	}
	return id.MustGenerate(prefix)
}
