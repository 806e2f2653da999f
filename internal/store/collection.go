// Package store implements the remote-first entity collection that backs
// every list in the app. A collection keeps an in-memory working set,
// persists through a remote backend, and degrades to a local cache
// snapshot when the backend is unreachable. Operations fail open: a
// backend failure marks the collection degraded instead of failing the
// caller.
package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/remote"
)

// Status is a snapshot of a collection's health.
type Status struct {
	Loading   bool   `json:"loading"`
	Degraded  bool   `json:"degraded"`
	LastError string `json:"last_error,omitempty"`
}

// Collection is a remote-first working set of entities of one type.
//
// Mutations are serialized: concurrent Add/Update/Remove/Toggle calls on
// the same collection run one at a time, so read-modify-write sequences
// like an optimistic toggle cannot interleave.
type Collection[T domain.Entity] struct {
	remote remote.Client
	logger *slog.Logger
	table  string

	cache    *cache.Cache
	cacheKey string

	less         func(a, b T) bool
	prepend      bool
	remoteOrder  *remote.Order
	revertToggle bool

	opMu sync.Mutex // serializes mutations

	mu       sync.RWMutex // guards everything below
	items    []T
	fetched  bool
	loading  bool
	degraded bool
	lastErr  error
}

// Option configures a Collection.
type Option[T domain.Entity] func(*Collection[T])

// WithCache gives the collection a local fallback snapshot under key.
// Collections without a cache leg simply skip the fallback.
func WithCache[T domain.Entity](c *cache.Cache, key string) Option[T] {
	return func(col *Collection[T]) {
		col.cache = c
		col.cacheKey = key
	}
}

// WithSort orders the working set with less after every full fetch.
// Mutations do not re-sort; an updated item keeps its position until the
// next fetch.
func WithSort[T domain.Entity](less func(a, b T) bool) Option[T] {
	return func(col *Collection[T]) {
		col.less = less
	}
}

// Prepend makes newly added items appear at the front of the working set
// instead of the back.
func Prepend[T domain.Entity]() Option[T] {
	return func(col *Collection[T]) {
		col.prepend = true
	}
}

// WithRemoteOrder asks the backend to order full fetches.
func WithRemoteOrder[T domain.Entity](order remote.Order) Option[T] {
	return func(col *Collection[T]) {
		col.remoteOrder = &order
	}
}

// OptimisticRevert makes Toggle undo its local flip when the backend
// rejects the write. Without it a failed toggle keeps the flip and
// degrades the collection, the same as every other mutation.
func OptimisticRevert[T domain.Entity]() Option[T] {
	return func(col *Collection[T]) {
		col.revertToggle = true
	}
}

// NewCollection creates a collection over the given backend table.
func NewCollection[T domain.Entity](rc remote.Client, table string, logger *slog.Logger, opts ...Option[T]) *Collection[T] {
	col := &Collection[T]{
		remote: rc,
		logger: logger,
		table:  table,
	}
	for _, opt := range opts {
		opt(col)
	}
	return col
}

// FetchAll replaces the working set from the backend. On backend failure
// the collection turns degraded and falls back to the cache snapshot if
// one is configured; the error is recorded, not returned.
func (c *Collection[T]) FetchAll(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	rows, err := c.remote.Select(ctx, c.table, nil, c.remoteOrder)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.fetched = true

	if err != nil {
		c.degraded = true
		c.lastErr = err
		c.logger.Warn("fetch failed, falling back to cache",
			"table", c.table, "error", err)
		if snapshot, ok := c.readSnapshot(); ok {
			c.items = snapshot
		} else {
			// No snapshot to serve: the working set resets rather than
			// holding stale rows the backend may no longer have.
			c.items = nil
		}
		return
	}

	items := make([]T, 0, len(rows))
	for _, raw := range rows {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			c.logger.Warn("skipping undecodable row", "table", c.table, "error", err)
			continue
		}
		items = append(items, item)
	}
	if c.less != nil {
		slices.SortStableFunc(items, func(a, b T) int {
			if c.less(a, b) {
				return -1
			}
			if c.less(b, a) {
				return 1
			}
			return 0
		})
	}

	c.items = items
	c.degraded = false
	c.lastErr = nil
	c.writeSnapshot()
}

// EnsureFetched runs the initial fetch exactly once.
func (c *Collection[T]) EnsureFetched(ctx context.Context) {
	c.mu.RLock()
	fetched := c.fetched
	c.mu.RUnlock()
	if !fetched {
		c.FetchAll(ctx)
	}
}

// Add inserts an entity. The backend's stored representation wins over
// the local one when the insert succeeds, so server-assigned fields come
// back into the working set. On failure the local entity is kept and the
// collection turns degraded.
func (c *Collection[T]) Add(ctx context.Context, item T) T {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	confirmed := item
	row, err := c.remote.Insert(ctx, c.table, item)
	if err != nil {
		c.markDegraded(err)
	} else {
		c.clearDegraded()
		if row != nil {
			var stored T
			if uerr := json.Unmarshal(row, &stored); uerr == nil {
				confirmed = stored
			}
		}
	}

	c.mu.Lock()
	if c.prepend {
		c.items = append([]T{confirmed}, c.items...)
	} else {
		c.items = append(c.items, confirmed)
	}
	c.mu.Unlock()

	c.snapshotLocked()
	return confirmed
}

// Update applies a partial patch to the entity with the given id. Fields
// absent from the patch keep their values. Updating a missing id is a
// silent no-op: the zero value and false come back and nothing changes.
func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]any) (T, bool) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	var zero T
	idx, current, ok := c.find(id)
	if !ok {
		return zero, false
	}

	merged, err := mergePatch(current, patch)
	if err != nil {
		c.logger.Error("patch merge failed", "table", c.table, "id", id, "error", err)
		return zero, false
	}

	if _, err := c.remote.Update(ctx, c.table, remote.Filter{"id": id}, patch); err != nil {
		c.markDegraded(err)
	} else {
		c.clearDegraded()
	}

	c.mu.Lock()
	c.items[idx] = merged
	c.mu.Unlock()

	c.snapshotLocked()
	return merged, true
}

// Remove deletes the entity with the given id. The local removal always
// happens; a backend failure only degrades the collection, so the item
// never resurfaces locally.
func (c *Collection[T]) Remove(ctx context.Context, id string) bool {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	idx, _, ok := c.find(id)
	if !ok {
		return false
	}

	c.mu.Lock()
	c.items = slices.Delete(c.items, idx, idx+1)
	c.mu.Unlock()

	if err := c.remote.Delete(ctx, c.table, remote.Filter{"id": id}); err != nil {
		c.markDegraded(err)
	} else {
		c.clearDegraded()
	}

	c.snapshotLocked()
	return true
}

// Toggle flips a boolean field optimistically: the local flip happens
// first, then the backend write. On backend failure the flip is kept and
// the collection degrades, like Update; collections built with
// OptimisticRevert instead undo the flip.
func (c *Collection[T]) Toggle(ctx context.Context, id, field string, extra map[string]any) (T, bool) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	var zero T
	idx, current, ok := c.find(id)
	if !ok {
		return zero, false
	}

	doc, err := toDoc(current)
	if err != nil {
		c.logger.Error("toggle encode failed", "table", c.table, "id", id, "error", err)
		return zero, false
	}
	prev, _ := doc[field].(bool)

	patch := map[string]any{field: !prev}
	maps.Copy(patch, extra)

	flipped, err := mergePatch(current, patch)
	if err != nil {
		c.logger.Error("toggle merge failed", "table", c.table, "id", id, "error", err)
		return zero, false
	}

	c.mu.Lock()
	c.items[idx] = flipped
	c.mu.Unlock()

	if _, err := c.remote.Update(ctx, c.table, remote.Filter{"id": id}, patch); err != nil {
		c.markDegraded(err)
		if c.revertToggle {
			c.mu.Lock()
			c.items[idx] = current
			c.mu.Unlock()
			c.snapshotLocked()
			return current, true
		}
		c.snapshotLocked()
		return flipped, true
	}

	c.clearDegraded()
	c.snapshotLocked()
	return flipped, true
}

// Items returns a copy of the working set in its current order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Find returns the entity with the given id.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, item, ok := c.findLocked(id)
	return item, ok
}

// Len returns the working set size.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Status reports the collection's current health.
func (c *Collection[T]) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Status{Loading: c.loading, Degraded: c.degraded}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

func (c *Collection[T]) find(id string) (int, T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findLocked(id)
}

func (c *Collection[T]) findLocked(id string) (int, T, bool) {
	for i, item := range c.items {
		if item.EntityID() == id {
			return i, item, true
		}
	}
	var zero T
	return 0, zero, false
}

func (c *Collection[T]) markDegraded(err error) {
	c.mu.Lock()
	c.degraded = true
	c.lastErr = err
	c.mu.Unlock()
	c.logger.Warn("backend write failed, collection degraded",
		"table", c.table, "error", err)
}

func (c *Collection[T]) clearDegraded() {
	c.mu.Lock()
	c.degraded = false
	c.lastErr = nil
	c.mu.Unlock()
}

// snapshotLocked writes the current working set to the cache leg.
func (c *Collection[T]) snapshotLocked() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.writeSnapshot()
}

// writeSnapshot must be called with mu held.
func (c *Collection[T]) writeSnapshot() {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(c.items)
	if err != nil {
		c.logger.Error("snapshot encode failed", "table", c.table, "error", err)
		return
	}
	c.cache.Write(c.cacheKey, data)
}

// readSnapshot must be called with mu held.
func (c *Collection[T]) readSnapshot() ([]T, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, ok := c.cache.Read(c.cacheKey)
	if !ok {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Error("snapshot decode failed", "table", c.table, "error", err)
		return nil, false
	}
	return items, true
}

// mergePatch merges a field patch into an entity via a JSON round trip.
func mergePatch[T any](item T, patch map[string]any) (T, error) {
	var merged T
	doc, err := toDoc(item)
	if err != nil {
		return merged, err
	}
	maps.Copy(doc, patch)

	data, err := json.Marshal(doc)
	if err != nil {
		return merged, fmt.Errorf("encode merged doc: %w", err)
	}
	if err := json.Unmarshal(data, &merged); err != nil {
		return merged, fmt.Errorf("decode merged doc: %w", err)
	}
	return merged, nil
}

func toDoc(item any) (map[string]any, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode entity doc: %w", err)
	}
	return doc, nil
}
