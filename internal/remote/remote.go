// Package remote defines the backend persistence interface the entity
// stores write through. Implementations cover a hosted PostgREST backend
// and an embedded SQLite database for fully local deployments.
package remote

import (
	"context"
	"encoding/json/jsontext"
)

// Filter selects rows by column equality. All conditions must match.
type Filter map[string]any

// Order sorts result sets by a single column.
type Order struct {
	Column     string
	Descending bool
}

// Client is the minimal row-level interface the stores need. Rows travel
// as raw JSON documents so the stores can stay generic over entity types.
type Client interface {
	// Select returns all rows of table matching the filter, ordered if
	// order is non-nil.
	Select(ctx context.Context, table string, filter Filter, order *Order) ([]jsontext.Value, error)

	// Insert writes a new row and returns the stored representation,
	// which may differ from the input (server-assigned fields).
	Insert(ctx context.Context, table string, row any) (jsontext.Value, error)

	// Update applies a partial patch to the rows matching the filter and
	// returns the first updated row, or nil when nothing matched.
	Update(ctx context.Context, table string, filter Filter, patch map[string]any) (jsontext.Value, error)

	// Delete removes the rows matching the filter. Deleting rows that do
	// not exist is not an error.
	Delete(ctx context.Context, table string, filter Filter) error
}
