// Package domain defines the entity types managed by the Niko server.
package domain

// Entity is implemented by every stored domain type.
// Identifiers are strings: nanoid-based when assigned by the backend,
// timestamp-based ("local-...") when minted while the backend was unreachable.
type Entity interface {
	EntityID() string
}
