package domain

import "time"

// Note is a free-form text note with tags and an optional pin.
// Pinned notes sort before unpinned ones regardless of recency.
type Note struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Tags      []string  `json:"tags"`
	IsPinned  bool      `json:"is_pinned"`
}

// EntityID implements Entity.
func (n Note) EntityID() string { return n.ID }

// NoteLess orders notes pinned-first, then most recently updated.
func NoteLess(a, b Note) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

// HasTag reports whether the note carries the given tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
