package domain

import "time"

// HandwrittenNote is metadata for a scanned or photographed handwritten page.
// The image itself lives wherever ImageURL points; upload handling is not
// this server's concern.
type HandwrittenNote struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	SetID       string    `json:"set_id,omitempty"`
	ImageURL    string    `json:"image_url"`
}

// EntityID implements Entity.
func (h HandwrittenNote) EntityID() string { return h.ID }
