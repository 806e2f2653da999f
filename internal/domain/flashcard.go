package domain

import "time"

// FlashcardSet groups flashcards under a name and display color.
// Cards reference their set by ID only; deleting a set cascade-deletes
// its cards (the one cascade relation in the data model).
type FlashcardSet struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
}

// EntityID implements Entity.
func (s FlashcardSet) EntityID() string { return s.ID }

// Flashcard is a single front/back study card belonging to a set.
type Flashcard struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	SetID     string    `json:"set_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
}

// EntityID implements Entity.
func (c Flashcard) EntityID() string { return c.ID }
