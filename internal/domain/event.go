package domain

import "time"

// RecurringPattern describes how a recurring event repeats.
type RecurringPattern string

// Recurring patterns.
const (
	RecurYearly  RecurringPattern = "yearly"
	RecurMonthly RecurringPattern = "monthly"
	RecurWeekly  RecurringPattern = "weekly"
)

// IsValid reports whether the pattern is known.
func (p RecurringPattern) IsValid() bool {
	switch p {
	case RecurYearly, RecurMonthly, RecurWeekly:
		return true
	}
	return false
}

// Event is a countdown target: a one-shot date or a recurring occasion
// (birthdays, holidays). Recurring events roll forward once the current
// occurrence has passed.
type Event struct {
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	EventDate        time.Time        `json:"event_date"`
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Category         string           `json:"category"`
	IsRecurring      bool             `json:"is_recurring"`
	RecurringPattern RecurringPattern `json:"recurring_pattern,omitempty"`
}

// EntityID implements Entity.
func (e Event) EntityID() string { return e.ID }

// EventLess orders events soonest-first by their stored date.
func EventLess(a, b Event) bool {
	return a.EventDate.Before(b.EventDate)
}
