package domain

import "time"

// WeeklyGoal is a checkbox item on the weekly goal list.
type WeeklyGoal struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
}

// EntityID implements Entity.
func (g WeeklyGoal) EntityID() string { return g.ID }

// GoalLess orders goals oldest-first, matching list entry order.
func GoalLess(a, b WeeklyGoal) bool {
	return a.CreatedAt.Before(b.CreatedAt)
}
