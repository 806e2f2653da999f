package domain

import "time"

// ExamPriority is the urgency tag on an exam.
type ExamPriority string

// Exam priorities.
const (
	PriorityLow    ExamPriority = "low"
	PriorityMedium ExamPriority = "medium"
	PriorityHigh   ExamPriority = "high"
)

// IsValid reports whether the priority is known.
func (p ExamPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Exam is a dated exam or deadline with a reminder window.
type Exam struct {
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Date         time.Time    `json:"date"`
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Subject      string       `json:"subject"`
	Priority     ExamPriority `json:"priority"`
	Completed    bool         `json:"completed"`
	ReminderDays int          `json:"reminder_days"`
}

// EntityID implements Entity.
func (e Exam) EntityID() string { return e.ID }

// ExamLess orders exams soonest-first.
func ExamLess(a, b Exam) bool {
	return a.Date.Before(b.Date)
}

// InReminderWindow reports whether now falls within the exam's reminder
// window: at most ReminderDays before the exam date, and the exam is not
// yet completed or past.
func (e Exam) InReminderWindow(now time.Time) bool {
	if e.Completed || e.Date.Before(now) {
		return false
	}
	window := time.Duration(e.ReminderDays) * 24 * time.Hour
	return e.Date.Sub(now) <= window
}
