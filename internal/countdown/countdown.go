// Package countdown computes time-until-event values for the events list,
// including rolling recurring events forward to their next occurrence.
package countdown

import (
	"fmt"
	"time"

	"github.com/nikoapp/niko-server/internal/domain"
)

// Countdown is the computed time remaining until an event occurs.
type Countdown struct {
	Target    time.Time     `json:"target"`
	Remaining time.Duration `json:"-"`
	Display   string        `json:"display"`
	Days      int           `json:"days"`
	Hours     int           `json:"hours"`
	Minutes   int           `json:"minutes"`
	Past      bool          `json:"past"`
}

// For computes the countdown for an event at the given instant. Recurring
// events are first rolled forward so the target is never in the past.
func For(e domain.Event, now time.Time) Countdown {
	target := e.EventDate
	if e.IsRecurring {
		target = NextOccurrence(e.EventDate, e.RecurringPattern, now)
	}

	remaining := target.Sub(now)
	c := Countdown{
		Target:    target,
		Remaining: remaining,
		Past:      remaining < 0,
	}
	// At or past zero the display bottoms out at "now"; Past still marks
	// targets already behind us.
	if c.Past {
		c.Display = "now"
		return c
	}

	c.Days = int(remaining / (24 * time.Hour))
	c.Hours = int(remaining/time.Hour) % 24
	c.Minutes = int(remaining/time.Minute) % 60
	c.Display = format(c.Days, c.Hours, c.Minutes)
	return c
}

// NextOccurrence rolls a recurring date forward to the first occurrence at
// or after now. One-shot dates and unknown patterns come back unchanged.
// Stepping by calendar units keeps anniversaries on their day of month
// rather than drifting across leap years.
func NextOccurrence(date time.Time, pattern domain.RecurringPattern, now time.Time) time.Time {
	if !pattern.IsValid() || !date.Before(now) {
		return date
	}

	next := date
	for next.Before(now) {
		switch pattern {
		case domain.RecurYearly:
			next = next.AddDate(1, 0, 0)
		case domain.RecurMonthly:
			next = next.AddDate(0, 1, 0)
		case domain.RecurWeekly:
			next = next.AddDate(0, 0, 7)
		}
	}
	return next
}

// format renders a remaining duration as the two most significant units,
// or "now" when the event is less than a minute away.
func format(days, hours, minutes int) string {
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "now"
	}
}
