package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/countdown"
	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/remote"
	"github.com/nikoapp/niko-server/internal/store"
	"github.com/nikoapp/niko-server/internal/validation"
)

// EventService manages countdown events, one-shot and recurring.
type EventService struct {
	logger    *slog.Logger
	validator *validation.Validator
	events    *store.Collection[domain.Event]
	now       func() time.Time
}

// EventWithCountdown pairs an event with its computed countdown.
type EventWithCountdown struct {
	domain.Event
	Countdown countdown.Countdown `json:"countdown"`
}

// NewEventService creates the service.
func NewEventService(rc remote.Client, lc *cache.Cache, logger *slog.Logger) *EventService {
	return &EventService{
		logger:    logger,
		validator: validation.New(),
		events: store.NewCollection[domain.Event](rc, "events", logger,
			store.WithCache[domain.Event](lc, "events"),
			store.WithSort[domain.Event](domain.EventLess),
			store.WithRemoteOrder[domain.Event](remote.Order{Column: "event_date"})),
		now: time.Now,
	}
}

// Prefetch loads the working set.
func (s *EventService) Prefetch(ctx context.Context) {
	s.events.FetchAll(ctx)
}

// Status reports collection health.
func (s *EventService) Status() store.Status {
	return s.events.Status()
}

// List returns all events with live countdowns, ordered by stored date.
func (s *EventService) List(ctx context.Context) []EventWithCountdown {
	s.events.EnsureFetched(ctx)
	now := s.now()

	items := s.events.Items()
	out := make([]EventWithCountdown, 0, len(items))
	for _, e := range items {
		out = append(out, EventWithCountdown{Event: e, Countdown: countdown.For(e, now)})
	}
	return out
}

// Get returns one event with its countdown.
func (s *EventService) Get(ctx context.Context, eventID string) (EventWithCountdown, error) {
	s.events.EnsureFetched(ctx)
	e, ok := s.events.Find(eventID)
	if !ok {
		return EventWithCountdown{}, apperrors.NotFoundf("event %s not found", eventID)
	}
	return EventWithCountdown{Event: e, Countdown: countdown.For(e, s.now())}, nil
}

// CreateEventRequest contains fields for creating an event.
type CreateEventRequest struct {
	Title            string    `json:"title" validate:"required,min=1,max=200"`
	Category         string    `json:"category" validate:"max=50"`
	EventDate        time.Time `json:"event_date" validate:"required"`
	IsRecurring      bool      `json:"is_recurring"`
	RecurringPattern string    `json:"recurring_pattern" validate:"omitempty,oneof=yearly monthly weekly"`
}

// Create creates an event. Recurring events need a pattern.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (EventWithCountdown, error) {
	if err := s.validator.Validate(req); err != nil {
		return EventWithCountdown{}, err
	}
	if req.IsRecurring && req.RecurringPattern == "" {
		return EventWithCountdown{}, apperrors.Validation("recurring events need a recurring_pattern")
	}

	now := s.now().UTC()
	e := domain.Event{
		ID:               newID("event", s.events.Status()),
		Title:            req.Title,
		Category:         req.Category,
		EventDate:        req.EventDate.UTC(),
		IsRecurring:      req.IsRecurring,
		RecurringPattern: domain.RecurringPattern(req.RecurringPattern),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	added := s.events.Add(ctx, e)
	return EventWithCountdown{Event: added, Countdown: countdown.For(added, s.now())}, nil
}

// UpdateEventRequest contains the patchable fields of an event.
type UpdateEventRequest struct {
	Title            *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Category         *string    `json:"category,omitempty" validate:"omitempty,max=50"`
	EventDate        *time.Time `json:"event_date,omitempty"`
	IsRecurring      *bool      `json:"is_recurring,omitempty"`
	RecurringPattern *string    `json:"recurring_pattern,omitempty" validate:"omitempty,oneof=yearly monthly weekly"`
}

func (r UpdateEventRequest) patch() map[string]any {
	patch := map[string]any{}
	if r.Title != nil {
		patch["title"] = *r.Title
	}
	if r.Category != nil {
		patch["category"] = *r.Category
	}
	if r.EventDate != nil {
		patch["event_date"] = r.EventDate.UTC().Format(time.RFC3339Nano)
	}
	if r.IsRecurring != nil {
		patch["is_recurring"] = *r.IsRecurring
	}
	if r.RecurringPattern != nil {
		patch["recurring_pattern"] = *r.RecurringPattern
	}
	return patch
}

// Update applies a partial update to an event.
func (s *EventService) Update(ctx context.Context, eventID string, req UpdateEventRequest) (EventWithCountdown, error) {
	if err := s.validator.Validate(req); err != nil {
		return EventWithCountdown{}, err
	}
	s.events.EnsureFetched(ctx)

	patch := req.patch()
	patch["updated_at"] = s.now().UTC().Format(time.RFC3339Nano)

	e, ok := s.events.Update(ctx, eventID, patch)
	if !ok {
		return EventWithCountdown{}, apperrors.NotFoundf("event %s not found", eventID)
	}
	return EventWithCountdown{Event: e, Countdown: countdown.For(e, s.now())}, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	s.events.EnsureFetched(ctx)
	if !s.events.Remove(ctx, eventID) {
		return apperrors.NotFoundf("event %s not found", eventID)
	}
	return nil
}
