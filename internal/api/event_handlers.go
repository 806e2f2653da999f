package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/service"
)

func (s *Server) registerEventRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEvents",
		Method:      http.MethodGet,
		Path:        "/api/v1/events",
		Summary:     "List events",
		Description: "Returns all countdown events with live countdowns",
		Tags:        []string{"Events"},
	}, s.handleListEvents)

	huma.Register(s.api, huma.Operation{
		OperationID: "createEvent",
		Method:      http.MethodPost,
		Path:        "/api/v1/events",
		Summary:     "Create event",
		Description: "Creates a countdown event, one-shot or recurring",
		Tags:        []string{"Events"},
	}, s.handleCreateEvent)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEvent",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{id}",
		Summary:     "Get event",
		Description: "Returns an event with its countdown",
		Tags:        []string{"Events"},
	}, s.handleGetEvent)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEvent",
		Method:      http.MethodPatch,
		Path:        "/api/v1/events/{id}",
		Summary:     "Update event",
		Description: "Applies a partial update to an event",
		Tags:        []string{"Events"},
	}, s.handleUpdateEvent)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEvent",
		Method:      http.MethodDelete,
		Path:        "/api/v1/events/{id}",
		Summary:     "Delete event",
		Description: "Deletes an event",
		Tags:        []string{"Events"},
	}, s.handleDeleteEvent)
}

// === DTOs ===

type CountdownResponse struct {
	Target  time.Time `json:"target" doc:"Next occurrence of the event"`
	Display string    `json:"display" doc:"Human-readable remaining time"`
	Days    int       `json:"days" doc:"Whole days remaining"`
	Hours   int       `json:"hours" doc:"Hours remaining after days"`
	Minutes int       `json:"minutes" doc:"Minutes remaining after hours"`
	Past    bool      `json:"past" doc:"Whether a one-shot event has passed"`
}

type EventResponse struct {
	ID               string            `json:"id" doc:"Event ID"`
	Title            string            `json:"title" doc:"Event title"`
	Category         string            `json:"category,omitempty" doc:"Category"`
	EventDate        time.Time         `json:"event_date" doc:"Stored event date"`
	IsRecurring      bool              `json:"is_recurring" doc:"Whether the event recurs"`
	RecurringPattern string            `json:"recurring_pattern,omitempty" doc:"Recurrence: yearly, monthly, or weekly"`
	Countdown        CountdownResponse `json:"countdown" doc:"Computed countdown"`
	CreatedAt        time.Time         `json:"created_at" doc:"Creation time"`
	UpdatedAt        time.Time         `json:"updated_at" doc:"Last update time"`
}

type ListEventsResponse struct {
	Events []EventResponse `json:"events" doc:"List of events"`
}

type ListEventsOutput struct {
	Body ListEventsResponse
}

type CreateEventRequest struct {
	Title            string    `json:"title" doc:"Event title"`
	Category         string    `json:"category,omitempty" doc:"Category"`
	EventDate        time.Time `json:"event_date" doc:"Event date"`
	IsRecurring      bool      `json:"is_recurring,omitempty" doc:"Whether the event recurs"`
	RecurringPattern string    `json:"recurring_pattern,omitempty" doc:"Recurrence: yearly, monthly, or weekly"`
}

type CreateEventInput struct {
	Body CreateEventRequest
}

type EventOutput struct {
	Body EventResponse
}

type GetEventInput struct {
	ID string `path:"id" doc:"Event ID"`
}

type UpdateEventRequest struct {
	Title            *string    `json:"title,omitempty" doc:"Event title"`
	Category         *string    `json:"category,omitempty" doc:"Category"`
	EventDate        *time.Time `json:"event_date,omitempty" doc:"Event date"`
	IsRecurring      *bool      `json:"is_recurring,omitempty" doc:"Whether the event recurs"`
	RecurringPattern *string    `json:"recurring_pattern,omitempty" doc:"Recurrence pattern"`
}

type UpdateEventInput struct {
	ID   string `path:"id" doc:"Event ID"`
	Body UpdateEventRequest
}

type DeleteEventInput struct {
	ID string `path:"id" doc:"Event ID"`
}

// === Handlers ===

func (s *Server) handleListEvents(ctx context.Context, _ *struct{}) (*ListEventsOutput, error) {
	events := s.services.Event.List(ctx)

	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = mapEventResponse(e)
	}

	return &ListEventsOutput{Body: ListEventsResponse{Events: resp}}, nil
}

func (s *Server) handleCreateEvent(ctx context.Context, input *CreateEventInput) (*EventOutput, error) {
	e, err := s.services.Event.Create(ctx, service.CreateEventRequest{
		Title:            input.Body.Title,
		Category:         input.Body.Category,
		EventDate:        input.Body.EventDate,
		IsRecurring:      input.Body.IsRecurring,
		RecurringPattern: input.Body.RecurringPattern,
	})
	if err != nil {
		return nil, err
	}

	return &EventOutput{Body: mapEventResponse(e)}, nil
}

func (s *Server) handleGetEvent(ctx context.Context, input *GetEventInput) (*EventOutput, error) {
	e, err := s.services.Event.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &EventOutput{Body: mapEventResponse(e)}, nil
}

func (s *Server) handleUpdateEvent(ctx context.Context, input *UpdateEventInput) (*EventOutput, error) {
	e, err := s.services.Event.Update(ctx, input.ID, service.UpdateEventRequest{
		Title:            input.Body.Title,
		Category:         input.Body.Category,
		EventDate:        input.Body.EventDate,
		IsRecurring:      input.Body.IsRecurring,
		RecurringPattern: input.Body.RecurringPattern,
	})
	if err != nil {
		return nil, err
	}

	return &EventOutput{Body: mapEventResponse(e)}, nil
}

func (s *Server) handleDeleteEvent(ctx context.Context, input *DeleteEventInput) (*MessageOutput, error) {
	if err := s.services.Event.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Event deleted"}}, nil
}

// === Mappers ===

func mapEventResponse(e service.EventWithCountdown) EventResponse {
	return EventResponse{
		ID:               e.ID,
		Title:            e.Title,
		Category:         e.Category,
		EventDate:        e.EventDate,
		IsRecurring:      e.IsRecurring,
		RecurringPattern: string(e.RecurringPattern),
		Countdown: CountdownResponse{
			Target:  e.Countdown.Target,
			Display: e.Countdown.Display,
			Days:    e.Countdown.Days,
			Hours:   e.Countdown.Hours,
			Minutes: e.Countdown.Minutes,
			Past:    e.Countdown.Past,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
