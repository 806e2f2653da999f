package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/service"
)

func TestEventCreate_WithCountdown(t *testing.T) {
	svc := service.NewEventService(newFakeRemote(), testCache(t), testLogger())

	e, err := svc.Create(context.Background(), service.CreateEventRequest{
		Title:     "Thesis deadline",
		EventDate: time.Now().Add(10*24*time.Hour + time.Hour),
	})
	require.NoError(t, err)
	require.False(t, e.Countdown.Past)
	require.Equal(t, 10, e.Countdown.Days)
}

func TestEventCreate_RecurringNeedsPattern(t *testing.T) {
	svc := service.NewEventService(newFakeRemote(), testCache(t), testLogger())

	_, err := svc.Create(context.Background(), service.CreateEventRequest{
		Title:       "Birthday",
		EventDate:   time.Now().Add(time.Hour),
		IsRecurring: true,
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestEventList_RecurringRollsForward(t *testing.T) {
	svc := service.NewEventService(newFakeRemote(), testCache(t), testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, service.CreateEventRequest{
		Title:            "Anniversary",
		EventDate:        time.Now().AddDate(-3, 0, -1),
		IsRecurring:      true,
		RecurringPattern: "yearly",
	})
	require.NoError(t, err)

	events := svc.List(ctx)
	require.Len(t, events, 1)
	require.False(t, events[0].Countdown.Past, "recurring events always count down to the next occurrence")
	require.True(t, events[0].Countdown.Target.After(time.Now()))
}

func TestEventPastOneShot(t *testing.T) {
	svc := service.NewEventService(newFakeRemote(), testCache(t), testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, service.CreateEventRequest{
		Title:     "Conference",
		EventDate: time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	events := svc.List(ctx)
	require.Len(t, events, 1)
	require.True(t, events[0].Countdown.Past)
	require.Equal(t, "now", events[0].Countdown.Display)
}

func TestEventUpdate_ChangeDate(t *testing.T) {
	svc := service.NewEventService(newFakeRemote(), testCache(t), testLogger())
	ctx := context.Background()

	e, err := svc.Create(ctx, service.CreateEventRequest{
		Title:     "Move-in day",
		EventDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	newDate := time.Now().Add(5 * 24 * time.Hour)
	updated, err := svc.Update(ctx, e.ID, service.UpdateEventRequest{EventDate: &newDate})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Countdown.Days)
	require.Equal(t, "Move-in day", updated.Title)
}
