package alarm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tmacready/daybreak/internal/domain/almanac"
	"github.com/tmacready/daybreak/internal/logger"
	"github.com/tmacready/daybreak/internal/trigger"
)

// Lifecycle manages scheduled alarms against the trigger store. The store is
// the single source of truth: Lifecycle keeps no shadow copy of alarm state,
// so nothing can drift from what the platform actually has armed.
type Lifecycle struct {
	// store is the external trigger facility commands are issued against.
	store trigger.Store
	// now supplies the current time; overridable for tests.
	now func() time.Time
}

// Option configures Lifecycle behaviour.
type Option func(*Lifecycle)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) {
		if now != nil {
			l.now = now
		}
	}
}

// errStoreRequired is returned when no trigger store is provided.
var errStoreRequired = errors.New("trigger store must be provided")

// NewLifecycle creates a Lifecycle over the provided trigger store.
func NewLifecycle(store trigger.Store, opts ...Option) (*Lifecycle, error) {
	if store == nil {
		return nil, errStoreRequired
	}

	l := &Lifecycle{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Schedule arms the alarm in the trigger store and returns the alarm as
// armed. A scheduled time at or before now is advanced by exactly 24 hours,
// always one day, never a partial catch-up; the advance is computed from the
// submitted time so repeated submissions cannot drift. An empty ID gets a
// generated one. Re-arming an existing ID replaces the prior entry.
//
// On arming failure the alarm remains unscheduled and the error is returned
// for the caller to retry; it is never silently dropped.
func (l *Lifecycle) Schedule(ctx context.Context, a *almanac.Alarm) (*almanac.Alarm, error) {
	if a == nil {
		return nil, errors.New("alarm must be provided")
	}

	armed := a.Clone()
	if armed.ID == "" {
		armed.ID = uuid.NewString()
	}

	if !armed.ScheduledAt.After(l.now()) {
		armed.ScheduledAt = armed.ScheduledAt.Add(24 * time.Hour)
	}

	entry := trigger.Entry{
		ID:          armed.ID,
		At:          armed.ScheduledAt,
		RepeatDaily: armed.RepeatDaily,
		Label:       armed.Label,
	}

	if err := l.store.Arm(ctx, entry); err != nil {
		return nil, fmt.Errorf("arm alarm %s: %w", armed.ID, err)
	}

	armed.Enabled = true

	logger.InfoKV(ctx, "Alarm armed",
		"id", armed.ID, "at", armed.ScheduledAt, "repeat_daily", armed.RepeatDaily)

	return armed, nil
}

// Cancel removes the alarm's trigger-store entry. Cancelling an alarm that
// is not armed is a no-op, not an error.
func (l *Lifecycle) Cancel(ctx context.Context, id string) error {
	if err := l.store.Cancel(ctx, id); err != nil {
		return fmt.Errorf("cancel alarm %s: %w", id, err)
	}

	logger.InfoKV(ctx, "Alarm cancelled", "id", id)

	return nil
}

// ListAll returns every alarm currently represented in the trigger store.
func (l *Lifecycle) ListAll(ctx context.Context) ([]almanac.Alarm, error) {
	entries, err := l.store.ListArmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list armed alarms: %w", err)
	}

	alarms := make([]almanac.Alarm, 0, len(entries))
	for _, entry := range entries {
		alarms = append(alarms, almanac.Alarm{
			ID:          entry.ID,
			ScheduledAt: entry.At,
			RepeatDaily: entry.RepeatDaily,
			Label:       entry.Label,
			Enabled:     true,
		})
	}

	return alarms, nil
}

// ResolveFired settles an alarm after its fire event. A non-repeating alarm
// is removed; a repeating one is left armed, since the store's own daily
// cadence is responsible for the next firing. An unknown ID is a no-op.
func (l *Lifecycle) ResolveFired(ctx context.Context, id string) error {
	entries, err := l.store.ListArmed(ctx)
	if err != nil {
		return fmt.Errorf("resolve fired alarm %s: %w", id, err)
	}

	for _, entry := range entries {
		if entry.ID != id {
			continue
		}

		if entry.RepeatDaily {
			logger.DebugKV(ctx, "Repeating alarm left armed", "id", id, "next", entry.At)

			return nil
		}

		return l.Cancel(ctx, id)
	}

	logger.DebugKV(ctx, "Fired alarm not found in store", "id", id)

	return nil
}
