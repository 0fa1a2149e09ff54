package alarm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmacready/daybreak/internal/domain/almanac"
	"github.com/tmacready/daybreak/internal/trigger"
)

// fixedNow is the reference instant used by lifecycle tests.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestLifecycle builds a Lifecycle over a temp-file store with a fixed clock.
func newTestLifecycle(t *testing.T) (*Lifecycle, *trigger.FileStore) {
	t.Helper()

	store := trigger.NewFileStore(filepath.Join(t.TempDir(), "triggers.json"))

	l, err := NewLifecycle(store, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	return l, store
}

// TestNewLifecycleRequiresStore verifies construction fails without a store.
func TestNewLifecycleRequiresStore(t *testing.T) {
	t.Parallel()

	_, err := NewLifecycle(nil)
	require.Error(t, err)
}

// TestScheduleFutureTimeKept verifies a future time is armed unchanged.
func TestScheduleFutureTimeKept(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLifecycle(t)
	at := fixedNow.Add(2 * time.Hour)

	armed, err := l.Schedule(ctx, &almanac.Alarm{ID: "a1", ScheduledAt: at})
	require.NoError(t, err)
	require.True(t, armed.ScheduledAt.Equal(at))
	require.True(t, armed.Enabled)
}

// TestSchedulePastTimeRollsForwardOneDay verifies a past time is advanced by
// exactly 24 hours, and repeated submissions of the same past time produce
// the same armed instant with no cumulative drift.
func TestSchedulePastTimeRollsForwardOneDay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLifecycle(t)
	past := fixedNow.Add(-time.Hour)
	want := past.Add(24 * time.Hour)

	for i := 0; i < 3; i++ {
		armed, err := l.Schedule(ctx, &almanac.Alarm{ID: "a1", ScheduledAt: past})
		require.NoError(t, err)
		require.True(t, armed.ScheduledAt.Equal(want))
	}

	alarms, err := l.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	require.True(t, alarms[0].ScheduledAt.Equal(want))
}

// TestScheduleGeneratesID verifies an empty alarm ID gets a generated one.
func TestScheduleGeneratesID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLifecycle(t)

	armed, err := l.Schedule(ctx, &almanac.Alarm{ScheduledAt: fixedNow.Add(time.Hour)})
	require.NoError(t, err)
	require.NotEmpty(t, armed.ID)
}

// TestScheduleIdempotentRearm verifies re-arming an ID replaces rather than
// duplicates its entry.
func TestScheduleIdempotentRearm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLifecycle(t)

	_, err := l.Schedule(ctx, &almanac.Alarm{ID: "a1", ScheduledAt: fixedNow.Add(time.Hour)})
	require.NoError(t, err)

	_, err = l.Schedule(ctx, &almanac.Alarm{ID: "a1", ScheduledAt: fixedNow.Add(3 * time.Hour)})
	require.NoError(t, err)

	alarms, err := l.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	require.True(t, alarms[0].ScheduledAt.Equal(fixedNow.Add(3*time.Hour)))
}

// failingStore denies every arm command.
type failingStore struct {
	trigger.Store
}

// Arm always reports a scheduling refusal.
func (failingStore) Arm(context.Context, trigger.Entry) error {
	return almanac.ErrSchedulingDenied
}

// TestScheduleArmFailureSurfaced verifies an arming refusal is returned to
// the caller instead of being swallowed.
func TestScheduleArmFailureSurfaced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	l, err := NewLifecycle(failingStore{})
	require.NoError(t, err)

	_, err = l.Schedule(ctx, &almanac.Alarm{ID: "a1", ScheduledAt: time.Now().Add(time.Hour)})
	require.ErrorIs(t, err, almanac.ErrSchedulingDenied)
}

// TestResolveFiredOneShotRemoved verifies a fired non-repeating alarm
// disappears from the armed list once resolved.
func TestResolveFiredOneShotRemoved(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, store := newTestLifecycle(t)
	past := fixedNow.Add(-time.Hour)

	armed, err := l.Schedule(ctx, &almanac.Alarm{ID: "a1", ScheduledAt: past})
	require.NoError(t, err)
	require.True(t, armed.ScheduledAt.Equal(past.Add(24*time.Hour)))

	// Simulate the platform firing the trigger a day later.
	fires, err := store.Due(ctx, armed.ScheduledAt.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, fires, 1)

	require.NoError(t, l.ResolveFired(ctx, "a1"))

	alarms, err := l.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, alarms)
}

// TestResolveFiredRepeatingRetained verifies a repeating alarm stays armed
// under the same ID after resolution.
func TestResolveFiredRepeatingRetained(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, store := newTestLifecycle(t)

	_, err := l.Schedule(ctx, &almanac.Alarm{ID: "daily", ScheduledAt: fixedNow.Add(time.Hour), RepeatDaily: true})
	require.NoError(t, err)

	fires, err := store.Due(ctx, fixedNow.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, fires, 1)

	require.NoError(t, l.ResolveFired(ctx, "daily"))

	alarms, err := l.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	require.Equal(t, "daily", alarms[0].ID)
}

// TestResolveFiredUnknownIsNoOp verifies resolving an unknown ID succeeds.
func TestResolveFiredUnknownIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLifecycle(t)

	require.NoError(t, l.ResolveFired(ctx, "ghost"))
}

// TestCancelUnknownIsNoOp verifies cancelling an unknown ID succeeds.
func TestCancelUnknownIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := newTestLifecycle(t)

	err := l.Cancel(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, errors.Is(err, almanac.ErrTriggerStoreUnavailable))
}
