package trigger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestStore returns a FileStore backed by a fresh temp file.
func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	return NewFileStore(filepath.Join(t.TempDir(), "triggers.json"))
}

// TestArmReplacesByID verifies re-arming an ID replaces the prior entry
// instead of duplicating it.
func TestArmReplacesByID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	at := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	require.NoError(t, store.Arm(ctx, Entry{ID: "a1", At: at}))
	require.NoError(t, store.Arm(ctx, Entry{ID: "a1", At: at.Add(time.Hour), Label: "later"}))

	entries, err := store.ListArmed(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, at.Add(time.Hour), entries[0].At)
	require.Equal(t, "later", entries[0].Label)
}

// TestCancelAbsentIsNoOp verifies cancelling an unknown ID is not an error.
func TestCancelAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Cancel(ctx, "missing"))

	require.NoError(t, store.Arm(ctx, Entry{ID: "a1", At: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Cancel(ctx, "a1"))

	entries, err := store.ListArmed(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

// TestListArmedOrdersByInstant verifies stable ordering by firing time.
func TestListArmedOrdersByInstant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	require.NoError(t, store.Arm(ctx, Entry{ID: "b", At: base.Add(2 * time.Hour)}))
	require.NoError(t, store.Arm(ctx, Entry{ID: "a", At: base}))

	entries, err := store.ListArmed(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a", entries[0].ID)
	require.Equal(t, "b", entries[1].ID)
}

// TestDueDeliversOneShotOnce verifies a one-shot entry fires a single time
// and stays listed until resolved.
func TestDueDeliversOneShotOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	at := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	require.NoError(t, store.Arm(ctx, Entry{ID: "a1", At: at, Label: "walk"}))

	fires, err := store.Due(ctx, at.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, fires, 1)
	require.Equal(t, "a1", fires[0].AlarmID)
	require.Equal(t, "walk", fires[0].Label)

	// A second pass delivers nothing.
	fires, err = store.Due(ctx, at.Add(2*time.Minute))
	require.NoError(t, err)
	require.Empty(t, fires)

	// The entry is still present until the lifecycle resolves it.
	entries, err := store.ListArmed(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].Delivered)
}

// TestDueAdvancesRepeatingEntry verifies a repeating entry is re-armed one
// day later per delivered fire.
func TestDueAdvancesRepeatingEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	at := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	require.NoError(t, store.Arm(ctx, Entry{ID: "daily", At: at, RepeatDaily: true}))

	fires, err := store.Due(ctx, at.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, fires, 1)

	entries, err := store.ListArmed(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, at.AddDate(0, 0, 1), entries[0].At)
	require.False(t, entries[0].Delivered)
}

// TestFileStoreSurvivesRestart verifies entries persist across store instances.
func TestFileStoreSurvivesRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "triggers.json")
	at := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	require.NoError(t, NewFileStore(path).Arm(ctx, Entry{ID: "a1", At: at}))

	entries, err := NewFileStore(path).ListArmed(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a1", entries[0].ID)
	require.True(t, entries[0].At.Equal(at))
}
