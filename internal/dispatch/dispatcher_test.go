package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// recordingSpeaker captures utterances and can fail its init.
type recordingSpeaker struct {
	// initErr, when set, makes Init fail.
	initErr error
	// spoken collects every utterance in order.
	spoken []string
}

func (s *recordingSpeaker) Init(context.Context) error { return s.initErr }

func (s *recordingSpeaker) Speak(_ context.Context, text string) error {
	s.spoken = append(s.spoken, text)

	return nil
}

func (s *recordingSpeaker) Stop() error { return nil }

// stubBriefer returns a fixed briefing or error.
type stubBriefer struct {
	narration string
	err       error
	called    bool
}

func (b *stubBriefer) Brief(context.Context, string) (*almanac.Briefing, error) {
	b.called = true
	if b.err != nil {
		return nil, b.err
	}

	return &almanac.Briefing{
		GeneratedAt: time.Date(2025, 6, 2, 7, 5, 0, 0, time.UTC),
		Narration:   b.narration,
	}, nil
}

// stubResolver records resolved IDs and can fail.
type stubResolver struct {
	err      error
	resolved []string
}

func (r *stubResolver) ResolveFired(_ context.Context, id string) error {
	r.resolved = append(r.resolved, id)

	return r.err
}

// connectTo returns a ConnectFunc handing out the given resolver.
func connectTo(r FiredResolver) ConnectFunc {
	return func(context.Context) (FiredResolver, error) { return r, nil }
}

// TestDispatchHappyPath verifies the narration is spoken and the alarm resolved.
func TestDispatchHappyPath(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{}
	briefer := &stubBriefer{narration: "Good morning. High tide at noon."}
	resolver := &stubResolver{}

	d, err := NewDispatcher(speaker, connectTo(resolver), briefer)
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(context.Background(), "a1", ""))
	require.Equal(t, []string{"Good morning. High tide at noon."}, speaker.spoken)
	require.Equal(t, []string{"a1"}, resolver.resolved)
}

// TestDispatchStoreFailureIsFatal verifies an unreachable trigger store
// aborts the dispatch after an audible error, before briefing or resolution.
func TestDispatchStoreFailureIsFatal(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{}
	briefer := &stubBriefer{narration: "never spoken"}

	connect := func(context.Context) (FiredResolver, error) {
		return nil, errors.New("store offline")
	}

	d, err := NewDispatcher(speaker, connect, briefer)
	require.NoError(t, err)

	err = d.Dispatch(context.Background(), "a1", "")
	require.ErrorIs(t, err, almanac.ErrTriggerStoreUnavailable)
	require.False(t, briefer.called)
	require.Equal(t, []string{storeFailureLine}, speaker.spoken)
}

// TestDispatchBriefingFailureStillResolves verifies a failed briefing is
// spoken as an error and the fired alarm is still resolved.
func TestDispatchBriefingFailureStillResolves(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{}
	briefer := &stubBriefer{err: almanac.ErrPositionUnavailable}
	resolver := &stubResolver{}

	d, err := NewDispatcher(speaker, connectTo(resolver), briefer)
	require.NoError(t, err)

	err = d.Dispatch(context.Background(), "a1", "")
	require.ErrorIs(t, err, almanac.ErrPositionUnavailable)
	require.Equal(t, []string{briefingFailureLine}, speaker.spoken)
	require.Equal(t, []string{"a1"}, resolver.resolved)
}

// TestDispatchDegradedVoiceContinues verifies a failed voice init does not
// stop the briefing or the resolution.
func TestDispatchDegradedVoiceContinues(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{initErr: errors.New("no audio device")}
	briefer := &stubBriefer{narration: "Good morning."}
	resolver := &stubResolver{}

	d, err := NewDispatcher(speaker, connectTo(resolver), briefer)
	require.NoError(t, err)

	err = d.Dispatch(context.Background(), "a1", "")
	require.Error(t, err)
	require.True(t, briefer.called)
	require.Equal(t, []string{"a1"}, resolver.resolved)
	// Speak is still attempted; the engine may initialize lazily.
	require.Equal(t, []string{"Good morning."}, speaker.spoken)
}

// TestDispatchResolveFailureDoesNotMaskBriefing verifies a resolution
// failure is reported without undoing the spoken briefing.
func TestDispatchResolveFailureDoesNotMaskBriefing(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{}
	briefer := &stubBriefer{narration: "Good morning."}
	resolver := &stubResolver{err: errors.New("store write failed")}

	d, err := NewDispatcher(speaker, connectTo(resolver), briefer)
	require.NoError(t, err)

	err = d.Dispatch(context.Background(), "a1", "")
	require.Error(t, err)
	require.Equal(t, []string{"Good morning."}, speaker.spoken)
}

// TestNewDispatcherValidation verifies required collaborators.
func TestNewDispatcherValidation(t *testing.T) {
	t.Parallel()

	_, err := NewDispatcher(nil, nil, &stubBriefer{})
	require.Error(t, err)

	_, err = NewDispatcher(nil, connectTo(&stubResolver{}), nil)
	require.Error(t, err)

	// A nil speaker is allowed: the dispatch runs silently.
	d, err := NewDispatcher(nil, connectTo(&stubResolver{}), &stubBriefer{narration: "quiet"})
	require.NoError(t, err)
	require.NoError(t, d.Dispatch(context.Background(), "a1", ""))
}
