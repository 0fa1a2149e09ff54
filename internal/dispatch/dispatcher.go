package dispatch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/tmacready/daybreak/internal/domain/almanac"
	"github.com/tmacready/daybreak/internal/logger"
	"github.com/tmacready/daybreak/internal/speech"
)

// Briefer produces the briefing narration.
type Briefer interface {
	Brief(ctx context.Context, label string) (*almanac.Briefing, error)
}

// FiredResolver settles a fired alarm against the trigger store.
type FiredResolver interface {
	ResolveFired(ctx context.Context, id string) error
}

// ConnectFunc establishes the alarm lifecycle's connection to the trigger
// store. It runs inside Dispatch because the dispatcher can assume no prior
// initialization at all.
type ConnectFunc func(ctx context.Context) (FiredResolver, error)

// Spoken failure lines. The dispatcher must fail audibly, not silently.
const (
	// storeFailureLine is spoken when the trigger store cannot be reached.
	storeFailureLine = "I could not read your alarms. The briefing cannot continue."
	// briefingFailureLine is spoken when the briefing itself cannot be produced.
	briefingFailureLine = "I could not prepare your briefing. Please check your location settings."
)

// Dispatcher executes the background dispatch protocol when a trigger
// fires: bootstrap voice output, connect the alarm lifecycle, speak the
// briefing, resolve the fired alarm. Each step's failure is captured
// independently; no step's failure suppresses a later step, except that a
// trigger-store connection failure is fatal to the whole dispatch.
type Dispatcher struct {
	// speaker is the voice output channel.
	speaker speech.Speaker
	// connect establishes the lifecycle against the trigger store.
	connect ConnectFunc
	// briefer produces the narration.
	briefer Briefer
}

var (
	// errConnectRequired is returned when no lifecycle connector is provided.
	errConnectRequired = errors.New("lifecycle connector must be provided")
	// errBrieferRequired is returned when no briefer is provided.
	errBrieferRequired = errors.New("briefer must be provided")
)

// NewDispatcher creates a dispatcher over the given collaborators. Speaker
// may be nil, leaving the dispatch silent but otherwise functional.
func NewDispatcher(speaker speech.Speaker, connect ConnectFunc, briefer Briefer) (*Dispatcher, error) {
	if connect == nil {
		return nil, errConnectRequired
	}

	if briefer == nil {
		return nil, errBrieferRequired
	}

	return &Dispatcher{
		speaker: speaker,
		connect: connect,
		briefer: briefer,
	}, nil
}

// Dispatch runs the full protocol for one fired alarm. The returned error
// aggregates whatever steps failed; a trigger-store connection failure wraps
// ErrTriggerStoreUnavailable and means the later steps never ran.
func (d *Dispatcher) Dispatch(ctx context.Context, alarmID, label string) error {
	ctx = logger.WithKV(ctx, "alarm_id", alarmID)

	var report error

	// Step 1: voice output. A failed init degrades to a silent dispatch but
	// never stops the sequence; Speak is retried regardless because the
	// engine may initialize lazily.
	if d.speaker != nil {
		if err := d.speaker.Init(ctx); err != nil {
			logger.WarnKV(ctx, "Voice output unavailable, continuing degraded", "error", err)

			report = multierr.Append(report, fmt.Errorf("init voice output: %w", err))
		}
	}

	// Step 2: trigger store connection. Without it no alarm resolution is
	// possible, so this failure is fatal after an audible error.
	resolver, err := d.connect(ctx)
	if err != nil {
		d.sayError(ctx, storeFailureLine)

		return multierr.Append(report,
			fmt.Errorf("connect trigger store: %w: %w", almanac.ErrTriggerStoreUnavailable, err))
	}

	// Step 3: produce and speak the briefing. A failed briefing is spoken as
	// a short error; a failed utterance is logged. Neither stops step 4.
	b, err := d.briefer.Brief(ctx, label)
	if err != nil {
		logger.ErrorKV(ctx, "Briefing failed", "error", err)
		d.sayError(ctx, briefingFailureLine)

		report = multierr.Append(report, fmt.Errorf("produce briefing: %w", err))
	} else if d.speaker != nil {
		if err := d.speaker.Speak(ctx, b.Narration); err != nil {
			logger.ErrorKV(ctx, "Failed to speak narration", "error", err)

			report = multierr.Append(report, fmt.Errorf("speak narration: %w", err))
		}
	}

	// Step 4: resolve the fired alarm. Failures here never mask a briefing
	// that already spoke.
	if err := resolver.ResolveFired(ctx, alarmID); err != nil {
		logger.ErrorKV(ctx, "Failed to resolve fired alarm", "error", err)

		report = multierr.Append(report, fmt.Errorf("resolve fired alarm: %w", err))
	}

	return report
}

// sayError attempts to surface a failure through the voice channel.
func (d *Dispatcher) sayError(ctx context.Context, line string) {
	if d.speaker == nil {
		return
	}

	if err := d.speaker.Speak(ctx, line); err != nil {
		logger.ErrorKV(ctx, "Failed to speak error line", "line", line, "error", err)
	}
}
