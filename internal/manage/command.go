package manage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tmacready/daybreak/internal/alarm"
	"github.com/tmacready/daybreak/internal/config"
	"github.com/tmacready/daybreak/internal/dispatch"
	"github.com/tmacready/daybreak/internal/domain/almanac"
	"github.com/tmacready/daybreak/internal/logger"
	"github.com/tmacready/daybreak/internal/trigger"
)

// ScheduleOptions controls the schedule command.
type ScheduleOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// At is the requested fire time, either a wall-clock "15:04" for today
	// or a full RFC 3339 timestamp.
	At string
	// RepeatDaily requests a daily repeat cadence.
	RepeatDaily bool
	// Label is an optional name spoken with the briefing greeting.
	Label string
	// Out receives the scheduled alarm summary; defaults to stdout.
	Out io.Writer
}

// CancelOptions controls the cancel command.
type CancelOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// AlarmID identifies the alarm to disarm.
	AlarmID string
}

// ListOptions controls the list command.
type ListOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Out receives the listing; defaults to stdout.
	Out io.Writer
}

// BriefOptions controls the one-off brief command.
type BriefOptions struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Label is an optional name spoken with the greeting.
	Label string
	// Print writes the narration to stdout instead of the voice channel.
	Print bool
}

// listedTimeLayout renders alarm times for the listing output.
const listedTimeLayout = "Mon Jan 2 15:04 MST"

// errFireTimeRequired is returned when the schedule command gets no time.
var errFireTimeRequired = errors.New("fire time must be provided")

// RunSchedule arms a new alarm in the trigger store and prints its
// identifier and resolved fire time.
func RunSchedule(ctx context.Context, opts *ScheduleOptions) error {
	ctx = logger.WithName(ctx, "schedule")

	lifecycle, err := openLifecycle(opts.ConfigPath)
	if err != nil {
		return err
	}

	at, err := parseFireTime(opts.At, time.Now())
	if err != nil {
		return err
	}

	armed, err := lifecycle.Schedule(ctx, &almanac.Alarm{
		ScheduledAt: at,
		RepeatDaily: opts.RepeatDaily,
		Label:       opts.Label,
	})
	if err != nil {
		return fmt.Errorf("schedule alarm: %w", err)
	}

	cadence := "once"
	if armed.RepeatDaily {
		cadence = "daily"
	}

	fmt.Fprintf(out(opts.Out), "Scheduled %s for %s (%s)\n",
		armed.ID, armed.ScheduledAt.Format(listedTimeLayout), cadence)

	return nil
}

// RunCancel disarms the given alarm.
func RunCancel(ctx context.Context, opts *CancelOptions) error {
	ctx = logger.WithName(ctx, "cancel")

	lifecycle, err := openLifecycle(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err := lifecycle.Cancel(ctx, opts.AlarmID); err != nil {
		return fmt.Errorf("cancel alarm: %w", err)
	}

	logger.InfoKV(ctx, "Alarm canceled", "alarm_id", opts.AlarmID)

	return nil
}

// RunList prints every armed alarm known to the trigger store.
func RunList(ctx context.Context, opts *ListOptions) error {
	ctx = logger.WithName(ctx, "list")

	lifecycle, err := openLifecycle(opts.ConfigPath)
	if err != nil {
		return err
	}

	alarms, err := lifecycle.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list alarms: %w", err)
	}

	w := out(opts.Out)

	if len(alarms) == 0 {
		fmt.Fprintln(w, "No alarms scheduled")

		return nil
	}

	for _, a := range alarms {
		cadence := "once"
		if a.RepeatDaily {
			cadence = "daily"
		}

		line := fmt.Sprintf("%s  %s  %s", a.ID, a.ScheduledAt.Format(listedTimeLayout), cadence)
		if a.Label != "" {
			line += "  " + a.Label
		}

		fmt.Fprintln(w, line)
	}

	return nil
}

// RunBrief produces a briefing immediately, outside any alarm fire: the
// same aggregation the dispatcher performs, minus the trigger store.
func RunBrief(ctx context.Context, opts *BriefOptions) error {
	ctx = logger.WithName(ctx, "brief")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	dispatch.ApplyLogSettings(cfg)

	aggregator, err := dispatch.BuildAggregator(cfg)
	if err != nil {
		return err
	}

	b, err := aggregator.Brief(ctx, opts.Label)
	if err != nil {
		return fmt.Errorf("produce briefing: %w", err)
	}

	if opts.Print {
		fmt.Fprintln(os.Stdout, b.Narration)

		return nil
	}

	speaker := dispatch.BuildSpeaker(cfg)
	if err := speaker.Init(ctx); err != nil {
		logger.WarnKV(ctx, "Voice output unavailable, printing instead", "error", err)
		fmt.Fprintln(os.Stdout, b.Narration)

		return nil
	}

	if err := speaker.Speak(ctx, b.Narration); err != nil {
		return fmt.Errorf("speak narration: %w", err)
	}

	return nil
}

// openLifecycle loads settings and connects the alarm lifecycle to the
// configured trigger store.
func openLifecycle(configPath string) (*alarm.Lifecycle, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	dispatch.ApplyLogSettings(cfg)

	lifecycle, err := alarm.NewLifecycle(trigger.NewFileStore(cfg.TriggerFile))
	if err != nil {
		return nil, fmt.Errorf("open trigger store: %w", err)
	}

	return lifecycle, nil
}

// parseFireTime resolves the user's requested fire time. A bare wall-clock
// time like "7:30" or "07:30" is anchored to today in local time; a full
// RFC 3339 timestamp is taken as is. Rolling a past time to tomorrow is the
// lifecycle's job, not the parser's.
func parseFireTime(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Time{}, errFireTimeRequired
	}

	if at, err := time.Parse(time.RFC3339, value); err == nil {
		return at, nil
	}

	for _, layout := range []string{"15:04", "3:04PM", "3:04 PM"} {
		clock, err := time.Parse(layout, value)
		if err != nil {
			continue
		}

		return time.Date(now.Year(), now.Month(), now.Day(),
			clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized fire time %q", value)
}

// out falls back to stdout when no writer is provided.
func out(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
