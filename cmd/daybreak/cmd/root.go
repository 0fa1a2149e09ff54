package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmacready/daybreak/internal/config"
	"github.com/tmacready/daybreak/internal/dispatch"
	"github.com/tmacready/daybreak/internal/manage"
	"github.com/tmacready/daybreak/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for the spoken almanac briefing.
	rootCmd = &cobra.Command{
		Use:   "daybreak",
		Short: "Spoken almanac briefings on scheduled alarms.",
		Long: `Daybreak schedules alarms against a file-backed trigger store and, when
one fires, speaks an almanac briefing: time, place, weather, sunrise and
sunset, tides, air quality, a verse and a bird of the day.

All commands load settings from the configuration file and bootstrap from
zero state, so any of them can run as the first process after a reboot.`,
	}
)

// Execute runs the daybreak CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGTERM or SIGINT.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	rootCmd.AddCommand(
		newScheduleCommand(),
		newCancelCommand(),
		newListCommand(),
		newBriefCommand(),
		newDispatchCommand(),
	)
}

// newScheduleCommand arms a new alarm.
func newScheduleCommand() *cobra.Command {
	var (
		repeatDaily bool
		label       string
	)

	command := &cobra.Command{
		Use:   "schedule <time>",
		Short: "Schedule a briefing alarm.",
		Long: `Schedules an alarm in the trigger store. The time is either a wall-clock
time like "07:30" (today, rolled to tomorrow if already past) or a full
RFC 3339 timestamp.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			return manage.RunSchedule(ctx, &manage.ScheduleOptions{
				ConfigPath:  configPath,
				At:          args[0],
				RepeatDaily: repeatDaily,
				Label:       label,
			})
		},
	}

	command.Flags().BoolVarP(&repeatDaily, "daily", "d", false, "repeat the alarm every day")
	command.Flags().StringVarP(&label, "label", "l", "", "name spoken with the briefing greeting")

	return command
}

// newCancelCommand disarms an alarm by ID.
func newCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <alarm-id>",
		Short: "Cancel a scheduled alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			return manage.RunCancel(ctx, &manage.CancelOptions{
				ConfigPath: configPath,
				AlarmID:    args[0],
			})
		},
	}
}

// newListCommand prints the armed alarms.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled alarms.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return manage.RunList(ctx, &manage.ListOptions{ConfigPath: configPath})
		},
	}
}

// newBriefCommand produces a briefing immediately.
func newBriefCommand() *cobra.Command {
	var (
		label     string
		printOnly bool
	)

	command := &cobra.Command{
		Use:   "brief",
		Short: "Produce a briefing now, outside any alarm.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return manage.RunBrief(ctx, &manage.BriefOptions{
				ConfigPath: configPath,
				Label:      label,
				Print:      printOnly,
			})
		},
	}

	command.Flags().StringVarP(&label, "label", "l", "", "name spoken with the greeting")
	command.Flags().BoolVarP(&printOnly, "print", "p", false, "print the narration instead of speaking it")

	return command
}

// newDispatchCommand runs the background delivery protocol.
func newDispatchCommand() *cobra.Command {
	var (
		label        string
		watch        bool
		pollInterval time.Duration
	)

	command := &cobra.Command{
		Use:   "dispatch [alarm-id]",
		Short: "Deliver a fired alarm's briefing.",
		Long: `Runs the background dispatch protocol for a fired alarm: bootstrap voice
output, connect the trigger store, speak the briefing, resolve the alarm.

With --watch the command polls the trigger store instead and dispatches
every alarm as it comes due, until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			var alarmID string
			if len(args) > 0 {
				alarmID = args[0]
			}

			if alarmID == "" && !watch {
				return errors.New("an alarm ID is required unless --watch is set")
			}

			return dispatch.Run(ctx, &dispatch.Options{
				ConfigPath:   configPath,
				AlarmID:      alarmID,
				Label:        label,
				Watch:        watch,
				PollInterval: pollInterval,
			})
		},
	}

	command.Flags().StringVarP(&label, "label", "l", "", "name spoken with the greeting")
	command.Flags().BoolVarP(&watch, "watch", "w", false, "poll the trigger store and dispatch due alarms")
	command.Flags().
		DurationVar(&pollInterval, "poll-interval", dispatch.DefaultPollInterval, "watch polling cadence")

	return command
}
