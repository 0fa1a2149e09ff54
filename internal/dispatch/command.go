package dispatch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tmacready/daybreak/internal/alarm"
	"github.com/tmacready/daybreak/internal/briefing"
	"github.com/tmacready/daybreak/internal/config"
	"github.com/tmacready/daybreak/internal/location"
	"github.com/tmacready/daybreak/internal/logger"
	"github.com/tmacready/daybreak/internal/providers"
	"github.com/tmacready/daybreak/internal/speech"
	"github.com/tmacready/daybreak/internal/sun"
	"github.com/tmacready/daybreak/internal/tide"
	"github.com/tmacready/daybreak/internal/trigger"
)

// Options controls a background dispatch invocation.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// AlarmID is the fired alarm carried by the platform's fire event.
	AlarmID string
	// Label is the fire event's payload, spoken with the greeting.
	Label string
	// Watch keeps the process polling the trigger store for due fires
	// instead of dispatching a single alarm.
	Watch bool
	// PollInterval defines the watch loop's polling cadence.
	PollInterval time.Duration
}

// DefaultPollInterval is the watch loop's polling cadence when unset.
const DefaultPollInterval = 30 * time.Second

// Run performs a full dispatch bootstrap from zero state: settings, voice
// output, trigger store, engines and providers are all constructed here,
// because the platform gives no guarantee anything was initialized before
// the fire event arrived.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "dispatch")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ApplyLogSettings(cfg)

	d, store, err := build(cfg)
	if err != nil {
		return err
	}

	if opts.Watch {
		return watch(ctx, d, store, opts.PollInterval)
	}

	return d.Dispatch(ctx, opts.AlarmID, opts.Label)
}

// ApplyLogSettings configures the global logger from the settings file.
func ApplyLogSettings(cfg *config.Config) {
	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		level = logger.Level()
	}

	if cfg.LogFile != "" {
		logger.SetLogger(logger.NewWithFile(nil, cfg.LogFile))
	}

	logger.SetLevel(level)
}

// build assembles the dispatcher and its trigger store from settings.
func build(cfg *config.Config) (*Dispatcher, *trigger.FileStore, error) {
	store := trigger.NewFileStore(cfg.TriggerFile)

	connect := func(ctx context.Context) (FiredResolver, error) {
		// Probe the store before handing it to the lifecycle so an
		// unreachable store fails the dispatch here, in the fatal step.
		if _, err := store.ListArmed(ctx); err != nil {
			return nil, err
		}

		return alarm.NewLifecycle(store)
	}

	aggregator, err := BuildAggregator(cfg)
	if err != nil {
		return nil, nil, err
	}

	d, err := NewDispatcher(BuildSpeaker(cfg), connect, aggregator)
	if err != nil {
		return nil, nil, err
	}

	return d, store, nil
}

// BuildSpeaker selects the voice channel: the configured TTS command, or
// standard output as the degraded fallback.
func BuildSpeaker(cfg *config.Config) speech.Speaker {
	if cfg.SpeechCommand == "" {
		return speech.NewWriterSpeaker(os.Stdout)
	}

	speaker, err := speech.NewCommandSpeaker(cfg.SpeechCommand, cfg.SpeechArgs...)
	if err != nil {
		return speech.NewWriterSpeaker(os.Stdout)
	}

	return speaker
}

// BuildAggregator wires every configured provider into the briefing
// aggregator. Providers with no endpoint are left out and their sections
// are simply absent from the narration.
func BuildAggregator(cfg *config.Config) (*briefing.Aggregator, error) {
	resolver, err := location.NewResolver(
		location.StaticProvider{Latitude: cfg.Latitude, Longitude: cfg.Longitude},
		cfg.LocationMaxAge,
	)
	if err != nil {
		return nil, fmt.Errorf("build location resolver: %w", err)
	}

	opts := []briefing.Option{
		briefing.WithSun(sun.Times),
		briefing.WithTideWindow(cfg.TideWindow),
		briefing.WithCallTimeout(cfg.CallTimeout),
	}

	if cfg.WeatherURL != "" {
		weather, err := providers.NewWeather(cfg.WeatherURL, cfg.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("build weather client: %w", err)
		}

		opts = append(opts, briefing.WithWeather(weather))
	}

	if cfg.AirQualityURL != "" {
		air, err := providers.NewAirQuality(cfg.AirQualityURL, cfg.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("build air quality client: %w", err)
		}

		opts = append(opts, briefing.WithAir(air))
	}

	if cfg.GeocodeURL != "" {
		geocoder, err := providers.NewGeocoder(cfg.GeocodeURL, cfg.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("build geocoder client: %w", err)
		}

		opts = append(opts, briefing.WithPlace(geocoder))
	}

	if cfg.VerseURL != "" {
		verse, err := providers.NewVerse(cfg.VerseURL, cfg.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("build verse client: %w", err)
		}

		opts = append(opts, briefing.WithVerse(verse))
	}

	if cfg.BirdURL != "" {
		bird, err := providers.NewBird(cfg.BirdURL, cfg.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("build bird client: %w", err)
		}

		opts = append(opts, briefing.WithBird(bird))
	}

	if cfg.StationCatalogURL != "" && cfg.TidePredictionsURL != "" {
		engine, err := tide.NewEngine(cfg.StationCatalogURL, cfg.TidePredictionsURL, cfg.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("build tide engine: %w", err)
		}

		opts = append(opts, briefing.WithTide(engine))
	}

	return briefing.NewAggregator(resolver, opts...)
}

// watch polls the trigger store and dispatches every due fire event until
// the context is cancelled.
func watch(ctx context.Context, d *Dispatcher, store *trigger.FileStore, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger.InfoKV(ctx, "Watching trigger store", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Immediate pass so an already-due alarm fires without waiting a tick.
	deliverDue(ctx, d, store)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			deliverDue(ctx, d, store)
		}
	}
}

// deliverDue dispatches every fire event currently due.
func deliverDue(ctx context.Context, d *Dispatcher, store *trigger.FileStore) {
	fires, err := store.Due(ctx, time.Now())
	if err != nil {
		logger.ErrorKV(ctx, "Failed to poll trigger store", "error", err)

		return
	}

	for _, fire := range fires {
		logger.InfoKV(ctx, "Trigger fired", "alarm_id", fire.AlarmID, "fired_at", fire.FiredAt)

		if err := d.Dispatch(ctx, fire.AlarmID, fire.Label); err != nil {
			logger.ErrorKV(ctx, "Dispatch completed with failures", "alarm_id", fire.AlarmID, "error", err)
		}
	}
}
