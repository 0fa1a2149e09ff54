package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the briefing components.
type Config struct {
	// TriggerFile is the path to the JSON file backing the reference trigger store.
	TriggerFile string `yaml:"trigger_file"`
	// SpeechCommand is the text-to-speech executable invoked per utterance.
	// The narration is appended as the final argument. Empty disables speech.
	SpeechCommand string `yaml:"speech_command"`
	// SpeechArgs are extra arguments passed to SpeechCommand before the text.
	SpeechArgs []string `yaml:"speech_args"`
	// StationCatalogURL is the endpoint listing all tide stations.
	StationCatalogURL string `yaml:"station_catalog_url"`
	// TidePredictionsURL is the endpoint serving high/low tide predictions.
	TidePredictionsURL string `yaml:"tide_predictions_url"`
	// WeatherURL is the current-conditions endpoint.
	WeatherURL string `yaml:"weather_url"`
	// AirQualityURL is the air quality index endpoint.
	AirQualityURL string `yaml:"air_quality_url"`
	// GeocodeURL is the reverse geocoding endpoint.
	GeocodeURL string `yaml:"geocode_url"`
	// VerseURL is the verse-of-the-day endpoint. Empty disables the section.
	VerseURL string `yaml:"verse_url"`
	// BirdURL is the bird-of-the-day endpoint. Empty disables the section.
	BirdURL string `yaml:"bird_url"`
	// Latitude is the harness positioning fix, north positive.
	Latitude float64 `yaml:"latitude"`
	// Longitude is the harness positioning fix, east positive.
	Longitude float64 `yaml:"longitude"`
	// CallTimeout bounds every external provider call.
	CallTimeout time.Duration `yaml:"call_timeout"`
	// LocationMaxAge is how long a cached location fix stays usable.
	LocationMaxAge time.Duration `yaml:"location_max_age"`
	// TideWindow is the prediction horizon for tide events.
	TideWindow time.Duration `yaml:"tide_window"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// LogFile enables an additional rotated JSON log sink when set.
	LogFile string `yaml:"log_file"`
}

const (
	// DefaultConfigFilename is the default filename for briefing settings.
	DefaultConfigFilename = "daybreak-settings.yaml"

	// DefaultTriggerFilename is the default filename for the trigger store JSON.
	DefaultTriggerFilename = "daybreak-triggers.json"

	// DefaultCallTimeout is the default bound on a single provider call.
	DefaultCallTimeout = 10 * time.Second

	// DefaultLocationMaxAge is the default usable age of a cached location fix.
	DefaultLocationMaxAge = 30 * time.Minute

	// DefaultTideWindow is the default tide prediction horizon.
	DefaultTideWindow = 24 * time.Hour

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for well-formed fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.TriggerFile == "" {
		cfg.TriggerFile = DefaultTriggerFilename
	}

	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}

	if cfg.LocationMaxAge <= 0 {
		cfg.LocationMaxAge = DefaultLocationMaxAge
	}

	if cfg.TideWindow <= 0 {
		cfg.TideWindow = DefaultTideWindow
	}

	if cfg.Latitude < -90 || cfg.Latitude > 90 || cfg.Longitude < -180 || cfg.Longitude > 180 {
		return fmt.Errorf("coordinates out of range: %g, %g", cfg.Latitude, cfg.Longitude)
	}

	endpoints := map[string]string{
		"station_catalog_url":  cfg.StationCatalogURL,
		"tide_predictions_url": cfg.TidePredictionsURL,
		"weather_url":          cfg.WeatherURL,
		"air_quality_url":      cfg.AirQualityURL,
		"geocode_url":          cfg.GeocodeURL,
		"verse_url":            cfg.VerseURL,
		"bird_url":             cfg.BirdURL,
	}
	for name, endpoint := range endpoints {
		if endpoint == "" {
			continue
		}

		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}
