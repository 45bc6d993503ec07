package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the recorder runtime configuration from .recorder/config.yaml.
type Config struct {
	LogLevel  string              `yaml:"log_level"`
	LogFormat string              `yaml:"log_format"`
	Recording RecordingConfig     `yaml:"recording"`
	Capture   CaptureConfig       `yaml:"capture"`
	A11y      AccessibilityConfig `yaml:"accessibility"`
	Platform  PlatformConfig      `yaml:"platform"`
}

// RecordingConfig defines recording behavior and output locations.
type RecordingConfig struct {
	NaturalScrolling    bool   `yaml:"natural_scrolling"`
	GenerateWindowA11y  bool   `yaml:"generate_window_a11y"`
	GenerateElementA11y bool   `yaml:"generate_element_a11y"`
	MaxEventsPerFile    int    `yaml:"max_events_per_file"`
	RecordingDir        string `yaml:"recording_dir"`
	TempDir             string `yaml:"temp_dir"`
}

// CaptureConfig defines which raw streams are captured and how.
type CaptureConfig struct {
	TrackMovement      bool    `yaml:"track_movement"`
	TrackReleases      bool    `yaml:"track_releases"`
	WindowPollInterval float64 `yaml:"window_poll_interval"` // seconds
}

// WindowPollDuration converts the poll interval to a time.Duration.
func (c CaptureConfig) WindowPollDuration() time.Duration {
	return time.Duration(c.WindowPollInterval * float64(time.Second))
}

// AccessibilityConfig defines accessibility-tree retrieval limits.
type AccessibilityConfig struct {
	MaxTreeDepth             int  `yaml:"max_tree_depth"`
	IncludeInvisibleElements bool `yaml:"include_invisible_elements"`
	CacheTimeoutSeconds      int  `yaml:"cache_timeout_seconds"`
}

// PlatformConfig defines platform-provider behavior.
type PlatformConfig struct {
	NotificationEnabled bool   `yaml:"notification_enabled"`
	ForcePlatform       string `yaml:"force_platform"` // "darwin", "windows", "linux"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, "Documents", "AgentNet")

	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Recording: RecordingConfig{
			NaturalScrolling:    true,
			GenerateWindowA11y:  false,
			GenerateElementA11y: true,
			MaxEventsPerFile:    1000,
			RecordingDir:        filepath.Join(base, "recordings"),
			TempDir:             filepath.Join(base, "temp"),
		},
		Capture: CaptureConfig{
			TrackMovement:      true,
			TrackReleases:      false,
			WindowPollInterval: 0.5,
		},
		A11y: AccessibilityConfig{
			MaxTreeDepth:        10,
			CacheTimeoutSeconds: 30,
		},
		Platform: PlatformConfig{
			NotificationEnabled: true,
		},
	}
}

// Load reads and parses a config YAML file. A missing file returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// EnsureDirectories creates the recording and temp directories.
func (c Config) EnsureDirectories() error {
	for _, dir := range []string{c.Recording.RecordingDir, c.Recording.TempDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
