package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool `yaml:"capture"`
	Save    bool `yaml:"save"`
	Copy    bool `yaml:"copy"`
}

// Config holds the application configuration.
type Config struct {
	// CaptureMouseCursor composites the pointer onto X11 screenshots.
	// It is re-read for every capture, so edits take effect on the
	// next screenshot without a restart.
	CaptureMouseCursor bool   `yaml:"capture_mouse_cursor"`
	SaveDir            string `yaml:"save_dir"`
	// PortalTimeout bounds the wait for the desktop portal's response,
	// as a Go duration string ("30s"). Empty means wait forever, which
	// matches an unanswered permission prompt.
	PortalTimeout string `yaml:"portal_timeout"`
	LogLevel      string `yaml:"log_level"`
	Notify        Notify `yaml:"notify"`
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		CaptureMouseCursor: true,
		LogLevel:           "info",
	}
}

// Parse decodes YAML configuration on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.PortalTimeoutDuration(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PortalTimeoutDuration parses the portal_timeout value. Zero means no
// timeout.
func (c *Config) PortalTimeoutDuration() (time.Duration, error) {
	if c.PortalTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.PortalTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse portal_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("portal_timeout must not be negative, got %s", c.PortalTimeout)
	}
	return d, nil
}
