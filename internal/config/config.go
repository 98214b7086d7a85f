package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/check-xups-alarms/internal/poller"
	"github.com/oshokin/check-xups-alarms/internal/severity"
)

// Config holds SNMP connection parameters and default severity tiers.
type Config struct {
	// Community is the SNMPv1/v2c community string.
	Community string `yaml:"community"`
	// Port is the agent UDP port.
	Port uint16 `yaml:"port"`
	// SNMPVersion is "1" or "2c".
	SNMPVersion string `yaml:"snmp_version"`
	// Timeout bounds each SNMP request.
	Timeout time.Duration `yaml:"timeout"`
	// Retries is the number of transport-level retransmissions per request.
	Retries int `yaml:"retries"`
	// Warning is the default warning severity specification.
	Warning string `yaml:"warning,omitempty"`
	// Critical is the default critical severity specification.
	Critical string `yaml:"critical,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for plugin settings.
	DefaultConfigFilename = "check-xups-alarms.yaml"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// maxRetries caps retransmissions so a check stays within scheduler timeouts.
	maxRetries = 5
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidRetries is returned when retries is out of range.
	errInvalidRetries = errors.New("retries must be within 0..5")
)

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Port:        poller.DefaultPort,
		SNMPVersion: poller.DefaultVersion,
		Timeout:     poller.DefaultTimeout,
	}
}

// Load reads configuration from the provided path on top of Default.
// An empty path reads DefaultConfigFilename and falls back to Default when
// that file does not exist; an explicit path must exist.
//
// Field values are not validated here: command-line values may still replace
// them. Callers validate the merged result with ValidateConnection.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return cfg, nil
}

// Save writes Config to the provided path.
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

	// Community strings are credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks every field and fills defaults for unset values.
func Validate(cfg *Config) error {
	if err := ValidateConnection(cfg); err != nil {
		return err
	}

	if cfg.Warning != "" {
		if _, err := severity.Parse(cfg.Warning); err != nil {
			return fmt.Errorf("invalid warning: %w", err)
		}
	}

	if cfg.Critical != "" {
		if _, err := severity.Parse(cfg.Critical); err != nil {
			return fmt.Errorf("invalid critical: %w", err)
		}
	}

	return nil
}

// ValidateConnection checks the SNMP connection fields and fills their defaults.
// Severity tiers are left to the caller that uses them.
func ValidateConnection(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Port == 0 {
		cfg.Port = poller.DefaultPort
	}

	if cfg.SNMPVersion == "" {
		cfg.SNMPVersion = poller.DefaultVersion
	}

	if _, err := poller.ParseVersion(cfg.SNMPVersion); err != nil {
		return fmt.Errorf("invalid snmp_version: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = poller.DefaultTimeout
	}

	if cfg.Retries < 0 || cfg.Retries > maxRetries {
		return errInvalidRetries
	}

	return nil
}
