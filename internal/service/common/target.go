//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/check-xups-alarms/internal/config"
	"github.com/oshokin/check-xups-alarms/internal/logger"
	"github.com/oshokin/check-xups-alarms/internal/poller"
)

// ErrMissingArgument is returned when a required argument is given neither
// on the command line nor in the configuration file.
var ErrMissingArgument = errors.New("missing required argument")

// Target describes how to reach one device. Zero values defer to the configuration file.
type Target struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Host is the device hostname or address.
	Host string
	// Community overrides the configured community string.
	Community string
	// Port overrides the configured agent port.
	Port uint16
	// SNMPVersion overrides the configured protocol version.
	SNMPVersion string
	// Timeout overrides the configured per-request timeout.
	Timeout time.Duration
	// Retries overrides the configured retransmissions when non-negative.
	Retries int
}

// DialFunc opens a poller for target.
type DialFunc func(ctx context.Context, target string, opts ...poller.Option) (poller.Poller, error)

// DialSNMP is the production DialFunc backed by poller.Dial.
func DialSNMP(ctx context.Context, target string, opts ...poller.Option) (poller.Poller, error) {
	client, err := poller.Dial(ctx, target, opts...)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// Resolve loads the configuration and applies the target's overrides on top of it.
// Host and community are required and checked before the merged connection
// settings are validated. Severity tiers in the file are not validated here.
func Resolve(t *Target) (*config.Config, error) {
	cfg, err := config.Load(t.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	t.Overlay(cfg)

	if t.Host == "" {
		return nil, fmt.Errorf("%w: host address (-H)", ErrMissingArgument)
	}

	if cfg.Community == "" {
		return nil, fmt.Errorf("%w: community (-C)", ErrMissingArgument)
	}

	if err = config.ValidateConnection(cfg); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	return cfg, nil
}

// Overlay copies the connection values set on t into cfg.
func (t *Target) Overlay(cfg *config.Config) {
	if t.Community != "" {
		cfg.Community = t.Community
	}

	if t.Port > 0 {
		cfg.Port = t.Port
	}

	if t.SNMPVersion != "" {
		cfg.SNMPVersion = t.SNMPVersion
	}

	if t.Timeout > 0 {
		cfg.Timeout = t.Timeout
	}

	if t.Retries >= 0 {
		cfg.Retries = t.Retries
	}
}

// Connect opens a poller for the resolved target using dial, or DialSNMP when dial is nil.
func Connect(ctx context.Context, host string, cfg *config.Config, dial DialFunc) (poller.Poller, error) {
	if dial == nil {
		dial = DialSNMP
	}

	p, err := dial(
		ctx,
		host,
		poller.WithPort(cfg.Port),
		poller.WithCommunity(cfg.Community),
		poller.WithVersion(cfg.SNMPVersion),
		poller.WithCallTimeout(cfg.Timeout),
		poller.WithRetries(cfg.Retries),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", host, err)
	}

	logger.DebugKV(ctx, "Connected", "host", host, "port", cfg.Port, "snmp_version", cfg.SNMPVersion)

	return p, nil
}
