//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/check-xups-alarms/internal/config"
	"github.com/oshokin/check-xups-alarms/internal/poller"
	"github.com/oshokin/check-xups-alarms/internal/poller/pollertest"
)

var errTestDial = errors.New("test dial error")

// writeConfig stores cfg in a temporary file and returns its path.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path
}

// TestResolve_OverridesConfig verifies command-line values win over the file.
func TestResolve_OverridesConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, &config.Config{
		Community:   "from-file",
		Port:        1161,
		SNMPVersion: "1",
		Timeout:     time.Second,
		Retries:     2,
	})

	cfg, err := Resolve(&Target{ConfigPath: path, Host: "ups-1", Retries: -1})
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.Community)
	require.Equal(t, uint16(1161), cfg.Port)
	require.Equal(t, 2, cfg.Retries)

	cfg, err = Resolve(&Target{
		ConfigPath:  path,
		Host:        "ups-1",
		Community:   "from-flag",
		Port:        161,
		SNMPVersion: "2c",
		Timeout:     3 * time.Second,
		Retries:     0,
	})
	require.NoError(t, err)
	require.Equal(t, "from-flag", cfg.Community)
	require.Equal(t, uint16(161), cfg.Port)
	require.Equal(t, "2c", cfg.SNMPVersion)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Zero(t, cfg.Retries)
}

// TestResolve_MissingArguments asserts host and community are required.
func TestResolve_MissingArguments(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, &config.Config{})

	_, err := Resolve(&Target{ConfigPath: path, Community: "public", Retries: -1})
	require.ErrorIs(t, err, ErrMissingArgument)

	_, err = Resolve(&Target{ConfigPath: path, Host: "ups-1", Retries: -1})
	require.ErrorIs(t, err, ErrMissingArgument)

	_, err = Resolve(&Target{ConfigPath: path, Host: "ups-1", Community: "public", SNMPVersion: "3", Retries: -1})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMissingArgument)
}

// TestResolve_MissingArgumentsBeforeFileErrors reports absent host or community
// ahead of invalid values in the configuration file.
func TestResolve_MissingArgumentsBeforeFileErrors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snmp_version: \"3\"\nwarning: 9..1\n"), config.DefaultFilePermissions))

	_, err := Resolve(&Target{ConfigPath: path, Community: "public", Retries: -1})
	require.ErrorIs(t, err, ErrMissingArgument)

	_, err = Resolve(&Target{ConfigPath: path, Host: "ups-1", Retries: -1})
	require.ErrorIs(t, err, ErrMissingArgument)

	_, err = Resolve(&Target{ConfigPath: path, Host: "ups-1", Community: "public", Retries: -1})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMissingArgument)

	// A flag replacing the bad version resolves; the file's warning tier is not checked here.
	cfg, err := Resolve(&Target{ConfigPath: path, Host: "ups-1", Community: "public", SNMPVersion: "2c", Retries: -1})
	require.NoError(t, err)
	require.Equal(t, "9..1", cfg.Warning)
}

// TestTarget_Overlay copies only the values that are set.
func TestTarget_Overlay(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Community: "file", Port: 1161, SNMPVersion: "1", Timeout: time.Second, Retries: 3}

	(&Target{Retries: -1}).Overlay(cfg)
	require.Equal(t, &config.Config{Community: "file", Port: 1161, SNMPVersion: "1", Timeout: time.Second, Retries: 3}, cfg)

	(&Target{Community: "flag", Port: 161, SNMPVersion: "2c", Timeout: 2 * time.Second, Retries: 0}).Overlay(cfg)
	require.Equal(t, &config.Config{Community: "flag", Port: 161, SNMPVersion: "2c", Timeout: 2 * time.Second}, cfg)
}

// TestConnect_PassesOptions checks the dial function receives the resolved settings.
func TestConnect_PassesOptions(t *testing.T) {
	t.Parallel()

	fake := new(pollertest.Fake)

	var gotHost string

	dial := func(_ context.Context, host string, opts ...poller.Option) (poller.Poller, error) {
		gotHost = host

		require.Len(t, opts, 5)

		return fake, nil
	}

	cfg := config.Default()
	cfg.Community = "public"

	p, err := Connect(context.Background(), "ups-1", cfg, dial)
	require.NoError(t, err)
	require.Same(t, fake, p)
	require.Equal(t, "ups-1", gotHost)

	failing := func(context.Context, string, ...poller.Option) (poller.Poller, error) {
		return nil, errTestDial
	}

	_, err = Connect(context.Background(), "ups-1", cfg, failing)
	require.ErrorIs(t, err, errTestDial)
}
