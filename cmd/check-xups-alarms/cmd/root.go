package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/check-xups-alarms/internal/config"
	"github.com/oshokin/check-xups-alarms/internal/domain/alarm"
	"github.com/oshokin/check-xups-alarms/internal/logger"
	"github.com/oshokin/check-xups-alarms/internal/plugin"
	"github.com/oshokin/check-xups-alarms/internal/service/checker"
	"github.com/oshokin/check-xups-alarms/internal/service/common"
	"github.com/oshokin/check-xups-alarms/internal/service/ident"
	"github.com/oshokin/check-xups-alarms/internal/version"
)

const (
	// commandManufacturer is the informational query selected with -l.
	commandManufacturer = "manufacturer"
	// commandInitConfig writes the given settings to the configuration file.
	commandInitConfig = "init-config"
)

var (
	// errUnknownCommand is returned for unsupported -l values.
	errUnknownCommand = errors.New("unknown command")
	// errUnknownLogLevel is returned for unsupported --log-level values.
	errUnknownLogLevel = errors.New("unknown log level")
)

// invocation holds the flag values and outcome of one run.
type invocation struct {
	// target carries connection flags; unset flags defer to the configuration file.
	target common.Target
	// warning is the warning severity specification.
	warning string
	// critical is the critical severity specification.
	critical string
	// command selects an informational query instead of the alarm check.
	command string
	// output is the requested output format.
	output string
	// logLevel is the stderr logging level.
	logLevel string

	// format is the parsed output format.
	format plugin.Format
	// dial overrides the SNMP dialer in tests.
	dial common.DialFunc
	// exitCode is the plugin exit code of a completed run.
	exitCode int
}

// Execute runs the check-xups-alarms CLI and exits with the plugin exit code.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	code := run(ctx, os.Args[1:], os.Stdout, nil)

	stop()
	os.Exit(code)
}

// run executes the command line and returns the exit code.
// Any failure, including flag errors, is printed as UNKNOWN.
func run(ctx context.Context, args []string, out io.Writer, dial common.DialFunc) int {
	inv := &invocation{
		format: plugin.FormatText,
		dial:   dial,
	}

	root := newRootCommand(inv)
	root.SetArgs(args)
	root.SetOut(out)

	if err := root.ExecuteContext(ctx); err != nil {
		logger.ErrorKV(ctx, "Check failed", "error", err)

		_ = plugin.RenderError(out, err, inv.format)

		return plugin.ExitCode(nil, err)
	}

	return inv.exitCode
}

// newRootCommand builds the command tree bound to inv.
func newRootCommand(inv *invocation) *cobra.Command {
	root := &cobra.Command{
		Use:   "check-xups-alarms -H host -C community -w warning -c critical",
		Short: "Check active alarms of an XUPS-MIB UPS over SNMP.",
		Long: `Monitoring plugin that reads the active alarm table of an Eaton/Powerware UPS
(XUPS-MIB) and reports OK, WARNING, CRITICAL or UNKNOWN.

Warning and critical alarms are comma-separated alarm identifiers or inclusive
ranges, e.g. "1..4,11". An alarm listed in both is reported as critical.
Connection settings can also come from a YAML configuration file; flags win.

Exit codes: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN.`,
		Example:       "  check-xups-alarms -H 10.0.0.10 -C public -w 1..4,11 -c 5..10",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return inv.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch inv.command {
			case "":
				return inv.check(cmd)
			case commandManufacturer:
				return inv.manufacturer(cmd)
			default:
				return fmt.Errorf("%w: %q", errUnknownCommand, inv.command)
			}
		},
	}

	// Connection flags are shared with sub-commands.
	persistent := root.PersistentFlags()
	persistent.StringVarP(&inv.target.ConfigPath, "config", "f", "", "path to configuration file (default "+config.DefaultConfigFilename+" if present)")
	persistent.StringVarP(&inv.target.Host, "host", "H", "", "address or hostname of the UPS (required)")
	persistent.StringVarP(&inv.target.Community, "community", "C", "", "SNMP community string (required)")
	persistent.Uint16VarP(&inv.target.Port, "port", "p", 161, "SNMP port")
	persistent.StringVarP(&inv.target.SNMPVersion, "snmp-version", "V", "2c", "SNMP version: 1 or 2c")
	persistent.DurationVarP(&inv.target.Timeout, "timeout", "t", 0, "timeout per SNMP request (default 5s)")
	persistent.IntVar(&inv.target.Retries, "retries", 0, "SNMP retransmissions per request")
	persistent.StringVarP(&inv.output, "output", "o", string(plugin.FormatText), "output format: text or json")
	persistent.StringVar(&inv.logLevel, "log-level", "warn", "stderr log level: debug, info, warn or error")

	root.Flags().StringVarP(&inv.warning, "warning", "w", "", "warning alarms, e.g. 1..4,11")
	root.Flags().StringVarP(&inv.critical, "critical", "c", "", "critical alarms, e.g. 5..10")
	root.Flags().StringVarP(&inv.command, "command", "l", "", "informational command instead of the check: manufacturer")

	root.AddCommand(&cobra.Command{
		Use:   commandManufacturer,
		Short: "Print UPS manufacturer details.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inv.manufacturer(cmd)
		},
	})

	initConfig := &cobra.Command{
		Use:   commandInitConfig,
		Short: "Write connection settings and severity tiers to the configuration file.",
		Long: `Write the connection flags and severity tiers given on the command line to the
configuration file named by --config, or ` + config.DefaultConfigFilename + `. Unset values take
their defaults. An existing file is replaced.`,
		Example: "  check-xups-alarms init-config -C public -w 1..4,11 -c 5..10",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inv.initConfig(cmd)
		},
	}

	initConfig.Flags().StringVarP(&inv.warning, "warning", "w", "", "default warning alarms, e.g. 1..4,11")
	initConfig.Flags().StringVarP(&inv.critical, "critical", "c", "", "default critical alarms, e.g. 5..10")

	root.AddCommand(initConfig)

	version.AttachCobraVersionCommand(root)

	return root
}

// setup applies logging and output flags and clears connection flags the
// operator did not set so the configuration file can supply them.
func (inv *invocation) setup(cmd *cobra.Command) error {
	format, err := plugin.ParseFormat(inv.output)
	if err != nil {
		return err
	}

	inv.format = format

	level, ok := logger.ParseLogLevel(inv.logLevel)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, inv.logLevel)
	}

	logger.SetLevel(level)

	flags := cmd.Flags()

	if !flags.Changed("port") {
		inv.target.Port = 0
	}

	if !flags.Changed("snmp-version") {
		inv.target.SNMPVersion = ""
	}

	if !flags.Changed("retries") {
		inv.target.Retries = -1
	}

	return nil
}

// check runs the alarm check and renders its result.
func (inv *invocation) check(cmd *cobra.Command) error {
	result, err := checker.Run(cmd.Context(), &checker.Options{
		Target:   inv.target,
		Warning:  inv.warning,
		Critical: inv.critical,
		Dial:     inv.dial,
	})
	if err != nil {
		return err
	}

	return inv.render(cmd, result)
}

// manufacturer runs the identification query and renders it as an OK result.
func (inv *invocation) manufacturer(cmd *cobra.Command) error {
	info, err := ident.Run(cmd.Context(), &ident.Options{
		Target: inv.target,
		Dial:   inv.dial,
	})
	if err != nil {
		return err
	}

	return inv.render(cmd, &alarm.Result{
		Status:  alarm.StatusOK,
		Message: info.String(),
	})
}

// initConfig saves the given flags over the defaults and reports the written path.
func (inv *invocation) initConfig(cmd *cobra.Command) error {
	cfg := config.Default()
	inv.target.Overlay(cfg)
	cfg.Warning = inv.warning
	cfg.Critical = inv.critical

	path := inv.target.ConfigPath
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	logger.InfoKV(cmd.Context(), "Configuration written", "path", path)

	return inv.render(cmd, &alarm.Result{
		Status:  alarm.StatusOK,
		Message: "Settings written to " + path + "\n",
	})
}

// render writes result and records its exit code.
func (inv *invocation) render(cmd *cobra.Command, result *alarm.Result) error {
	if err := plugin.Render(cmd.OutOrStdout(), result, inv.format); err != nil {
		return err
	}

	inv.exitCode = plugin.ExitCode(result, nil)

	return nil
}
