package checker

import (
	"context"
	"fmt"

	"github.com/oshokin/check-xups-alarms/internal/classifier"
	"github.com/oshokin/check-xups-alarms/internal/domain/alarm"
	"github.com/oshokin/check-xups-alarms/internal/logger"
	"github.com/oshokin/check-xups-alarms/internal/oids"
	"github.com/oshokin/check-xups-alarms/internal/service/common"
	"github.com/oshokin/check-xups-alarms/internal/severity"
)

// Options controls one alarm check.
type Options struct {
	common.Target

	// Warning is the warning severity specification; falls back to the configuration file.
	Warning string
	// Critical is the critical severity specification; falls back to the configuration file.
	Critical string
	// Dial opens the poller. Nil uses SNMP.
	Dial common.DialFunc
}

// Run performs one check and returns its classified result.
//
// Argument and specification errors are returned before any network I/O.
// A failed poll is returned as is; retransmission is left to the poller.
func Run(ctx context.Context, opts *Options) (*alarm.Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "check")

	cfg, err := common.Resolve(&opts.Target)
	if err != nil {
		return nil, err
	}

	warn, crit, err := parseSpecs(firstNonEmpty(opts.Warning, cfg.Warning), firstNonEmpty(opts.Critical, cfg.Critical))
	if err != nil {
		return nil, err
	}

	ctx = logger.WithFields(ctx, "host", opts.Host, "port", cfg.Port)

	logger.DebugKV(ctx, "Severity tiers", "warning", warn.String(), "critical", crit.String(),
		"warning_ids", warn.Len(), "critical_ids", crit.Len())

	p, err := common.Connect(ctx, opts.Host, cfg, opts.Dial)
	if err != nil {
		return nil, err
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = p.Close()
	}()

	present, err := p.PollScalar(ctx, oids.AlarmsPresent)
	if err != nil {
		return nil, fmt.Errorf("poll alarms present: %w", err)
	}

	logger.DebugKV(ctx, "Alarms present", "count", present)

	if present == 0 {
		return classifier.Classify(present, nil, warn, crit), nil
	}

	rows, err := p.PollTable(ctx, oids.AlarmDescr)
	if err != nil {
		return nil, fmt.Errorf("poll alarm table: %w", err)
	}

	result := classifier.Classify(present, classifier.Resolve(ctx, rows), warn, crit)

	logger.InfoKV(ctx, "Alarm check finished", "status", result.Status, "present", present, "matched", len(result.Findings))

	return result, nil
}

// parseSpecs validates both severity tiers. Both are required.
func parseSpecs(warnRaw, critRaw string) (*severity.Spec, *severity.Spec, error) {
	if warnRaw == "" {
		return nil, nil, fmt.Errorf("%w: warning alarms (-w)", common.ErrMissingArgument)
	}

	if critRaw == "" {
		return nil, nil, fmt.Errorf("%w: critical alarms (-c)", common.ErrMissingArgument)
	}

	warn, err := severity.Parse(warnRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("warning alarms: %w", err)
	}

	crit, err := severity.Parse(critRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("critical alarms: %w", err)
	}

	return warn, crit, nil
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
