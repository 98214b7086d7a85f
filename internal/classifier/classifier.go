// Package classifier turns polled alarm rows into one monitoring-plugin result.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/oshokin/check-xups-alarms/internal/catalog"
	"github.com/oshokin/check-xups-alarms/internal/domain/alarm"
	"github.com/oshokin/check-xups-alarms/internal/logger"
	"github.com/oshokin/check-xups-alarms/internal/oids"
	"github.com/oshokin/check-xups-alarms/internal/poller"
	"github.com/oshokin/check-xups-alarms/internal/severity"
)

// lineFormat renders one matched alarm: "<STATUS> ALARM: <description>OID: <source key>".
const lineFormat = "%s ALARM: %sOID: %s\n"

// Classify aggregates the polled alarms into one result.
//
// A zero present count is authoritative and short-circuits to OK without
// looking at alarms. Otherwise each alarm is tested against crit first and
// then warn, so an identifier in both tiers is CRITICAL. Lines follow poll
// order. Nil specs match nothing.
func Classify(present int, alarms []alarm.PolledAlarm, warn, crit *severity.Spec) *alarm.Result {
	if present == 0 {
		return &alarm.Result{
			Status:  alarm.StatusOK,
			Message: alarm.NoActiveAlarms,
		}
	}

	var (
		message  strings.Builder
		findings []alarm.Finding
	)

	for _, polled := range alarms {
		status, matched := tier(polled.AlarmID, warn, crit)
		if !matched {
			continue
		}

		description := catalog.Describe(polled.AlarmID)
		fmt.Fprintf(&message, lineFormat, status, description, polled.SourceKey)

		findings = append(findings, alarm.Finding{
			Alarm:       polled,
			Status:      status,
			Description: description,
		})
	}

	overall := lo.Reduce(findings, func(acc alarm.Status, f alarm.Finding, _ int) alarm.Status {
		return alarm.Worse(acc, f.Status)
	}, alarm.StatusOK)

	result := &alarm.Result{
		Status:   overall,
		Message:  message.String(),
		Present:  present,
		Findings: findings,
	}

	if overall == alarm.StatusOK {
		result.Message = alarm.NoActiveAlarms
	}

	return result
}

// tier returns the severity an alarm identifier falls into. Critical wins.
func tier(id int, warn, crit *severity.Spec) (alarm.Status, bool) {
	switch {
	case crit.Contains(id):
		return alarm.StatusCritical, true
	case warn.Contains(id):
		return alarm.StatusWarning, true
	default:
		return alarm.StatusOK, false
	}
}

// Resolve converts raw alarm table rows into polled alarms, keeping device order.
//
// XUPS-MIB agents answer xupsAlarmDescr with an OID naming the well-known
// alarm (xupsOnBattery is 1.3.6.1.4.1.534.1.7.3), so the alarm identifier is
// that OID's last arc. Rows without such a value fall back to the numeric
// suffix of their own key. Rows yielding neither are skipped with a warning.
func Resolve(ctx context.Context, rows []poller.Row) []alarm.PolledAlarm {
	return lo.FilterMap(rows, func(row poller.Row, _ int) (alarm.PolledAlarm, bool) {
		id, ok := alarmID(row)
		if !ok {
			logger.WarnKV(ctx, "Skipping alarm row without identifier", "oid", row.SourceKey, "value", row.Value)
			return alarm.PolledAlarm{}, false
		}

		return alarm.PolledAlarm{
			SourceKey: row.SourceKey,
			AlarmID:   id,
		}, true
	})
}

// alarmID derives the well-known alarm identifier of one row.
func alarmID(row poller.Row) (int, bool) {
	if value, ok := row.Value.(string); ok && isWellKnownAlarm(value) {
		return oids.LastArc(value)
	}

	return oids.LastArc(row.SourceKey)
}

// isWellKnownAlarm reports whether oid is a direct child of xupsAlarms.
func isWellKnownAlarm(oid string) bool {
	if !oids.HasPrefix(oid, oids.UPSAlarms) {
		return false
	}

	rest := strings.TrimPrefix(oids.Normalize(oid), oids.UPSAlarms+".")

	return !strings.Contains(rest, ".")
}
