// Package alarm contains core domain types for UPS alarm checks.
//
// It defines Status (the monitoring-plugin state), PolledAlarm (one active
// alarm reported by the device), Finding (an alarm matched by a severity tier)
// and Result (the aggregated outcome of one check).
package alarm
