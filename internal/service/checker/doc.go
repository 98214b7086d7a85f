// Package checker runs one alarm check against a UPS: it validates the
// operator input, polls the active alarm count and, when alarms are present,
// the alarm table, then classifies the result.
package checker
