package oids

import (
	"strconv"
	"strings"
)

// This package centralizes the XUPS-MIB (Eaton/Powerware, enterprise 534)
// identifiers used by the plugin so callers avoid scattering dotted strings.
//
// OID Reference:
// - xupsIdent:  1.3.6.1.4.1.534.1.1.*
// - xupsAlarms: 1.3.6.1.4.1.534.1.7.*

const (
	// --- xupsIdent ---

	// IdentManufacturer is the UPS manufacturer name.
	IdentManufacturer = "1.3.6.1.4.1.534.1.1.1.0"
	// IdentModel is the UPS model name.
	IdentModel = "1.3.6.1.4.1.534.1.1.2.0"
	// IdentSoftwareVersion is the UPS firmware version.
	IdentSoftwareVersion = "1.3.6.1.4.1.534.1.1.3.0"
	// IdentOemCode identifies the OEM version of the agent (INTEGER).
	IdentOemCode = "1.3.6.1.4.1.534.1.1.4.0"
)

const (
	// --- xupsAlarms ---

	// UPSAlarms is the root of the alarm group; well-known alarms live directly under it.
	UPSAlarms = "1.3.6.1.4.1.534.1.7"
	// AlarmsPresent is the number of active alarm table rows (Gauge).
	AlarmsPresent = UPSAlarms + ".1.0"
	// AlarmTable is the active alarm table.
	AlarmTable = UPSAlarms + ".2"
	// AlarmDescr is the xupsAlarmDescr column; each value points at a well-known alarm OID.
	AlarmDescr = AlarmTable + ".1.2"
)

// Normalize strips the leading dot SNMP libraries put in front of OIDs.
func Normalize(oid string) string {
	return strings.TrimPrefix(strings.TrimSpace(oid), ".")
}

// HasPrefix reports whether oid lies strictly below prefix, comparing whole arcs.
func HasPrefix(oid, prefix string) bool {
	oid, prefix = Normalize(oid), Normalize(prefix)

	return strings.HasPrefix(oid, prefix+".")
}

// LastArc returns the numeric value of the final arc of oid.
func LastArc(oid string) (int, bool) {
	oid = Normalize(oid)

	idx := strings.LastIndexByte(oid, '.')

	value, err := strconv.Atoi(oid[idx+1:])
	if err != nil || value < 0 {
		return 0, false
	}

	return value, true
}
