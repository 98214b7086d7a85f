package alarm

// NoActiveAlarms is the message reported when nothing matched.
const NoActiveAlarms = "No active alarms"

// PolledAlarm is one row of the device's active alarm table.
type PolledAlarm struct {
	// SourceKey is the row identifier returned by the device, e.g. the table row OID.
	SourceKey string
	// AlarmID is the well-known alarm identifier resolved for the row.
	AlarmID int
}

// Finding is an alarm that matched a severity tier.
type Finding struct {
	// Alarm is the polled alarm that matched.
	Alarm PolledAlarm
	// Status is the tier the alarm was classified into (WARNING or CRITICAL).
	Status Status
	// Description is the catalog text for the alarm.
	Description string
}

// Result is the aggregated outcome of one check.
type Result struct {
	// Status is the overall plugin state.
	Status Status
	// Message is the human-readable body printed after the status line.
	Message string
	// Present is the active alarm count reported by the device.
	Present int
	// Findings lists the matched alarms in poll order.
	Findings []Finding
}
