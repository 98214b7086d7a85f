package alarm

import "fmt"

// Status is the monitoring-plugin state of a check.
// Values double as process exit codes.
type Status uint8

const (
	// StatusOK means no alarm matched a severity tier.
	StatusOK Status = iota
	// StatusWarning means at least one alarm matched the warning tier and none the critical tier.
	StatusWarning
	// StatusCritical means at least one alarm matched the critical tier.
	StatusCritical
	// StatusUnknown means the check could not be completed.
	StatusUnknown
)

// String returns the keyword printed on the first output line.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	case StatusUnknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// ExitCode returns the process exit code for the status.
// Out-of-range values map to UNKNOWN.
func (s Status) ExitCode() int {
	if s > StatusUnknown {
		return int(StatusUnknown)
	}

	return int(s)
}

// Worse returns the more severe of two statuses (CRITICAL > WARNING > OK).
// UNKNOWN only wins over OK.
func Worse(a, b Status) Status {
	if rank(b) > rank(a) {
		return b
	}

	return a
}

// rank orders statuses by severity for aggregation.
func rank(s Status) int {
	switch s {
	case StatusCritical:
		return 3
	case StatusWarning:
		return 2
	case StatusUnknown:
		return 1
	default:
		return 0
	}
}
