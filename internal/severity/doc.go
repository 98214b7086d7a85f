// Package severity parses operator-supplied severity specifications.
//
// A specification is a comma-separated list of alarm identifiers and inclusive
// ranges (for example "1..4,11") and is expanded into a Spec, a fixed-size set
// covering the whole 0..65535 identifier domain.
package severity
