// Package plugin renders check results following the monitoring-plugin
// contract: a status keyword line, the message body, and an exit code of
// 0 (OK), 1 (WARNING), 2 (CRITICAL) or 3 (UNKNOWN).
package plugin
