// Package poller performs the SNMP round-trips the alarm check depends on.
//
// Poller is the narrow interface the check consumes: one scalar read for the
// active alarm count, one table walk for the alarm rows, and a multi-get for
// identification strings. Client implements it on top of gosnmp, which
// bounds each request attempt by WithCallTimeout and retransmits it up to
// WithRetries times. Every failure wraps ErrPoll.
package poller
