// Package integration holds end-to-end tests that run the plugin against a
// loopback SNMP agent.
package integration
