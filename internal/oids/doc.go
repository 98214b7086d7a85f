// Package oids defines the SNMP object identifiers polled from XUPS-MIB devices
// and small helpers for comparing dotted OID strings.
package oids
