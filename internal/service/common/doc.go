// Package common holds helpers shared by the check and ident services.
//
// It merges command-line overrides with the YAML configuration, enforces the
// required connection arguments and opens the SNMP session.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
