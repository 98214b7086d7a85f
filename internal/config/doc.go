// Package config defines the plugin's connection defaults and provides helpers
// to load, validate and save them in YAML format.
//
// Every value can also be given on the command line; flags override the file.
package config
