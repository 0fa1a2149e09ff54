// Package config defines briefing settings used by the binaries and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds provider endpoints, call timeouts and the trigger
// store location.
package config
