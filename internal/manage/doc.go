// Package manage provides the service entries behind the alarm management
// subcommands: scheduling, canceling and listing alarms against the trigger
// store, plus a one-off briefing produced outside any alarm fire.
package manage
