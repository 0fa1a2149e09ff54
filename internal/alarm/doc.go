// Package alarm implements the alarm lifecycle over the platform trigger
// store.
//
// The store is authoritative: scheduling, cancelling, listing and resolving
// fired alarms are all expressed as commands against it, with no second
// local copy of alarm state.
package alarm
