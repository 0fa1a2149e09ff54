// Package almanac contains the core domain types for the briefing business
// logic.
//
// It defines Alarm, LocationFix, tide and sun value types, the Briefing
// composition and the shared failure taxonomy used across engines.
package almanac
