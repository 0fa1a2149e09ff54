// Package briefing aggregates the almanac data sources into one spoken
// narration.
//
// The Aggregator fans out to every configured source concurrently, captures
// each slot's outcome independently, and composes the narration in a fixed
// category order. Failed slots are omitted; only a location failure aborts
// the briefing, since every other slot depends on the fix.
package briefing
