// Package location resolves the geographic fix every briefing engine is
// keyed on.
//
// A Provider produces fresh fixes; the Resolver caches the last good one for
// a bounded age so briefings still work when positioning is restricted, as
// under platform power-save modes.
package location
