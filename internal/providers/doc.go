// Package providers holds thin typed HTTP clients for the external briefing
// data sources: weather, air quality, reverse geocoding and the optional
// verse and bird facts.
//
// Each client performs a single request/response call with a bounded timeout
// and no retries; transport failures are classified onto the almanac error
// taxonomy so the aggregator can degrade by omission.
package providers
