// Package sun computes sunrise, sunset and civil twilight instants from
// coordinates and a date using closed-form solar geometry, with no network
// dependency.
//
// Results carry date-only precision: declination and the equation of time
// are evaluated once per date and shared by all four zenith crossings.
package sun
