// Package tide resolves the nearest tide station, fetches predicted high and
// low water extremes, and interpolates the current height between the
// extremes bracketing "now". Interpolation is linear, never extrapolated
// outside the bracketing pair.
package tide
