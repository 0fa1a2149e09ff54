package almanac

import "errors"

// Shared failure taxonomy. Engines wrap these sentinels so callers can
// classify failures with errors.Is without depending on provider packages.
var (
	// ErrPermissionDenied means the platform refused access to a capability.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrPositionUnavailable means no location fix could be produced.
	ErrPositionUnavailable = errors.New("position unavailable")
	// ErrTimeout means an external call exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrNetwork means an external call failed at the transport level.
	ErrNetwork = errors.New("network error")
	// ErrNoStationFound means the tide station catalog was empty or unreachable.
	ErrNoStationFound = errors.New("no tide station found")
	// ErrSchedulingDenied means the platform refused precise alarm scheduling.
	ErrSchedulingDenied = errors.New("scheduling denied")
	// ErrTriggerStoreUnavailable means the trigger store cannot be reached.
	ErrTriggerStoreUnavailable = errors.New("trigger store unavailable")
)
