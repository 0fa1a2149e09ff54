package trigger

import (
	"context"
	"time"
)

// Entry is one armed trigger held by the store.
type Entry struct {
	// ID keys the entry; at most one live entry exists per ID.
	ID string `json:"id"`
	// At is the next firing instant.
	At time.Time `json:"at"`
	// RepeatDaily makes the store re-arm the entry one day later after each fire.
	RepeatDaily bool `json:"repeat_daily"`
	// Label is opaque payload carried back in the fire event.
	Label string `json:"label,omitempty"`
	// Delivered marks a one-shot entry whose fire has been delivered but not
	// yet resolved by the alarm lifecycle.
	Delivered bool `json:"delivered,omitempty"`
}

// FireEvent is delivered to the background dispatcher when a trigger fires.
type FireEvent struct {
	// AlarmID is the fired entry's ID.
	AlarmID string
	// FiredAt is the instant the fire was delivered.
	FiredAt time.Time
	// Label is the payload carried by the entry.
	Label string
}

// Store is the external trigger facility: an authoritative record of armed
// alarms that outlives the hosting process. Implementations must treat Arm
// as replace-by-ID and Cancel of an absent ID as a no-op.
type Store interface {
	// Arm stores the entry, replacing any prior entry with the same ID.
	Arm(ctx context.Context, entry Entry) error
	// Cancel removes the entry with the given ID if present.
	Cancel(ctx context.Context, id string) error
	// ListArmed returns every entry currently held by the store.
	ListArmed(ctx context.Context) ([]Entry, error)
}
