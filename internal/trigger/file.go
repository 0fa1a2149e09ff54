package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/tmacready/daybreak/internal/config"
	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// FileStore is a reference Store keeping armed entries in a JSON file on
// disk. It stands in for the platform scheduler in the CLI harness and in
// tests, and additionally computes due fire events the way the platform
// would deliver them: a repeating entry is advanced by exactly one day per
// delivered fire, a one-shot entry is marked delivered and left in place
// until the alarm lifecycle resolves it.
type FileStore struct {
	// path is the filesystem location of the JSON trigger file.
	path string
	// mu protects concurrent access to the trigger file.
	mu sync.Mutex
}

// fileState is the on-disk representation of the store.
type fileState struct {
	// Entries are the armed triggers, keyed logically by Entry.ID.
	Entries []Entry `json:"entries"`
}

// NewFileStore creates a store that reads and writes JSON at the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: filepath.Clean(path),
	}
}

// Arm stores the entry, replacing any prior entry with the same ID.
func (s *FileStore) Arm(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}

	replaced := false

	for i := range state.Entries {
		if state.Entries[i].ID == entry.ID {
			state.Entries[i] = entry
			replaced = true

			break
		}
	}

	if !replaced {
		state.Entries = append(state.Entries, entry)
	}

	return s.save(state)
}

// Cancel removes the entry with the given ID. Absent IDs are a no-op.
func (s *FileStore) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}

	kept := state.Entries[:0]
	for _, entry := range state.Entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}

	state.Entries = kept

	return s.save(state)
}

// ListArmed returns every entry currently held by the store, ordered by
// firing instant for stable output.
func (s *FileStore) ListArmed(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(state.Entries))
	copy(entries, state.Entries)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].At.Before(entries[j].At)
	})

	return entries, nil
}

// Due delivers fire events for every entry whose instant has passed.
// Repeating entries are advanced by one day per delivered fire until they
// are in the future again; one-shot entries are marked delivered so the
// same fire is never produced twice.
func (s *FileStore) Due(_ context.Context, now time.Time) ([]FireEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	var (
		fires   []FireEvent
		changed bool
	)

	for i := range state.Entries {
		entry := &state.Entries[i]
		if entry.At.After(now) {
			continue
		}

		if entry.RepeatDaily {
			for !entry.At.After(now) {
				entry.At = entry.At.AddDate(0, 0, 1)
			}
		} else {
			if entry.Delivered {
				continue
			}

			entry.Delivered = true
		}

		changed = true

		fires = append(fires, FireEvent{
			AlarmID: entry.ID,
			FiredAt: now,
			Label:   entry.Label,
		})
	}

	if changed {
		if err := s.save(state); err != nil {
			return nil, err
		}
	}

	return fires, nil
}

// load reads the trigger file. A missing file is an empty store.
func (s *FileStore) load() (*fileState, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fileState{}, nil
		}

		return nil, fmt.Errorf("read trigger file: %w: %w", almanac.ErrTriggerStoreUnavailable, err)
	}

	var state fileState
	if err := json.Unmarshal(contents, &state); err != nil {
		return nil, fmt.Errorf("decode trigger file: %w: %w", almanac.ErrTriggerStoreUnavailable, err)
	}

	return &state, nil
}

// save writes the trigger file with restricted permissions.
func (s *FileStore) save(state *fileState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode trigger file: %w", err)
	}

	if err := os.WriteFile(s.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write trigger file: %w: %w", almanac.ErrTriggerStoreUnavailable, err)
	}

	return nil
}
