package speech

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterSpeaker writes utterances to an io.Writer, one per line. It serves
// as the degraded voice channel when no speech engine is available, and as
// the speaker used by tests.
type WriterSpeaker struct {
	// mu serializes writes.
	mu sync.Mutex
	// w receives the utterances.
	w io.Writer
}

// NewWriterSpeaker creates a speaker writing to w.
func NewWriterSpeaker(w io.Writer) *WriterSpeaker {
	return &WriterSpeaker{w: w}
}

// Init is a no-op; a writer needs no preparation.
func (s *WriterSpeaker) Init(context.Context) error {
	return nil
}

// Speak writes the text followed by a newline.
func (s *WriterSpeaker) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintln(s.w, text); err != nil {
		return fmt.Errorf("write utterance: %w", err)
	}

	return nil
}

// Stop is a no-op.
func (s *WriterSpeaker) Stop() error {
	return nil
}
