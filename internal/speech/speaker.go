package speech

import "context"

// Speaker is the voice output boundary. Implementations must make Speak safe
// to call without a prior Init: the first utterance initializes lazily.
type Speaker interface {
	// Init prepares the voice engine for use.
	Init(ctx context.Context) error
	// Speak utters the text and returns when the utterance completes.
	Speak(ctx context.Context, text string) error
	// Stop interrupts any in-flight utterance and releases the engine.
	Stop() error
}
