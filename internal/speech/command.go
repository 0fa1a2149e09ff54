package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/tmacready/daybreak/internal/logger"
)

// CommandSpeaker speaks by running an external text-to-speech executable per
// utterance, with the narration appended as the final argument.
type CommandSpeaker struct {
	// name is the executable to run.
	name string
	// args are fixed arguments passed before the text.
	args []string

	// mu protects initialization and the in-flight command.
	mu sync.Mutex
	// initialized is set once the executable has been located.
	initialized bool
	// running is the in-flight utterance, if any.
	running *exec.Cmd
}

// errCommandRequired is returned when no executable name is provided.
var errCommandRequired = errors.New("speech command must be provided")

// NewCommandSpeaker creates a speaker around the given executable.
func NewCommandSpeaker(name string, args ...string) (*CommandSpeaker, error) {
	if name == "" {
		return nil, errCommandRequired
	}

	return &CommandSpeaker{
		name: name,
		args: args,
	}, nil
}

// Init verifies the executable can be found. It is idempotent.
func (s *CommandSpeaker) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.initLocked(ctx)
}

// initLocked performs the lookup under the held lock.
func (s *CommandSpeaker) initLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	path, err := exec.LookPath(s.name)
	if err != nil {
		return fmt.Errorf("locate speech command: %w", err)
	}

	logger.DebugKV(ctx, "Speech command resolved", "path", path)

	s.initialized = true

	return nil
}

// Speak runs one utterance and waits for it to complete. It initializes
// lazily when Init has not been called.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()

	if err := s.initLocked(ctx); err != nil {
		s.mu.Unlock()

		return err
	}

	args := make([]string, 0, len(s.args)+1)
	args = append(args, s.args...)
	args = append(args, text)

	cmd := exec.CommandContext(ctx, s.name, args...)
	s.running = cmd
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = nil
		s.mu.Unlock()
	}()

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run speech command: %w", err)
	}

	return nil
}

// Stop interrupts the in-flight utterance, if any.
func (s *CommandSpeaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running != nil && s.running.Process != nil {
		if err := s.running.Process.Kill(); err != nil {
			return fmt.Errorf("stop utterance: %w", err)
		}
	}

	return nil
}
