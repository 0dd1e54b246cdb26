// Package speech abstracts single-shot speech recognition and synthesis so
// interview flows never deal with platform callbacks.
package speech

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned by capabilities with no speech support.
	ErrUnavailable = errors.New("speech unavailable")
	// ErrNoSpeech means recognition finished without any transcript.
	ErrNoSpeech = errors.New("no speech recognized")
)

// Capability is the speech surface used by the interview flows.
type Capability interface {
	// RecognizeOnce listens for a single utterance and returns its final text.
	RecognizeOnce(ctx context.Context) (string, error)
	// Speak plays text and returns once playback completed.
	Speak(ctx context.Context, text string) error
}

// Noop satisfies Capability on platforms without speech support.
type Noop struct{}

// RecognizeOnce always fails with ErrUnavailable.
func (Noop) RecognizeOnce(context.Context) (string, error) {
	return "", ErrUnavailable
}

// Speak completes immediately.
func (Noop) Speak(context.Context, string) error {
	return nil
}
