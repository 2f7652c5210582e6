// Package speech owns the text-to-speech slot of the application.
//
// A Synthesizer is the platform capability (an espeak-ng process, OpenAI
// TTS played through an audio player, ...). The Engine wraps it and
// guarantees that at most one utterance is audible: every Speak cancels
// the current utterance first. Each utterance is identified by a Handle
// so that completion of a cancelled utterance never touches newer state.
package speech

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

// ErrUnavailable is returned when no synthesizer can speak
var ErrUnavailable = errors.New("speech synthesis unavailable")

// Voice describes one synthesizer voice
type Voice struct {
	ID      string
	Name    string
	Lang    string
	Default bool
}

// Utterance is a single request to speak
type Utterance struct {
	Text   string
	Lang   string
	Voice  *Voice // nil selects the synthesizer default
	Rate   float64
	Pitch  float64
	Volume float64
}

// Stream controls an utterance that is being spoken
type Stream interface {
	Pause() error
	Resume() error
	// Cancel stops the utterance. Wait returns afterwards.
	Cancel() error
	// Wait blocks until the utterance finished or was cancelled
	Wait() error
}

// Synthesizer is a text-to-speech backend
type Synthesizer interface {
	// Name returns the synthesizer name
	Name() string

	// IsAvailable checks if the synthesizer can be used on this system
	IsAvailable() error

	// Voices lists the installed voices
	Voices(ctx context.Context) ([]Voice, error)

	// Start begins speaking and returns without waiting for the end
	Start(ctx context.Context, u Utterance) (Stream, error)
}

// Settings tune how text is spoken
type Settings struct {
	Lang   string
	Rate   float64
	Pitch  float64
	Volume float64
	Voice  string // Voice name or id overriding the heuristic
}

// DefaultSettings returns the tuning used for French reading
func DefaultSettings() Settings {
	return Settings{
		Lang:   "fr-FR",
		Rate:   0.9,
		Pitch:  1.1,
		Volume: 0.8,
	}
}

// charsPerSecond is the assumed speaking speed for progress estimation
const charsPerSecond = 15

// EstimateDuration returns how long speaking text is assumed to take
func EstimateDuration(text string) time.Duration {
	return time.Duration(utf8.RuneCountInString(text)) * time.Second / charsPerSecond
}
