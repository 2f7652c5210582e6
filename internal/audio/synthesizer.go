package audio

import (
	"context"
	"fmt"

	"codeberg.org/snonux/lecteur/internal/speech"
)

// Config selects and configures the speech synthesizer
type Config struct {
	Provider string // "espeak", "openai" or "none"
	CacheDir string // Directory for downloaded and generated clips

	ESpeak *ESpeakConfig

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIBaseURL     string
	OpenAIModel       string // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAIInstruction string // Voice instructions for gpt-4o-mini-tts model
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:          "espeak",
		CacheDir:          "./cache",
		ESpeak:            DefaultESpeakConfig(),
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAIInstruction: "You are speaking French. Pronounce the text with a natural Parisian accent. Speak calmly and clearly for language learners.",
	}
}

// NewSynthesizer creates the synthesizer described by config
func NewSynthesizer(config *Config, player *Player) (speech.Synthesizer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "espeak", "espeak-ng":
		return NewESpeak(config.ESpeak), nil
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAISynth(config, player)
	case "none", "":
		return Silent{}, nil
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", config.Provider)
	}
}

// Silent is the synthesizer of a system without speech
type Silent struct{}

// Name returns the synthesizer name
func (Silent) Name() string { return "none" }

// IsAvailable always reports speech.ErrUnavailable
func (Silent) IsAvailable() error { return speech.ErrUnavailable }

// Voices returns no voices
func (Silent) Voices(ctx context.Context) ([]speech.Voice, error) { return nil, nil }

// Start always fails
func (Silent) Start(ctx context.Context, u speech.Utterance) (speech.Stream, error) {
	return nil, speech.ErrUnavailable
}

// SynthesizerWithFallback uses the primary synthesizer while it is
// available and the fallback otherwise
type SynthesizerWithFallback struct {
	primary  speech.Synthesizer
	fallback speech.Synthesizer
}

// NewSynthesizerWithFallback creates a synthesizer that falls back to
// secondary if primary fails
func NewSynthesizerWithFallback(primary, fallback speech.Synthesizer) speech.Synthesizer {
	return &SynthesizerWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

func (s *SynthesizerWithFallback) active() speech.Synthesizer {
	if s.primary.IsAvailable() == nil {
		return s.primary
	}
	return s.fallback
}

// Name returns the synthesizer name
func (s *SynthesizerWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", s.primary.Name(), s.fallback.Name())
}

// IsAvailable checks if at least one synthesizer is available
func (s *SynthesizerWithFallback) IsAvailable() error {
	primaryErr := s.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := s.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both synthesizers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// Voices lists the voices of the active synthesizer
func (s *SynthesizerWithFallback) Voices(ctx context.Context) ([]speech.Voice, error) {
	return s.active().Voices(ctx)
}

// Start tries the primary synthesizer first and the fallback on error
func (s *SynthesizerWithFallback) Start(ctx context.Context, u speech.Utterance) (speech.Stream, error) {
	if s.primary.IsAvailable() == nil {
		stream, err := s.primary.Start(ctx, u)
		if err == nil {
			return stream, nil
		}
		fmt.Printf("Primary synthesizer (%s) failed: %v. Falling back to %s\n",
			s.primary.Name(), err, s.fallback.Name())
	}

	// Voices differ between synthesizers
	u.Voice = nil
	return s.fallback.Start(ctx, u)
}
