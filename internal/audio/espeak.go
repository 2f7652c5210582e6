package audio

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"codeberg.org/snonux/lecteur/internal/speech"
)

// ESpeakConfig holds configuration for espeak-ng speech
type ESpeakConfig struct {
	Voice     string // Voice used when the utterance names none (e.g. "fr", "fr+f3")
	Speed     int    // Words per minute at rate 1.0 (default: 175)
	Pitch     int    // Pitch at pitch 1.0, 0 to 99 (default: 50)
	Amplitude int    // Amplitude at volume 1.0, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default configuration for French
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "fr",
		Speed:     175,
		Pitch:     50,
		Amplitude: 100,
	}
}

// ESpeak speaks through the espeak-ng command line synthesizer
type ESpeak struct {
	config *ESpeakConfig
}

// NewESpeak creates an espeak-ng synthesizer
func NewESpeak(config *ESpeakConfig) *ESpeak {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	return &ESpeak{config: config}
}

// Name returns the synthesizer name
func (e *ESpeak) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (e *ESpeak) IsAvailable() error {
	return checkESpeakInstalled()
}

// Voices lists the installed French voices
func (e *ESpeak) Voices(ctx context.Context) ([]speech.Voice, error) {
	out, err := exec.CommandContext(ctx, "espeak-ng", "--voices=fr").Output()
	if err != nil {
		return nil, fmt.Errorf("espeak-ng --voices failed: %w", err)
	}
	return ParseESpeakVoices(string(out)), nil
}

// Start speaks u directly to the sound device
func (e *ESpeak) Start(ctx context.Context, u speech.Utterance) (speech.Stream, error) {
	if err := ValidateText(u.Text); err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, "espeak-ng", e.args(u)...)
	return startProcess(ctx, cmd)
}

// args builds the espeak-ng arguments for u
func (e *ESpeak) args(u speech.Utterance) []string {
	voice := e.config.Voice
	if u.Voice != nil && u.Voice.ID != "" {
		voice = u.Voice.ID
	}

	args := []string{
		"-v", voice,
		"-s", strconv.Itoa(clamp(scale(e.config.Speed, u.Rate), 80, 450)),
		"-p", strconv.Itoa(clamp(scale(e.config.Pitch, u.Pitch), 0, 99)),
		"-a", strconv.Itoa(clamp(scale(e.config.Amplitude, u.Volume), 0, 200)),
	}
	if e.config.WordGap > 0 {
		args = append(args, "-g", strconv.Itoa(e.config.WordGap))
	}

	// "--" keeps text starting with a dash from being read as an option
	return append(args, "--", u.Text)
}

// scale multiplies base by factor; a zero factor keeps base
func scale(base int, factor float64) int {
	if factor == 0 {
		return base
	}
	return int(float64(base)*factor + 0.5)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ParseESpeakVoices parses the table printed by espeak-ng --voices
func ParseESpeakVoices(output string) []speech.Voice {
	var voices []speech.Voice

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// Pty Language Age/Gender VoiceName File [Other Languages]
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		voices = append(voices, speech.Voice{
			ID:   fields[1],
			Name: strings.ReplaceAll(fields[3], "_", " "),
			Lang: fields[1],
		})
	}
	return voices
}
