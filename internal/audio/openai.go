package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"codeberg.org/snonux/lecteur/internal"
	"codeberg.org/snonux/lecteur/internal/speech"
	"github.com/sashabaranov/go-openai"
)

// openAIVoices are the voices of the OpenAI TTS models. All of them speak
// French.
var openAIVoices = []string{"alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"}

// OpenAISynth speaks by generating MP3 clips with OpenAI TTS and playing
// them through the platform audio player. Clips are cached by content.
type OpenAISynth struct {
	client *openai.Client
	config *Config
	player *Player
}

// NewOpenAISynth creates an OpenAI TTS synthesizer
func NewOpenAISynth(config *Config, player *Player) (*OpenAISynth, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	if config.CacheDir != "" {
		if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return &OpenAISynth{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		player: player,
	}, nil
}

// Name returns the synthesizer name
func (s *OpenAISynth) Name() string {
	return "openai"
}

// IsAvailable checks that a key is configured
func (s *OpenAISynth) IsAvailable() error {
	if s.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// Voices lists the OpenAI voices, tagged French
func (s *OpenAISynth) Voices(ctx context.Context) ([]speech.Voice, error) {
	voices := make([]speech.Voice, 0, len(openAIVoices))
	for _, v := range openAIVoices {
		voices = append(voices, speech.Voice{
			ID:      v,
			Name:    v,
			Lang:    "fr",
			Default: v == s.config.OpenAIVoice,
		})
	}
	return voices, nil
}

// Start generates the clip in the background and plays it. The returned
// stream can be paused or cancelled before playback begins.
func (s *OpenAISynth) Start(ctx context.Context, u speech.Utterance) (speech.Stream, error) {
	if err := ValidateText(u.Text); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	stream := &ttsStream{cancel: cancel, done: make(chan struct{})}
	go stream.run(ctx, s, u)
	return stream, nil
}

func (s *OpenAISynth) voice(u speech.Utterance) string {
	if u.Voice != nil && u.Voice.ID != "" {
		return u.Voice.ID
	}
	return s.config.OpenAIVoice
}

func (s *OpenAISynth) speed(u speech.Utterance) float64 {
	if u.Rate <= 0 {
		return 1.0
	}
	if u.Rate < 0.25 {
		return 0.25
	}
	if u.Rate > 4.0 {
		return 4.0
	}
	return u.Rate
}

// CachePath returns the clip file for u
func (s *OpenAISynth) CachePath(u speech.Utterance) string {
	key := internal.HashKey(u.Text, s.config.OpenAIModel, s.voice(u),
		fmt.Sprintf("%.2f", s.speed(u)), s.config.OpenAIInstruction)
	return filepath.Join(s.config.CacheDir, "tts", key+".mp3")
}

// Generate writes the clip for u into the cache and returns its path
func (s *OpenAISynth) Generate(ctx context.Context, u speech.Utterance) (string, error) {
	file := s.CachePath(u)
	if info, err := os.Stat(file); err == nil && info.Size() > 0 {
		return file, nil
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.config.OpenAIModel),
		Input:          u.Text,
		Voice:          openai.SpeechVoice(s.voice(u)),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          s.speed(u),
	}
	if s.config.OpenAIInstruction != "" && strings.HasPrefix(s.config.OpenAIModel, "gpt-4o") {
		req.Instructions = s.config.OpenAIInstruction
	}

	response, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	out, err := os.CreateTemp(filepath.Dir(file), "tts-*")
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	written, err := io.Copy(out, response)
	out.Close()
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		os.Remove(out.Name())
		return "", fmt.Errorf("no audio data received from OpenAI")
	}

	if err := os.Rename(out.Name(), file); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to store audio file: %w", err)
	}
	return file, nil
}

// ttsStream covers both phases of an OpenAI utterance: generation, then
// playback of the clip
type ttsStream struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	proc   *Process
	paused bool
	err    error
}

func (t *ttsStream) run(ctx context.Context, s *OpenAISynth, u speech.Utterance) {
	defer close(t.done)

	file, err := s.Generate(ctx, u)
	if err != nil {
		if ctx.Err() == nil {
			t.setErr(err)
		}
		return
	}

	t.mu.Lock()
	if ctx.Err() != nil {
		t.mu.Unlock()
		return
	}
	proc, err := s.player.Start(ctx, file)
	if err != nil {
		t.err = err
		t.mu.Unlock()
		return
	}
	t.proc = proc
	if t.paused {
		proc.Pause()
	}
	t.mu.Unlock()

	t.setErr(proc.Wait())
}

func (t *ttsStream) setErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

func (t *ttsStream) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
	if t.proc != nil {
		return t.proc.Pause()
	}
	return nil
}

func (t *ttsStream) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
	if t.proc != nil {
		return t.proc.Resume()
	}
	return nil
}

func (t *ttsStream) Cancel() error {
	t.cancel()
	t.mu.Lock()
	proc := t.proc
	t.mu.Unlock()
	if proc != nil {
		return proc.Cancel()
	}
	return nil
}

func (t *ttsStream) Wait() error {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
