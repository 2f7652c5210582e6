package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/lecteur/internal/speech"
	"codeberg.org/snonux/lecteur/internal/translation"
)

// MockSynthesizer records utterances and hands out controllable streams
type MockSynthesizer struct {
	mu sync.Mutex

	Unavailable error
	VoiceList   []speech.Voice
	StartErr    error

	Started []speech.Utterance
	streams []*MockStream
}

// Name returns the synthesizer name
func (m *MockSynthesizer) Name() string {
	return "mock"
}

// IsAvailable returns the configured availability error
func (m *MockSynthesizer) IsAvailable() error {
	return m.Unavailable
}

// Voices returns the configured voices
func (m *MockSynthesizer) Voices(ctx context.Context) ([]speech.Voice, error) {
	return m.VoiceList, nil
}

// Start records the utterance and returns a stream that runs until
// Finish or Cancel is called
func (m *MockSynthesizer) Start(ctx context.Context, u speech.Utterance) (speech.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Started = append(m.Started, u)
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	s := NewMockStream()
	m.streams = append(m.streams, s)
	return s, nil
}

// Utterances returns a copy of the started utterances
func (m *MockSynthesizer) Utterances() []speech.Utterance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]speech.Utterance(nil), m.Started...)
}

// Stream returns the i-th started stream
func (m *MockSynthesizer) Stream(i int) *MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.streams) {
		return nil
	}
	return m.streams[i]
}

// LastStream returns the most recently started stream
func (m *MockSynthesizer) LastStream() *MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.streams) == 0 {
		return nil
	}
	return m.streams[len(m.streams)-1]
}

// MockStream is a speech.Stream driven by the test
type MockStream struct {
	mu       sync.Mutex
	paused   bool
	canceled bool
	err      error

	once sync.Once
	done chan struct{}
}

// NewMockStream creates a running stream
func NewMockStream() *MockStream {
	return &MockStream{done: make(chan struct{})}
}

// Pause marks the stream paused
func (s *MockStream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	return nil
}

// Resume clears the paused mark
func (s *MockStream) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	return nil
}

// Cancel ends the stream
func (s *MockStream) Cancel() error {
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
	s.Finish(nil)
	return nil
}

// Wait blocks until the stream ended
func (s *MockStream) Wait() error {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Finish ends the stream as if speech completed, with an optional error
func (s *MockStream) Finish(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}

// Done is closed when the stream ended
func (s *MockStream) Done() <-chan struct{} {
	return s.done
}

// Paused reports whether the stream is paused
func (s *MockStream) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Canceled reports whether the stream was cancelled
func (s *MockStream) Canceled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canceled
}

// MockTranslator mocks a translation service
type MockTranslator struct {
	mu           sync.Mutex
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Name returns the provider name
func (m *MockTranslator) Name() string {
	return "mock"
}

// Translate returns the configured translation or error for text
func (m *MockTranslator) Translate(ctx context.Context, text, from, to string) translation.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)", text, from, to))

	if err, ok := m.Errors[text]; ok {
		return translation.Failed(err)
	}
	if t, ok := m.Translations[text]; ok {
		return translation.Result{Text: t}
	}
	return translation.Failed(fmt.Errorf("no translation for %q", text))
}

// CallCount returns how many translations were requested
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockAudioLookup maps words to recorded pronunciation URLs
type MockAudioLookup struct {
	mu    sync.Mutex
	URLs  map[string]string
	Calls []string
}

// LookupAudioURL returns the configured URL for word
func (m *MockAudioLookup) LookupAudioURL(ctx context.Context, word string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, word)
	u, ok := m.URLs[word]
	return u, ok
}

// MockClipPlayer records played URLs
type MockClipPlayer struct {
	mu      sync.Mutex
	Err     error
	Played  []string
	stopped int
}

// PlayURL records the URL
func (m *MockClipPlayer) PlayURL(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Played = append(m.Played, url)
	return m.Err
}

// Stop counts stop requests
func (m *MockClipPlayer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
}

// StopCount returns how many times Stop was called
func (m *MockClipPlayer) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// PlayedURLs returns a copy of the played URLs
func (m *MockClipPlayer) PlayedURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Played...)
}
