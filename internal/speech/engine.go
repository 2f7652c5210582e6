package speech

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Engine is the single speech slot shared by every view
type Engine struct {
	synth    Synthesizer
	settings Settings

	// Logger receives synthesis failures. Nil means silent.
	Logger *log.Logger

	mu      sync.Mutex
	current *Handle

	voiceOnce sync.Once
	voice     *Voice
}

// NewEngine creates an engine over synth. synth may be nil, in which case
// the engine is unavailable and every operation is a no-op.
func NewEngine(synth Synthesizer, settings Settings) *Engine {
	return &Engine{synth: synth, settings: settings}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

// Available reports whether the engine can speak
func (e *Engine) Available() bool {
	return e.synth != nil && e.synth.IsAvailable() == nil
}

// Settings returns the tuning applied to every utterance
func (e *Engine) Settings() Settings {
	return e.settings
}

// Voices lists the synthesizer voices
func (e *Engine) Voices(ctx context.Context) ([]Voice, error) {
	if !e.Available() {
		return nil, ErrUnavailable
	}
	return e.synth.Voices(ctx)
}

// Voice returns the voice used for French, resolved once: the configured
// voice if installed, else the heuristic pick, else nil for the default.
func (e *Engine) Voice(ctx context.Context) *Voice {
	e.voiceOnce.Do(func() {
		voices, err := e.Voices(ctx)
		if err != nil {
			e.logf("Failed to list voices: %v", err)
			return
		}
		if e.settings.Voice != "" {
			if v, ok := FindVoice(voices, e.settings.Voice); ok {
				e.voice = &v
				return
			}
			e.logf("Configured voice %q not installed, picking one", e.settings.Voice)
		}
		if v, ok := PickVoice(voices); ok {
			e.voice = &v
		}
	})
	return e.voice
}

// Utterance builds the utterance for text with the engine's tuning
func (e *Engine) Utterance(ctx context.Context, text string) Utterance {
	return Utterance{
		Text:   Naturalize(text),
		Lang:   e.settings.Lang,
		Voice:  e.Voice(ctx),
		Rate:   e.settings.Rate,
		Pitch:  e.settings.Pitch,
		Volume: e.settings.Volume,
	}
}

// Speak cancels whatever is being spoken and starts text
func (e *Engine) Speak(ctx context.Context, text string) (*Handle, error) {
	if !e.Available() {
		return nil, ErrUnavailable
	}
	return e.SpeakUtterance(ctx, e.Utterance(ctx, text))
}

// SpeakUtterance cancels whatever is being spoken and starts u
func (e *Engine) SpeakUtterance(ctx context.Context, u Utterance) (*Handle, error) {
	if !e.Available() {
		return nil, ErrUnavailable
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		e.current.Cancel()
		e.current = nil
	}

	stream, err := e.synth.Start(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("start utterance with %s: %w", e.synth.Name(), err)
	}

	h := newHandle(stream)
	e.current = h
	go e.watch(h)

	return h, nil
}

func (e *Engine) watch(h *Handle) {
	err := h.stream.Wait()
	h.finish(err)

	e.mu.Lock()
	if e.current != nil && e.current.ID == h.ID {
		e.current = nil
	}
	e.mu.Unlock()

	if err != nil && !h.Canceled() {
		e.logf("Utterance %s failed: %v", h.ID, err)
	}
}

// Cancel stops the current utterance, if any
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.current.Cancel()
		e.current = nil
	}
}

// Current returns the utterance occupying the slot, or nil
func (e *Engine) Current() *Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Speaking reports whether an utterance occupies the slot
func (e *Engine) Speaking() bool {
	return e.Current() != nil
}

// Handle identifies one utterance
type Handle struct {
	ID uuid.UUID

	stream Stream
	done   chan struct{}

	mu       sync.Mutex
	err      error
	canceled bool
	finished bool
}

func newHandle(stream Stream) *Handle {
	return &Handle{
		ID:     uuid.New(),
		stream: stream,
		done:   make(chan struct{}),
	}
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return
	}
	h.finished = true
	if !h.canceled {
		h.err = err
	}
	close(h.done)
}

// Done is closed when the utterance ended, naturally or by cancellation
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the synthesis error of a finished utterance. Cancelled
// utterances report nil.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Canceled reports whether the utterance was cancelled, either directly or
// because another utterance took the slot
func (h *Handle) Canceled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.canceled
}

// Pause suspends the utterance
func (h *Handle) Pause() error {
	if h.isDone() {
		return nil
	}
	return h.stream.Pause()
}

// Resume continues a paused utterance
func (h *Handle) Resume() error {
	if h.isDone() {
		return nil
	}
	return h.stream.Resume()
}

// Cancel stops the utterance. Cancelling a finished utterance does nothing.
func (h *Handle) Cancel() error {
	h.mu.Lock()
	if h.finished || h.canceled {
		h.mu.Unlock()
		return nil
	}
	h.canceled = true
	h.mu.Unlock()

	return h.stream.Cancel()
}

func (h *Handle) isDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
