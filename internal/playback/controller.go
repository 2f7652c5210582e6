package playback

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"codeberg.org/snonux/lecteur/internal/speech"
)

// DefaultInterval is how often progress advances while playing
const DefaultInterval = 100 * time.Millisecond

// Status is the playback state
type Status int

const (
	Idle Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is a snapshot of the controller
type State struct {
	Status    Status
	Progress  float64 // 0 to 100
	Estimated time.Duration
}

// Speaker is the speech slot the controller plays through
type Speaker interface {
	Available() bool
	Speak(ctx context.Context, text string) (*speech.Handle, error)
}

// Controller plays one text through a shared speech engine
type Controller struct {
	speaker  Speaker
	interval time.Duration

	// Logger receives synthesis failures. Nil means silent.
	Logger *log.Logger

	mu        sync.Mutex
	text      string
	status    Status
	elapsed   time.Duration
	estimated time.Duration
	scrubbing bool
	handle    *speech.Handle
	stopTick  chan struct{}
	onChange  func(State)
}

// New creates an idle controller for text
func New(speaker Speaker, text string) *Controller {
	return &Controller{
		speaker:   speaker,
		interval:  DefaultInterval,
		text:      text,
		estimated: speech.EstimateDuration(text),
	}
}

// OnChange registers a callback for state changes. It runs on the
// goroutine that caused the change, without the controller's lock held.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// Available reports whether playback can make any sound
func (c *Controller) Available() bool {
	return c.speaker != nil && c.speaker.Available()
}

// Text returns the text being played
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// SetText stops playback and replaces the text
func (c *Controller) SetText(text string) {
	c.Stop()

	c.mu.Lock()
	c.text = text
	c.estimated = speech.EstimateDuration(text)
	state := c.stateLocked()
	fn := c.onChange
	c.mu.Unlock()

	notify(fn, state)
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		Status:    c.status,
		Progress:  c.progressLocked(),
		Estimated: c.estimated,
	}
}

func (c *Controller) progressLocked() float64 {
	if c.estimated <= 0 {
		if c.elapsed > 0 {
			return 100
		}
		return 0
	}
	p := float64(c.elapsed) / float64(c.estimated) * 100
	if p > 100 {
		return 100
	}
	return p
}

func notify(fn func(State), s State) {
	if fn != nil {
		fn(s)
	}
}

// Play starts reading from the beginning, or resumes in place when paused.
// Without speech support it does nothing.
func (c *Controller) Play(ctx context.Context) error {
	if !c.Available() {
		return nil
	}

	c.mu.Lock()
	switch c.status {
	case Playing:
		c.mu.Unlock()
		return nil
	case Paused:
		h := c.handle
		c.status = Playing
		c.startTickerLocked()
		state := c.stateLocked()
		fn := c.onChange
		c.mu.Unlock()

		if h != nil {
			if err := h.Resume(); err != nil {
				c.logf("Failed to resume speech: %v", err)
			}
		}
		notify(fn, state)
		return nil
	}
	text := c.text
	c.mu.Unlock()

	// Speak cancels whatever else holds the slot
	h, err := c.speaker.Speak(ctx, text)
	if err != nil {
		c.logf("Failed to start speech: %v", err)
		return fmt.Errorf("start reading: %w", err)
	}

	c.mu.Lock()
	c.handle = h
	c.status = Playing
	c.elapsed = 0
	c.startTickerLocked()
	state := c.stateLocked()
	fn := c.onChange
	c.mu.Unlock()

	go c.watch(h)
	notify(fn, state)
	return nil
}

// watch waits for the utterance to end. Natural completion keeps the
// simulated progress since synthesis may finish before the estimate;
// cancellation (Stop, or another utterance taking the slot) empties it.
func (c *Controller) watch(h *speech.Handle) {
	<-h.Done()

	c.mu.Lock()
	if c.handle == nil || c.handle.ID != h.ID {
		c.mu.Unlock()
		return
	}
	c.handle = nil
	c.status = Idle
	c.stopTickerLocked()
	if h.Canceled() {
		c.elapsed = 0
	} else if err := h.Err(); err != nil {
		c.logf("Speech ended with error: %v", err)
	}
	state := c.stateLocked()
	fn := c.onChange
	c.mu.Unlock()

	notify(fn, state)
}

// Pause suspends reading. It only has an effect while playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.status != Playing {
		c.mu.Unlock()
		return
	}
	h := c.handle
	c.status = Paused
	c.stopTickerLocked()
	state := c.stateLocked()
	fn := c.onChange
	c.mu.Unlock()

	if h != nil {
		if err := h.Pause(); err != nil {
			c.logf("Failed to pause speech: %v", err)
		}
	}
	notify(fn, state)
}

// Stop cancels reading and resets progress to zero
func (c *Controller) Stop() {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.status = Idle
	c.elapsed = 0
	c.scrubbing = false
	c.stopTickerLocked()
	state := c.stateLocked()
	fn := c.onChange
	c.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
	notify(fn, state)
}

// Close stops reading; used when the view goes away
func (c *Controller) Close() {
	c.Stop()
	c.OnChange(nil)
}

// BeginScrub freezes the simulated progress while the user drags the bar
func (c *Controller) BeginScrub() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrubbing = true
}

// Scrub moves the progress bar to percent (clamped to 0..100)
func (c *Controller) Scrub(percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	c.mu.Lock()
	c.elapsed = time.Duration(percent / 100 * float64(c.estimated))
	state := c.stateLocked()
	fn := c.onChange
	c.mu.Unlock()

	notify(fn, state)
}

// EndScrub lets the simulated progress advance again
func (c *Controller) EndScrub() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrubbing = false
}

// advance adds d of playing time unless paused, idle or scrubbing
func (c *Controller) advance(d time.Duration) {
	c.mu.Lock()
	if c.status != Playing || c.scrubbing {
		c.mu.Unlock()
		return
	}
	c.elapsed += d
	if c.elapsed > c.estimated {
		c.elapsed = c.estimated
	}
	state := c.stateLocked()
	fn := c.onChange
	c.mu.Unlock()

	notify(fn, state)
}

func (c *Controller) startTickerLocked() {
	c.stopTickerLocked()
	if c.interval <= 0 {
		return
	}

	stop := make(chan struct{})
	c.stopTick = stop
	interval := c.interval

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.advance(interval)
			}
		}
	}()
}

func (c *Controller) stopTickerLocked() {
	if c.stopTick != nil {
		close(c.stopTick)
		c.stopTick = nil
	}
}
