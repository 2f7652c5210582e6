package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/lecteur/internal/playback"
)

// PlaybackBar is a custom widget driving a playback controller
type PlaybackBar struct {
	widget.BaseWidget

	container   *fyne.Container
	playButton  *ttwidget.Button
	stopButton  *ttwidget.Button
	slider      *widget.Slider
	statusLabel *widget.Label

	ctrl      *playback.Controller
	playLabel string
	play      func()

	// updating is set while the slider follows the controller, so the
	// programmatic change is not taken for a scrub
	updating bool
	dragging bool
}

// NewPlaybackBar creates a bar for ctrl. play starts or resumes playback
// and must not block.
func NewPlaybackBar(ctrl *playback.Controller, playLabel string, play func()) *PlaybackBar {
	b := &PlaybackBar{
		ctrl:      ctrl,
		playLabel: playLabel,
		play:      play,
	}

	b.playButton = ttwidget.NewButtonWithIcon(playLabel, theme.MediaPlayIcon(), b.onPlay)
	b.playButton.SetToolTip("Read aloud, pause or resume (Space)")

	b.stopButton = ttwidget.NewButtonWithIcon("", theme.MediaStopIcon(), b.onStop)
	b.stopButton.SetToolTip("Stop reading (S)")

	b.slider = widget.NewSlider(0, 100)
	b.slider.Step = 0.5
	b.slider.OnChanged = b.onSliderChanged
	b.slider.OnChangeEnded = b.onSliderEnded

	b.statusLabel = widget.NewLabel("")

	b.container = container.NewBorder(
		nil, nil,
		container.NewHBox(b.playButton, b.stopButton),
		b.statusLabel,
		b.slider,
	)

	ctrl.OnChange(func(s playback.State) {
		fyne.Do(func() {
			b.apply(s)
		})
	})

	b.ExtendBaseWidget(b)
	b.apply(ctrl.State())
	return b
}

// CreateRenderer implements fyne.Widget
func (b *PlaybackBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.container)
}

// TogglePlay plays when idle or paused and pauses when playing
func (b *PlaybackBar) TogglePlay() {
	b.onPlay()
}

// Stop stops playback
func (b *PlaybackBar) Stop() {
	b.onStop()
}

func (b *PlaybackBar) onPlay() {
	if !b.ctrl.Available() {
		return
	}
	if b.ctrl.State().Status == playback.Playing {
		b.ctrl.Pause()
		return
	}
	b.play()
}

func (b *PlaybackBar) onStop() {
	b.ctrl.Stop()
}

func (b *PlaybackBar) onSliderChanged(value float64) {
	if b.updating {
		return
	}
	if !b.dragging {
		b.dragging = true
		b.ctrl.BeginScrub()
	}
	b.ctrl.Scrub(value)
}

func (b *PlaybackBar) onSliderEnded(float64) {
	if b.dragging {
		b.dragging = false
		b.ctrl.EndScrub()
	}
}

// apply shows s. It runs on the UI goroutine.
func (b *PlaybackBar) apply(s playback.State) {
	if !b.ctrl.Available() {
		b.playButton.Disable()
		b.stopButton.Disable()
		b.slider.Disable()
		b.statusLabel.SetText("Speech unavailable")
		return
	}

	switch s.Status {
	case playback.Playing:
		b.playButton.SetText("Pause")
		b.playButton.SetIcon(theme.MediaPauseIcon())
	case playback.Paused:
		b.playButton.SetText("Resume")
		b.playButton.SetIcon(theme.MediaPlayIcon())
	default:
		b.playButton.SetText(b.playLabel)
		b.playButton.SetIcon(theme.MediaPlayIcon())
	}

	if s.Status == playback.Idle && s.Progress == 0 {
		b.stopButton.Disable()
	} else {
		b.stopButton.Enable()
	}

	if !b.dragging {
		b.updating = true
		b.slider.SetValue(s.Progress)
		b.updating = false
	}
	b.statusLabel.SetText(progressText(s))
}

// progressText renders "elapsed / estimated" of a playback state
func progressText(s playback.State) string {
	elapsed := time.Duration(float64(s.Estimated) * s.Progress / 100)
	return fmt.Sprintf("%s / %s", formatClock(elapsed), formatClock(s.Estimated))
}

// formatClock formats d as m:ss
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
