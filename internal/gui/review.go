package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/lecteur/internal/flashcards"
	"codeberg.org/snonux/lecteur/internal/playback"
)

// reviewView walks through the saved words as flashcards
type reviewView struct {
	app     *Application
	review  *flashcards.Review
	unwatch func()

	ctx    context.Context
	cancel context.CancelFunc

	speech *playback.Controller
	bar    *PlaybackBar

	cardText     *canvas.Text
	detailLabel  *widget.Label
	counterLabel *widget.Label
	flipButton   *ttwidget.Button

	emptyBox *fyne.Container
	cardBox  *fyne.Container
	content  *fyne.Container
}

func newReviewView(a *Application) *reviewView {
	ctx, cancel := context.WithCancel(a.ctx)
	v := &reviewView{
		app:    a,
		review: flashcards.NewReview(a.services.Deck),
		ctx:    ctx,
		cancel: cancel,
	}
	if a.services.Speech != nil {
		v.speech = playback.New(a.services.Speech, "")
		v.speech.Logger = a.services.Logger
	}

	v.build()

	// Deck changes arrive on whatever goroutine published them
	v.review.SetOnChange(func() {
		fyne.Do(v.refresh)
	})
	if a.services.Bus != nil {
		v.unwatch = v.review.Watch(a.services.Bus)
	}

	v.refresh()
	return v
}

func (v *reviewView) build() {
	heading := widget.NewLabelWithStyle("No Flashcards Yet", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle("Save words while reading to build your deck.", fyne.TextAlignCenter, fyne.TextStyle{})
	browse := widget.NewButtonWithIcon("Browse articles", theme.HomeIcon(), v.app.showHome)
	v.emptyBox = container.NewVBox(layout.NewSpacer(), heading, hint, container.NewCenter(browse), layout.NewSpacer())

	v.cardText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	v.cardText.TextSize = 36
	v.cardText.TextStyle = fyne.TextStyle{Bold: true}
	v.cardText.Alignment = fyne.TextAlignCenter

	v.detailLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	v.detailLabel.Wrapping = fyne.TextWrapWord
	v.counterLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})

	prev := ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), v.onPrevious)
	prev.SetToolTip("Previous card (Left)")
	next := ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), v.onNext)
	next.SetToolTip("Next card (Right)")
	v.flipButton = ttwidget.NewButtonWithIcon("Show answer", theme.ViewRefreshIcon(), v.onFlip)
	v.flipButton.SetToolTip("Flip the card (Space)")
	restart := ttwidget.NewButtonWithIcon("Start over", theme.MediaReplayIcon(), v.onStartOver)
	restart.SetToolTip("Reload the deck and go back to the first card (Home)")

	controls := container.NewHBox(layout.NewSpacer(), prev, v.flipButton, next, restart, layout.NewSpacer())

	var listen fyne.CanvasObject = widget.NewLabelWithStyle("Speech unavailable", fyne.TextAlignCenter, fyne.TextStyle{})
	if v.speech != nil {
		v.bar = NewPlaybackBar(v.speech, "Listen", v.play)
		listen = v.bar
	}

	card := container.NewVBox(
		layout.NewSpacer(),
		v.cardText,
		v.detailLabel,
		layout.NewSpacer(),
		v.counterLabel,
		controls,
		listen,
	)
	v.cardBox = container.NewPadded(card)

	v.content = container.NewStack(v.emptyBox, v.cardBox)
}

func (v *reviewView) play() {
	go func() {
		if err := v.speech.Play(v.ctx); err != nil {
			v.app.setStatus(fmt.Sprintf("Speech failed: %v", err))
		}
	}()
}

// refresh shows the current card. It runs on the UI goroutine.
func (v *reviewView) refresh() {
	card, ok := v.review.Current()
	if !ok {
		v.emptyBox.Show()
		v.cardBox.Hide()
		if v.speech != nil {
			v.speech.SetText("")
		}
		return
	}
	v.emptyBox.Hide()
	v.cardBox.Show()

	if v.review.Flipped() {
		v.cardText.Text = v.review.Answer(v.app.services.Catalog)
		v.detailLabel.SetText(v.details(card.Word))
		v.flipButton.SetText("Show word")
	} else {
		v.cardText.Text = card.Word
		v.detailLabel.SetText("")
		v.flipButton.SetText("Show answer")
	}
	v.cardText.Refresh()
	v.counterLabel.SetText(fmt.Sprintf("%d / %d", v.review.Index()+1, v.review.Len()))

	if v.speech != nil && v.speech.Text() != card.Word {
		v.speech.SetText(card.Word)
	}
}

// details are the pronunciation and example shown on the back of a card
func (v *reviewView) details(word string) string {
	entry, ok := v.app.services.Catalog.Lookup(word)
	if !ok {
		return word
	}
	text := word
	if entry.Pronunciation != "" {
		text += "  " + entry.Pronunciation
	}
	if entry.Example != "" {
		text += "\n" + entry.Example
	}
	return text
}

func (v *reviewView) onPrevious() {
	v.review.Previous()
}

func (v *reviewView) onNext() {
	v.review.Next()
}

func (v *reviewView) onFlip() {
	v.review.Flip()
}

func (v *reviewView) onStartOver() {
	v.review.Reload()
}

func (v *reviewView) Content() fyne.CanvasObject {
	return v.content
}

func (v *reviewView) HandleKey(name fyne.KeyName) bool {
	switch name {
	case fyne.KeyLeft:
		v.onPrevious()
	case fyne.KeyRight:
		v.onNext()
	case fyne.KeySpace:
		v.onFlip()
	case fyne.KeyHome:
		v.onStartOver()
	case fyne.KeyP:
		if v.bar != nil {
			v.bar.TogglePlay()
		}
	default:
		return false
	}
	return true
}

func (v *reviewView) Close() {
	if v.unwatch != nil {
		v.unwatch()
	}
	v.review.SetOnChange(nil)
	v.cancel()
	if v.speech != nil {
		v.speech.Close()
	}
}
