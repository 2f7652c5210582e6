package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/lecteur/internal/content"
	"codeberg.org/snonux/lecteur/internal/reader"
	"codeberg.org/snonux/lecteur/internal/words"
)

// readerView shows one article with tappable words
type readerView struct {
	app    *Application
	ctrl   *reader.Controller
	tokens []words.Token

	ctx    context.Context
	cancel context.CancelFunc

	wordButtons []*widget.Button
	bar         *PlaybackBar

	selectedLabel    *widget.Label
	translationLabel *widget.Label
	saveButton       *ttwidget.Button
	translateButton  *ttwidget.Button
	pronounceButton  *ttwidget.Button

	savedLabel *widget.Label

	englishButton *ttwidget.Button
	englishLabel  *widget.Label

	content fyne.CanvasObject
}

func newReaderView(a *Application, article content.Article) *readerView {
	deps := reader.Deps{
		Deck:       a.services.Deck,
		Translator: a.services.Translator,
		Speech:     a.services.Speech,
		Logger:     a.services.Logger,
	}
	// Nil pointers must stay nil interfaces
	if a.services.Commons != nil {
		deps.Audio = a.services.Commons
	}
	if a.services.Player != nil {
		deps.Clips = a.services.Player
	}

	ctx, cancel := context.WithCancel(a.ctx)
	v := &readerView{
		app:    a,
		ctrl:   reader.New(article, deps),
		ctx:    ctx,
		cancel: cancel,
	}
	v.tokens = v.ctrl.Tokens()
	v.content = v.build()
	v.refreshSelection()
	return v
}

func (v *readerView) build() fyne.CanvasObject {
	article := v.ctrl.Article()

	title := widget.NewLabelWithStyle(article.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	meta := widget.NewLabel(fmt.Sprintf("DELF %s · %s · %s · %d min", article.DelfLevel, article.Level, article.Topic, article.EstimatedTime))

	flow := newFlowLayout()
	wordBox := container.New(flow)
	v.wordButtons = make([]*widget.Button, len(v.tokens))
	for i, tok := range v.tokens {
		index := i
		btn := widget.NewButton(tok.Surface, func() {
			v.selectWord(index)
		})
		v.wordButtons[i] = btn
		wordBox.Add(btn)
	}
	v.refreshWords()

	v.englishButton = ttwidget.NewButtonWithIcon("Show English", theme.VisibilityIcon(), v.onToggleEnglish)
	v.englishButton.SetToolTip("Translate the whole article (E)")
	if v.app.services.Translator == nil {
		v.englishButton.Disable()
	}
	v.englishLabel = widget.NewLabel("")
	v.englishLabel.Wrapping = fyne.TextWrapWord
	v.englishLabel.Hide()

	v.selectedLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.translationLabel = widget.NewLabel("")
	v.translationLabel.Wrapping = fyne.TextWrapWord

	v.saveButton = ttwidget.NewButtonWithIcon("Save", theme.ContentAddIcon(), v.onToggleSave)
	v.saveButton.SetToolTip("Save or remove the word from the flashcards")
	v.translateButton = ttwidget.NewButtonWithIcon("Translate", theme.SearchIcon(), v.onTranslate)
	v.translateButton.SetToolTip("Show or hide the English translation of the word")
	v.pronounceButton = ttwidget.NewButtonWithIcon("Pronounce", theme.VolumeUpIcon(), v.onPronounce)
	v.pronounceButton.SetToolTip("Listen to the word")

	v.savedLabel = widget.NewLabel("")

	panel := container.NewVBox(
		widget.NewSeparator(),
		container.NewHBox(v.selectedLabel, v.saveButton, v.translateButton, v.pronounceButton, layout.NewSpacer(), v.savedLabel),
		v.translationLabel,
	)

	var bottom fyne.CanvasObject
	if pc := v.ctrl.Playback(); pc != nil {
		v.bar = NewPlaybackBar(pc, "Read Article Aloud", func() {
			go v.ctrl.ReadAloud(v.ctx)
		})
		bottom = v.bar
	} else {
		bottom = widget.NewLabel("Speech unavailable")
	}

	header := container.NewVBox(title, meta, bottom, widget.NewSeparator())
	body := container.NewVScroll(container.NewVBox(
		wordBox,
		widget.NewSeparator(),
		v.englishButton,
		v.englishLabel,
	))
	// The word flow only knows its height once it has a width
	flow.OnReflow = body.Refresh

	return container.NewBorder(header, panel, nil, nil, body)
}

func (v *readerView) selectWord(index int) {
	v.ctrl.Activate(index)
	v.refreshWords()
	v.refreshSelection()
}

// refreshWords styles every word button: active, saved or plain
func (v *readerView) refreshWords() {
	active := v.ctrl.Active()
	for i, btn := range v.wordButtons {
		importance := widget.LowImportance
		switch {
		case i == active:
			importance = widget.SuccessImportance
		case v.ctrl.IsSaved(v.tokens[i].Key):
			importance = widget.HighImportance
		}
		if btn.Importance != importance {
			btn.Importance = importance
			btn.Refresh()
		}
	}
}

// refreshSelection updates the panel of the active word
func (v *readerView) refreshSelection() {
	v.savedLabel.SetText(fmt.Sprintf("You've saved %d words", v.ctrl.SavedCount()))

	active := v.ctrl.Active()
	if active < 0 {
		v.selectedLabel.SetText("Tap a word")
		v.translationLabel.SetText("")
		v.saveButton.Disable()
		v.translateButton.Disable()
		v.pronounceButton.Disable()
		return
	}

	tok := v.tokens[active]
	v.selectedLabel.SetText(tok.Key)
	v.translationLabel.SetText(v.ctrl.Translation(active))

	if v.ctrl.IsSaved(tok.Key) {
		v.saveButton.SetText("Remove")
		v.saveButton.SetIcon(theme.ContentRemoveIcon())
	} else {
		v.saveButton.SetText("Save")
		v.saveButton.SetIcon(theme.ContentAddIcon())
	}
	v.saveButton.Enable()

	if v.ctrl.Translation(active) != "" {
		v.translateButton.SetText("Hide")
	} else {
		v.translateButton.SetText("Translate")
	}
	if v.app.services.Translator != nil {
		v.translateButton.Enable()
	} else {
		v.translateButton.Disable()
	}
	v.pronounceButton.Enable()
}

func (v *readerView) onToggleSave() {
	active := v.ctrl.Active()
	if active < 0 {
		return
	}
	word := v.tokens[active].Key
	saved, err := v.ctrl.ToggleSave(word)
	if err != nil {
		v.app.showError(fmt.Errorf("failed to save %q: %w", word, err))
		return
	}
	if saved {
		v.app.updateStatus(fmt.Sprintf("Saved '%s'", word))
	} else {
		v.app.updateStatus(fmt.Sprintf("Removed '%s'", word))
	}
	v.refreshWords()
	v.refreshSelection()
}

func (v *readerView) onTranslate() {
	index := v.ctrl.Active()
	if index < 0 {
		return
	}

	// Hiding does not fetch and returns at once
	if v.ctrl.Translation(index) != "" {
		v.ctrl.Translate(v.ctx, index)
		v.refreshSelection()
		return
	}

	v.translateButton.Disable()
	v.translationLabel.SetText("Translating...")
	go func() {
		v.ctrl.Translate(v.ctx, index)
		fyne.Do(v.translationDone)
	}()
}

// translationDone redraws the panel once a word translation settled. A
// failed translation leaves the label empty.
func (v *readerView) translationDone() {
	if v.ctx.Err() != nil {
		return
	}
	v.refreshSelection()
}

func (v *readerView) onPronounce() {
	active := v.ctrl.Active()
	if active < 0 {
		return
	}
	word := v.tokens[active].Key
	v.app.updateStatus(fmt.Sprintf("Pronouncing '%s'", word))
	go v.ctrl.Pronounce(v.ctx, word)
}

func (v *readerView) onToggleEnglish() {
	if v.ctrl.ArticleTranslation() != "" {
		v.ctrl.TranslateArticle(v.ctx)
		v.englishLabel.Hide()
		v.englishButton.SetText("Show English")
		return
	}

	v.englishButton.Disable()
	v.englishButton.SetText("Translating...")
	go func() {
		text := v.ctrl.TranslateArticle(v.ctx)
		fyne.Do(func() {
			v.articleTranslationDone(text)
		})
	}()
}

// articleTranslationDone shows text below the article. An empty text keeps
// the translation hidden.
func (v *readerView) articleTranslationDone(text string) {
	if v.ctx.Err() != nil {
		return
	}
	v.englishButton.Enable()
	if text == "" {
		v.englishButton.SetText("Show English")
		return
	}
	v.englishButton.SetText("Hide English")
	v.englishLabel.SetText(text)
	v.englishLabel.Show()
}

func (v *readerView) Content() fyne.CanvasObject {
	return v.content
}

func (v *readerView) HandleKey(name fyne.KeyName) bool {
	switch name {
	case fyne.KeySpace:
		if v.bar != nil {
			v.bar.TogglePlay()
		}
		return true
	case fyne.KeyS:
		if v.bar != nil {
			v.bar.Stop()
		}
		return true
	case fyne.KeyE:
		if v.englishButton.Disabled() {
			return true
		}
		v.onToggleEnglish()
		return true
	}
	return false
}

// Close stops all sound of the view and drops pending translations
func (v *readerView) Close() {
	v.cancel()
	v.ctrl.Close()
}
