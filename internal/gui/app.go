package gui

import (
	"context"
	"fmt"
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/lecteur/internal"
	"codeberg.org/snonux/lecteur/internal/audio"
	"codeberg.org/snonux/lecteur/internal/content"
	"codeberg.org/snonux/lecteur/internal/events"
	"codeberg.org/snonux/lecteur/internal/flashcards"
	"codeberg.org/snonux/lecteur/internal/speech"
	"codeberg.org/snonux/lecteur/internal/translation"
)

// Services are the components the GUI works with. Translator, Commons,
// Player and Speech may be nil, which disables the matching feature.
type Services struct {
	Catalog    *content.Catalog
	Deck       *flashcards.Deck
	Bus        *events.Bus
	Translator translation.Translator
	Commons    *translation.Commons
	Player     *audio.Player
	Speech     *speech.Engine
	Logger     *log.Logger
}

// view is one screen of the application
type view interface {
	Content() fyne.CanvasObject
	// HandleKey reports whether the view consumed the key
	HandleKey(name fyne.KeyName) bool
	Close()
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	body        *fyne.Container
	statusLabel *widget.Label
	savedLabel  *widget.Label
	logViewer   *LogViewer
	homeButton  *ttwidget.Button
	reviewBtn   *ttwidget.Button
	logButton   *ttwidget.Button
	helpButton  *ttwidget.Button

	services Services
	current  view
	unsub    func()

	// Background work is canceled when the window closes
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new GUI application
func New(services Services) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:      app.NewWithID("org.codeberg.snonux.lecteur"),
		services: services,
		ctx:      ctx,
		cancel:   cancel,
	}
	a.app.SetIcon(theme.FileTextIcon())

	a.setupUI()

	if services.Logger != nil {
		services.Logger.SetOutput(io.MultiWriter(services.Logger.Writer(), a.logViewer))
	}
	if services.Bus != nil {
		a.unsub = services.Bus.Subscribe(events.FlashcardsUpdated, func() {
			fyne.Do(a.updateSavedCount)
		})
	}

	a.updateSavedCount()
	a.showHome()
	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("lecteur v%s - Lire en français", internal.Version))
	a.window.Resize(fyne.NewSize(900, 700))

	// Tooltips are set after the tooltip layer exists
	a.homeButton = ttwidget.NewButtonWithIcon("Modules", theme.HomeIcon(), a.showHome)
	a.reviewBtn = ttwidget.NewButtonWithIcon("Review", theme.ContentCopyIcon(), a.showReview)
	a.logButton = ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.toggleLog)
	a.helpButton = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	a.savedLabel = widget.NewLabel("")
	a.savedLabel.TextStyle = fyne.TextStyle{Bold: true}

	toolbar := container.NewHBox(
		a.homeButton,
		a.reviewBtn,
		widget.NewSeparator(),
		a.logButton,
		a.helpButton,
		layout.NewSpacer(),
		a.savedLabel,
	)

	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	a.logViewer = NewLogViewer()
	a.logViewer.Hide()

	a.body = container.NewStack()

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		container.NewVBox(a.logViewer, widget.NewSeparator(), a.statusLabel),
		nil, nil,
		a.body,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		if a.current != nil {
			a.current.Close()
		}
		if a.unsub != nil {
			a.unsub()
		}
		a.cancel()
	})

	a.setupKeyboardShortcuts()
}

func (a *Application) setupTooltips() {
	a.homeButton.SetToolTip("Browse modules and articles (Esc)")
	a.reviewBtn.SetToolTip("Review saved words as flashcards (R)")
	a.logButton.SetToolTip("Show activity log (L)")
	a.helpButton.SetToolTip("Show hotkeys (H)")
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// Quit closes the application. It may be called from any goroutine.
func (a *Application) Quit() {
	fyne.Do(func() {
		a.window.Close()
	})
}

// show replaces the current view
func (a *Application) show(v view) {
	if a.current != nil {
		a.current.Close()
	}
	a.current = v
	a.body.Objects = []fyne.CanvasObject{v.Content()}
	a.body.Refresh()
}

func (a *Application) showHome() {
	a.show(newHomeView(a))
	a.updateStatus(fmt.Sprintf("%d modules, %d articles", len(a.services.Catalog.Modules()), len(a.services.Catalog.Articles())))
}

func (a *Application) showReview() {
	a.show(newReviewView(a))
	a.updateStatus("Reviewing flashcards")
}

// openArticle shows the reader for article id
func (a *Application) openArticle(id string) {
	article, err := a.services.Catalog.Article(id)
	if err != nil {
		a.logf("Failed to open article %s: %v", id, err)
		dialog.ShowInformation("Article not found", fmt.Sprintf("There is no article %q.", id), a.window)
		return
	}
	a.show(newReaderView(a, article))
	a.updateStatus(fmt.Sprintf("Reading: %s", article.Title))
}

func (a *Application) updateSavedCount() {
	a.savedLabel.SetText(fmt.Sprintf("Saved words: %d", a.services.Deck.Len()))
}

func (a *Application) toggleLog() {
	if a.logViewer.Visible() {
		a.logViewer.Hide()
	} else {
		a.logViewer.Show()
	}
}

// updateStatus must run on the UI goroutine
func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

// setStatus may be called from any goroutine
func (a *Application) setStatus(message string) {
	fyne.Do(func() {
		a.updateStatus(message)
	})
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
}

// logf writes to the component log when one is configured
func (a *Application) logf(format string, args ...interface{}) {
	if a.services.Logger != nil {
		a.services.Logger.Printf(format, args...)
	}
}

// onShowHotkeys displays the hotkeys help dialog
func (a *Application) onShowHotkeys() {
	text := widget.NewRichTextFromMarkdown(`## Everywhere

* **Esc** back to the modules
* **R** review flashcards
* **L** show or hide the activity log
* **H** this help
* **Q** quit

## Reading

* **Space** read the article aloud, pause, resume
* **S** stop reading
* **E** show or hide the English translation

## Review

* **Left / Right** previous and next card
* **Space** flip the card
* **P** listen to the word
* **Home** start over from the first card`)

	dialog.ShowCustom("Hotkeys", "Close", text, a.window)
}

// setupKeyboardShortcuts sets up keyboard shortcuts for the application
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.showHome()
			return
		}

		if a.current != nil && a.current.HandleKey(ev.Name) {
			return
		}

		switch ev.Name {
		case fyne.KeyR:
			a.showReview()
		case fyne.KeyL:
			a.toggleLog()
		case fyne.KeyH:
			a.onShowHotkeys()
		case fyne.KeyQ:
			a.window.Close()
		}
	})
}
