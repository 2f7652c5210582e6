package gui

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// defaultMaxMessages is how many log lines the viewer keeps
const defaultMaxMessages = 500

// LogViewer is a widget that displays component log lines, newest first.
// It is an io.Writer so a log.Logger can write into it.
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logLabel   *widget.Label
	scrollView *container.Scroll

	mu          sync.Mutex
	messages    []string
	maxMessages int
	partial     string
}

// NewLogViewer creates a new log viewer widget
func NewLogViewer() *LogViewer {
	v := &LogViewer{maxMessages: defaultMaxMessages}

	v.logLabel = widget.NewLabel("")
	v.logLabel.Wrapping = fyne.TextWrapWord
	v.logLabel.TextStyle = fyne.TextStyle{Monospace: true}

	v.scrollView = container.NewVScroll(v.logLabel)
	v.scrollView.SetMinSize(fyne.NewSize(0, 140))

	v.container = container.NewBorder(
		widget.NewLabel("Activity log (newest first):"),
		nil, nil, nil,
		v.scrollView,
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// Write implements io.Writer. Each complete line becomes one message;
// a trailing partial line waits for the next write.
func (v *LogViewer) Write(p []byte) (int, error) {
	v.mu.Lock()
	text := v.partial + string(p)
	lines := strings.Split(text, "\n")
	v.partial = lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		if line = strings.TrimRight(line, "\r"); line != "" {
			v.addLocked(line)
		}
	}
	rendered := strings.Join(v.messages, "\n")
	v.mu.Unlock()

	v.render(rendered)
	return len(p), nil
}

// AddMessage adds a message to the log
func (v *LogViewer) AddMessage(message string) {
	v.mu.Lock()
	v.addLocked(message)
	rendered := strings.Join(v.messages, "\n")
	v.mu.Unlock()

	v.render(rendered)
}

// Log adds a formatted message
func (v *LogViewer) Log(format string, args ...interface{}) {
	v.AddMessage(fmt.Sprintf(format, args...))
}

func (v *LogViewer) addLocked(message string) {
	v.messages = append([]string{message}, v.messages...)
	if len(v.messages) > v.maxMessages {
		v.messages = v.messages[:v.maxMessages]
	}
}

// Messages returns the kept messages, newest first
func (v *LogViewer) Messages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.messages...)
}

// Clear clears all log messages
func (v *LogViewer) Clear() {
	v.mu.Lock()
	v.messages = nil
	v.partial = ""
	v.mu.Unlock()

	v.render("")
}

// render updates the label on the UI goroutine
func (v *LogViewer) render(text string) {
	fyne.Do(func() {
		v.logLabel.SetText(text)
		v.scrollView.Offset = fyne.NewPos(0, 0)
		v.scrollView.Refresh()
	})
}
