package gui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"

	"codeberg.org/snonux/lecteur/internal/content"
	"codeberg.org/snonux/lecteur/internal/events"
	"codeberg.org/snonux/lecteur/internal/flashcards"
	"codeberg.org/snonux/lecteur/internal/playback"
	"codeberg.org/snonux/lecteur/internal/store"
	"codeberg.org/snonux/lecteur/internal/testutil"
)

func newBox(w, h float32) *canvas.Rectangle {
	r := canvas.NewRectangle(nil)
	r.SetMinSize(fyne.NewSize(w, h))
	return r
}

func TestFlowLayoutWraps(t *testing.T) {
	f := newFlowLayout()
	objects := []fyne.CanvasObject{newBox(100, 20), newBox(100, 20), newBox(100, 20)}

	f.Layout(objects, fyne.NewSize(250, 100))

	want := []fyne.Position{
		fyne.NewPos(0, 0),
		fyne.NewPos(104, 0),
		fyne.NewPos(0, 24),
	}
	for i, o := range objects {
		if o.Position() != want[i] {
			t.Errorf("object %d at %v, want %v", i, o.Position(), want[i])
		}
		if o.Size() != fyne.NewSize(100, 20) {
			t.Errorf("object %d size %v", i, o.Size())
		}
	}

	min := f.MinSize(objects)
	if min.Width != 100 || min.Height != 44 {
		t.Errorf("MinSize = %v, want 100x44", min)
	}
}

func TestFlowLayoutMinSizeBeforeLayout(t *testing.T) {
	f := newFlowLayout()
	objects := []fyne.CanvasObject{newBox(100, 20), newBox(60, 30)}

	if min := f.MinSize(objects); min != fyne.NewSize(100, 30) {
		t.Errorf("MinSize = %v, want a single row of 100x30", min)
	}
}

func TestFlowLayoutSkipsHidden(t *testing.T) {
	f := newFlowLayout()
	hidden := newBox(100, 20)
	hidden.Hide()
	objects := []fyne.CanvasObject{newBox(50, 10), hidden, newBox(50, 30)}

	f.Layout(objects, fyne.NewSize(500, 100))

	if got := objects[2].Position(); got != fyne.NewPos(54, 0) {
		t.Errorf("third object at %v, want (54,0)", got)
	}
	if min := f.MinSize(objects); min.Height != 30 {
		t.Errorf("MinSize height = %v, want 30", min.Height)
	}
}

func TestFlowLayoutOversizedObject(t *testing.T) {
	f := newFlowLayout()
	objects := []fyne.CanvasObject{newBox(300, 20), newBox(10, 20)}

	f.Layout(objects, fyne.NewSize(200, 100))

	if got := objects[0].Position(); got != fyne.NewPos(0, 0) {
		t.Errorf("first object at %v", got)
	}
	if got := objects[1].Position(); got != fyne.NewPos(0, 24) {
		t.Errorf("second object at %v, want next row", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{6 * time.Second, "0:06"},
		{1500 * time.Millisecond, "0:02"},
		{75 * time.Second, "1:15"},
		{10 * time.Minute, "10:00"},
	}

	for _, tt := range tests {
		if got := formatClock(tt.in); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressText(t *testing.T) {
	s := playback.State{Progress: 50, Estimated: 20 * time.Second}
	if got := progressText(s); got != "0:10 / 0:20" {
		t.Errorf("progressText = %q", got)
	}
}

func TestLevelsOf(t *testing.T) {
	modules := []content.Module{
		{ID: "m1", DelfLevel: "B1"},
		{ID: "m2", DelfLevel: "A1"},
		{ID: "m3", DelfLevel: "X9"},
		{ID: "m4", DelfLevel: "B1"},
	}

	got := levelsOf(modules)
	want := []string{"A1", "B1", "X9"}
	if len(got) != len(want) {
		t.Fatalf("levelsOf = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("levelsOf[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArticleTitle(t *testing.T) {
	a := content.Article{Title: "Le marché", Level: "Débutant", EstimatedTime: 3}
	if got := articleTitle(a); got != "Le marché · Débutant · 3 min" {
		t.Errorf("articleTitle = %q", got)
	}
	a.EstimatedTime = 0
	if got := articleTitle(a); got != "Le marché · Débutant" {
		t.Errorf("articleTitle = %q", got)
	}
}

func TestLogViewerWrite(t *testing.T) {
	test.NewTempApp(t)
	v := NewLogViewer()

	n, err := v.Write([]byte("first\nsecond\npart"))
	if err != nil || n != len("first\nsecond\npart") {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if _, err := v.Write([]byte("ial\n")); err != nil {
		t.Fatal(err)
	}

	got := v.Messages()
	want := []string{"partial", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("Messages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Messages[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	v.Clear()
	if len(v.Messages()) != 0 {
		t.Error("Clear kept messages")
	}
}

func TestLogViewerTrims(t *testing.T) {
	test.NewTempApp(t)
	v := NewLogViewer()
	v.maxMessages = 2

	v.Log("one %d", 1)
	v.Log("two %d", 2)
	v.Log("three %d", 3)

	got := v.Messages()
	if len(got) != 2 || got[0] != "three 3" || got[1] != "two 2" {
		t.Errorf("Messages = %v", got)
	}
}

// newTestReview opens a review over words without a window
func newTestReview(t *testing.T, list ...string) (*reviewView, *flashcards.Deck) {
	t.Helper()
	test.NewTempApp(t)

	catalog, err := content.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded failed: %v", err)
	}
	bus := events.NewBus()
	deck := flashcards.Open(store.NewMemory(), bus)
	if _, err := deck.AddAll(list); err != nil {
		t.Fatalf("AddAll failed: %v", err)
	}

	a := &Application{
		services: Services{Catalog: catalog, Deck: deck, Bus: bus},
		ctx:      context.Background(),
	}
	v := newReviewView(a)
	t.Cleanup(v.Close)
	return v, deck
}

func TestReviewKeysNeverChangeTheDeck(t *testing.T) {
	v, deck := newTestReview(t, "bonjour", "monde", "chat")

	keys := []fyne.KeyName{
		fyne.KeyLeft, fyne.KeyRight, fyne.KeySpace, fyne.KeyP, fyne.KeyHome,
		fyne.KeyDelete, fyne.KeyBackspace, fyne.KeyD, fyne.KeyX, fyne.KeyReturn,
	}
	for _, k := range keys {
		v.HandleKey(k)
	}

	if got := deck.Saved(); len(got) != 3 {
		t.Errorf("Review changed the saved words: %v", got)
	}
	if deck.Len() != 3 {
		t.Errorf("Review changed the deck: %d cards", deck.Len())
	}
}

func TestReviewStartOver(t *testing.T) {
	v, deck := newTestReview(t, "bonjour", "monde", "chat")

	v.HandleKey(fyne.KeyRight)
	v.HandleKey(fyne.KeyRight)
	v.HandleKey(fyne.KeySpace)
	if v.review.Index() != 2 || !v.review.Flipped() {
		t.Fatalf("Expected the flipped third card, got index %d", v.review.Index())
	}

	deck.Add("le")
	if !v.HandleKey(fyne.KeyHome) {
		t.Fatal("Home should be handled by the review")
	}
	if v.review.Index() != 0 || v.review.Flipped() {
		t.Errorf("Expected the front of the first card, got index %d flipped %v", v.review.Index(), v.review.Flipped())
	}
	if v.review.Len() != 4 {
		t.Errorf("Expected 4 cards after starting over, got %d", v.review.Len())
	}

	v.refresh()
	if got := v.counterLabel.Text; got != "1 / 4" {
		t.Errorf("Counter = %q, want 1 / 4", got)
	}
}

func TestReaderFailedTranslationLeavesLabelEmpty(t *testing.T) {
	test.NewTempApp(t)

	catalog, err := content.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded failed: %v", err)
	}
	translator := &testutil.MockTranslator{Translations: map[string]string{"chat": "cat"}}
	a := &Application{
		services: Services{
			Catalog:    catalog,
			Deck:       flashcards.Open(store.NewMemory(), nil),
			Translator: translator,
		},
		ctx: context.Background(),
	}
	v := newReaderView(a, content.Article{ID: "t", Title: "Test", Content: "Le chien et le chat."})
	t.Cleanup(v.Close)

	// "chien" has no translation
	v.selectWord(1)
	v.ctrl.Translate(v.ctx, 1)
	v.translationDone()
	if got := v.translationLabel.Text; got != "" {
		t.Errorf("Label after a failed translation = %q, want empty", got)
	}
	if got := v.translateButton.Text; got != "Translate" {
		t.Errorf("Button after a failed translation = %q, want Translate", got)
	}

	v.selectWord(4)
	v.ctrl.Translate(v.ctx, 4)
	v.translationDone()
	if got := v.translationLabel.Text; got != "cat" {
		t.Errorf("Label = %q, want cat", got)
	}

	v.articleTranslationDone("")
	if v.englishLabel.Visible() {
		t.Error("A failed article translation must stay hidden")
	}
	if got := v.englishButton.Text; got != "Show English" {
		t.Errorf("English button = %q", got)
	}
}
