package flashcards

import (
	"sync"

	"codeberg.org/snonux/lecteur/internal/content"
	"codeberg.org/snonux/lecteur/internal/events"
)

// NoTranslation is shown on the back of a card whose word has no
// vocabulary entry
const NoTranslation = "No translation found"

// CardSource provides the cards a review walks through
type CardSource interface {
	Cards() []Flashcard
}

// Glossary resolves a French word to its vocabulary entry
type Glossary interface {
	Lookup(word string) (content.VocabularyEntry, bool)
}

// Review is the study cursor over a deck
type Review struct {
	mu      sync.Mutex
	source  CardSource
	cards   []Flashcard
	index   int
	flipped bool

	onChange func()
}

// NewReview creates a review positioned on the first card
func NewReview(source CardSource) *Review {
	r := &Review{source: source}
	r.cards = source.Cards()
	return r
}

// Watch refreshes the review whenever the deck publishes a change.
// The returned func stops watching.
func (r *Review) Watch(bus events.Subscriber) func() {
	return bus.Subscribe(events.FlashcardsUpdated, r.Refresh)
}

// SetOnChange registers fn to be called after the visible card or its face
// changed. fn runs on the goroutine that caused the change, outside the
// review's lock. A nil fn removes the callback.
func (r *Review) SetOnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

func (r *Review) notify() {
	r.mu.Lock()
	fn := r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Reload re-reads the deck and moves to the first card
func (r *Review) Reload() {
	r.mu.Lock()
	r.cards = r.source.Cards()
	r.index = 0
	r.flipped = false
	r.mu.Unlock()

	r.notify()
}

// Refresh re-reads the deck and stays on the word that was displayed if it
// still exists, otherwise moves to the first card. The card is shown front
// side up.
func (r *Review) Refresh() {
	r.mu.Lock()
	var shown string
	if r.index < len(r.cards) {
		shown = r.cards[r.index].Word
	}

	r.cards = r.source.Cards()
	r.index = 0
	for i, c := range r.cards {
		if c.Word == shown {
			r.index = i
			break
		}
	}
	r.flipped = false
	r.mu.Unlock()

	r.notify()
}

// Next moves to the following card, wrapping to the first. It reports
// false on an empty deck.
func (r *Review) Next() bool {
	return r.move(1)
}

// Previous moves to the preceding card, wrapping to the last. It reports
// false on an empty deck.
func (r *Review) Previous() bool {
	return r.move(-1)
}

func (r *Review) move(step int) bool {
	r.mu.Lock()
	n := len(r.cards)
	if n == 0 {
		r.mu.Unlock()
		return false
	}
	r.index = ((r.index+step)%n + n) % n
	r.flipped = false
	r.mu.Unlock()

	r.notify()
	return true
}

// Flip toggles between the front and the back of the current card.
// It reports false on an empty deck.
func (r *Review) Flip() bool {
	r.mu.Lock()
	if len(r.cards) == 0 {
		r.mu.Unlock()
		return false
	}
	r.flipped = !r.flipped
	r.mu.Unlock()

	r.notify()
	return true
}

// Current returns the displayed card
func (r *Review) Current() (Flashcard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cards) == 0 {
		return Flashcard{}, false
	}
	return r.cards[r.index], true
}

// Index returns the position of the displayed card
func (r *Review) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Len returns the number of cards under review
func (r *Review) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards)
}

// Empty reports whether there is nothing to review
func (r *Review) Empty() bool {
	return r.Len() == 0
}

// Flipped reports whether the back of the current card is shown
func (r *Review) Flipped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flipped
}

// Answer returns the English translation of the current card, or
// NoTranslation when the glossary does not know the word
func (r *Review) Answer(g Glossary) string {
	card, ok := r.Current()
	if !ok || g == nil {
		return NoTranslation
	}
	entry, found := g.Lookup(card.Word)
	if !found || entry.English == "" {
		return NoTranslation
	}
	return entry.English
}
