package flashcards

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"codeberg.org/snonux/lecteur/internal/events"
	"codeberg.org/snonux/lecteur/internal/store"
	"codeberg.org/snonux/lecteur/internal/words"
)

const (
	// SavedWordsKey holds the saved word list
	SavedWordsKey = "savedWords"
	// FlashcardsKey holds the flashcard list
	FlashcardsKey = "flashcards"

	schemaVersion = 1
)

// ErrEmptyWord is returned when a word normalizes to nothing
var ErrEmptyWord = errors.New("word is empty after normalization")

// Flashcard is the study card of one saved word
type Flashcard struct {
	ID        int64     `json:"id"`
	Word      string    `json:"word"`
	CreatedAt time.Time `json:"createdAt"`
}

type savedWordsBlob struct {
	Version int      `json:"version"`
	Words   []string `json:"words"`
}

type flashcardsBlob struct {
	Version int         `json:"version"`
	Cards   []Flashcard `json:"cards"`
}

// Deck is the persisted set of saved words and their flashcards
type Deck struct {
	mu    sync.Mutex
	kv    store.KV
	bus   events.Publisher
	saved []string
	cards []Flashcard

	// Logger receives load and persistence diagnostics. Nil means silent.
	Logger *log.Logger

	now func() time.Time
}

// NewDeck creates an empty deck over kv. Call Load to read persisted state.
// bus may be nil when nobody listens for changes.
func NewDeck(kv store.KV, bus events.Publisher) *Deck {
	return &Deck{
		kv:  kv,
		bus: bus,
		now: time.Now,
	}
}

// Open creates a deck and loads its persisted state
func Open(kv store.KV, bus events.Publisher) *Deck {
	d := NewDeck(kv, bus)
	d.Load()
	return d
}

func (d *Deck) logf(format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

// Load reads the saved words and flashcards from the store. Missing,
// malformed or foreign-version data is treated as empty. Afterwards every
// saved word has exactly one card and no card lacks a saved word.
func (d *Deck) Load() {
	d.mu.Lock()
	defer d.mu.Unlock()

	saved := d.readSaved()
	cards := d.readCards()

	reconciled, changed := d.reconcile(saved, cards)
	d.saved = saved
	d.cards = reconciled

	if changed {
		d.logf("Reconciled flashcards with saved words (%d words, %d cards)", len(saved), len(reconciled))
		if err := d.persist(d.saved, d.cards); err != nil {
			d.logf("Failed to write reconciled deck: %v", err)
		}
	}
}

func (d *Deck) readSaved() []string {
	raw, ok, err := d.kv.Get(SavedWordsKey)
	if err != nil {
		d.logf("Failed to read %s: %v", SavedWordsKey, err)
		return nil
	}
	if !ok {
		return nil
	}

	var blob savedWordsBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		d.logf("Ignoring malformed %s: %v", SavedWordsKey, err)
		return nil
	}
	if blob.Version != schemaVersion {
		d.logf("Ignoring %s with version %d", SavedWordsKey, blob.Version)
		return nil
	}

	seen := make(map[string]bool, len(blob.Words))
	result := make([]string, 0, len(blob.Words))
	for _, w := range blob.Words {
		if w == "" || words.Normalize(w) != w {
			d.logf("Ignoring %s with invalid entry %q", SavedWordsKey, w)
			return nil
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		result = append(result, w)
	}
	return result
}

func (d *Deck) readCards() []Flashcard {
	raw, ok, err := d.kv.Get(FlashcardsKey)
	if err != nil {
		d.logf("Failed to read %s: %v", FlashcardsKey, err)
		return nil
	}
	if !ok {
		return nil
	}

	var blob flashcardsBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		d.logf("Ignoring malformed %s: %v", FlashcardsKey, err)
		return nil
	}
	if blob.Version != schemaVersion {
		d.logf("Ignoring %s with version %d", FlashcardsKey, blob.Version)
		return nil
	}

	for _, c := range blob.Cards {
		if c.Word == "" || c.ID <= 0 {
			d.logf("Ignoring %s with invalid card %+v", FlashcardsKey, c)
			return nil
		}
	}
	return blob.Cards
}

// reconcile makes the cards match the saved words: one card per saved word,
// in saved order, reusing existing cards where possible.
func (d *Deck) reconcile(saved []string, cards []Flashcard) ([]Flashcard, bool) {
	byWord := make(map[string]Flashcard, len(cards))
	for _, c := range cards {
		if _, dup := byWord[c.Word]; !dup {
			byWord[c.Word] = c
		}
	}

	changed := len(cards) != len(saved)
	result := make([]Flashcard, 0, len(saved))
	for _, w := range saved {
		c, ok := byWord[w]
		if !ok {
			c = d.newCard(w, result)
			changed = true
		}
		result = append(result, c)
	}

	if !changed {
		for i := range result {
			if result[i] != cards[i] {
				changed = true
				break
			}
		}
	}
	return result, changed
}

// newCard creates a card whose ID is the creation time in milliseconds,
// bumped past the largest existing ID on collision.
func (d *Deck) newCard(word string, existing []Flashcard) Flashcard {
	created := d.now()
	id := created.UnixMilli()

	var maxID int64
	collides := false
	for _, c := range existing {
		if c.ID == id {
			collides = true
		}
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	if collides {
		id = maxID + 1
	}

	return Flashcard{ID: id, Word: word, CreatedAt: created.UTC()}
}

func (d *Deck) persist(saved []string, cards []Flashcard) error {
	if saved == nil {
		saved = []string{}
	}
	if cards == nil {
		cards = []Flashcard{}
	}

	wordsJSON, err := json.Marshal(savedWordsBlob{Version: schemaVersion, Words: saved})
	if err != nil {
		return fmt.Errorf("encode saved words: %w", err)
	}
	cardsJSON, err := json.Marshal(flashcardsBlob{Version: schemaVersion, Cards: cards})
	if err != nil {
		return fmt.Errorf("encode flashcards: %w", err)
	}

	err = d.kv.SetMany(map[string]string{
		SavedWordsKey: string(wordsJSON),
		FlashcardsKey: string(cardsJSON),
	})
	if err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}

func (d *Deck) publish() {
	if d.bus != nil {
		d.bus.Publish(events.FlashcardsUpdated)
	}
}

// Saved returns the saved words in insertion order
func (d *Deck) Saved() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.saved...)
}

// Cards returns the flashcards in creation order
func (d *Deck) Cards() []Flashcard {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Flashcard(nil), d.cards...)
}

// Len returns the number of saved words
func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.saved)
}

// IsSaved reports whether the normalized form of word is saved
func (d *Deck) IsSaved(word string) bool {
	key := words.Normalize(word)

	d.mu.Lock()
	defer d.mu.Unlock()
	return indexOf(d.saved, key) >= 0
}

// Toggle saves word if it is not saved and unsaves it otherwise.
// It returns the membership after the call.
func (d *Deck) Toggle(word string) (bool, error) {
	key := words.Normalize(word)
	if key == "" {
		return false, ErrEmptyWord
	}

	d.mu.Lock()
	saved := indexOf(d.saved, key) >= 0
	var err error
	if saved {
		err = d.removeLocked(key)
	} else {
		err = d.addLocked([]string{key})
	}
	d.mu.Unlock()

	if err != nil {
		return saved, err
	}
	d.publish()
	return !saved, nil
}

// Add saves word and creates its card. Adding a saved word does nothing
// and reports false.
func (d *Deck) Add(word string) (bool, error) {
	n, err := d.AddAll([]string{word})
	return n == 1, err
}

// AddAll saves every word that is not saved yet and publishes a single
// change notification. Empty words are skipped. It returns how many
// words were added.
func (d *Deck) AddAll(list []string) (int, error) {
	d.mu.Lock()

	var keys []string
	for _, w := range list {
		key := words.Normalize(w)
		if key == "" || indexOf(d.saved, key) >= 0 || indexOf(keys, key) >= 0 {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		d.mu.Unlock()
		return 0, nil
	}

	err := d.addLocked(keys)
	d.mu.Unlock()

	if err != nil {
		return 0, err
	}
	d.publish()
	return len(keys), nil
}

// Remove unsaves word and deletes its card. Removing a word that is not
// saved does nothing and reports false.
func (d *Deck) Remove(word string) (bool, error) {
	key := words.Normalize(word)

	d.mu.Lock()
	if indexOf(d.saved, key) < 0 {
		d.mu.Unlock()
		return false, nil
	}
	err := d.removeLocked(key)
	d.mu.Unlock()

	if err != nil {
		return false, err
	}
	d.publish()
	return true, nil
}

// Clear removes every saved word and card
func (d *Deck) Clear() error {
	d.mu.Lock()
	if err := d.persist(nil, nil); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("clear deck: %w", err)
	}
	d.saved = nil
	d.cards = nil
	d.mu.Unlock()

	d.publish()
	return nil
}

func (d *Deck) addLocked(keys []string) error {
	saved := append(append([]string(nil), d.saved...), keys...)
	cards := append([]Flashcard(nil), d.cards...)
	for _, k := range keys {
		cards = append(cards, d.newCard(k, cards))
	}

	if err := d.persist(saved, cards); err != nil {
		return err
	}
	d.saved = saved
	d.cards = cards
	return nil
}

func (d *Deck) removeLocked(key string) error {
	saved := make([]string, 0, len(d.saved))
	for _, w := range d.saved {
		if w != key {
			saved = append(saved, w)
		}
	}
	cards := make([]Flashcard, 0, len(d.cards))
	for _, c := range d.cards {
		if c.Word != key {
			cards = append(cards, c)
		}
	}

	if err := d.persist(saved, cards); err != nil {
		return err
	}
	d.saved = saved
	d.cards = cards
	return nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
