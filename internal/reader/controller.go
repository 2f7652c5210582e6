package reader

import (
	"context"
	"log"
	"sync"

	"codeberg.org/snonux/lecteur/internal/content"
	"codeberg.org/snonux/lecteur/internal/playback"
	"codeberg.org/snonux/lecteur/internal/speech"
	"codeberg.org/snonux/lecteur/internal/translation"
	"codeberg.org/snonux/lecteur/internal/words"
)

const (
	// SourceLang is the language of the articles
	SourceLang = "fr"
	// TargetLang is the language translations are shown in
	TargetLang = "en"
)

// Deck is the saved word store the reader toggles words in
type Deck interface {
	Toggle(word string) (bool, error)
	IsSaved(word string) bool
	Len() int
}

// AudioLookup finds recorded pronunciations
type AudioLookup interface {
	LookupAudioURL(ctx context.Context, word string) (string, bool)
}

// ClipPlayer plays recorded pronunciations
type ClipPlayer interface {
	PlayURL(ctx context.Context, url string) error
	Stop()
}

// Deps are the collaborators of a reader. Any of them except Deck may be
// nil, which disables the matching feature.
type Deps struct {
	Deck       Deck
	Translator translation.Translator
	Audio      AudioLookup
	Clips      ClipPlayer
	Speech     *speech.Engine
	Logger     *log.Logger
}

// Controller holds the interaction state of one open article
type Controller struct {
	article  content.Article
	tokens   []words.Token
	deps     Deps
	playback *playback.Controller

	mu                 sync.Mutex
	active             int
	translations       map[int]string
	articleTranslation string
}

// New opens article for reading
func New(article content.Article, deps Deps) *Controller {
	c := &Controller{
		article:      article,
		tokens:       words.Tokenize(article.Content),
		deps:         deps,
		active:       -1,
		translations: make(map[int]string),
	}
	if deps.Speech != nil {
		c.playback = playback.New(deps.Speech, article.Content)
		c.playback.Logger = deps.Logger
	}
	return c
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.deps.Logger != nil {
		c.deps.Logger.Printf(format, args...)
	}
}

// Article returns the open article
func (c *Controller) Article() content.Article {
	return c.article
}

// Tokens returns the tappable words of the article
func (c *Controller) Tokens() []words.Token {
	return append([]words.Token(nil), c.tokens...)
}

// Playback returns the read-aloud controller, nil without speech
func (c *Controller) Playback() *playback.Controller {
	return c.playback
}

// Activate makes the word at index the active one. Activating the active
// word deactivates it. It returns the active index afterwards, -1 for none.
// Out of range indexes change nothing.
func (c *Controller) Activate(index int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.tokens) {
		return c.active, c.active >= 0
	}
	if c.active == index {
		c.active = -1
		return -1, false
	}
	c.active = index
	return index, true
}

// Active returns the active word index, -1 for none
func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ToggleSave saves or unsaves a word and reports whether it is saved now
func (c *Controller) ToggleSave(word string) (bool, error) {
	saved, err := c.deps.Deck.Toggle(word)
	if err != nil {
		c.logf("Failed to toggle %q: %v", word, err)
		return saved, err
	}
	return saved, nil
}

// IsSaved reports whether a word is saved
func (c *Controller) IsSaved(word string) bool {
	return c.deps.Deck.IsSaved(word)
}

// SavedCount returns how many words are saved overall
func (c *Controller) SavedCount() int {
	return c.deps.Deck.Len()
}

// Pronounce plays a recorded pronunciation of word when Commons has one
// and speaks it otherwise. Failures are logged and swallowed.
func (c *Controller) Pronounce(ctx context.Context, word string) {
	key := words.Normalize(word)
	if key == "" {
		return
	}

	if c.deps.Audio != nil && c.deps.Clips != nil {
		if url, ok := c.deps.Audio.LookupAudioURL(ctx, key); ok {
			if c.deps.Speech != nil {
				c.deps.Speech.Cancel()
			}
			err := c.deps.Clips.PlayURL(ctx, url)
			if err == nil {
				return
			}
			c.logf("Failed to play %s: %v", url, err)
		}
	}

	if c.deps.Speech == nil || !c.deps.Speech.Available() {
		return
	}
	c.stopClips()
	if _, err := c.deps.Speech.Speak(ctx, key); err != nil {
		c.logf("Failed to pronounce %q: %v", key, err)
	}
}

// Translate toggles the translation of the word at index. When a
// translation is shown it is hidden and "" returned without fetching.
// Otherwise the word is translated; a failure returns "" and is not
// remembered, so the next call tries again.
func (c *Controller) Translate(ctx context.Context, index int) string {
	c.mu.Lock()
	if index < 0 || index >= len(c.tokens) {
		c.mu.Unlock()
		return ""
	}
	if _, shown := c.translations[index]; shown {
		delete(c.translations, index)
		c.mu.Unlock()
		return ""
	}
	key := c.tokens[index].Key
	c.mu.Unlock()

	text := c.fetch(ctx, key)
	if text == "" {
		return ""
	}

	c.mu.Lock()
	c.translations[index] = text
	c.mu.Unlock()
	return text
}

// Translation returns the shown translation of the word at index
func (c *Controller) Translation(index int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.translations[index]
}

// TranslateArticle toggles the English translation of the whole article
func (c *Controller) TranslateArticle(ctx context.Context) string {
	c.mu.Lock()
	if c.articleTranslation != "" {
		c.articleTranslation = ""
		c.mu.Unlock()
		return ""
	}
	c.mu.Unlock()

	text := c.fetch(ctx, c.article.Content)
	if text == "" {
		return ""
	}

	c.mu.Lock()
	c.articleTranslation = text
	c.mu.Unlock()
	return text
}

// ArticleTranslation returns the shown article translation
func (c *Controller) ArticleTranslation() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.articleTranslation
}

func (c *Controller) fetch(ctx context.Context, text string) string {
	if c.deps.Translator == nil || text == "" {
		return ""
	}
	r := c.deps.Translator.Translate(ctx, text, SourceLang, TargetLang)
	if r.Err != nil {
		c.logf("Translation of %q failed: %v", text, r.Err)
		return ""
	}
	return r.Text
}

// ReadAloud starts reading the article, or resumes it when paused
func (c *Controller) ReadAloud(ctx context.Context) {
	if c.playback == nil {
		return
	}
	c.stopClips()
	if err := c.playback.Play(ctx); err != nil {
		c.logf("Failed to read article: %v", err)
	}
}

// stopClips silences a recorded pronunciation before speech takes over
func (c *Controller) stopClips() {
	if c.deps.Clips != nil {
		c.deps.Clips.Stop()
	}
}

// Close stops all sound started from this view
func (c *Controller) Close() {
	if c.playback != nil {
		c.playback.Close()
	}
	if c.deps.Speech != nil {
		c.deps.Speech.Cancel()
	}
	if c.deps.Clips != nil {
		c.deps.Clips.Stop()
	}
}
