package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/lecteur/internal"
	"codeberg.org/snonux/lecteur/internal/anki"
	"codeberg.org/snonux/lecteur/internal/archive"
	"codeberg.org/snonux/lecteur/internal/audio"
	"codeberg.org/snonux/lecteur/internal/batch"
	"codeberg.org/snonux/lecteur/internal/cli"
	"codeberg.org/snonux/lecteur/internal/content"
	"codeberg.org/snonux/lecteur/internal/events"
	"codeberg.org/snonux/lecteur/internal/flashcards"
	"codeberg.org/snonux/lecteur/internal/gui"
	"codeberg.org/snonux/lecteur/internal/models"
	"codeberg.org/snonux/lecteur/internal/reader"
	"codeberg.org/snonux/lecteur/internal/speech"
	"codeberg.org/snonux/lecteur/internal/store"
	"codeberg.org/snonux/lecteur/internal/translation"
	"codeberg.org/snonux/lecteur/internal/words"
)

// Processor wires the application components together and runs the
// actions requested on the command line
type Processor struct {
	flags  *cli.Flags
	out    io.Writer
	logger *log.Logger

	catalog    *content.Catalog
	kv         *store.SQLite
	bus        *events.Bus
	deck       *flashcards.Deck
	translator translation.Translator
	commons    *translation.Commons
	player     *audio.Player
	engine     *speech.Engine
}

// NewProcessor creates a processor. Components are built on first use.
func NewProcessor(flags *cli.Flags) *Processor {
	p := &Processor{
		flags: flags,
		out:   os.Stdout,
		bus:   events.NewBus(),
	}
	if flags.Verbose {
		p.logger = log.New(os.Stderr, "lecteur: ", log.LstdFlags)
	}
	return p
}

// Close releases the database and stops any sound
func (p *Processor) Close() error {
	if p.engine != nil {
		p.engine.Cancel()
	}
	if p.player != nil {
		p.player.Stop()
	}
	if p.kv != nil {
		err := p.kv.Close()
		p.kv = nil
		return err
	}
	return nil
}

// Run performs the requested actions, or launches the GUI when none is given
func (p *Processor) Run(ctx context.Context) error {
	defer p.Close()

	// Both are standalone: archiving must not open the database first
	if p.flags.Archive {
		return p.ArchiveState()
	}
	if p.flags.ListModels {
		return p.ListModels(ctx)
	}

	if !p.flags.HasAction() {
		return p.RunGUIMode(ctx)
	}

	steps := []struct {
		enabled bool
		run     func() error
	}{
		{p.flags.Clear, p.ClearDeck},
		{p.flags.List, p.ListContent},
		{p.flags.Import != "", func() error { return p.ImportWords(p.flags.Import) }},
		{p.flags.Save != "", func() error { return p.ToggleWord(p.flags.Save) }},
		{p.flags.Article != "", func() error { return p.PrintArticle(p.flags.Article) }},
		{p.flags.Translate != "", func() error { return p.TranslateText(ctx, p.flags.Translate) }},
		{p.flags.Pronounce != "", func() error { return p.PronounceWord(ctx, p.flags.Pronounce) }},
		{p.flags.ListVoices, func() error { return p.ListVoices(ctx) }},
		{p.flags.Flashcards, p.PrintFlashcards},
		{p.flags.ExportAnki != "", func() error { return p.ExportAnki(p.flags.ExportAnki) }},
	}

	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if err := step.run(); err != nil {
			return err
		}
	}
	return nil
}

// ListContent prints the modules grouped by DELF level with their articles
func (p *Processor) ListContent() error {
	catalog, err := p.Catalog()
	if err != nil {
		return err
	}

	level := ""
	for _, m := range catalog.Modules() {
		if m.DelfLevel != level {
			level = m.DelfLevel
			fmt.Fprintf(p.out, "\n=== DELF %s ===\n", level)
		}
		articles := catalog.ModuleArticles(m)
		fmt.Fprintf(p.out, "%s (%d articles, ~%d min)\n", m.Title, len(articles), m.EstimatedMinutes())
		for _, a := range articles {
			fmt.Fprintf(p.out, "  %-10s %s [%s, %s]\n", a.ID, a.Title, a.Level, a.Topic)
		}
	}
	fmt.Fprintf(p.out, "\n%d articles, %d glossary words\n", len(catalog.Articles()), catalog.VocabularySize())
	return nil
}

// PrintArticle prints an article with saved words marked by an asterisk
func (p *Processor) PrintArticle(id string) error {
	catalog, err := p.Catalog()
	if err != nil {
		return err
	}
	article, err := catalog.Article(id)
	if err != nil {
		return err
	}
	deck, err := p.Deck()
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%s (DELF %s, %s, %d min)\n\n", article.Title, article.DelfLevel, article.Topic, article.EstimatedTime)

	tokens := words.Tokenize(article.Content)
	surfaces := make([]string, len(tokens))
	for i, tok := range tokens {
		surfaces[i] = tok.Surface
		if deck.IsSaved(tok.Key) {
			surfaces[i] += "*"
		}
	}
	fmt.Fprintln(p.out, strings.Join(surfaces, " "))
	fmt.Fprintf(p.out, "\nSaved words: %d\n", deck.Len())
	return nil
}

// TranslateText translates French text to English and prints it with the
// vocabulary entry when one exists
func (p *Processor) TranslateText(ctx context.Context, text string) error {
	translator, err := p.Translator(ctx)
	if err != nil {
		return err
	}

	result := translator.Translate(ctx, text, reader.SourceLang, reader.TargetLang)
	if !result.OK() {
		return fmt.Errorf("translation failed: %w", result.Err)
	}
	fmt.Fprintf(p.out, "%s = %s\n", text, result.Text)

	if catalog, err := p.Catalog(); err == nil {
		if entry, ok := catalog.Lookup(text); ok {
			fmt.Fprintf(p.out, "  Vocabulary: %s [%s]\n", entry.English, entry.Pronunciation)
			if entry.Example != "" {
				fmt.Fprintf(p.out, "  Example: %s\n", entry.Example)
			}
		}
	}
	return nil
}

// PronounceWord plays the Commons recording of word, falling back to
// speech synthesis, and waits until it finishes
func (p *Processor) PronounceWord(ctx context.Context, word string) error {
	key := words.Normalize(word)
	if key == "" {
		return fmt.Errorf("nothing to pronounce in %q", word)
	}

	player := p.Player()
	if url, ok := p.Commons().LookupAudioURL(ctx, key); ok {
		fmt.Fprintf(p.out, "Playing recording: %s\n", url)
		err := p.playClip(ctx, player, url)
		if err == nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Warning: Failed to play recording: %v\n", err)
	}

	engine, err := p.Engine()
	if err != nil {
		return err
	}
	if !engine.Available() {
		return fmt.Errorf("no recording found for %q and speech synthesis is unavailable", key)
	}

	fmt.Fprintf(p.out, "Speaking: %s\n", key)
	handle, err := engine.Speak(ctx, key)
	if err != nil {
		return err
	}
	select {
	case <-handle.Done():
		return handle.Err()
	case <-ctx.Done():
		handle.Cancel()
		return ctx.Err()
	}
}

func (p *Processor) playClip(ctx context.Context, player *audio.Player, url string) error {
	file, err := player.Fetch(ctx, url)
	if err != nil {
		return err
	}
	proc, err := player.Start(ctx, file)
	if err != nil {
		return err
	}
	return proc.Wait()
}

// ToggleWord saves word, or removes it when it is already saved
func (p *Processor) ToggleWord(word string) error {
	deck, err := p.Deck()
	if err != nil {
		return err
	}

	saved, err := deck.Toggle(word)
	if err != nil {
		return fmt.Errorf("failed to toggle %q: %w", word, err)
	}

	key := words.Normalize(word)
	if saved {
		fmt.Fprintf(p.out, "Saved '%s' (%d saved words)\n", key, deck.Len())
	} else {
		fmt.Fprintf(p.out, "Removed '%s' (%d saved words)\n", key, deck.Len())
	}
	return nil
}

// ImportWords saves every word of a word file
func (p *Processor) ImportWords(filename string) error {
	entries, err := batch.ReadWordFile(filename)
	if err != nil {
		return err
	}
	deck, err := p.Deck()
	if err != nil {
		return err
	}

	added, err := deck.AddAll(batch.Words(entries))
	if err != nil {
		return fmt.Errorf("failed to import words: %w", err)
	}

	fmt.Fprintf(p.out, "Imported %d new words (%d in file, %d saved)\n", added, len(entries), deck.Len())
	return nil
}

// PrintFlashcards prints the deck with the known answers
func (p *Processor) PrintFlashcards() error {
	deck, err := p.Deck()
	if err != nil {
		return err
	}
	catalog, err := p.Catalog()
	if err != nil {
		return err
	}

	cards := deck.Cards()
	if len(cards) == 0 {
		fmt.Fprintln(p.out, "No flashcards yet. Save words while reading to create some.")
		return nil
	}

	for i, card := range cards {
		answer := flashcards.NoTranslation
		if entry, ok := catalog.Lookup(card.Word); ok {
			answer = entry.English
		}
		fmt.Fprintf(p.out, "%3d. %-20s %-25s %s\n", i+1, card.Word, answer, card.CreatedAt.Local().Format("2006-01-02"))
	}
	return nil
}

// ExportAnki writes the flashcards as an Anki CSV or APKG file
func (p *Processor) ExportAnki(path string) error {
	deck, err := p.Deck()
	if err != nil {
		return err
	}
	catalog, err := p.Catalog()
	if err != nil {
		return err
	}

	gen := anki.NewGenerator(viper.GetString("anki.deck_name"))
	for _, card := range deck.Cards() {
		entry, _ := catalog.Lookup(card.Word)
		gen.AddCard(anki.Card{
			French:        card.Word,
			English:       entry.English,
			Pronunciation: entry.Pronunciation,
			Example:       entry.Example,
		})
	}

	// A directory gets a package named after the deck
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, internal.SanitizeFilename(gen.DeckName())+".apkg")
	}

	if err := gen.Export(path); err != nil {
		return fmt.Errorf("failed to export flashcards: %w", err)
	}

	total, withTranslation := gen.Stats()
	fmt.Fprintf(p.out, "Exported %d cards (%d with translation) to %s\n", total, withTranslation, path)
	return nil
}

// ArchiveState moves the database aside, clearing all saved words
func (p *Processor) ArchiveState() error {
	if err := p.Close(); err != nil {
		return err
	}
	path, err := archive.ArchiveDatabase(stringSetting("storage.path", p.flags.StorePath))
	if err != nil {
		return fmt.Errorf("failed to archive database: %w", err)
	}
	fmt.Fprintf(p.out, "Database archived to: %s\n", path)
	return nil
}

// ClearDeck removes every saved word and flashcard
func (p *Processor) ClearDeck() error {
	deck, err := p.Deck()
	if err != nil {
		return err
	}
	n := deck.Len()
	if err := deck.Clear(); err != nil {
		return fmt.Errorf("failed to clear saved words: %w", err)
	}
	fmt.Fprintf(p.out, "Removed %d saved words\n", n)
	return nil
}

// ListVoices prints the French voices, marking the one that will be used
func (p *Processor) ListVoices(ctx context.Context) error {
	engine, err := p.Engine()
	if err != nil {
		return err
	}
	if !engine.Available() {
		return fmt.Errorf("speech synthesis is unavailable")
	}

	voices, err := engine.Voices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	var french []speech.Voice
	for _, v := range voices {
		if speech.IsFrench(v) {
			french = append(french, v)
		}
	}
	sort.SliceStable(french, func(i, j int) bool { return french[i].Name < french[j].Name })

	chosen := engine.Voice(ctx)
	fmt.Fprintf(p.out, "French voices (%d of %d):\n", len(french), len(voices))
	for _, v := range french {
		marker := " "
		if chosen != nil && chosen.ID == v.ID {
			marker = "*"
		}
		fmt.Fprintf(p.out, "%s %-30s %-8s %s\n", marker, v.Name, v.Lang, v.ID)
	}
	if chosen == nil {
		fmt.Fprintln(p.out, "No French voice found, the synthesizer default is used")
	}
	return nil
}

// ListModels prints the OpenAI models usable for speech and translation
func (p *Processor) ListModels(ctx context.Context) error {
	lister := models.NewLister(cli.GetOpenAIKey(), viper.GetString("openai.base_url"))
	return lister.ListAvailableModels(ctx, p.out)
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode(ctx context.Context) error {
	// The GUI shows component logs in its activity panel
	if p.logger == nil {
		p.logger = log.New(io.Discard, "", log.LstdFlags)
	}

	catalog, err := p.Catalog()
	if err != nil {
		return err
	}
	deck, err := p.Deck()
	if err != nil {
		return err
	}
	engine, err := p.Engine()
	if err != nil {
		return err
	}
	translator, err := p.Translator(ctx)
	if err != nil {
		// The reader still works without translations
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	app := gui.New(gui.Services{
		Catalog:    catalog,
		Deck:       deck,
		Bus:        p.bus,
		Translator: translator,
		Commons:    p.Commons(),
		Player:     p.Player(),
		Speech:     engine,
		Logger:     p.logger,
	})
	// Ctrl-C on the terminal closes the window
	stop := context.AfterFunc(ctx, app.Quit)
	defer stop()

	app.Run()
	return nil
}
