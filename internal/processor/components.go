package processor

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"codeberg.org/snonux/lecteur/internal/audio"
	"codeberg.org/snonux/lecteur/internal/cli"
	"codeberg.org/snonux/lecteur/internal/content"
	"codeberg.org/snonux/lecteur/internal/flashcards"
	"codeberg.org/snonux/lecteur/internal/speech"
	"codeberg.org/snonux/lecteur/internal/store"
	"codeberg.org/snonux/lecteur/internal/translation"
)

// Config values come from viper when set there (changed flag, config file
// or LECTEUR_* variable) and from the flag defaults otherwise.

func stringSetting(key, fallback string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return fallback
}

func floatSetting(key string, fallback float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return fallback
}

func boolSetting(key string, fallback bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}

// Catalog loads the article catalog
func (p *Processor) Catalog() (*content.Catalog, error) {
	if p.catalog != nil {
		return p.catalog, nil
	}

	var (
		catalog *content.Catalog
		err     error
	)
	if dir := stringSetting("content.dir", p.flags.ContentDir); dir != "" {
		catalog, err = content.LoadDir(dir)
	} else {
		catalog, err = content.LoadEmbedded()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	p.catalog = catalog
	return catalog, nil
}

// Deck opens the state database and loads the saved words
func (p *Processor) Deck() (*flashcards.Deck, error) {
	if p.deck != nil {
		return p.deck, nil
	}

	kv, err := store.Open(stringSetting("storage.path", p.flags.StorePath))
	if err != nil {
		return nil, err
	}
	p.kv = kv

	deck := flashcards.NewDeck(kv, p.bus)
	deck.Logger = p.logger
	deck.Load()
	p.deck = deck
	return deck, nil
}

// Translator builds the configured translation client
func (p *Processor) Translator(ctx context.Context) (translation.Translator, error) {
	if p.translator != nil {
		return p.translator, nil
	}

	config := translation.DefaultConfig()
	config.Provider = stringSetting("translation.provider", p.flags.TranslationProvider)
	config.Endpoint = viper.GetString("translation.endpoint")
	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIModel = stringSetting("translation.openai_model", p.flags.OpenAIModel)
	config.GeminiKey = cli.GetGeminiKey()
	config.GeminiModel = stringSetting("translation.gemini_model", p.flags.GeminiModel)
	config.Breaker = !boolSetting("translation.no_breaker", p.flags.NoBreaker)
	config.Timeout = viper.GetDuration("translation.timeout")

	translator, err := translation.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}
	p.translator = translator
	return translator, nil
}

// Commons returns the Wikimedia Commons pronunciation client
func (p *Processor) Commons() *translation.Commons {
	if p.commons == nil {
		p.commons = translation.NewCommons(
			viper.GetString("audio.commons_endpoint"),
			translation.NewHTTPClient(viper.GetDuration("translation.timeout")),
		)
	}
	return p.commons
}

// Player returns the audio clip player
func (p *Processor) Player() *audio.Player {
	if p.player == nil {
		p.player = audio.NewPlayer(stringSetting("audio.cache_dir", p.flags.CacheDir))
		p.player.Logger = p.logger
	}
	return p.player
}

// Engine builds the speech engine for the configured synthesizer
func (p *Processor) Engine() (*speech.Engine, error) {
	if p.engine != nil {
		return p.engine, nil
	}

	synth, err := p.synthesizer()
	if err != nil {
		return nil, err
	}

	settings := speech.DefaultSettings()
	settings.Rate = floatSetting("speech.rate", p.flags.Rate)
	settings.Pitch = floatSetting("speech.pitch", p.flags.Pitch)
	settings.Volume = floatSetting("speech.volume", p.flags.Volume)
	settings.Voice = stringSetting("speech.voice", p.flags.Voice)

	engine := speech.NewEngine(synth, settings)
	engine.Logger = p.logger
	p.engine = engine
	return engine, nil
}

func (p *Processor) synthesizer() (speech.Synthesizer, error) {
	config := audio.DefaultConfig()
	config.Provider = stringSetting("speech.provider", p.flags.SpeechProvider)
	config.CacheDir = stringSetting("audio.cache_dir", p.flags.CacheDir)
	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIBaseURL = viper.GetString("openai.base_url")
	config.OpenAIModel = stringSetting("audio.openai_model", p.flags.OpenAITTSModel)
	config.OpenAIVoice = stringSetting("audio.openai_voice", p.flags.OpenAIVoice)
	if instruction := stringSetting("audio.openai_instruction", p.flags.OpenAIInstruction); instruction != "" {
		config.OpenAIInstruction = instruction
	}
	if voice := viper.GetString("audio.espeak_voice"); voice != "" {
		config.ESpeak.Voice = voice
	}

	if config.Provider != "openai" {
		return audio.NewSynthesizer(config, p.Player())
	}

	// OpenAI speech falls back to espeak-ng when the API is unusable
	fallback := audio.NewESpeak(config.ESpeak)
	primary, err := audio.NewSynthesizer(config, p.Player())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using %s\n", err, fallback.Name())
		return fallback, nil
	}
	return audio.NewSynthesizerWithFallback(primary, fallback), nil
}
