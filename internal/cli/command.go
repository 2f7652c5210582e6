package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/lecteur/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lecteur",
		Short: "French reading and flashcard companion",
		Long: `lecteur lets you read short French articles, tap words to hear
them, translate them and save them as flashcards for later review.

Examples:
  lecteur                          # Launch the reader GUI (default)
  lecteur --list                   # List modules and articles
  lecteur --article intro-1        # Print an article with saved words marked
  lecteur --translate bonjour      # Translate a word to English
  lecteur --save bonjour           # Save or unsave a word
  lecteur --import words.txt       # Save every word of a file`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultStateDir is where the database and clip cache live by default
func DefaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "lecteur")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	stateDir := DefaultStateDir()

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.lecteur.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log component activity to stderr")

	// Local flags
	cmd.Flags().StringVar(&flags.StorePath, "db", filepath.Join(stateDir, "lecteur.db"), "SQLite database holding saved words and flashcards")
	cmd.Flags().StringVar(&flags.ContentDir, "content-dir", "", "Directory with articles.json, modules.json and vocabulary.json (default: built-in content)")
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", filepath.Join(stateDir, "cache"), "Directory for downloaded and generated audio clips")

	// Actions
	cmd.Flags().BoolVarP(&flags.List, "list", "l", false, "List modules and their articles")
	cmd.Flags().StringVarP(&flags.Article, "article", "a", "", "Print the words of an article, marking saved ones")
	cmd.Flags().StringVarP(&flags.Translate, "translate", "t", "", "Translate a French word or phrase to English")
	cmd.Flags().StringVarP(&flags.Pronounce, "pronounce", "p", "", "Pronounce a word (Commons recording, else speech synthesis)")
	cmd.Flags().StringVarP(&flags.Save, "save", "s", "", "Toggle a word in the saved words")
	cmd.Flags().BoolVar(&flags.Flashcards, "flashcards", false, "Print the flashcard deck")
	cmd.Flags().StringVar(&flags.Import, "import", "", "Save words from file (one per line)")
	cmd.Flags().StringVar(&flags.ExportAnki, "export-anki", "", "Export the flashcards as an Anki CSV file")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the database aside with a timestamp, clearing all saved words")
	cmd.Flags().BoolVar(&flags.Clear, "clear", false, "Remove all saved words and flashcards without keeping a copy")
	cmd.Flags().BoolVar(&flags.ListVoices, "list-voices", false, "List the French voices of the speech provider")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Speech flags
	cmd.Flags().StringVar(&flags.SpeechProvider, "speech-provider", flags.SpeechProvider, "Speech synthesis: espeak, openai or none")
	cmd.Flags().StringVar(&flags.Voice, "voice", "", "Voice name or id (default: best French voice)")
	cmd.Flags().Float64Var(&flags.Rate, "rate", flags.Rate, "Speech rate (1.0 is normal)")
	cmd.Flags().Float64Var(&flags.Pitch, "pitch", flags.Pitch, "Speech pitch (1.0 is normal)")
	cmd.Flags().Float64Var(&flags.Volume, "volume", flags.Volume, "Speech volume (0.0 to 1.0)")

	// OpenAI TTS flags
	cmd.Flags().StringVar(&flags.OpenAITTSModel, "openai-tts-model", flags.OpenAITTSModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts (e.g., 'speak slowly and clearly')")

	// Translation flags
	cmd.Flags().StringVar(&flags.TranslationProvider, "translation-provider", flags.TranslationProvider, "Translation service: mymemory, openai or gemini")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model used for translation")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model used for translation")
	cmd.Flags().BoolVar(&flags.NoBreaker, "no-breaker", false, "Disable the circuit breaker around translation requests")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("storage.path", cmd.Flags().Lookup("db"))
	viper.BindPFlag("content.dir", cmd.Flags().Lookup("content-dir"))
	viper.BindPFlag("audio.cache_dir", cmd.Flags().Lookup("cache-dir"))
	viper.BindPFlag("speech.provider", cmd.Flags().Lookup("speech-provider"))
	viper.BindPFlag("speech.voice", cmd.Flags().Lookup("voice"))
	viper.BindPFlag("speech.rate", cmd.Flags().Lookup("rate"))
	viper.BindPFlag("speech.pitch", cmd.Flags().Lookup("pitch"))
	viper.BindPFlag("speech.volume", cmd.Flags().Lookup("volume"))
	viper.BindPFlag("audio.openai_model", cmd.Flags().Lookup("openai-tts-model"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_instruction", cmd.Flags().Lookup("openai-instruction"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("translation-provider"))
	viper.BindPFlag("translation.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("translation.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("translation.no_breaker", cmd.Flags().Lookup("no-breaker"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".lecteur" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lecteur")
	}

	// Environment variables
	viper.SetEnvPrefix("LECTEUR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("gemini.api_key")
}
