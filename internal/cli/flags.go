package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	StorePath  string
	ContentDir string
	CacheDir   string
	Verbose    bool
	GUIMode    bool

	// Actions
	List       bool
	Article    string
	Translate  string
	Pronounce  string
	Save       string
	Flashcards bool
	Import     string
	ExportAnki string
	Archive    bool
	Clear      bool
	ListVoices bool
	ListModels bool

	// Speech flags
	SpeechProvider string
	Voice          string
	Rate           float64
	Pitch          float64
	Volume         float64

	// OpenAI TTS flags
	OpenAITTSModel    string
	OpenAIVoice       string
	OpenAIInstruction string

	// Translation flags
	TranslationProvider string
	OpenAIModel         string
	GeminiModel         string
	NoBreaker           bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		SpeechProvider:      "espeak",
		Rate:                0.9,
		Pitch:               1.1,
		Volume:              0.8,
		OpenAITTSModel:      "gpt-4o-mini-tts",
		OpenAIVoice:         "nova",
		TranslationProvider: "mymemory",
		OpenAIModel:         "gpt-4o-mini",
		GeminiModel:         "gemini-2.0-flash",
	}
}

// HasAction reports whether any non-GUI action was requested
func (f *Flags) HasAction() bool {
	return f.List || f.Article != "" || f.Translate != "" || f.Pronounce != "" ||
		f.Save != "" || f.Flashcards || f.Import != "" || f.ExportAnki != "" ||
		f.Archive || f.Clear || f.ListVoices || f.ListModels
}
