package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"SpeechProvider", flags.SpeechProvider, "espeak"},
		{"Rate", flags.Rate, 0.9},
		{"Pitch", flags.Pitch, 1.1},
		{"Volume", flags.Volume, 0.8},
		{"OpenAITTSModel", flags.OpenAITTSModel, "gpt-4o-mini-tts"},
		{"OpenAIVoice", flags.OpenAIVoice, "nova"},
		{"TranslationProvider", flags.TranslationProvider, "mymemory"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.0-flash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if flags.HasAction() {
		t.Error("Fresh flags should not request any action")
	}
}

func TestHasAction(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Flags)
	}{
		{"list", func(f *Flags) { f.List = true }},
		{"article", func(f *Flags) { f.Article = "intro-1" }},
		{"translate", func(f *Flags) { f.Translate = "bonjour" }},
		{"pronounce", func(f *Flags) { f.Pronounce = "bonjour" }},
		{"save", func(f *Flags) { f.Save = "bonjour" }},
		{"flashcards", func(f *Flags) { f.Flashcards = true }},
		{"import", func(f *Flags) { f.Import = "words.txt" }},
		{"export", func(f *Flags) { f.ExportAnki = "deck.csv" }},
		{"archive", func(f *Flags) { f.Archive = true }},
		{"clear", func(f *Flags) { f.Clear = true }},
		{"voices", func(f *Flags) { f.ListVoices = true }},
		{"models", func(f *Flags) { f.ListModels = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := NewFlags()
			tt.set(flags)
			if !flags.HasAction() {
				t.Errorf("HasAction() = false after setting %s", tt.name)
			}
		})
	}
}

func TestFlagsStructure(t *testing.T) {
	flagsType := reflect.TypeOf(Flags{})

	expectedFields := []string{
		"CfgFile", "StorePath", "ContentDir", "CacheDir", "Verbose", "GUIMode",
		"List", "Article", "Translate", "Pronounce", "Save", "Flashcards",
		"Import", "ExportAnki", "Archive", "Clear", "ListVoices", "ListModels",
		"SpeechProvider", "Voice", "Rate", "Pitch", "Volume",
		"OpenAITTSModel", "OpenAIVoice", "OpenAIInstruction",
		"TranslationProvider", "OpenAIModel", "GeminiModel", "NoBreaker",
	}

	for _, fieldName := range expectedFields {
		t.Run("has_field_"+fieldName, func(t *testing.T) {
			if _, ok := flagsType.FieldByName(fieldName); !ok {
				t.Errorf("Flags struct missing field: %s", fieldName)
			}
		})
	}
}
