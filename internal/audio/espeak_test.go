package audio

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"codeberg.org/snonux/lecteur/internal/speech"
)

func TestESpeakArgs(t *testing.T) {
	e := NewESpeak(nil)

	tests := []struct {
		name string
		u    speech.Utterance
		want string
	}{
		{
			name: "default tuning",
			u:    speech.Utterance{Text: "Bonjour", Rate: 0.9, Pitch: 1.1, Volume: 0.8},
			want: "-v fr -s 158 -p 55 -a 80 -- Bonjour",
		},
		{
			name: "explicit voice",
			u:    speech.Utterance{Text: "Salut", Voice: &speech.Voice{ID: "fr-be"}, Rate: 1, Pitch: 1, Volume: 1},
			want: "-v fr-be -s 175 -p 50 -a 100 -- Salut",
		},
		{
			name: "zero factors keep defaults",
			u:    speech.Utterance{Text: "Oui"},
			want: "-v fr -s 175 -p 50 -a 100 -- Oui",
		},
		{
			name: "clamped",
			u:    speech.Utterance{Text: "Non", Rate: 10, Pitch: 3, Volume: 5},
			want: "-v fr -s 450 -p 99 -a 200 -- Non",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.Join(e.args(tt.u), " "); got != tt.want {
				t.Errorf("args = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestESpeakWordGap(t *testing.T) {
	config := DefaultESpeakConfig()
	config.WordGap = 2
	e := NewESpeak(config)

	args := strings.Join(e.args(speech.Utterance{Text: "chat"}), " ")
	if !strings.Contains(args, "-g 2") {
		t.Errorf("Expected word gap in %q", args)
	}
}

func TestParseESpeakVoices(t *testing.T) {
	output := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  fr-be           --/M      French_(Belgium)   roa/fr-BE
 5  fr-ch           --/M      French_(Switzerland) roa/fr-CH
 5  fr-fr           --/M      French_(France)    roa/fr               (fr 5)
`
	voices := ParseESpeakVoices(output)

	if len(voices) != 3 {
		t.Fatalf("Expected 3 voices, got %d: %+v", len(voices), voices)
	}
	if voices[2].ID != "fr-fr" || voices[2].Name != "French (France)" || voices[2].Lang != "fr-fr" {
		t.Errorf("Unexpected voice: %+v", voices[2])
	}

	// The heuristic must accept espeak's naming
	if v, ok := speech.PickVoice(voices); !ok || v.ID != "fr-be" {
		t.Errorf("PickVoice = %+v, %v", v, ok)
	}
}

func TestESpeakSpeak(t *testing.T) {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		t.Skip("espeak-ng not installed")
	}

	e := NewESpeak(nil)
	if err := e.IsAvailable(); err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}

	stream, err := e.Start(context.Background(), speech.Utterance{Text: "bonjour", Rate: 2})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	stream.Cancel()
	if err := stream.Wait(); err != nil {
		t.Errorf("Cancelled stream reported %v", err)
	}
}

func TestESpeakRejectsEmptyText(t *testing.T) {
	e := NewESpeak(nil)
	if _, err := e.Start(context.Background(), speech.Utterance{Text: "  "}); err == nil {
		t.Error("Expected error for empty text")
	}
}
