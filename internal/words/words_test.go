package words

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing comma", "Bonjour,", "bonjour"},
		{"already normalized", "bonjour", "bonjour"},
		{"question mark", "Pourquoi?", "pourquoi"},
		{"accented capitals", "ÉTÉ!", "été"},
		{"elision kept", "L'école.", "l'école"},
		{"only punctuation", "?!", ""},
		{"semicolon and colon", "voici:;", "voici"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Bonjour,", "MONDE.", "ça", "Très!", "", "déjà;"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeSameKey(t *testing.T) {
	if Normalize("Bonjour,") != Normalize("bonjour") {
		t.Error("Expected 'Bonjour,' and 'bonjour' to share a key")
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Bonjour le monde.")
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(tokens))
	}

	want := []Token{
		{Index: 0, Surface: "Bonjour", Key: "bonjour"},
		{Index: 1, Surface: "le", Key: "le"},
		{Index: 2, Surface: "monde.", Key: "monde"},
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tok, want[i])
		}
	}
}

func TestTokenizeCollapsesWhitespace(t *testing.T) {
	tokens := Tokenize("  Il  fait\nbeau.  ")
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(tokens))
	}
	if tokens[2].Index != 2 || tokens[2].Key != "beau" {
		t.Errorf("Unexpected last token: %+v", tokens[2])
	}
}
