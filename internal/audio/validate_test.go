package audio

import "testing"

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"french word", "bonjour", false},
		{"accented word", "été", false},
		{"sentence", "Bonjour le monde.", false},
		{"number", "42", false},
		{"empty", "", true},
		{"whitespace", "  \t\n", true},
		{"punctuation only", "?!…", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
		})
	}
}
