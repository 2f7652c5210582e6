package speech

import "strings"

// preferredVoices are searched in order; the first name contained in a
// French voice's name wins
var preferredVoices = []string{
	// Premium and neural voices
	"Amélie", "Thomas", "Audrey", "Marie", "Hélène", "Yannick",
	"Google français", "Microsoft Amélie", "Microsoft Thomas",
	"Microsoft Audrey", "Microsoft Marie", "Microsoft Hélène",

	// System voices
	"Alex", "Samantha", "Victoria", "Daniel", "Fiona", "Moira",
	"Tessa", "Veena", "Rishi", "Lekha", "Maged", "Tarik",

	// Generic labels
	"French", "Français", "France", "French Female", "French Male",
	"Google UK English Female", "Google UK English Male",
	"Microsoft David", "Microsoft Zira", "Microsoft Mark",

	"Karen", "Karen (Enhanced)", "Karen (Premium)",
	"Samantha (Enhanced)", "Samantha (Premium)",
	"Alex (Enhanced)", "Alex (Premium)",
}

var qualityTerms = []string{"enhanced", "premium", "neural", "google", "microsoft"}

// IsFrench reports whether a voice is tagged as French
func IsFrench(v Voice) bool {
	lang := strings.ToLower(v.Lang)
	name := strings.ToLower(v.Name)
	return strings.HasPrefix(lang, "fr") ||
		strings.Contains(lang, "french") ||
		strings.Contains(name, "french") ||
		strings.Contains(name, "français")
}

// PickVoice chooses the most natural French voice. It reports false when
// no French voice is installed and the platform default should be used.
func PickVoice(voices []Voice) (Voice, bool) {
	var french []Voice
	for _, v := range voices {
		if IsFrench(v) {
			french = append(french, v)
		}
	}
	if len(french) == 0 {
		return Voice{}, false
	}

	for _, preferred := range preferredVoices {
		p := strings.ToLower(preferred)
		for _, v := range french {
			name := strings.ToLower(v.Name)
			if name == p || strings.Contains(name, p) {
				return v, true
			}
		}
	}

	for _, v := range french {
		name := strings.ToLower(v.Name)
		for _, term := range qualityTerms {
			if strings.Contains(name, term) {
				return v, true
			}
		}
	}

	return french[0], true
}

// FindVoice returns the voice whose id or name equals nameOrID, ignoring case
func FindVoice(voices []Voice, nameOrID string) (Voice, bool) {
	for _, v := range voices {
		if strings.EqualFold(v.ID, nameOrID) || strings.EqualFold(v.Name, nameOrID) {
			return v, true
		}
	}
	return Voice{}, false
}
