package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

// Version is the application version
const Version = "0.4.1"

// HashKey returns the hex encoded md5 of the joined parts.
// Used to name cached audio clips.
func HashKey(parts ...string) string {
	hash := md5.Sum([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric accepts letters of any script, so accented French words survive
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
