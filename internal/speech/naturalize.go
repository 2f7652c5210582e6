package speech

import (
	"strings"
	"unicode"
)

// pauseMarks get a following space so the synthesizer pauses on them
const pauseMarks = ".,;:?!"

// Naturalize prepares text for synthesis: a space after every pause mark
// and runs of whitespace collapsed into one space
func Naturalize(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)

	space := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
		if strings.ContainsRune(pauseMarks, r) {
			space = true
		}
	}
	return b.String()
}
