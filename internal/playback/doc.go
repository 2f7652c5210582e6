// Package playback drives "read aloud" for a text: play, pause, resume,
// stop, and a simulated progress bar. Synthesizers do not report their
// position, so progress is the elapsed playing time over an estimate of
// the total duration. Scrubbing moves the bar only; audio is not seeked.
package playback
