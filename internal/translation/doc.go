// Package translation provides best-effort French to English translation
// (MyMemory, OpenAI or Gemini) and the Wikimedia Commons lookup of recorded
// pronunciations. Calls never retry and never cache; every outcome is an
// explicit Result so callers can tell an empty translation from a failure.
package translation
