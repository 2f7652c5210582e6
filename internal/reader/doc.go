// Package reader implements the interactions of the article reading view:
// a single active word, saving words, pronouncing them, translating a word
// or the whole article, and reading the article aloud.
//
// Translations are fetched without holding any lock and stored when they
// arrive. A translation that arrives after the view was closed is applied
// to a controller nobody looks at any more; this is harmless and left
// unguarded.
package reader
