// Package content provides the read-only reading material: articles,
// the modules that group them, and the vocabulary glossary used on the
// back of flashcards. The default catalog is compiled into the binary; a
// directory with the same three JSON files can replace it.
package content
