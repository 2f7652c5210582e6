// Package store provides the key-value persistence used for saved words
// and flashcards. Values are opaque strings; callers own their encoding.
package store
