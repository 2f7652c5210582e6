// Package flashcards keeps the set of saved words and the flashcard deck
// derived from it.
//
// A Deck owns the persisted state. Saving a word creates its card and
// unsaving it deletes the card, so the set of saved words and the set of
// card words are always equal. Every mutation is written to the key-value
// store before it becomes visible and is announced on the event bus with
// events.FlashcardsUpdated.
//
// A Review is a read-only cursor over the deck for the study screen:
// circular navigation, a flip state for the current card, and a refresh
// that keeps the displayed word when the deck changes underneath it.
package flashcards
