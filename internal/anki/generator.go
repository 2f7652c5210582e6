package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Card represents a single Anki flashcard
type Card struct {
	French        string // The French word
	English       string // Translation, empty when unknown
	Pronunciation string // Optional pronunciation hint
	Example       string // Optional example sentence
}

// DefaultDeckName names the deck of APKG exports
const DefaultDeckName = "French Vocabulary"

// Generator creates Anki-compatible import files
type Generator struct {
	deckName string
	cards    []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(deckName string) *Generator {
	if deckName == "" {
		deckName = DefaultDeckName
	}
	return &Generator{deckName: deckName}
}

// DeckName returns the name of the exported deck
func (g *Generator) DeckName() string {
	return g.deckName
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// Cards returns the collected cards
func (g *Generator) Cards() []Card {
	return g.cards
}

// Export writes an .apkg package when path ends in .apkg and a CSV file otherwise
func (g *Generator) Export(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".apkg") {
		return g.GenerateAPKG(path)
	}
	return g.GenerateCSV(path)
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"French", "English", "Pronunciation", "Example"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, card := range g.cards {
		record := []string{card.French, card.English, card.Pronunciation, card.Example}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return file.Close()
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withTranslation int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.English != "" {
			withTranslation++
		}
	}
	return
}
