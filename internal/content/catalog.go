package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"codeberg.org/snonux/lecteur/internal/words"
)

//go:embed data/*.json
var embedded embed.FS

const (
	articlesFile   = "articles.json"
	modulesFile    = "modules.json"
	vocabularyFile = "vocabulary.json"

	// minutesPerArticle is the reading time assumed for each article of a module
	minutesPerArticle = 3
)

// ErrArticleNotFound is returned for an unknown article id
var ErrArticleNotFound = errors.New("article not found")

// Article is one French reading text
type Article struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Level         string `json:"level"`
	DelfLevel     string `json:"delfLevel"`
	Topic         string `json:"topic"`
	EstimatedTime int    `json:"estimatedTime"` // minutes
}

// Module is an ordered group of articles at one DELF level
type Module struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DelfLevel   string   `json:"delfLevel"`
	Articles    []string `json:"articles"`
}

// EstimatedMinutes is the reading time of the whole module
func (m Module) EstimatedMinutes() int {
	return len(m.Articles) * minutesPerArticle
}

// VocabularyEntry is the glossary entry of one French word
type VocabularyEntry struct {
	English       string `json:"english"`
	Pronunciation string `json:"pronunciation"`
	Example       string `json:"example"`
}

// Catalog holds the loaded content. It is immutable after loading.
type Catalog struct {
	articles   []Article
	byID       map[string]int
	modules    []Module
	vocabulary map[string]VocabularyEntry
}

// LoadEmbedded loads the catalog compiled into the binary
func LoadEmbedded() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded content: %w", err)
	}
	return Load(sub)
}

// LoadDir loads the catalog from a directory containing articles.json,
// modules.json and vocabulary.json
func LoadDir(dir string) (*Catalog, error) {
	return Load(os.DirFS(dir))
}

// Load reads the three content files from fsys
func Load(fsys fs.FS) (*Catalog, error) {
	var articles struct {
		Articles []Article `json:"articles"`
	}
	if err := readJSON(fsys, articlesFile, &articles); err != nil {
		return nil, err
	}

	var modules struct {
		Modules []Module `json:"modules"`
	}
	if err := readJSON(fsys, modulesFile, &modules); err != nil {
		return nil, err
	}

	var vocabulary struct {
		Vocabulary map[string]VocabularyEntry `json:"vocabulary"`
	}
	if err := readJSON(fsys, vocabularyFile, &vocabulary); err != nil {
		return nil, err
	}

	c := &Catalog{
		articles:   articles.Articles,
		byID:       make(map[string]int, len(articles.Articles)),
		modules:    modules.Modules,
		vocabulary: make(map[string]VocabularyEntry, len(vocabulary.Vocabulary)),
	}
	for i, a := range c.articles {
		if a.ID == "" {
			return nil, fmt.Errorf("%s: article %d has no id", articlesFile, i)
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate article id %q", articlesFile, a.ID)
		}
		c.byID[a.ID] = i
	}
	for w, e := range vocabulary.Vocabulary {
		c.vocabulary[words.Normalize(w)] = e
	}

	return c, nil
}

func readJSON(fsys fs.FS, name string, v interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Articles returns all articles in file order
func (c *Catalog) Articles() []Article {
	return append([]Article(nil), c.articles...)
}

// Article returns the article with the given id
func (c *Catalog) Article(id string) (Article, error) {
	i, ok := c.byID[id]
	if !ok {
		return Article{}, fmt.Errorf("%w: %s", ErrArticleNotFound, id)
	}
	return c.articles[i], nil
}

// Modules returns all modules in file order
func (c *Catalog) Modules() []Module {
	return append([]Module(nil), c.modules...)
}

// Module returns the module with the given id
func (c *Catalog) Module(id string) (Module, bool) {
	for _, m := range c.modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// ModuleArticles resolves a module's article ids. Ids without an article
// are skipped.
func (c *Catalog) ModuleArticles(m Module) []Article {
	result := make([]Article, 0, len(m.Articles))
	for _, id := range m.Articles {
		if i, ok := c.byID[id]; ok {
			result = append(result, c.articles[i])
		}
	}
	return result
}

// Lookup returns the glossary entry of a word in any surface form
func (c *Catalog) Lookup(word string) (VocabularyEntry, bool) {
	e, ok := c.vocabulary[words.Normalize(word)]
	return e, ok
}

// VocabularySize returns the number of glossary entries
func (c *Catalog) VocabularySize() int {
	return len(c.vocabulary)
}
