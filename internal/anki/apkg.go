package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// collectionSchema is the subset of the Anki 2.1 collection schema needed for import
const collectionSchema = `
CREATE TABLE col (
	id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
	scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
	usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
	models text NOT NULL, decks text NOT NULL, dconf text NOT NULL, tags text NOT NULL
);
CREATE TABLE notes (
	id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
	mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
	flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
	flags integer NOT NULL, data text NOT NULL
);
CREATE TABLE cards (
	id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
	ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
	type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
	ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
	lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
	odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
);
CREATE TABLE revlog (
	id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
	ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
	factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
);
CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_revlog_cid ON revlog (cid);
`

var noteFields = []string{"French", "English", "Pronunciation", "Example"}

const (
	frontTemplate = `<div class="french">{{French}}</div>`
	backTemplate  = `{{FrontSide}}
<hr id="answer">
<div class="english">{{English}}</div>
{{#Pronunciation}}<div class="hint">{{Pronunciation}}</div>{{/Pronunciation}}
{{#Example}}<div class="example">{{Example}}</div>{{/Example}}`
	reverseFront = `<div class="english">{{English}}</div>`
	reverseBack  = `{{FrontSide}}
<hr id="answer">
<div class="french">{{French}}</div>
{{#Example}}<div class="example">{{Example}}</div>{{/Example}}`
	cardCSS = `.card { font-family: Arial, sans-serif; font-size: 20px; text-align: center; }
.french { font-size: 32px; font-weight: bold; color: #1d4ed8; }
.english { font-size: 28px; }
.hint, .example { font-size: 16px; color: #6b7280; font-style: italic; }`
)

// GenerateAPKG creates an .apkg package importable by Anki
func (g *Generator) GenerateAPKG(path string) error {
	tempDir, err := os.MkdirTemp("", "lecteur_anki_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.writeCollection(dbPath, time.Now()); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	// No media is bundled
	if err := os.WriteFile(filepath.Join(tempDir, "media"), []byte("{}"), 0644); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	if err := zipFiles(path, tempDir, "collection.anki2", "media"); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

func (g *Generator) writeCollection(dbPath string, now time.Time) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	deckID := now.UnixMilli()
	modelID := deckID + 1

	conf, models, decks, dconf, err := g.collectionJSON(deckID, modelID, now.Unix())
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT INTO col VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now.Unix(), now.UnixMilli(), now.UnixMilli(), conf, models, decks, dconf)
	if err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, card := range g.cards {
		// Leave room for the forward and reverse card ids
		noteID := deckID + 10 + int64(i*3)
		fields := strings.Join([]string{card.French, card.English, card.Pronunciation, card.Example}, "\x1f")
		guid := "lecteur_" + card.French

		_, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, -1, '', ?, ?, 0, 0, '')`,
			noteID, guid, modelID, now.Unix(), fields, card.French)
		if err != nil {
			return fmt.Errorf("failed to insert note %q: %w", card.French, err)
		}

		for ord := 0; ord < 2; ord++ {
			cardID := noteID + 1 + int64(ord)
			_, err := tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
				cardID, noteID, deckID, ord, now.Unix(), i*2+ord+1)
			if err != nil {
				return fmt.Errorf("failed to insert card %q: %w", card.French, err)
			}
		}
	}

	return tx.Commit()
}

func (g *Generator) collectionJSON(deckID, modelID, now int64) (conf, models, decks, dconf string, err error) {
	deck := func(id int64, name string) map[string]any {
		return map[string]any{
			"id": id, "name": name, "mod": now, "desc": "", "collapsed": false,
			"dyn": 0, "conf": 1, "usn": 0, "extendNew": 10, "extendRev": 50,
			"newToday": []int{0, 0}, "revToday": []int{0, 0},
			"lrnToday": []int{0, 0}, "timeToday": []int{0, 0},
		}
	}

	flds := make([]map[string]any, len(noteFields))
	for i, name := range noteFields {
		flds[i] = map[string]any{"name": name, "ord": i, "sticky": false, "rtl": false, "font": "Arial", "size": 20, "media": []string{}}
	}

	model := map[string]any{
		"id": modelID, "name": "lecteur (French/English)", "type": 0, "mod": now,
		"usn": -1, "sortf": 0, "did": deckID, "tags": []string{}, "vers": []int{},
		"req":  []any{[]any{0, "all", []int{0}}, []any{1, "all", []int{1}}},
		"flds": flds,
		"tmpls": []map[string]any{
			{"name": "French → English", "ord": 0, "qfmt": frontTemplate, "afmt": backTemplate, "did": nil, "bqfmt": "", "bafmt": ""},
			{"name": "English → French", "ord": 1, "qfmt": reverseFront, "afmt": reverseBack, "did": nil, "bqfmt": "", "bafmt": ""},
		},
		"css":       cardCSS,
		"latexPre":  `\documentclass[12pt]{article}\begin{document}`,
		"latexPost": `\end{document}`,
	}

	parts := []any{
		map[string]any{
			"nextPos": 1, "estTimes": true, "activeDecks": []int64{1}, "sortType": "noteFld",
			"sortBackwards": false, "addToCur": true, "curDeck": 1, "newSpread": 0,
			"dueCounts": true, "collapseTime": 1200, "timeLim": 0, "schedVer": 1,
			"curModel": strconv.FormatInt(modelID, 10),
		},
		map[string]any{strconv.FormatInt(modelID, 10): model},
		map[string]any{"1": deck(1, "Default"), strconv.FormatInt(deckID, 10): deck(deckID, g.deckName)},
		map[string]any{"1": map[string]any{
			"id": 1, "name": "Default", "dyn": 0, "usn": 0, "mod": now, "timer": 0,
			"maxTaken": 60, "autoplay": true, "replayq": true,
			"new":   map[string]any{"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500, "perDay": 20, "order": 1, "bury": true, "separate": true},
			"lapse": map[string]any{"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0},
			"rev":   map[string]any{"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500, "ivlFct": 1, "bury": true, "minSpace": 1},
		}},
	}

	out := make([]string, len(parts))
	for i, part := range parts {
		data, err := json.Marshal(part)
		if err != nil {
			return "", "", "", "", fmt.Errorf("failed to encode collection: %w", err)
		}
		out[i] = string(data)
	}
	return out[0], out[1], out[2], out[3], nil
}

// zipFiles writes the named files of dir into a zip archive at path
func zipFiles(path, dir string, names ...string) error {
	zipFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)
	for _, name := range names {
		if err := addToZip(archive, filepath.Join(dir, name), name); err != nil {
			archive.Close()
			return err
		}
	}
	if err := archive.Close(); err != nil {
		return err
	}
	return zipFile.Close()
}

func addToZip(archive *zip.Writer, src, name string) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}
