// Package corpus loads the local Quranic linguistic datasets into an
// in-memory SQLite database and exposes read-only lookup operations.
//
// The store is built once at process start and never mutated afterwards, so
// concurrent pipeline runs can share it without locking.
package corpus

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Paths locates the three JSONL corpus files.
type Paths struct {
	Morphology string
	Roots      string
	Dictionary string
}

// Store is the read-only corpus index.
type Store struct {
	db *sql.DB
}

// VerseRef identifies a verse by chapter and verse number.
type VerseRef struct {
	Surah int `json:"surah"`
	Ayah  int `json:"ayah"`
}

// Verse is a verse reference together with its reconstructed text.
type Verse struct {
	Surah int    `json:"surah"`
	Ayah  int    `json:"ayah"`
	Text  string `json:"text"`
}

// RootEntry is one record of the classical root-analysis dataset.
type RootEntry struct {
	Root     string
	Analysis string
}

// DictionaryEntry is one record of the Arabic dictionary dump.
type DictionaryEntry struct {
	Word       string
	Definition string
}

// Open loads the corpus files into a fresh in-memory database and builds the
// lookup indexes. The returned store is immutable: no write path exists after
// Open returns.
func Open(paths Paths) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating corpus schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.load(paths); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// schema contains the full corpus schema. Everything is populated during
// Open and read-only afterwards.
const schema = `
CREATE TABLE tokens (
    id INTEGER PRIMARY KEY,
    surah INTEGER NOT NULL,
    ayah INTEGER NOT NULL,
    word_index INTEGER NOT NULL,
    token_index INTEGER NOT NULL,
    token TEXT NOT NULL,
    lemma TEXT NOT NULL DEFAULT '',
    lemma_norm TEXT NOT NULL DEFAULT '',
    root TEXT NOT NULL DEFAULT '',
    root_norm TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_tokens_root ON tokens(root_norm);
CREATE INDEX idx_tokens_word ON tokens(surah, ayah, word_index);

CREATE TABLE words (
    id INTEGER PRIMARY KEY,
    surah INTEGER NOT NULL,
    ayah INTEGER NOT NULL,
    word_index INTEGER NOT NULL,
    surface TEXT NOT NULL,
    surface_norm TEXT NOT NULL
);
CREATE INDEX idx_words_pos ON words(surah, ayah, word_index);

CREATE TABLE word_forms (
    form TEXT NOT NULL,
    word_id INTEGER NOT NULL REFERENCES words(id)
);
CREATE INDEX idx_word_forms_form ON word_forms(form);

CREATE TABLE verses (
    surah INTEGER NOT NULL,
    ayah INTEGER NOT NULL,
    text TEXT NOT NULL,
    PRIMARY KEY (surah, ayah)
);

CREATE TABLE roots (
    root TEXT NOT NULL,
    root_norm TEXT NOT NULL,
    analysis TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_roots_norm ON roots(root_norm);

CREATE TABLE dictionary (
    word TEXT NOT NULL,
    word_norm TEXT NOT NULL,
    definition TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_dictionary_norm ON dictionary(word_norm);
`
