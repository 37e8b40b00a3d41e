package corpus

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Tameem1/quran-chatbot/internal/arabic"
)

// tokenRecord is one line of the morphology JSONL file.
type tokenRecord struct {
	Surah      int    `json:"surah"`
	Ayah       int    `json:"ayah"`
	WordIndex  int    `json:"word_index"`
	TokenIndex int    `json:"token_index"`
	Token      string `json:"token"`
	Lemma      string `json:"lemma"`
	Root       string `json:"root"`
}

type wordKey struct {
	surah, ayah, wordIndex int
}

func (s *Store) load(paths Paths) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning corpus load: %w", err)
	}
	defer tx.Rollback()

	if err := loadMorphology(tx, paths.Morphology); err != nil {
		return err
	}
	if err := loadRoots(tx, paths.Roots); err != nil {
		return err
	}
	if err := loadDictionary(tx, paths.Dictionary); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing corpus load: %w", err)
	}
	return nil
}

// loadMorphology inserts every token, then derives words (concatenated token
// groups), their orthographic variant forms, and full verse texts.
func loadMorphology(tx *sql.Tx, path string) error {
	var tokens []tokenRecord
	if err := eachLine(path, func(line []byte) error {
		var tok tokenRecord
		if err := json.Unmarshal(line, &tok); err != nil {
			return fmt.Errorf("decoding morphology record: %w", err)
		}
		tokens = append(tokens, tok)
		return nil
	}); err != nil {
		return err
	}

	insertTok, err := tx.Prepare(`INSERT INTO tokens
		(surah, ayah, word_index, token_index, token, lemma, lemma_norm, root, root_norm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing token insert: %w", err)
	}
	defer insertTok.Close()

	groups := make(map[wordKey][]tokenRecord)
	for _, tok := range tokens {
		if _, err := insertTok.Exec(
			tok.Surah, tok.Ayah, tok.WordIndex, tok.TokenIndex, tok.Token,
			tok.Lemma, arabic.Normalize(tok.Lemma),
			tok.Root, arabic.Normalize(tok.Root),
		); err != nil {
			return fmt.Errorf("inserting token: %w", err)
		}
		key := wordKey{tok.Surah, tok.Ayah, tok.WordIndex}
		groups[key] = append(groups[key], tok)
	}

	insertWord, err := tx.Prepare(`INSERT INTO words
		(surah, ayah, word_index, surface, surface_norm) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing word insert: %w", err)
	}
	defer insertWord.Close()

	insertForm, err := tx.Prepare(`INSERT INTO word_forms (form, word_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing word form insert: %w", err)
	}
	defer insertForm.Close()

	keys := make([]wordKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.surah != b.surah {
			return a.surah < b.surah
		}
		if a.ayah != b.ayah {
			return a.ayah < b.ayah
		}
		return a.wordIndex < b.wordIndex
	})

	verseWords := make(map[VerseRef][]string)
	for _, key := range keys {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool { return group[i].TokenIndex < group[j].TokenIndex })

		var surface strings.Builder
		for _, tok := range group {
			surface.WriteString(tok.Token)
		}
		norm := arabic.Normalize(surface.String())

		res, err := insertWord.Exec(key.surah, key.ayah, key.wordIndex, surface.String(), norm)
		if err != nil {
			return fmt.Errorf("inserting word: %w", err)
		}
		wordID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading word id: %w", err)
		}

		for form := range arabic.Variants(norm) {
			if _, err := insertForm.Exec(form, wordID); err != nil {
				return fmt.Errorf("inserting word form: %w", err)
			}
		}

		ref := VerseRef{Surah: key.surah, Ayah: key.ayah}
		verseWords[ref] = append(verseWords[ref], surface.String())
	}

	insertVerse, err := tx.Prepare(`INSERT INTO verses (surah, ayah, text) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing verse insert: %w", err)
	}
	defer insertVerse.Close()

	for ref, words := range verseWords {
		if _, err := insertVerse.Exec(ref.Surah, ref.Ayah, strings.Join(words, " ")); err != nil {
			return fmt.Errorf("inserting verse %d:%d: %w", ref.Surah, ref.Ayah, err)
		}
	}
	return nil
}

// loadRoots reads the root analysis dump. Each record keeps its root plus a
// flattened "key: value" rendering of the remaining fields; the analysis text
// is embedded verbatim into prompts, so nothing is paraphrased here.
func loadRoots(tx *sql.Tx, path string) error {
	insert, err := tx.Prepare(`INSERT INTO roots (root, root_norm, analysis) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing root insert: %w", err)
	}
	defer insert.Close()

	return eachLine(path, func(line []byte) error {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("decoding root record: %w", err)
		}

		root, _ := entry["root_stripped"].(string)
		if root == "" {
			root, _ = entry["root"].(string)
		}
		if root == "" {
			return nil
		}

		analysis := flattenFields(entry, "root", "root_stripped", "#")
		if _, err := insert.Exec(root, arabic.Normalize(root), analysis); err != nil {
			return fmt.Errorf("inserting root %q: %w", root, err)
		}
		return nil
	})
}

func loadDictionary(tx *sql.Tx, path string) error {
	insert, err := tx.Prepare(`INSERT INTO dictionary (word, word_norm, definition) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing dictionary insert: %w", err)
	}
	defer insert.Close()

	return eachLine(path, func(line []byte) error {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("decoding dictionary record: %w", err)
		}

		word, _ := entry["word"].(string)
		if word == "" {
			return nil
		}

		definition, _ := entry["definition"].(string)
		if definition == "" {
			definition, _ = entry["meaning"].(string)
		}
		if definition == "" {
			definition = flattenFields(entry, "word")
		}

		if _, err := insert.Exec(word, arabic.Normalize(word), definition); err != nil {
			return fmt.Errorf("inserting dictionary entry %q: %w", word, err)
		}
		return nil
	})
}

// flattenFields renders the non-excluded fields of a record as sorted
// "key: value" lines.
func flattenFields(entry map[string]any, exclude ...string) string {
	skip := make(map[string]bool, len(exclude))
	for _, k := range exclude {
		skip[k] = true
	}

	keys := make([]string, 0, len(entry))
	for k := range entry {
		if !skip[k] && entry[k] != nil && entry[k] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, entry[k]))
	}
	return strings.Join(lines, "\n")
}

// eachLine streams a JSONL file line by line, skipping blanks.
func eachLine(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening corpus file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn([]byte(line)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
