package corpus

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Tameem1/quran-chatbot/internal/arabic"
)

// LookupDefinition finds a dictionary entry by normalized surface form.
// Returns nil when the word is not in the dictionary.
func (s *Store) LookupDefinition(word string) (*DictionaryEntry, error) {
	row := s.db.QueryRow(
		`SELECT word, definition FROM dictionary WHERE word_norm = ? LIMIT 1`,
		arabic.Normalize(word),
	)
	var e DictionaryEntry
	if err := row.Scan(&e.Word, &e.Definition); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("dictionary lookup for %q: %w", word, err)
	}
	return &e, nil
}

// LookupRoot finds a root-analysis entry by normalized root. Returns nil when
// the root is absent from the root index.
func (s *Store) LookupRoot(root string) (*RootEntry, error) {
	row := s.db.QueryRow(
		`SELECT root, analysis FROM roots WHERE root_norm = ? LIMIT 1`,
		arabic.Normalize(root),
	)
	var e RootEntry
	if err := row.Scan(&e.Root, &e.Analysis); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("root lookup for %q: %w", root, err)
	}
	return &e, nil
}

// KnownRoot reports whether the root appears in the root index or carries at
// least one corpus token. A root can be known yet occur zero times in the
// verse corpus; callers must keep that distinct from an unknown root.
func (s *Store) KnownRoot(root string) (bool, error) {
	entry, err := s.LookupRoot(root)
	if err != nil {
		return false, err
	}
	if entry != nil {
		return true, nil
	}
	var n int
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM tokens WHERE root_norm = ?`, arabic.Normalize(root),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("counting tokens for root %q: %w", root, err)
	}
	return n > 0, nil
}

// ResolveRoot derives the root of a surface word. When the target matches a
// corpus word, the root of its first root-bearing token is returned;
// otherwise the target itself is assumed to already be a root.
func (s *Store) ResolveRoot(target string) (string, error) {
	norm := arabic.Normalize(target)
	forms := arabic.Variants(norm)

	query := `SELECT t.root_norm FROM word_forms f
		JOIN words w ON w.id = f.word_id
		JOIN tokens t ON t.surah = w.surah AND t.ayah = w.ayah AND t.word_index = w.word_index
		WHERE f.form IN (` + placeholders(len(forms)) + `) AND t.root_norm <> ''
		ORDER BY w.id, t.token_index LIMIT 1`

	var root string
	err := s.db.QueryRow(query, formArgs(forms)...).Scan(&root)
	if err == sql.ErrNoRows {
		return norm, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolving root of %q: %w", target, err)
	}
	return root, nil
}

// CountTokensByRoot returns the exact number of corpus tokens carrying the
// root, plus the de-duplicated, canonically ordered verse references.
func (s *Store) CountTokensByRoot(root string) (int, []VerseRef, error) {
	norm := arabic.Normalize(root)

	var count int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM tokens WHERE root_norm = ?`, norm,
	).Scan(&count); err != nil {
		return 0, nil, fmt.Errorf("counting tokens for root %q: %w", root, err)
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT surah, ayah FROM tokens WHERE root_norm = ? ORDER BY surah, ayah`, norm,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("listing verses for root %q: %w", root, err)
	}
	defer rows.Close()

	refs, err := scanRefs(rows)
	if err != nil {
		return 0, nil, err
	}
	return count, refs, nil
}

// CountWordOccurrences returns the exact number of corpus words whose
// normalized surface matches the target (variant-tolerant), plus the verse
// references. Each corpus word is counted once even when several variants of
// the query match it.
func (s *Store) CountWordOccurrences(word string) (int, []VerseRef, error) {
	forms := arabic.Variants(arabic.Normalize(word))
	in := placeholders(len(forms))

	var count int
	if err := s.db.QueryRow(
		`SELECT COUNT(DISTINCT word_id) FROM word_forms WHERE form IN (`+in+`)`,
		formArgs(forms)...,
	).Scan(&count); err != nil {
		return 0, nil, fmt.Errorf("counting occurrences of %q: %w", word, err)
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT w.surah, w.ayah FROM word_forms f
		 JOIN words w ON w.id = f.word_id
		 WHERE f.form IN (`+in+`) ORDER BY w.surah, w.ayah`,
		formArgs(forms)...,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("listing verses for %q: %w", word, err)
	}
	defer rows.Close()

	refs, err := scanRefs(rows)
	if err != nil {
		return 0, nil, err
	}
	return count, refs, nil
}

// VersesByRoot returns every verse containing the root, ordered by canonical
// surah/ayah order. A surah of 0 means no chapter filter. An empty slice is a
// valid result: the root may be known yet absent from the verse corpus.
func (s *Store) VersesByRoot(root string, surah int) ([]Verse, error) {
	norm := arabic.Normalize(root)

	query := `SELECT DISTINCT v.surah, v.ayah, v.text FROM tokens t
		JOIN verses v ON v.surah = t.surah AND v.ayah = t.ayah
		WHERE t.root_norm = ?`
	args := []any{norm}
	if surah > 0 {
		query += ` AND v.surah = ?`
		args = append(args, surah)
	}
	query += ` ORDER BY v.surah, v.ayah`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing verses for root %q: %w", root, err)
	}
	defer rows.Close()

	var verses []Verse
	for rows.Next() {
		var v Verse
		if err := rows.Scan(&v.Surah, &v.Ayah, &v.Text); err != nil {
			return nil, fmt.Errorf("scanning verse: %w", err)
		}
		verses = append(verses, v)
	}
	return verses, rows.Err()
}

// Forms returns the distinct surface forms recorded for the root, ordered by
// first corpus appearance.
func (s *Store) Forms(root string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT w.surface FROM words w
		 JOIN tokens t ON t.surah = w.surah AND t.ayah = w.ayah AND t.word_index = w.word_index
		 WHERE t.root_norm = ?
		 GROUP BY w.surface
		 ORDER BY MIN(w.id)`,
		arabic.Normalize(root),
	)
	if err != nil {
		return nil, fmt.Errorf("listing forms for root %q: %w", root, err)
	}
	defer rows.Close()

	var forms []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scanning form: %w", err)
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// Stats summarizes the loaded corpus, mainly for startup logging and the
// capabilities endpoint.
type Stats struct {
	Tokens     int `json:"tokens"`
	Verses     int `json:"verses"`
	Roots      int `json:"roots"`
	Dictionary int `json:"dictionary_entries"`
}

func (s *Store) Stats() (Stats, error) {
	var st Stats
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"tokens", &st.Tokens},
		{"verses", &st.Verses},
		{"roots", &st.Roots},
		{"dictionary", &st.Dictionary},
	} {
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM ` + q.table).Scan(q.dst); err != nil {
			return Stats{}, fmt.Errorf("counting %s: %w", q.table, err)
		}
	}
	return st, nil
}

func scanRefs(rows *sql.Rows) ([]VerseRef, error) {
	var refs []VerseRef
	for rows.Next() {
		var r VerseRef
		if err := rows.Scan(&r.Surah, &r.Ayah); err != nil {
			return nil, fmt.Errorf("scanning verse reference: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func formArgs(forms map[string]bool) []any {
	args := make([]any, 0, len(forms))
	for f := range forms {
		args = append(args, f)
	}
	return args
}
