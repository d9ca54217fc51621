// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// maxPhrase is the longest run of words looked up as one glossary entry.
const maxPhrase = 4

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)

// Glossary is an offline backend that substitutes words and short phrases
// from a SQLite dictionary. Each entry maps a term in one language to its
// English rendering. Unknown words pass through unchanged.
type Glossary struct {
	db *sql.DB
}

// GlossaryFile is the YAML import format:
//
//	language: es
//	entries:
//	  mercados de carbono: carbon markets
//	  cómo: how
type GlossaryFile struct {
	Language string            `yaml:"language"`
	Entries  map[string]string `yaml:"entries"`
}

// ImportSummary holds counts from a glossary import.
type ImportSummary struct {
	Language types.LanguageCode
	Imported int
	Skipped  int
}

// OpenGlossary opens or creates the dictionary at path.
func OpenGlossary(path string) (*Glossary, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating glossary directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening glossary: %w", err)
	}

	g := &Glossary{db: db}
	if err := g.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating glossary schema: %w", err)
	}
	return g, nil
}

// Close releases the database connection.
func (g *Glossary) Close() error {
	return g.db.Close()
}

func (g *Glossary) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			lang TEXT NOT NULL,
			term TEXT NOT NULL,
			english TEXT NOT NULL,
			PRIMARY KEY (lang, term)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_english ON entries(lang, english)`,
	}
	for _, stmt := range statements {
		if _, err := g.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Name returns the backend identifier.
func (g *Glossary) Name() string { return string(types.TranslationGlossary) }

// Import reads a GlossaryFile from r and upserts its entries.
func (g *Glossary) Import(ctx context.Context, r io.Reader) (ImportSummary, error) {
	var file GlossaryFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return ImportSummary{}, fmt.Errorf("parsing glossary: %w", err)
	}

	lang, err := NormalizeCode(file.Language)
	if err != nil {
		return ImportSummary{}, err
	}
	if lang == types.English {
		return ImportSummary{}, fmt.Errorf("%w: glossary language must not be English", ErrUnsupportedLanguage)
	}
	if len(file.Entries) == 0 {
		return ImportSummary{}, errors.New("glossary has no entries")
	}

	terms := make([]string, 0, len(file.Entries))
	for term := range file.Entries {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	summary := ImportSummary{Language: lang}
	for _, term := range terms {
		key, english := normalizePhrase(term), normalizePhrase(file.Entries[term])
		if key == "" || english == "" {
			summary.Skipped++
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (lang, term, english) VALUES (?, ?, ?)
			 ON CONFLICT(lang, term) DO UPDATE SET english = excluded.english`,
			string(lang), key, english,
		); err != nil {
			return ImportSummary{}, fmt.Errorf("inserting %q: %w", term, err)
		}
		summary.Imported++
	}

	if err := tx.Commit(); err != nil {
		return ImportSummary{}, fmt.Errorf("committing glossary: %w", err)
	}
	return summary, nil
}

// ImportFile imports the glossary YAML at path.
func (g *Glossary) ImportFile(ctx context.Context, path string) (ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return g.Import(ctx, f)
}

// Languages lists English plus every language with at least one entry.
func (g *Glossary) Languages(ctx context.Context) ([]types.LanguageCode, error) {
	rows, err := g.db.QueryContext(ctx, `SELECT DISTINCT lang FROM entries ORDER BY lang`)
	if err != nil {
		return nil, fmt.Errorf("listing glossary languages: %w", err)
	}
	defer rows.Close()

	codes := []types.LanguageCode{types.English}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, types.LanguageCode(code))
	}
	return codes, rows.Err()
}

// Translate substitutes glossary entries into text. Translation between two
// non-English languages pivots through English.
func (g *Glossary) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == target {
		return text, nil
	}
	if source == AutoDetect {
		return "", fmt.Errorf("%w: glossary needs a known source language", ErrUnsupportedLanguage)
	}
	en := string(types.English)
	if source != en && target != en {
		pivot, err := g.Translate(ctx, text, source, en)
		if err != nil {
			return "", err
		}
		return g.Translate(ctx, pivot, en, target)
	}

	lang, query := source, `SELECT english FROM entries WHERE lang = ? AND term = ?`
	if source == en {
		lang, query = target, `SELECT term FROM entries WHERE lang = ? AND english = ? ORDER BY term LIMIT 1`
	}

	var n int
	if err := g.db.QueryRowContext(ctx, `SELECT count(*) FROM entries WHERE lang = ?`, lang).Scan(&n); err != nil {
		return "", fmt.Errorf("checking glossary: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: no glossary for %q", ErrUnsupportedLanguage, lang)
	}

	stmt, err := g.db.PrepareContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("preparing lookup: %w", err)
	}
	defer stmt.Close()

	lookup := func(phrase string) (string, bool, error) {
		var out string
		err := stmt.QueryRowContext(ctx, lang, phrase).Scan(&out)
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return out, true, nil
	}
	return substitute(text, lookup)
}

// substitute walks the words of text left to right, replacing the longest
// phrase (up to maxPhrase words separated only by spaces) that lookup knows.
// Separators and unmatched words are copied through.
func substitute(text string, lookup func(string) (string, bool, error)) (string, error) {
	spans := wordRe.FindAllStringIndex(text, -1)
	var b strings.Builder
	last := 0

	for i := 0; i < len(spans); {
		matched := 0
		var replacement string
		for n := min(maxPhrase, len(spans)-i); n >= 1; n-- {
			if !spaced(text, spans[i:i+n]) {
				continue
			}
			phrase := normalizePhrase(text[spans[i][0]:spans[i+n-1][1]])
			out, ok, err := lookup(phrase)
			if err != nil {
				return "", fmt.Errorf("looking up %q: %w", phrase, err)
			}
			if ok {
				matched, replacement = n, out
				break
			}
		}

		start := spans[i][0]
		b.WriteString(text[last:start])
		if matched == 0 {
			b.WriteString(text[start:spans[i][1]])
			last = spans[i][1]
			i++
			continue
		}
		b.WriteString(matchCase(text[start:], replacement))
		last = spans[i+matched-1][1]
		i += matched
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// spaced reports whether consecutive spans are separated only by whitespace.
func spaced(text string, spans [][]int) bool {
	for k := 1; k < len(spans); k++ {
		gap := text[spans[k-1][1]:spans[k][0]]
		if strings.TrimSpace(gap) != "" {
			return false
		}
	}
	return true
}

// matchCase capitalizes replacement when the original starts upper case.
func matchCase(original, replacement string) string {
	first, _ := utf8.DecodeRuneInString(original)
	if !unicode.IsUpper(first) || replacement == "" {
		return replacement
	}
	r, size := utf8.DecodeRuneInString(replacement)
	return string(unicode.ToUpper(r)) + replacement[size:]
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
