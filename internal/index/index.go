// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds the in-memory inverted index over the book corpus.
// An Index is immutable once Build returns and is shared by concurrent
// queries without locking. Reloads build a new Index and swap it into a
// Live holder.
package index

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/bookshelf-qa/internal/tokenize"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// ErrEmptyCorpus is returned when the corpus holds no indexable paragraph.
var ErrEmptyCorpus = errors.New("index: corpus has no indexable paragraphs")

// Posting records one paragraph containing a term.
type Posting struct {
	Ref  types.ParagraphRef
	Freq int
}

// Paragraph holds the per-paragraph statistics used for scoring.
type Paragraph struct {
	Ref    types.ParagraphRef
	Text   string
	Length int
	Terms  map[string]int
}

// Index is the read-only retrieval structure.
type Index struct {
	books    []types.Book
	bookPos  map[string]int
	postings map[string][]Posting
	paras    map[types.ParagraphRef]*Paragraph
	order    [][][]types.ParagraphRef // indexed refs per book, per section
}

// Diagnostic describes a corpus entry skipped during Build.
type Diagnostic struct {
	BookID    string `json:"book_id"`
	Section   int    `json:"section"`
	Paragraph int    `json:"paragraph"`
	Reason    string `json:"reason"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "book %q", d.BookID)
	if d.Section >= 0 {
		fmt.Fprintf(&b, " section %d", d.Section)
	}
	if d.Paragraph >= 0 {
		fmt.Fprintf(&b, " paragraph %d", d.Paragraph)
	}
	b.WriteString(": ")
	b.WriteString(d.Reason)
	return b.String()
}

// Report summarizes a Build run.
type Report struct {
	Books      int
	Sections   int
	Paragraphs int
	Terms      int
	Skipped    []Diagnostic
}

// Build indexes every usable paragraph of books. Malformed entries are
// skipped with a diagnostic; only a corpus with nothing to index fails.
func Build(books []types.Book, logger *zap.Logger) (*Index, Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	idx := &Index{
		bookPos:  make(map[string]int),
		postings: make(map[string][]Posting),
		paras:    make(map[types.ParagraphRef]*Paragraph),
	}
	var report Report

	skip := func(d Diagnostic) {
		report.Skipped = append(report.Skipped, d)
		logger.Warn("skipping corpus entry",
			zap.String("book", d.BookID),
			zap.Int("section", d.Section),
			zap.Int("paragraph", d.Paragraph),
			zap.String("reason", d.Reason))
	}

	for _, book := range books {
		id := strings.TrimSpace(book.ID)
		switch {
		case id == "":
			skip(Diagnostic{BookID: book.Title, Section: -1, Paragraph: -1, Reason: "missing book id"})
			continue
		case idx.hasBook(id):
			skip(Diagnostic{BookID: id, Section: -1, Paragraph: -1, Reason: "duplicate book id"})
			continue
		case len(book.Sections) == 0:
			skip(Diagnostic{BookID: id, Section: -1, Paragraph: -1, Reason: "book has no sections"})
			continue
		}

		pos := len(idx.books)
		sections := make([][]types.ParagraphRef, len(book.Sections))
		indexed := 0

		for si, section := range book.Sections {
			if len(section.Paragraphs) == 0 {
				skip(Diagnostic{BookID: id, Section: si, Paragraph: -1, Reason: "section has no paragraphs"})
				continue
			}
			for pi, text := range section.Paragraphs {
				if strings.TrimSpace(text) == "" {
					skip(Diagnostic{BookID: id, Section: si, Paragraph: pi, Reason: "blank paragraph"})
					continue
				}
				ref := types.ParagraphRef{Book: pos, Section: si, Paragraph: pi}
				idx.add(ref, text)
				sections[si] = append(sections[si], ref)
				indexed++
			}
			if len(sections[si]) > 0 {
				report.Sections++
			}
		}

		if indexed == 0 {
			skip(Diagnostic{BookID: id, Section: -1, Paragraph: -1, Reason: "book has no usable text"})
			continue
		}
		idx.books = append(idx.books, book)
		idx.bookPos[id] = pos
		idx.order = append(idx.order, sections)
		report.Books++
		report.Paragraphs += indexed
	}

	report.Terms = len(idx.postings)
	if report.Paragraphs == 0 {
		return nil, report, ErrEmptyCorpus
	}

	logger.Info("index built",
		zap.Int("books", report.Books),
		zap.Int("sections", report.Sections),
		zap.Int("paragraphs", report.Paragraphs),
		zap.Int("terms", report.Terms),
		zap.Int("skipped", len(report.Skipped)))
	return idx, report, nil
}

func (idx *Index) hasBook(id string) bool {
	_, ok := idx.bookPos[id]
	return ok
}

// add indexes one paragraph. Refs arrive in corpus order, so every
// postings list stays sorted by ref without an explicit sort.
func (idx *Index) add(ref types.ParagraphRef, text string) {
	tokens := tokenize.Normalize(text)
	tf := tokenize.Frequencies(tokens)
	idx.paras[ref] = &Paragraph{Ref: ref, Text: text, Length: len(tokens), Terms: tf}
	for _, term := range tokenize.Distinct(tokens) {
		idx.postings[term] = append(idx.postings[term], Posting{Ref: ref, Freq: tf[term]})
	}
}
