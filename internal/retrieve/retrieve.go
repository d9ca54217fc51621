// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve ranks indexed paragraphs against a normalized query.
//
// A paragraph's score is the sum over distinct query terms it contains of
// tf × idf, divided by the square root of its token count. Equal scores
// are ordered by corpus position, so an unchanged index always returns
// the same ranking for the same query.
package retrieve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/bookshelf-qa/internal/index"
	"github.com/pdiddy/bookshelf-qa/internal/tokenize"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// ErrInvalidScope is returned for book scope without a book id, or for an
// unrecognized scope value.
var ErrInvalidScope = errors.New("retrieve: invalid scope")

// Query is a normalized question with its scope.
type Query struct {
	Tokens []string
	Scope  types.Scope
	BookID string
}

// Excerpt is a sibling paragraph that corroborates the top candidate.
type Excerpt struct {
	Ref     types.ParagraphRef
	Text    string
	Overlap int
}

// Candidate is a scored paragraph.
type Candidate struct {
	Ref       types.ParagraphRef
	BookID    string
	BookTitle string
	Section   string
	Text      string
	Score     float64

	// Supporting is only filled for the first candidate.
	Supporting []Excerpt
}

// Options bound the candidate list and supporting excerpts.
type Options struct {
	MaxCandidates int
	MaxSupporting int
	MinOverlap    int
}

// Engine scores queries against an index. It holds no per-query state
// and is safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine returns an Engine. A non-positive MaxCandidates keeps every
// matching paragraph.
func NewEngine(cfg types.RetrievalConfig) *Engine {
	opts := Options{
		MaxCandidates: cfg.MaxCandidates,
		MaxSupporting: cfg.MaxSupporting,
		MinOverlap:    cfg.MinOverlap,
	}
	if opts.MaxSupporting < 0 {
		opts.MaxSupporting = 0
	}
	if opts.MinOverlap <= 0 {
		opts.MinOverlap = 1
	}
	return &Engine{opts: opts}
}

// Search returns candidates best first. A query without tokens, or a book
// scope naming an unknown book, yields no candidates.
func (e *Engine) Search(idx *index.Index, q Query) ([]Candidate, error) {
	bookPos, err := resolveScope(idx, q)
	if err != nil {
		return nil, err
	}
	if bookPos == noBook {
		return nil, nil
	}

	terms := tokenize.Distinct(q.Tokens)
	if len(terms) == 0 {
		return nil, nil
	}

	acc := make(map[types.ParagraphRef]float64)
	for _, term := range terms {
		postings := idx.Postings(term)
		if len(postings) == 0 {
			continue
		}
		idf := idx.IDF(term)
		for _, p := range postings {
			if bookPos != allBooks && p.Ref.Book != bookPos {
				continue
			}
			acc[p.Ref] += float64(p.Freq) * idf
		}
	}
	if len(acc) == 0 {
		return nil, nil
	}

	scored := make([]Candidate, 0, len(acc))
	for ref, raw := range acc {
		para, _ := idx.Paragraph(ref)
		book := idx.BookAt(ref.Book)
		scored = append(scored, Candidate{
			Ref:       ref,
			BookID:    book.ID,
			BookTitle: book.Title,
			Section:   idx.Heading(ref),
			Text:      para.Text,
			Score:     raw / math.Sqrt(float64(para.Length)),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Ref.Less(scored[j].Ref)
	})

	if e.opts.MaxCandidates > 0 && len(scored) > e.opts.MaxCandidates {
		scored = scored[:e.opts.MaxCandidates]
	}
	scored[0].Supporting = e.supporting(idx, scored[0].Ref, terms)
	return scored, nil
}

const (
	allBooks = -1
	noBook   = -2
)

func resolveScope(idx *index.Index, q Query) (int, error) {
	switch q.Scope {
	case types.ScopeLibrary, "":
		return allBooks, nil
	case types.ScopeBook:
		if q.BookID == "" {
			return 0, fmt.Errorf("%w: book scope requires a book id", ErrInvalidScope)
		}
		_, pos, ok := idx.Book(q.BookID)
		if !ok {
			return noBook, nil
		}
		return pos, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidScope, q.Scope)
	}
}

// supporting returns sibling paragraphs of top, in document order, that
// share at least MinOverlap distinct query terms.
func (e *Engine) supporting(idx *index.Index, top types.ParagraphRef, terms []string) []Excerpt {
	if e.opts.MaxSupporting == 0 {
		return nil
	}
	var out []Excerpt
	for _, ref := range idx.Siblings(top) {
		if ref == top {
			continue
		}
		para, ok := idx.Paragraph(ref)
		if !ok {
			continue
		}
		overlap := 0
		for _, t := range terms {
			if para.Terms[t] > 0 {
				overlap++
			}
		}
		if overlap < e.opts.MinOverlap {
			continue
		}
		out = append(out, Excerpt{Ref: ref, Text: para.Text, Overlap: overlap})
		if len(out) == e.opts.MaxSupporting {
			break
		}
	}
	return out
}
