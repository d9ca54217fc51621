// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookshelf-qa/internal/index"
	"github.com/pdiddy/bookshelf-qa/internal/tokenize"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// --- test helpers ---

func library() []types.Book {
	return []types.Book{
		{
			ID: "climate-atlas", Title: "Climate Atlas",
			Sections: []types.Section{
				{Heading: "Carbon Markets", Paragraphs: []string{
					"Carbon markets price emissions through tradable permits.",
					"Permits are auctioned by regulators and traded between firms on markets.",
					"Critics argue offsets weaken the cap.",
					"Some markets also trade carbon futures, options and swaps among banks, brokers and utilities.",
				}},
				{Heading: "Oceans", Paragraphs: []string{
					"Oceans absorb carbon dioxide and excess heat from the atmosphere.",
				}},
			},
		},
		{
			ID: "energy-primer", Title: "Energy Primer",
			Sections: []types.Section{
				{Heading: "Solar", Paragraphs: []string{
					"Solar panels convert sunlight into electricity.",
					"Solar farms occupy land that could host crops, grazing, wetlands, forests, housing or roads.",
				}},
				{Heading: "Markets", Paragraphs: []string{
					"Electricity markets clear supply and demand every five minutes.",
				}},
			},
		},
		{
			ID: "energy-primer-2", Title: "Energy Primer (Second Edition)",
			Sections: []types.Section{
				{Heading: "Solar", Paragraphs: []string{
					"Solar panels convert sunlight into electricity.",
				}},
			},
		},
	}
}

func testIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, _, err := index.Build(library(), nil)
	require.NoError(t, err)
	return idx
}

func search(t *testing.T, e *Engine, idx *index.Index, question string, scope types.Scope, bookID string) []Candidate {
	t.Helper()
	got, err := e.Search(idx, Query{Tokens: tokenize.Normalize(question), Scope: scope, BookID: bookID})
	require.NoError(t, err)
	return got
}

func refs(cands []Candidate) []types.ParagraphRef {
	out := make([]types.ParagraphRef, len(cands))
	for i, c := range cands {
		out[i] = c.Ref
	}
	return out
}

// --- scoring ---

func TestSearchFindsVerbatimTerm(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	for _, book := range library() {
		for si, sec := range book.Sections {
			for pi, text := range sec.Paragraphs {
				for _, term := range tokenize.Normalize(text) {
					cands := search(t, e, idx, "what about "+term, types.ScopeLibrary, "")
					_, pos, _ := idx.Book(book.ID)
					want := types.ParagraphRef{Book: pos, Section: si, Paragraph: pi}
					assert.Contains(t, refs(cands), want, "term %q", term)
				}
			}
		}
	}
}

func TestSearchScoreFormula(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	cands := search(t, e, idx, "How do carbon markets work?", types.ScopeLibrary, "")
	require.NotEmpty(t, cands)

	top := cands[0]
	assert.Equal(t, "Climate Atlas", top.BookTitle)
	assert.Equal(t, "Carbon Markets", top.Section)
	assert.Equal(t, "Carbon markets price emissions through tradable permits.", top.Text)

	want := (idx.IDF("carbon") + idx.IDF("markets")) / math.Sqrt(6)
	assert.InDelta(t, want, top.Score, 1e-12)

	for i := 1; i < len(cands); i++ {
		assert.GreaterOrEqual(t, cands[i-1].Score, cands[i].Score)
		assert.GreaterOrEqual(t, cands[i].Score, 0.0)
	}
}

func TestSearchLengthNormalization(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	cands := search(t, e, idx, "solar", types.ScopeBook, "energy-primer")
	require.Len(t, cands, 2)
	assert.Equal(t, 0, cands[0].Ref.Paragraph, "short paragraph outranks the long one")
	assert.Greater(t, cands[0].Score, cands[1].Score)
}

func TestSearchTieBreakByCorpusOrder(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	cands := search(t, e, idx, "sunlight", types.ScopeLibrary, "")
	require.Len(t, cands, 2)
	assert.Equal(t, cands[0].Score, cands[1].Score)
	assert.Equal(t, "energy-primer", cands[0].BookID)
	assert.Equal(t, "energy-primer-2", cands[1].BookID)
}

func TestSearchDeterministic(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	first := search(t, e, idx, "markets electricity carbon solar", types.ScopeLibrary, "")
	require.NotEmpty(t, first)
	for range 20 {
		assert.Equal(t, first, search(t, e, idx, "markets electricity carbon solar", types.ScopeLibrary, ""))
	}
}

func TestSearchMaxCandidates(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{MaxCandidates: 2})

	cands := search(t, e, idx, "markets carbon solar", types.ScopeLibrary, "")
	assert.Len(t, cands, 2)
}

// --- scope ---

func TestSearchBookScope(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	cands := search(t, e, idx, "markets", types.ScopeBook, "energy-primer")
	require.NotEmpty(t, cands)
	for _, c := range cands {
		assert.Equal(t, "energy-primer", c.BookID)
	}

	all := search(t, e, idx, "markets", types.ScopeLibrary, "")
	assert.Greater(t, len(all), len(cands))
}

func TestSearchScopeErrors(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	_, err := e.Search(idx, Query{Tokens: []string{"carbon"}, Scope: types.ScopeBook})
	assert.ErrorIs(t, err, ErrInvalidScope)

	_, err = e.Search(idx, Query{Tokens: []string{"carbon"}, Scope: "shelf"})
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestSearchUnknownBookYieldsNothing(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	cands := search(t, e, idx, "carbon markets", types.ScopeBook, "no-such-book")
	assert.Empty(t, cands)
}

func TestSearchEmptyScopeMeansLibrary(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	assert.Equal(t,
		search(t, e, idx, "markets", types.ScopeLibrary, ""),
		search(t, e, idx, "markets", "", ""))
}

func TestSearchInsufficientSignal(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{})

	assert.Empty(t, search(t, e, idx, "what is the", types.ScopeLibrary, ""))
	assert.Empty(t, search(t, e, idx, "opera singing techniques", types.ScopeLibrary, ""))
}

// --- supporting excerpts ---

func TestSearchSupportingExcerpts(t *testing.T) {
	idx := testIndex(t)
	e := NewEngine(types.RetrievalConfig{MaxSupporting: 3, MinOverlap: 1})

	cands := search(t, e, idx, "carbon markets", types.ScopeLibrary, "")
	require.NotEmpty(t, cands)

	top := cands[0]
	assert.Equal(t, 0, top.Ref.Paragraph)
	require.Len(t, top.Supporting, 2)
	assert.Equal(t, 1, top.Supporting[0].Ref.Paragraph, "document order")
	assert.Equal(t, 1, top.Supporting[0].Overlap)
	assert.Equal(t, 3, top.Supporting[1].Ref.Paragraph)
	assert.Equal(t, 2, top.Supporting[1].Overlap)

	for _, c := range cands[1:] {
		assert.Empty(t, c.Supporting)
	}
}

func TestSearchSupportingLimits(t *testing.T) {
	idx := testIndex(t)

	one := NewEngine(types.RetrievalConfig{MaxSupporting: 1})
	cands := search(t, one, idx, "carbon markets", types.ScopeLibrary, "")
	assert.Len(t, cands[0].Supporting, 1)

	strict := NewEngine(types.RetrievalConfig{MaxSupporting: 3, MinOverlap: 2})
	cands = search(t, strict, idx, "carbon markets", types.ScopeLibrary, "")
	require.Len(t, cands[0].Supporting, 1)
	assert.Equal(t, 3, cands[0].Supporting[0].Ref.Paragraph)

	none := NewEngine(types.RetrievalConfig{})
	cands = search(t, none, idx, "carbon markets", types.ScopeLibrary, "")
	assert.Empty(t, cands[0].Supporting)
}
