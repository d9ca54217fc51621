// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"math"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// Books returns the indexed books in insertion order.
func (idx *Index) Books() []types.Book {
	return idx.books
}

// Book returns the book with id and its ordinal position.
func (idx *Index) Book(id string) (types.Book, int, bool) {
	pos, ok := idx.bookPos[id]
	if !ok {
		return types.Book{}, -1, false
	}
	return idx.books[pos], pos, true
}

// BookAt returns the book at ordinal position pos.
func (idx *Index) BookAt(pos int) types.Book {
	return idx.books[pos]
}

// TotalParagraphs is the number of indexed paragraphs.
func (idx *Index) TotalParagraphs() int {
	return len(idx.paras)
}

// Postings returns the paragraphs containing term, in corpus order.
// The returned slice must not be modified.
func (idx *Index) Postings(term string) []Posting {
	return idx.postings[term]
}

// DocumentFrequency is the number of paragraphs containing term.
func (idx *Index) DocumentFrequency(term string) int {
	return len(idx.postings[term])
}

// IDF is the smoothed inverse document frequency of term over paragraphs:
// ln((N+1)/(df+1)) + 1. It is always positive.
func (idx *Index) IDF(term string) float64 {
	n := float64(idx.TotalParagraphs())
	df := float64(idx.DocumentFrequency(term))
	return math.Log((n+1)/(df+1)) + 1
}

// Paragraph returns the statistics for an indexed paragraph.
func (idx *Index) Paragraph(ref types.ParagraphRef) (*Paragraph, bool) {
	p, ok := idx.paras[ref]
	return p, ok
}

// Heading returns the heading of the section containing ref.
func (idx *Index) Heading(ref types.ParagraphRef) string {
	return idx.books[ref.Book].Sections[ref.Section].Heading
}

// Siblings returns the indexed paragraphs of the section containing ref,
// in document order, including ref itself.
func (idx *Index) Siblings(ref types.ParagraphRef) []types.ParagraphRef {
	if ref.Book < 0 || ref.Book >= len(idx.order) {
		return nil
	}
	sections := idx.order[ref.Book]
	if ref.Section < 0 || ref.Section >= len(sections) {
		return nil
	}
	return sections[ref.Section]
}
