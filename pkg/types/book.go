// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Book is an immutable corpus record supplied by the catalog at startup.
// Sections are kept in document order; that order is significant for
// ranking tie-breaks and for supporting excerpts.
type Book struct {
	// ID is the stable identifier used for book-scoped queries.
	ID string `json:"id" yaml:"id"`

	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
	Year   int    `json:"year,omitempty" yaml:"year,omitempty"`

	// Language is the ISO 639-1 code of the book text (e.g. "en").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`

	Sections []Section `json:"sections" yaml:"sections"`
}

// Section belongs to exactly one Book.
type Section struct {
	Heading string `json:"heading" yaml:"heading"`

	// Paragraphs holds raw paragraph text. A paragraph is the atomic unit
	// of retrieval and is never split.
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`
}

// ParagraphRef addresses a paragraph by ordinal position: the book's
// insertion order in the corpus, then section order, then paragraph order.
type ParagraphRef struct {
	Book      int `json:"book"`
	Section   int `json:"section"`
	Paragraph int `json:"paragraph"`
}

// Less orders refs by corpus position. It is the deterministic tie-break
// for equal relevance scores.
func (r ParagraphRef) Less(o ParagraphRef) bool {
	if r.Book != o.Book {
		return r.Book < o.Book
	}
	if r.Section != o.Section {
		return r.Section < o.Section
	}
	return r.Paragraph < o.Paragraph
}

// SameSection reports whether two refs point into the same section.
func (r ParagraphRef) SameSection(o ParagraphRef) bool {
	return r.Book == o.Book && r.Section == o.Section
}
