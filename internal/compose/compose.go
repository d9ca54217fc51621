// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns ranked candidates into a structured answer.
package compose

import (
	"strings"
	"unicode"

	"github.com/pdiddy/bookshelf-qa/internal/retrieve"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

const ellipsis = "…"

// Answer is the composed reply in English.
type Answer struct {
	Text       string
	BookID     string
	BookTitle  string
	Section    string
	Score      float64
	Supporting []string
}

// Source returns the answer's provenance for the response boundary.
func (a Answer) Source() *types.Source {
	return &types.Source{ID: a.BookID, Title: a.BookTitle, Section: a.Section}
}

// Composer applies the relevance threshold and formats excerpts.
type Composer struct {
	minScore      float64
	excerptLength int
}

// NewComposer returns a Composer for cfg. A negative MinScore is treated
// as zero; a non-positive ExcerptLength defaults to 240 runes.
func NewComposer(cfg types.RetrievalConfig) *Composer {
	c := &Composer{minScore: cfg.MinScore, excerptLength: cfg.ExcerptLength}
	if c.minScore < 0 {
		c.minScore = 0
	}
	if c.excerptLength <= 0 {
		c.excerptLength = 240
	}
	return c
}

// Qualifying returns the candidates whose score clears the threshold, in
// their ranked order.
func (c *Composer) Qualifying(cands []retrieve.Candidate) []retrieve.Candidate {
	var out []retrieve.Candidate
	for _, cand := range cands {
		if cand.Score >= c.minScore {
			out = append(out, cand)
		}
	}
	return out
}

// Compose builds an answer from the best candidate. It reports false
// when no candidate clears the threshold; the caller supplies the
// fallback text.
func (c *Composer) Compose(cands []retrieve.Candidate) (Answer, bool) {
	qualifying := c.Qualifying(cands)
	if len(qualifying) == 0 {
		return Answer{}, false
	}
	top := qualifying[0]

	ans := Answer{
		Text:      top.Text,
		BookID:    top.BookID,
		BookTitle: top.BookTitle,
		Section:   top.Section,
		Score:     top.Score,
	}
	for _, ex := range top.Supporting {
		ans.Supporting = append(ans.Supporting, Truncate(ex.Text, c.excerptLength))
	}
	return ans, true
}

// Truncate shortens text to at most limit runes, cutting at the last word
// boundary and appending an ellipsis. Text that already fits is returned
// with surrounding whitespace trimmed. A single word longer than limit is
// kept whole.
func Truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}

	cut := -1
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	if cut <= 0 {
		end := len(runes)
		for i := limit; i < len(runes); i++ {
			if unicode.IsSpace(runes[i]) {
				end = i
				break
			}
		}
		if end == len(runes) {
			return text
		}
		return string(runes[:end]) + ellipsis
	}

	head := strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return head + ellipsis
}
