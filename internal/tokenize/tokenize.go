// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tokenize turns raw text into normalized retrieval tokens.
// Normalization is a pure function of its input: lowercase, split on any
// rune that is not a letter or digit, drop in-word apostrophes, and elide
// stop-words and single-letter fragments.
package tokenize

import (
	"strings"
	"unicode"
)

// Normalize returns the ordered token sequence for text. Empty or
// stop-word-only input yields an empty sequence.
func Normalize(text string) []string {
	var (
		tokens []string
		b      strings.Builder
	)
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if keep(tok) {
			tokens = append(tokens, tok)
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case isApostrophe(r) && b.Len() > 0 && isPossessive(runes, i):
			// "author's" -> "author"
			i++
			flush()
		case isApostrophe(r) && b.Len() > 0 && i+1 < len(runes) && unicode.IsLetter(runes[i+1]):
			// "don't" -> "dont"
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// Frequencies counts occurrences of each token.
func Frequencies(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// Distinct returns tokens with duplicates removed, keeping first-seen order.
func Distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// IsStopWord reports whether word (already lowercased) is elided from the index.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func keep(tok string) bool {
	if IsStopWord(tok) {
		return false
	}
	// Single letters are leftovers of possessives and initials; digits stay.
	if len([]rune(tok)) == 1 && !unicode.IsDigit([]rune(tok)[0]) {
		return false
	}
	return true
}

// isPossessive reports whether the apostrophe at i begins a trailing possessive s.
func isPossessive(runes []rune, i int) bool {
	if i+1 >= len(runes) || unicode.ToLower(runes[i+1]) != 's' {
		return false
	}
	return i+2 >= len(runes) || !(unicode.IsLetter(runes[i+2]) || unicode.IsDigit(runes[i+2]))
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == 'ʼ'
}
