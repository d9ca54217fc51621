// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package langdetect

import "github.com/pdiddy/bookshelf-qa/pkg/types"

type profile struct {
	code  types.LanguageCode
	words map[string]struct{}

	// marks are letters or punctuation characteristic of the language;
	// each occurrence counts as one hit.
	marks string
}

// Profile order breaks ties when scores are sorted.
var latinProfiles = []profile{
	{code: "en", words: set(
		"the", "and", "of", "to", "in", "is", "are", "was", "were", "how", "what", "why",
		"who", "which", "do", "does", "did", "can", "could", "would", "should", "with",
		"for", "on", "this", "that", "it", "be", "have", "has", "from", "about", "an",
		"my", "your", "you", "there", "where", "when", "i",
	)},
	{code: "es", marks: "ñ¿¡", words: set(
		"el", "la", "los", "las", "de", "del", "que", "qué", "y", "en", "un", "una", "es",
		"son", "por", "para", "con", "cómo", "como", "cuál", "dónde", "cuándo", "porque",
		"se", "lo", "al", "su", "sus", "muy", "está", "están", "hay",
	)},
	{code: "fr", marks: "œêèâîûù", words: set(
		"le", "la", "les", "de", "des", "du", "et", "un", "une", "est", "sont", "qui",
		"pour", "par", "avec", "dans", "comment", "pourquoi", "quoi", "quel", "quelle",
		"où", "ce", "cette", "il", "elle", "nous", "vous", "au", "aux", "sur", "pas", "ne",
	)},
	{code: "de", marks: "ßäöü", words: set(
		"der", "die", "das", "und", "ist", "sind", "ein", "eine", "einen", "nicht", "mit",
		"für", "von", "auf", "wie", "was", "warum", "wer", "wo", "den", "dem", "des", "zu",
		"im", "es", "ich", "sie", "wir", "auch", "oder",
	)},
	{code: "pt", marks: "ãõ", words: set(
		"o", "os", "as", "de", "do", "da", "dos", "das", "e", "em", "um", "uma", "é",
		"são", "que", "para", "com", "como", "por", "porque", "onde", "quando", "não",
		"no", "na", "nos", "nas", "ao", "se",
	)},
	{code: "it", marks: "ìò", words: set(
		"il", "lo", "la", "gli", "le", "di", "del", "della", "e", "è", "un", "una", "che",
		"per", "con", "come", "perché", "dove", "quando", "sono", "non", "si", "nel",
		"nella", "al", "alla",
	)},
	{code: "nl", words: set(
		"de", "het", "een", "en", "van", "is", "zijn", "dat", "die", "niet", "met", "voor",
		"op", "hoe", "wat", "waarom", "waar", "wie", "ook", "te", "ik", "je", "we", "er",
	)},
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
