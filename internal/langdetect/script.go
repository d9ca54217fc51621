// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package langdetect

import (
	"strings"
	"unicode"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

var scriptLanguages = []types.LanguageCode{"he", "ar", "ru", "uk", "el", "ja", "zh", "ko"}

// ukrainianLetters separate Ukrainian from Russian Cyrillic text.
const ukrainianLetters = "іїєґ"

// detectScript decides the language from the dominant non-Latin script.
func (d *Detector) detectScript(text string) (types.LanguageCode, float64, bool) {
	var letters, hebrew, arabic, cyrillic, greek, han, kana, hangul int
	lower := strings.ToLower(text)
	for _, r := range lower {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Hebrew, r):
			hebrew++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Greek, r):
			greek++
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			kana++
		case unicode.Is(unicode.Hangul, r):
			hangul++
		}
	}
	if letters == 0 {
		return "", 0, false
	}

	share := func(n int) float64 { return float64(n) / float64(letters) }
	need := d.opts.MinScriptShare

	switch {
	case share(hebrew) >= need:
		return "he", share(hebrew), true
	case share(arabic) >= need:
		return "ar", share(arabic), true
	case share(cyrillic) >= need:
		if strings.ContainsAny(lower, ukrainianLetters) {
			return "uk", share(cyrillic), true
		}
		return "ru", share(cyrillic), true
	case share(greek) >= need:
		return "el", share(greek), true
	case kana > 0 && share(kana+han) >= need:
		return "ja", share(kana + han), true
	case share(han) >= need:
		return "zh", share(han), true
	case share(hangul) >= need:
		return "ko", share(hangul), true
	}
	return "", 0, false
}
