// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// NormalizeCode reduces a BCP 47 tag to its lowercase base language:
// "EN" -> "en", "pt-BR" -> "pt", "zh_Hant" -> "zh".
func NormalizeCode(tag string) (types.LanguageCode, error) {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return "", fmt.Errorf("%w: empty language code", ErrUnsupportedLanguage)
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnsupportedLanguage, tag, err)
	}
	base, conf := t.Base()
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}
	return types.LanguageCode(base.String()), nil
}

// IsEnglish reports whether tag names English in any regional form.
func IsEnglish(tag string) bool {
	code, err := NormalizeCode(tag)
	return err == nil && code == types.English
}
