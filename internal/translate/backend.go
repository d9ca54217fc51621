// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate bridges user languages and the English-only retrieval
// engine. A Bridge wraps a Backend with language detection, per-call
// timeouts, request coalescing, and an optional Cache. Every failure is
// reported as ErrTranslationUnavailable so callers can fall back to the
// untranslated text.
package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

var (
	// ErrTranslationUnavailable wraps every translation failure, including timeouts.
	ErrTranslationUnavailable = errors.New("translate: translation unavailable")

	// ErrUnsupportedLanguage is returned for a language the backend cannot handle.
	ErrUnsupportedLanguage = errors.New("translate: unsupported language")

	// ErrEmptyTranslation is returned when a backend answers non-empty
	// text with nothing.
	ErrEmptyTranslation = errors.New("translate: empty translation")
)

// AutoDetect asks a backend to detect the source language itself.
const AutoDetect = "auto"

// Backend translates text between two languages. Implementations must
// honor ctx cancellation where they can; the Bridge also guards against
// backends that do not.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
	Languages(ctx context.Context) ([]types.LanguageCode, error)
}

// Noop is the backend used when no translator is configured. It only
// handles identity translations.
type Noop struct{}

// Name returns the backend identifier.
func (Noop) Name() string { return "none" }

// Translate returns text unchanged when source equals target and fails otherwise.
func (Noop) Translate(_ context.Context, text, source, target string) (string, error) {
	if source == target {
		return text, nil
	}
	return "", fmt.Errorf("%w: no translation backend configured for %s to %s", ErrUnsupportedLanguage, source, target)
}

// Languages lists English only.
func (Noop) Languages(context.Context) ([]types.LanguageCode, error) {
	return []types.LanguageCode{types.English}, nil
}
