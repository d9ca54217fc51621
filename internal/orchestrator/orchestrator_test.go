// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/bookshelf-qa/internal/index"
	"github.com/pdiddy/bookshelf-qa/internal/langdetect"
	"github.com/pdiddy/bookshelf-qa/internal/translate"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

const carbonParagraph = "Carbon markets price emissions through tradable permits."

func atlasLibrary() []types.Book {
	return []types.Book{{
		ID:    "climate-atlas",
		Title: "Climate Atlas",
		Sections: []types.Section{{
			Heading:    "Carbon Markets",
			Paragraphs: []string{carbonParagraph},
		}},
	}}
}

func newLive(t *testing.T, books []types.Book) *index.Live {
	t.Helper()
	idx, _, err := index.Build(books, nil)
	require.NoError(t, err)
	return index.NewLive(idx)
}

// fakeTranslator treats every message as English unless told otherwise
// and marks localized answers with their target.
type fakeTranslator struct {
	toEnglish   func(text string) (types.TranslationResult, error)
	fromEnglish func(text, target string) (string, error)
}

func (f fakeTranslator) ToEnglish(_ context.Context, text string) (types.TranslationResult, error) {
	if f.toEnglish != nil {
		return f.toEnglish(text)
	}
	return types.TranslationResult{Text: text, Detected: types.Detected(types.English, 1), Target: types.English}, nil
}

func (f fakeTranslator) FromEnglish(_ context.Context, text, target string) (string, error) {
	if f.fromEnglish != nil {
		return f.fromEnglish(text, target)
	}
	if target == string(types.English) {
		return text, nil
	}
	return "[" + target + "] " + text, nil
}

func newService(t *testing.T, tr Translator) *Service {
	t.Helper()
	return NewService(newLive(t, atlasLibrary()), tr, types.DefaultConfig().Retrieval, nil)
}

func TestAnswerFindsGroundedParagraph(t *testing.T) {
	svc := newService(t, fakeTranslator{})

	resp, err := svc.Answer(context.Background(), types.Request{
		Message: "How do carbon markets work?",
		Scope:   types.ScopeLibrary,
	})
	require.NoError(t, err)

	assert.True(t, resp.Found)
	require.NotNil(t, resp.Source)
	assert.Equal(t, "climate-atlas", resp.Source.ID)
	assert.Equal(t, "Climate Atlas", resp.Source.Title)
	assert.Equal(t, "Carbon Markets", resp.Source.Section)
	assert.Contains(t, resp.BaseAnswer, carbonParagraph)
	assert.Equal(t, resp.BaseAnswer, resp.Answer)
	assert.Equal(t, "en", resp.TargetLanguage)
	assert.Equal(t, "en", resp.DetectedLanguage)
	assert.True(t, resp.Localized)
	assert.Greater(t, resp.Score, 0.0)
}

func TestAnswerNoMatchReturnsFallback(t *testing.T) {
	svc := newService(t, fakeTranslator{})

	resp, err := svc.Answer(context.Background(), types.Request{
		Message: "opera singing techniques",
		Scope:   types.ScopeLibrary,
	})
	require.NoError(t, err)

	assert.False(t, resp.Found)
	assert.Equal(t, types.DefaultFallbackMessage, resp.BaseAnswer)
	assert.Equal(t, types.DefaultFallbackMessage, resp.Answer)
	assert.Nil(t, resp.Source)
	assert.Empty(t, resp.Supporting)
}

func TestAnswerUnknownBookFindsNothing(t *testing.T) {
	svc := newService(t, fakeTranslator{})

	for _, msg := range []string{"How do carbon markets work?", "tradable permits", "emissions"} {
		resp, err := svc.Answer(context.Background(), types.Request{
			Message: msg,
			Scope:   types.ScopeBook,
			BookID:  "no-such-book",
		})
		require.NoError(t, err)
		assert.False(t, resp.Found, msg)
		assert.Nil(t, resp.Source, msg)
	}
}

func TestAnswerBookScope(t *testing.T) {
	svc := newService(t, fakeTranslator{})

	resp, err := svc.Answer(context.Background(), types.Request{
		Message: "tradable permits",
		Scope:   types.ScopeBook,
		BookID:  "climate-atlas",
	})
	require.NoError(t, err)
	assert.True(t, resp.Found)
}

func TestAnswerRejectsInvalidRequests(t *testing.T) {
	svc := newService(t, fakeTranslator{})

	tests := []struct {
		name string
		req  types.Request
		want error
	}{
		{"empty message", types.Request{Message: "   "}, ErrInvalidRequest},
		{"book scope without id", types.Request{Message: "carbon", Scope: types.ScopeBook}, ErrInvalidScope},
		{"book scope with blank id", types.Request{Message: "carbon", Scope: types.ScopeBook, BookID: "  "}, ErrInvalidScope},
		{"unknown scope", types.Request{Message: "carbon", Scope: "shelf"}, ErrInvalidScope},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Answer(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnswerLocalizes(t *testing.T) {
	tr := fakeTranslator{
		toEnglish: func(text string) (types.TranslationResult, error) {
			return types.TranslationResult{
				Text:       "How do carbon markets work?",
				Detected:   types.Detected("es", 0.8),
				Target:     types.English,
				Translated: true,
			}, nil
		},
	}
	svc := newService(t, tr)

	resp, err := svc.Answer(context.Background(), types.Request{
		Message:        "¿Cómo funcionan los mercados de carbono?",
		TargetLanguage: "ES",
	})
	require.NoError(t, err)

	assert.True(t, resp.Found)
	assert.Equal(t, "es", resp.DetectedLanguage)
	assert.Equal(t, "ES", resp.TargetLanguage)
	assert.Equal(t, carbonParagraph, resp.BaseAnswer)
	assert.Equal(t, "[es] "+carbonParagraph, resp.Answer)
	assert.True(t, resp.Localized)
}

func TestAnswerFallsBackToEnglishOnTranslationFailure(t *testing.T) {
	unavailable := errors.New("backend down")
	tr := fakeTranslator{
		toEnglish: func(text string) (types.TranslationResult, error) {
			return types.TranslationResult{Text: text, Detected: types.Unknown()}, unavailable
		},
		fromEnglish: func(text, _ string) (string, error) {
			return text, unavailable
		},
	}
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(newLive(t, atlasLibrary()), tr, types.DefaultConfig().Retrieval, zap.New(core))

	resp, err := svc.Answer(context.Background(), types.Request{
		Message:        "carbon markets",
		TargetLanguage: "pt-BR",
	})
	require.NoError(t, err)

	assert.True(t, resp.Found)
	assert.Equal(t, "unknown", resp.DetectedLanguage)
	assert.Equal(t, "pt-BR", resp.TargetLanguage)
	assert.Equal(t, resp.BaseAnswer, resp.Answer)
	assert.False(t, resp.Localized)
	assert.Equal(t, 1, logs.FilterMessage("question left untranslated").Len())
	assert.Equal(t, 1, logs.FilterMessage("answer left in English").Len())
}

func TestAnswerEchoesRequestedTargetLanguage(t *testing.T) {
	var asked []string
	tr := fakeTranslator{
		fromEnglish: func(text, target string) (string, error) {
			asked = append(asked, target)
			if target == "en" {
				return text, nil
			}
			return text, translate.ErrTranslationUnavailable
		},
	}
	svc := newService(t, tr)

	tests := []struct {
		name      string
		target    string
		code      string
		localized bool
	}{
		{"regional tag, localization fails", "pt-BR", "pt", false},
		{"mixed case english", "EN-us", "en", true},
		{"unparsable tag", "klingon!", "klingon!", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asked = nil
			resp, err := svc.Answer(context.Background(), types.Request{
				Message:        "carbon markets",
				TargetLanguage: tt.target,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.target, resp.TargetLanguage)
			assert.Equal(t, []string{tt.code}, asked)
			assert.Equal(t, tt.localized, resp.Localized)
			assert.Equal(t, resp.BaseAnswer, resp.Answer)
		})
	}
}

func TestAnswerCustomFallback(t *testing.T) {
	cfg := types.DefaultConfig().Retrieval
	cfg.FallbackMessage = "Nothing on the shelf covers that."
	svc := NewService(newLive(t, atlasLibrary()), fakeTranslator{}, cfg, nil)

	resp, err := svc.Answer(context.Background(), types.Request{Message: "opera"})
	require.NoError(t, err)
	assert.Equal(t, "Nothing on the shelf covers that.", resp.BaseAnswer)
}

func TestAnswerWithoutIndex(t *testing.T) {
	svc := NewService(index.NewLive(nil), fakeTranslator{}, types.DefaultConfig().Retrieval, nil)

	_, err := svc.Answer(context.Background(), types.Request{Message: "carbon"})
	assert.ErrorIs(t, err, index.ErrNotLoaded)
}

func TestAnswerLogsOneLinePerQuery(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(newLive(t, atlasLibrary()), fakeTranslator{}, types.DefaultConfig().Retrieval, zap.New(core))

	_, err := svc.Answer(context.Background(), types.Request{Message: "carbon markets"})
	require.NoError(t, err)

	entries := logs.FilterMessage("answered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["request_id"])
	assert.Equal(t, "library", fields["scope"])
	assert.Equal(t, true, fields["found"])
}

func TestAnswerThroughGlossaryBridge(t *testing.T) {
	g, err := translate.OpenGlossary(filepath.Join(t.TempDir(), "glossary.db"))
	require.NoError(t, err)
	defer g.Close()
	_, err = g.Import(context.Background(), strings.NewReader(`
language: es
entries:
  cómo: how
  funcionan: work
  mercados de carbono: carbon markets
`))
	require.NoError(t, err)

	bridge := translate.NewBridge(g, langdetect.New(langdetect.Options{}), translate.BridgeOptions{})
	svc := NewService(newLive(t, atlasLibrary()), bridge, types.DefaultConfig().Retrieval, nil)

	resp, err := svc.Answer(context.Background(), types.Request{
		Message:        "¿Cómo funcionan los mercados de carbono?",
		TargetLanguage: "es",
	})
	require.NoError(t, err)

	assert.True(t, resp.Found)
	assert.Equal(t, "es", resp.DetectedLanguage)
	assert.Equal(t, carbonParagraph, resp.BaseAnswer)
	assert.Equal(t, "Mercados de carbono price emissions through tradable permits.", resp.Answer)
	assert.True(t, resp.Localized)
}

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    types.Request
		wantErr bool
	}{
		{
			name: "well formed",
			body: `{"message":"How do carbon markets work?","scope":"library","targetLanguage":"es"}`,
			want: types.Request{Message: "How do carbon markets work?", Scope: types.ScopeLibrary, TargetLanguage: "es"},
		},
		{
			name: "numeric book id",
			body: `{"message":"tides","scope":"book","bookId":42}`,
			want: types.Request{Message: "tides", Scope: types.ScopeBook, BookID: "42"},
		},
		{
			name: "nulls and unknown keys",
			body: `{"message":"tides","bookId":null,"extra":{"x":1}}`,
			want: types.Request{Message: "tides"},
		},
		{name: "array message", body: `{"message":["a"]}`, wantErr: true},
		{name: "not an object", body: `["message"]`, wantErr: true},
		{name: "null body", body: `null`, wantErr: true},
		{name: "malformed", body: `{"message":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(types.Request{Message: "  tides \n", Scope: " Book ", BookID: " ocean ", TargetLanguage: "pt-BR"})
	assert.Equal(t, types.Request{Message: "tides", Scope: types.ScopeBook, BookID: "ocean", TargetLanguage: "pt-BR"}, got)

	got = Normalize(types.Request{Message: "tides"})
	assert.Equal(t, types.ScopeLibrary, got.Scope)
	assert.Equal(t, "en", got.TargetLanguage)
}
