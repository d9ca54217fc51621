// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookshelf-qa/internal/corpus"
	"github.com/pdiddy/bookshelf-qa/internal/index"
	"github.com/pdiddy/bookshelf-qa/internal/orchestrator"
	"github.com/pdiddy/bookshelf-qa/internal/translate"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

func init() {
	color.NoColor = true
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), c)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
corpus:
  dir: library
  debounce: 2s
retrieval:
  min_score: 0.2
translation:
  backend: glossary
  timeout: 750ms
  cache:
    backend: redis
    redis_url: redis://localhost:6379/1
`), 0o644))
	t.Setenv("BOOKSHELF_RETRIEVAL_MAX_CANDIDATES", "25")
	t.Setenv("BOOKSHELF_LOG_LEVEL", "debug")

	v := viper.New()
	v.SetConfigFile(path)
	configureEnv(v)
	require.NoError(t, v.ReadInConfig())

	c, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "library", c.Corpus.Dir)
	assert.Equal(t, 2*time.Second, c.Corpus.Debounce)
	assert.Equal(t, 0.2, c.Retrieval.MinScore)
	assert.Equal(t, 25, c.Retrieval.MaxCandidates)
	assert.Equal(t, 3, c.Retrieval.MaxSupporting)
	assert.Equal(t, types.TranslationGlossary, c.Translation.Backend)
	assert.Equal(t, 750*time.Millisecond, c.Translation.Timeout)
	assert.Equal(t, types.CacheRedis, c.Translation.Cache.Backend)
	assert.Equal(t, time.Hour, c.Translation.Cache.TTL)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadConfigRejectsUnknownBackends(t *testing.T) {
	v := viper.New()
	v.Set("translation.backend", "babelfish")
	_, err := loadConfig(v)
	assert.ErrorContains(t, err, "babelfish")

	v = viper.New()
	v.Set("translation.cache.backend", "memcached")
	_, err = loadConfig(v)
	assert.ErrorContains(t, err, "memcached")
}

func TestPrintResponse(t *testing.T) {
	var buf bytes.Buffer
	printResponse(&buf, types.Response{
		Answer:           "Los mercados de carbono...",
		BaseAnswer:       "Carbon markets...",
		TargetLanguage:   "es",
		DetectedLanguage: "es",
		Found:            true,
		Source:           &types.Source{ID: "climate-atlas", Title: "Climate Atlas", Section: "Carbon Markets"},
		Supporting:       []string{"Permits are auctioned."},
		Score:            0.5,
		Localized:        true,
	})
	out := buf.String()
	assert.Contains(t, out, "Climate Atlas › Carbon Markets")
	assert.Contains(t, out, "Los mercados de carbono...")
	assert.Contains(t, out, "  - Permits are auctioned.")
	assert.Contains(t, out, "score: 0.500")
	assert.NotContains(t, out, "no es translation")

	buf.Reset()
	printResponse(&buf, types.Response{
		Answer:           types.DefaultFallbackMessage,
		BaseAnswer:       types.DefaultFallbackMessage,
		DetectedLanguage: "unknown",
	})
	assert.Equal(t, types.DefaultFallbackMessage+"\ndetected: unknown\n", buf.String())
}

func newAskCmd() *cobra.Command {
	c := &cobra.Command{}
	c.Flags().String("book", "", "")
	c.Flags().String("lang", "en", "")
	c.Flags().String("request", "", "")
	return c
}

func TestAskRequest(t *testing.T) {
	c := newAskCmd()
	require.NoError(t, c.Flags().Set("book", "climate-atlas"))
	require.NoError(t, c.Flags().Set("lang", "fr"))

	req, err := askRequest(c, []string{"How", "do", "markets", "work?"})
	require.NoError(t, err)
	assert.Equal(t, types.Request{
		Message:        "How do markets work?",
		Scope:          types.ScopeBook,
		BookID:         "climate-atlas",
		TargetLanguage: "fr",
	}, req)

	_, err = askRequest(newAskCmd(), nil)
	assert.Error(t, err)
}

func TestAskRequestFromJSON(t *testing.T) {
	c := newAskCmd()
	require.NoError(t, c.Flags().Set("request", "-"))
	c.SetIn(strings.NewReader(`{"message":"tides","scope":"book","bookId":7}`))

	req, err := askRequest(c, nil)
	require.NoError(t, err)
	assert.Equal(t, "7", req.BookID)
	assert.Equal(t, types.ScopeBook, req.Scope)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, index.Report{
		Books: 2, Sections: 3, Paragraphs: 5, Terms: 40,
		Skipped: []index.Diagnostic{{BookID: "b", Section: 2, Paragraph: -1, Reason: "section has no paragraphs"}},
	})
	out := buf.String()
	assert.Contains(t, out, "skipped book \"b\"")
	assert.Contains(t, out, "indexed 2 book(s), 3 section(s), 5 paragraph(s), 40 term(s); 1 skipped")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "Climate...", clip("Climate Atlas", 10))
}

func TestShellSession(t *testing.T) {
	idx, _, err := index.Build([]types.Book{{
		ID:    "climate-atlas",
		Title: "Climate Atlas",
		Sections: []types.Section{{
			Heading:    "Carbon Markets",
			Paragraphs: []string{"Carbon markets price emissions through tradable permits."},
		}},
	}}, nil)
	require.NoError(t, err)

	bridge := translate.NewBridge(translate.Noop{}, stubEnglish{}, translate.BridgeOptions{})
	svc := orchestrator.NewService(index.NewLive(idx), bridge, types.DefaultConfig().Retrieval, nil)

	var out bytes.Buffer
	sess := &session{svc: svc, out: &out, req: types.Request{Scope: types.ScopeLibrary, TargetLanguage: "en"}}
	in := strings.NewReader(strings.Join([]string{
		"How do carbon markets work?",
		":book missing",
		"carbon markets",
		":book",
		":library",
		":bogus",
		"opera singing",
		":quit",
		"never asked",
	}, "\n"))
	require.NoError(t, sess.run(context.Background(), in))

	got := out.String()
	assert.Equal(t, 1, strings.Count(got, "Climate Atlas › Carbon Markets"))
	assert.Equal(t, 2, strings.Count(got, types.DefaultFallbackMessage))
	assert.Contains(t, got, "[missing en]> ")
	assert.Contains(t, got, "usage: :book <id>")
	assert.Contains(t, got, "unknown command :bogus")
	assert.NotContains(t, got, "never asked")
}

func TestShellReloadSharesOutputWithSession(t *testing.T) {
	dir := t.TempDir()
	book := `
id: climate-atlas
title: Climate Atlas
sections:
  - heading: Carbon Markets
    paragraphs:
      - Carbon markets price emissions through tradable permits.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "atlas.yaml"), []byte(book), 0o644))

	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg = types.DefaultConfig()
	cfg.Corpus.Dir = dir

	books, err := corpus.LoadDir(dir, nil)
	require.NoError(t, err)
	idx, _, err := index.Build(books, nil)
	require.NoError(t, err)
	live := index.NewLive(idx)
	bridge := translate.NewBridge(translate.Noop{}, stubEnglish{}, translate.BridgeOptions{})
	svc := orchestrator.NewService(live, bridge, types.DefaultConfig().Retrieval, nil)

	var buf bytes.Buffer
	out := &lockedWriter{w: &buf}
	sess := &session{svc: svc, out: out, req: types.Request{Scope: types.ScopeLibrary, TargetLanguage: "en"}}
	questions := strings.Repeat("carbon markets\n", 20)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 5 {
			reloadCorpus(live, out)
		}
	}()
	require.NoError(t, sess.run(context.Background(), strings.NewReader(questions)))
	wg.Wait()

	got := buf.String()
	assert.Equal(t, 5, strings.Count(got, "reloaded: 1 book(s), 1 paragraph(s), 0 skipped"))
	assert.Equal(t, 20, strings.Count(got, "Climate Atlas › Carbon Markets"))
}

type stubEnglish struct{}

func (stubEnglish) Detect(string) types.DetectedLanguage { return types.Detected(types.English, 1) }
func (stubEnglish) LooksEnglish(string) bool             { return true }
