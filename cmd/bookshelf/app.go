// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/bookshelf-qa/internal/corpus"
	"github.com/pdiddy/bookshelf-qa/internal/index"
	"github.com/pdiddy/bookshelf-qa/internal/langdetect"
	"github.com/pdiddy/bookshelf-qa/internal/orchestrator"
	"github.com/pdiddy/bookshelf-qa/internal/secrets"
	"github.com/pdiddy/bookshelf-qa/internal/translate"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// closers collects resources opened while wiring a command.
type closers []io.Closer

func (c closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i].Close()
	}
}

// loadIndex reads the corpus and builds the live index.
func loadIndex() (*index.Live, index.Report, error) {
	books, err := corpus.LoadDir(cfg.Corpus.Dir, logger)
	if err != nil {
		return nil, index.Report{}, err
	}
	idx, report, err := index.Build(books, logger)
	if err != nil {
		return nil, report, err
	}
	return index.NewLive(idx), report, nil
}

// newBackend returns the configured translation backend.
func newBackend() (translate.Backend, closers, error) {
	tc := cfg.Translation
	switch tc.Backend {
	case types.TranslationLibreTranslate:
		apiKey := loadedSecrets.Resolve(tc.APIKey, secrets.LibreTranslateAPIKey)
		return translate.NewLibreTranslate(tc.BaseURL, apiKey, tc.MaxRetries, &http.Client{}), nil, nil
	case types.TranslationGlossary:
		g, err := translate.OpenGlossary(tc.GlossaryDB)
		if err != nil {
			return nil, nil, err
		}
		return g, closers{g}, nil
	default:
		return translate.Noop{}, nil, nil
	}
}

// newCache returns the configured translation cache, or nil when disabled.
func newCache() (translate.Cache, closers, error) {
	cc := cfg.Translation.Cache
	switch cc.Backend {
	case types.CacheMemory:
		return translate.NewMemoryCache(cc.TTL), nil, nil
	case types.CacheRedis:
		password := loadedSecrets.Get(secrets.RedisPassword, "")
		rc, err := translate.NewRedisCache(cc.RedisURL, password, cc.TTL, logger)
		if err != nil {
			return nil, nil, err
		}
		return rc, closers{rc}, nil
	default:
		return nil, nil, nil
	}
}

// newBridge wires detector, backend, and cache into a translation bridge.
func newBridge() (*translate.Bridge, closers, error) {
	backend, bc, err := newBackend()
	if err != nil {
		return nil, nil, err
	}
	cache, cc, err := newCache()
	if err != nil {
		bc.Close()
		return nil, nil, err
	}
	bridge := translate.NewBridge(backend, langdetect.New(langdetect.Options{}), translate.BridgeOptions{
		Cache:   cache,
		Timeout: cfg.Translation.Timeout,
		Logger:  logger.Named("translate"),
	})
	logger.Debug("translation bridge ready",
		zap.String("backend", backend.Name()),
		zap.String("cache", string(cfg.Translation.Cache.Backend)),
	)
	return bridge, append(bc, cc...), nil
}

// newService builds the index and the full question-answering pipeline.
func newService() (*orchestrator.Service, *index.Live, closers, error) {
	live, report, err := loadIndex()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading corpus: %w", err)
	}
	if len(report.Skipped) > 0 {
		logger.Warn("corpus has problems; run 'bookshelf index' for details", zap.Int("skipped", len(report.Skipped)))
	}

	bridge, cl, err := newBridge()
	if err != nil {
		return nil, nil, nil, err
	}
	svc := orchestrator.NewService(live, bridge, cfg.Retrieval, logger.Named("orchestrator"))
	return svc, live, cl, nil
}
