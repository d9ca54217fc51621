// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

const envPrefix = "BOOKSHELF"

// configureEnv maps BOOKSHELF_CORPUS_DIR style variables onto config keys.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key so env overrides apply even when no
// config file mentions it.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	defaults := map[string]any{
		"corpus.dir":                  d.Corpus.Dir,
		"corpus.watch":                d.Corpus.Watch,
		"corpus.debounce":             d.Corpus.Debounce,
		"retrieval.max_candidates":    d.Retrieval.MaxCandidates,
		"retrieval.max_supporting":    d.Retrieval.MaxSupporting,
		"retrieval.min_overlap":       d.Retrieval.MinOverlap,
		"retrieval.min_score":         d.Retrieval.MinScore,
		"retrieval.excerpt_length":    d.Retrieval.ExcerptLength,
		"retrieval.fallback_message":  d.Retrieval.FallbackMessage,
		"translation.backend":         string(d.Translation.Backend),
		"translation.base_url":        d.Translation.BaseURL,
		"translation.api_key":         d.Translation.APIKey,
		"translation.timeout":         d.Translation.Timeout,
		"translation.max_retries":     d.Translation.MaxRetries,
		"translation.glossary_db":     d.Translation.GlossaryDB,
		"translation.cache.backend":   string(d.Translation.Cache.Backend),
		"translation.cache.ttl":       d.Translation.Cache.TTL,
		"translation.cache.redis_url": d.Translation.Cache.RedisURL,
		"log.level":                   d.Log.Level,
		"log.file":                    d.Log.File,
		"log.json":                    d.Log.JSON,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// loadConfig resolves the configuration from defaults, file, env, and flags.
func loadConfig(v *viper.Viper) (types.Config, error) {
	setDefaults(v)

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	switch c.Translation.Backend {
	case types.TranslationNone, types.TranslationLibreTranslate, types.TranslationGlossary:
	default:
		return types.Config{}, fmt.Errorf("unknown translation backend %q", c.Translation.Backend)
	}
	switch c.Translation.Cache.Backend {
	case types.CacheNone, types.CacheMemory, types.CacheRedis:
	default:
		return types.Config{}, fmt.Errorf("unknown translation cache %q", c.Translation.Cache.Backend)
	}
	return c, nil
}
