// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CorpusConfig locates the book catalog on disk.
type CorpusConfig struct {
	// Dir holds one YAML or JSON file per book (or per list of books).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Watch enables hot reload of the index when files in Dir change.
	Watch bool `json:"watch" yaml:"watch" mapstructure:"watch"`

	// Debounce coalesces bursts of file events into a single reload (default 500ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
}

// RetrievalConfig tunes candidate ranking and answer composition.
type RetrievalConfig struct {
	// MaxCandidates caps the ranked candidate list (default 10).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates" mapstructure:"max_candidates"`

	// MaxSupporting caps supporting excerpts for the top candidate (default 3).
	MaxSupporting int `json:"max_supporting" yaml:"max_supporting" mapstructure:"max_supporting"`

	// MinOverlap is the number of distinct query terms a sibling paragraph
	// must share to be a supporting excerpt (default 1).
	MinOverlap int `json:"min_overlap" yaml:"min_overlap" mapstructure:"min_overlap"`

	// MinScore is the relevance threshold below which no answer is composed (default 0.05).
	MinScore float64 `json:"min_score" yaml:"min_score" mapstructure:"min_score"`

	// ExcerptLength is the maximum excerpt length in runes (default 240).
	ExcerptLength int `json:"excerpt_length" yaml:"excerpt_length" mapstructure:"excerpt_length"`

	// FallbackMessage is returned as baseAnswer when nothing relevant is found.
	FallbackMessage string `json:"fallback_message" yaml:"fallback_message" mapstructure:"fallback_message"`
}

// TranslationBackend selects the translator implementation.
type TranslationBackend string

const (
	TranslationNone           TranslationBackend = "none"
	TranslationLibreTranslate TranslationBackend = "libretranslate"
	TranslationGlossary       TranslationBackend = "glossary"
)

// CacheBackend selects where translations are memoized.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

// CacheConfig holds translation cache settings.
type CacheConfig struct {
	Backend  CacheBackend  `json:"backend" yaml:"backend" mapstructure:"backend"`
	TTL      time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
	RedisURL string        `json:"redis_url,omitempty" yaml:"redis_url,omitempty" mapstructure:"redis_url"`
}

// TranslationConfig holds settings for the translation bridge.
type TranslationConfig struct {
	Backend TranslationBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// BaseURL is the LibreTranslate-compatible endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey is optional; .secrets/libretranslate-api-key is used when empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Timeout bounds each translation call (default 5s). A call that
	// exceeds it counts as a translation failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of retries on 429/503 responses (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// GlossaryDB is the SQLite dictionary used by the glossary backend.
	GlossaryDB string `json:"glossary_db" yaml:"glossary_db" mapstructure:"glossary_db"`

	Cache CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File enables a rotating JSON log file in addition to stderr.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`

	// JSON switches the stderr encoder from console to JSON.
	JSON bool `json:"json" yaml:"json" mapstructure:"json"`
}

// Config groups all settings for the question-answering service.
type Config struct {
	Corpus      CorpusConfig      `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Retrieval   RetrievalConfig   `json:"retrieval" yaml:"retrieval" mapstructure:"retrieval"`
	Translation TranslationConfig `json:"translation" yaml:"translation" mapstructure:"translation"`
	Log         LogConfig         `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultFallbackMessage is returned when no passage clears the threshold.
const DefaultFallbackMessage = "I could not find an answer to that question in the library."

// DefaultConfig returns a Config with defaults for local use.
func DefaultConfig() Config {
	return Config{
		Corpus: CorpusConfig{
			Dir:      "corpus",
			Debounce: 500 * time.Millisecond,
		},
		Retrieval: RetrievalConfig{
			MaxCandidates:   10,
			MaxSupporting:   3,
			MinOverlap:      1,
			MinScore:        0.05,
			ExcerptLength:   240,
			FallbackMessage: DefaultFallbackMessage,
		},
		Translation: TranslationConfig{
			Backend:    TranslationNone,
			BaseURL:    "http://localhost:5000",
			Timeout:    5 * time.Second,
			MaxRetries: 2,
			GlossaryDB: "glossary/glossary.db",
			Cache: CacheConfig{
				Backend: CacheMemory,
				TTL:     time.Hour,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
