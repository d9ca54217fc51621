// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

const defaultTimeout = 5 * time.Second

// Detector is the language identification the Bridge relies on.
type Detector interface {
	Detect(text string) types.DetectedLanguage
	LooksEnglish(text string) bool
}

// BridgeOptions configures a Bridge. Zero values select defaults.
type BridgeOptions struct {
	// Cache memoizes successful translations; nil disables caching.
	Cache Cache

	// Timeout bounds each backend call (default 5s).
	Timeout time.Duration

	Logger *zap.Logger
}

// Bridge translates user text to English and answers back to the user's
// language. It is safe for concurrent use.
type Bridge struct {
	backend  Backend
	detector Detector
	cache    Cache
	timeout  time.Duration
	logger   *zap.Logger
	group    singleflight.Group
}

// NewBridge returns a Bridge over backend.
func NewBridge(backend Backend, detector Detector, opts BridgeOptions) *Bridge {
	if backend == nil {
		backend = Noop{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Bridge{
		backend:  backend,
		detector: detector,
		cache:    opts.Cache,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}
}

// Backend returns the wrapped backend.
func (b *Bridge) Backend() Backend { return b.backend }

// Detect identifies the language of text.
func (b *Bridge) Detect(text string) types.DetectedLanguage {
	return b.detector.Detect(text)
}

// ToEnglish detects the language of text and translates it to English.
// English text, and unknown text that looks English, passes through.
// On failure the result still carries the original text and the detection.
func (b *Bridge) ToEnglish(ctx context.Context, text string) (types.TranslationResult, error) {
	detected := b.detector.Detect(text)
	res := types.TranslationResult{Text: text, Detected: detected, Target: types.English}

	if detected.Is(types.English) || (!detected.Known && b.detector.LooksEnglish(text)) {
		return res, nil
	}

	source := AutoDetect
	if detected.Known {
		source = string(detected.Code)
	}
	out, err := b.translate(ctx, text, source, string(types.English))
	if err != nil {
		return res, err
	}
	res.Text = out
	res.Translated = true
	return res, nil
}

// FromEnglish translates English text to target. Any English tag is the
// identity; an unparsable tag fails with ErrTranslationUnavailable.
func (b *Bridge) FromEnglish(ctx context.Context, text, target string) (string, error) {
	code, err := NormalizeCode(target)
	if err != nil {
		return text, fmt.Errorf("%w: %w", ErrTranslationUnavailable, err)
	}
	if code == types.English || text == "" {
		return text, nil
	}
	out, err := b.translate(ctx, text, string(types.English), string(code))
	if err != nil {
		return text, err
	}
	return out, nil
}

func (b *Bridge) translate(ctx context.Context, text, source, target string) (string, error) {
	key := cacheKey(source, target, text)
	if b.cache != nil {
		if v, ok := b.cache.Get(ctx, key); ok {
			return v, nil
		}
	}

	start := time.Now()
	// The shared call is detached from any one caller; each caller
	// still gives up on its own ctx.
	detached := context.WithoutCancel(ctx)
	ch := b.group.DoChan(key, func() (any, error) {
		out, err := b.call(detached, text, source, target)
		if err == nil && b.cache != nil {
			b.cache.Set(detached, key, out)
		}
		return out, err
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}
	if res.Err != nil {
		b.logger.Warn("translation failed",
			zap.String("backend", b.backend.Name()),
			zap.String("source", source),
			zap.String("target", target),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(res.Err),
		)
		return "", fmt.Errorf("%w: %s to %s via %s: %w", ErrTranslationUnavailable, source, target, b.backend.Name(), res.Err)
	}

	b.logger.Debug("translated",
		zap.String("backend", b.backend.Name()),
		zap.String("source", source),
		zap.String("target", target),
		zap.Bool("shared", res.Shared),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res.Val.(string), nil
}

// call runs one backend request in its own goroutine so a backend that
// ignores ctx cannot outlive the deadline.
func (b *Bridge) call(ctx context.Context, text, source, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		out, err := b.backend.Translate(ctx, text, source, target)
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		if r.err == nil && strings.TrimSpace(r.text) == "" && strings.TrimSpace(text) != "" {
			return "", ErrEmptyTranslation
		}
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
