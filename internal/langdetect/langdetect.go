// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package langdetect estimates the language of short user messages.
//
// Non-Latin scripts are identified by their Unicode script. Latin-script
// text is scored against function-word profiles; the detector only names
// a language when the best profile has enough hits and clearly beats the
// runner-up, and reports Unknown otherwise. A wrong guess would send the
// translator the wrong source language, which is worse than no guess.
package langdetect

import (
	"strings"
	"unicode"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// Options control how confident the Latin-script pass must be.
type Options struct {
	// MinHits is the minimum number of profile matches (default 2).
	MinHits int

	// MinRatio is the minimum share of words matching the best profile (default 0.15).
	MinRatio float64

	// MinMargin is the minimum relative lead over the runner-up,
	// (best-second)/best (default 0.3).
	MinMargin float64

	// MinScriptShare is the share of letters a non-Latin script needs
	// before it decides the language (default 0.5).
	MinScriptShare float64
}

// Detector classifies text. It is immutable and safe for concurrent use.
type Detector struct {
	opts     Options
	profiles []profile
}

// New returns a Detector, filling zero options with defaults.
func New(opts Options) *Detector {
	if opts.MinHits <= 0 {
		opts.MinHits = 2
	}
	if opts.MinRatio <= 0 {
		opts.MinRatio = 0.15
	}
	if opts.MinMargin <= 0 {
		opts.MinMargin = 0.3
	}
	if opts.MinScriptShare <= 0 {
		opts.MinScriptShare = 0.5
	}
	return &Detector{opts: opts, profiles: latinProfiles}
}

// Detect returns the language of text, or Unknown when unsure.
func (d *Detector) Detect(text string) types.DetectedLanguage {
	if code, share, ok := d.detectScript(text); ok {
		return types.Detected(code, share)
	}

	words := latinWords(text)
	if len(words) == 0 {
		return types.Unknown()
	}
	scores := d.score(text, words)

	best, second := scores[0], scores[1]
	if best.hits < d.opts.MinHits {
		return types.Unknown()
	}
	if float64(best.hits)/float64(len(words)) < d.opts.MinRatio {
		return types.Unknown()
	}
	margin := float64(best.hits-second.hits) / float64(best.hits)
	if margin < d.opts.MinMargin {
		return types.Unknown()
	}
	return types.Detected(best.code, margin)
}

// LooksEnglish is the fallback check used when Detect is unsure: nearly
// every letter is basic ASCII and no other profile outscores English.
func (d *Detector) LooksEnglish(text string) bool {
	var letters, ascii int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r < unicode.MaxASCII {
			ascii++
		}
	}
	if letters == 0 || float64(ascii)/float64(letters) < 0.95 {
		return false
	}

	words := latinWords(text)
	scores := d.score(text, words)
	english := 0
	for _, s := range scores {
		if s.code == types.English {
			english = s.hits
		}
	}
	return english >= scores[0].hits
}

// Languages lists the codes the detector can report.
func (d *Detector) Languages() []types.LanguageCode {
	out := make([]types.LanguageCode, 0, len(d.profiles)+len(scriptLanguages))
	for _, p := range d.profiles {
		out = append(out, p.code)
	}
	out = append(out, scriptLanguages...)
	return out
}

type profileScore struct {
	code types.LanguageCode
	hits int
}

// score returns per-profile hit counts sorted best first; ties keep
// profile order. The result always has one entry per profile.
func (d *Detector) score(text string, words []string) []profileScore {
	scores := make([]profileScore, len(d.profiles))
	for i, p := range d.profiles {
		hits := 0
		for _, w := range words {
			if _, ok := p.words[w]; ok {
				hits++
			}
		}
		for _, r := range text {
			if strings.ContainsRune(p.marks, unicode.ToLower(r)) {
				hits++
			}
		}
		scores[i] = profileScore{code: p.code, hits: hits}
	}
	// insertion sort keeps equal scores in profile order
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].hits > scores[j-1].hits; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
	return scores
}

func latinWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
