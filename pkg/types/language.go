// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LanguageCode is a lowercase ISO 639-1 base language code such as "en".
type LanguageCode string

// English is the internal working language of the retrieval engine.
const English LanguageCode = "en"

// UnknownLanguage is how an undetected language is rendered at the
// response boundary.
const UnknownLanguage = "unknown"

// DetectedLanguage is the outcome of language detection. Known is false
// when the detector declined to guess; Code is empty in that case and
// must not be read as a language.
type DetectedLanguage struct {
	Code       LanguageCode `json:"code,omitempty"`
	Known      bool         `json:"known"`
	Confidence float64      `json:"confidence"`
}

// Unknown returns a detection result that admits uncertainty.
func Unknown() DetectedLanguage {
	return DetectedLanguage{}
}

// Detected returns a known detection result.
func Detected(code LanguageCode, confidence float64) DetectedLanguage {
	return DetectedLanguage{Code: code, Known: true, Confidence: confidence}
}

// Is reports whether the detection is known and equals code.
func (d DetectedLanguage) Is(code LanguageCode) bool {
	return d.Known && d.Code == code
}

// String returns the language code, or "unknown".
func (d DetectedLanguage) String() string {
	if !d.Known {
		return UnknownLanguage
	}
	return string(d.Code)
}

// TranslationResult is the transient output of a translation into English.
type TranslationResult struct {
	Text     string           `json:"text"`
	Detected DetectedLanguage `json:"detected"`
	Target   LanguageCode     `json:"target"`

	// Translated is false when the text was passed through unchanged.
	Translated bool `json:"translated"`
}
