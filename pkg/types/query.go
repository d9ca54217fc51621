// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Scope restricts retrieval to a single book or the whole library.
type Scope string

const (
	ScopeBook    Scope = "book"
	ScopeLibrary Scope = "library"
)

// Request is the strongly typed query accepted by the orchestrator.
type Request struct {
	// Message is the user's question, non-empty after trimming.
	Message string `json:"message" validate:"required"`

	// Scope defaults to library when empty.
	Scope Scope `json:"scope" validate:"omitempty,oneof=book library"`

	// BookID is required when Scope is book.
	BookID string `json:"bookId,omitempty" validate:"required_if=Scope book"`

	// TargetLanguage defaults to "en".
	TargetLanguage string `json:"targetLanguage"`
}

// Source identifies where an answer came from.
type Source struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Section string `json:"section"`
}

// Response is returned for every valid request, found or not.
type Response struct {
	// Answer is BaseAnswer translated into TargetLanguage. When
	// localization failed the two are equal and Localized is false.
	Answer     string `json:"answer"`
	BaseAnswer string `json:"baseAnswer"`

	TargetLanguage   string `json:"targetLanguage"`
	DetectedLanguage string `json:"detectedLanguage"`

	Found  bool    `json:"found"`
	Source *Source `json:"source"`

	Supporting []string `json:"supporting,omitempty"`
	Score      float64  `json:"score,omitempty"`
	Localized  bool     `json:"localized"`
}
