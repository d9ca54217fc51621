// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/bookshelf-qa/internal/httputil"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

const userAgent = "bookshelf-qa/1.0"

// LibreTranslate talks to a LibreTranslate-compatible HTTP service.
type LibreTranslate struct {
	baseURL    string
	apiKey     string
	maxRetries int
	client     *http.Client
}

// NewLibreTranslate returns a backend for the service at baseURL. A nil
// client gets one with a 30 second transport timeout; per-call deadlines
// come from the caller's context.
func NewLibreTranslate(baseURL, apiKey string, maxRetries int, client *http.Client) *LibreTranslate {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &LibreTranslate{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		maxRetries: maxRetries,
		client:     client,
	}
}

// Name returns the backend identifier.
func (b *LibreTranslate) Name() string { return string(types.TranslationLibreTranslate) }

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
}

type libreError struct {
	Error string `json:"error"`
}

type libreLanguage struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Translate posts text to /translate.
func (b *LibreTranslate) Translate(ctx context.Context, text, source, target string) (string, error) {
	payload, err := json.Marshal(libreRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: b.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("encoding translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, b.client, req, b.maxRetries)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", b.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var out libreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding translate response: %w", err)
	}
	if strings.TrimSpace(out.TranslatedText) == "" && strings.TrimSpace(text) != "" {
		return "", fmt.Errorf("%s to %s: %w", source, target, ErrEmptyTranslation)
	}
	return out.TranslatedText, nil
}

// Languages lists the codes advertised by /languages.
func (b *LibreTranslate) Languages(ctx context.Context) ([]types.LanguageCode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/languages", nil)
	if err != nil {
		return nil, fmt.Errorf("building languages request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, b.client, req, b.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", b.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var langs []libreLanguage
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return nil, fmt.Errorf("decoding languages response: %w", err)
	}
	codes := make([]types.LanguageCode, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, types.LanguageCode(l.Code))
	}
	return codes, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e libreError
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("LibreTranslate returned HTTP %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("LibreTranslate returned HTTP %d", resp.StatusCode)
}
