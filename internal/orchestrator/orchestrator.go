// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator runs one question through the full pipeline:
// normalize and validate the request, translate it to English, retrieve
// and compose an answer against the live index, and translate the answer
// back. Translation failures degrade to English; they never fail a query.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/bookshelf-qa/internal/compose"
	"github.com/pdiddy/bookshelf-qa/internal/index"
	"github.com/pdiddy/bookshelf-qa/internal/retrieve"
	"github.com/pdiddy/bookshelf-qa/internal/tokenize"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

var (
	// ErrInvalidRequest is returned for a request that cannot be answered
	// as given, such as an empty message.
	ErrInvalidRequest = errors.New("orchestrator: invalid request")

	// ErrInvalidScope is returned for book scope without a book id or an
	// unrecognized scope.
	ErrInvalidScope = retrieve.ErrInvalidScope
)

// Translator converts between the user's language and English.
type Translator interface {
	ToEnglish(ctx context.Context, text string) (types.TranslationResult, error)
	FromEnglish(ctx context.Context, text, target string) (string, error)
}

// IndexSource yields the index to query. *index.Live satisfies it.
type IndexSource interface {
	Current() (*index.Index, error)
}

// Service answers questions. It holds no per-query state and is safe for
// concurrent use.
type Service struct {
	indexes    IndexSource
	translator Translator
	engine     *retrieve.Engine
	composer   *compose.Composer
	validate   *validator.Validate
	fallback   string
	logger     *zap.Logger
}

// NewService wires a Service from its collaborators.
func NewService(indexes IndexSource, translator Translator, cfg types.RetrievalConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := cfg.FallbackMessage
	if fallback == "" {
		fallback = types.DefaultFallbackMessage
	}
	return &Service{
		indexes:    indexes,
		translator: translator,
		engine:     retrieve.NewEngine(cfg),
		composer:   compose.NewComposer(cfg),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		fallback:   fallback,
		logger:     logger,
	}
}

// Answer runs req through the pipeline. Only caller errors
// (ErrInvalidRequest, ErrInvalidScope) and a missing index fail the call;
// no match is a normal response with Found false.
func (s *Service) Answer(ctx context.Context, req types.Request) (types.Response, error) {
	start := time.Now()
	log := s.logger.With(zap.String("request_id", uuid.NewString()))

	req = Normalize(req)
	if err := check(s.validate, req); err != nil {
		log.Info("rejected request", zap.Error(err))
		return types.Response{}, err
	}

	idx, err := s.indexes.Current()
	if err != nil {
		return types.Response{}, err
	}

	question, err := s.translator.ToEnglish(ctx, req.Message)
	if err != nil {
		log.Warn("question left untranslated", zap.Error(err))
		question.Text = req.Message
	}

	cands, err := s.engine.Search(idx, retrieve.Query{
		Tokens: tokenize.Normalize(question.Text),
		Scope:  req.Scope,
		BookID: req.BookID,
	})
	if err != nil {
		return types.Response{}, err
	}

	resp := types.Response{
		TargetLanguage:   req.TargetLanguage,
		DetectedLanguage: question.Detected.String(),
		BaseAnswer:       s.fallback,
	}
	if ans, ok := s.composer.Compose(cands); ok {
		resp.Found = true
		resp.BaseAnswer = ans.Text
		resp.Source = ans.Source()
		resp.Supporting = ans.Supporting
		resp.Score = ans.Score
	}

	target := targetCode(req.TargetLanguage)
	localized, err := s.translator.FromEnglish(ctx, resp.BaseAnswer, target)
	if err != nil {
		log.Warn("answer left in English", zap.String("target", target), zap.Error(err))
		localized = resp.BaseAnswer
	} else {
		resp.Localized = true
	}
	resp.Answer = localized

	log.Info("answered",
		zap.String("scope", string(req.Scope)),
		zap.String("book", req.BookID),
		zap.String("detected", resp.DetectedLanguage),
		zap.String("target", target),
		zap.Bool("translated", question.Translated),
		zap.Int("candidates", len(cands)),
		zap.Bool("found", resp.Found),
		zap.Bool("localized", resp.Localized),
		zap.Duration("latency", time.Since(start)),
	)
	return resp, nil
}
