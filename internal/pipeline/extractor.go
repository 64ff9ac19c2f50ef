package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Aksh2758/subzap-ai-agent/internal/domain"
)

// Generator is the LLM collaborator boundary: one prompt in, raw text out.
// Its output is not guaranteed to be pure JSON and goes through sanitization
// before parsing.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Extractor turns a block of normalized statement text into candidate
// transaction records via the LLM collaborator.
type Extractor struct {
	gen Generator
	log zerolog.Logger
}

// NewExtractor creates an extractor over the given generator.
func NewExtractor(gen Generator, log zerolog.Logger) *Extractor {
	return &Extractor{gen: gen, log: log}
}

// Extract returns the candidate transactions found in text. Failures on this
// path (collaborator unavailable, malformed response) fail soft: the result
// is an empty slice plus a log line, never an error. The failed flag lets the
// caller report partial success distinctly from an empty page. An empty text
// block short-circuits to "no transactions" without a model call.
func (e *Extractor) Extract(ctx context.Context, text string) (txs []*domain.Transaction, failed bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	txs, err := e.extract(ctx, text)
	if err != nil {
		e.log.Warn().Err(err).Msg("extraction failed, continuing with empty result")
		return nil, true
	}
	return txs, false
}

func (e *Extractor) extract(ctx context.Context, text string) ([]*domain.Transaction, error) {
	raw, err := e.gen.GenerateText(ctx, buildExtractionPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("extract: generate: %w", err)
	}

	payload, ok := sanitizeModelJSON(raw)
	if !ok {
		return nil, fmt.Errorf("extract: no JSON list found in model response")
	}

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("extract: unmarshal JSON: %w", err)
	}

	return transformRecords(items, e.log), nil
}

// sanitizeModelJSON cuts the model response down to the JSON list payload.
// The model is told to return a bare JSON array but routinely wraps it in
// prose or code fences, so everything outside the first '[' and the last ']'
// is discarded. ok is false when no such span exists.
func sanitizeModelJSON(raw string) (payload string, ok bool) {
	s := strings.TrimSpace(raw)

	start := strings.Index(s, "[")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(s, "]")
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
