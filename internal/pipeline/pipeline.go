// Package pipeline turns raw statement pages into persisted transactions:
// normalize, extract via the LLM collaborator, then one conflict-resolving
// bulk insert per batch.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Aksh2758/subzap-ai-agent/internal/domain"
)

// TransactionInserter is the storage collaborator boundary. The store's
// uniqueness constraint on (date, raw_description, amount) is the single
// source of truth for duplicates; the returned count is rows actually
// inserted after conflict resolution, not the batch size.
type TransactionInserter interface {
	InsertTransactions(ctx context.Context, txs []*domain.Transaction) (int64, error)
}

// Result summarizes one ingest action. Extracted > 0 with Inserted == 0 means
// the statement was already ingested; ExtractionFailures > 0 means partial
// success.
type Result struct {
	RunID              string
	PagesProcessed     int
	ExtractionFailures int
	Extracted          int
	Inserted           int64
}

// Ingestor drives the extraction and dedup/ingest pipeline for one upload
// action. Pages are processed strictly sequentially: each batch's commit must
// be visible before the next batch evaluates uniqueness conflicts.
type Ingestor struct {
	extractor      *Extractor
	store          TransactionInserter
	maxPromptChars int
	log            zerolog.Logger
}

// NewIngestor creates an ingestor. maxPromptChars caps the text block sent
// per extraction call; <= 0 disables the cap.
func NewIngestor(extractor *Extractor, store TransactionInserter, maxPromptChars int, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		extractor:      extractor,
		store:          store,
		maxPromptChars: maxPromptChars,
		log:            log,
	}
}

// IngestPages processes statement pages in document order, one extraction
// call and one bulk insert per page. Extraction failures skip the page and
// are counted; a store failure aborts the action and is returned along with
// the partial result, leaving previously committed batches intact.
func (in *Ingestor) IngestPages(ctx context.Context, pages []string) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := in.log.With().Str("run_id", res.RunID).Logger()

	for i, page := range pages {
		res.PagesProcessed++

		text := in.cap(Normalize(page))
		if text == "" {
			log.Debug().Int("page", i+1).Msg("no transactional lines on page")
			continue
		}

		txs, failed := in.extractor.Extract(ctx, text)
		if failed {
			res.ExtractionFailures++
			continue
		}
		if len(txs) == 0 {
			continue
		}
		res.Extracted += len(txs)

		inserted, err := in.store.InsertTransactions(ctx, txs)
		if err != nil {
			return res, fmt.Errorf("IngestPages: page %d: %w", i+1, err)
		}
		res.Inserted += inserted

		log.Info().
			Int("page", i+1).
			Int("extracted", len(txs)).
			Int64("inserted", inserted).
			Msg("page ingested")
	}

	return res, nil
}

// IngestDocument is the full-document variant: the normalized pages are
// concatenated up to the prompt ceiling and sent in a single extraction call
// with a single batch. Sanitization and failure semantics are identical to
// the per-page mode.
func (in *Ingestor) IngestDocument(ctx context.Context, pages []string) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := in.log.With().Str("run_id", res.RunID).Logger()

	var b strings.Builder
	for _, page := range pages {
		res.PagesProcessed++
		text := Normalize(page)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}

	text := in.cap(b.String())
	if text == "" {
		return res, nil
	}

	txs, failed := in.extractor.Extract(ctx, text)
	if failed {
		res.ExtractionFailures++
		return res, nil
	}
	if len(txs) == 0 {
		return res, nil
	}
	res.Extracted = len(txs)

	inserted, err := in.store.InsertTransactions(ctx, txs)
	if err != nil {
		return res, fmt.Errorf("IngestDocument: %w", err)
	}
	res.Inserted = inserted

	log.Info().
		Int("pages", res.PagesProcessed).
		Int("extracted", res.Extracted).
		Int64("inserted", inserted).
		Msg("document ingested")

	return res, nil
}

func (in *Ingestor) cap(text string) string {
	if in.maxPromptChars > 0 && len(text) > in.maxPromptChars {
		return text[:in.maxPromptChars]
	}
	return text
}
