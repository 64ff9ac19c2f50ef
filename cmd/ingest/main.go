package main

import (
	"context"
	"flag"
	"time"

	"github.com/Aksh2758/subzap-ai-agent/internal/config"
	"github.com/Aksh2758/subzap-ai-agent/internal/llm"
	"github.com/Aksh2758/subzap-ai-agent/internal/logger"
	"github.com/Aksh2758/subzap-ai-agent/internal/pdftext"
	"github.com/Aksh2758/subzap-ai-agent/internal/pipeline"
	"github.com/Aksh2758/subzap-ai-agent/internal/store"
)

func main() {
	pdfPath := flag.String("pdf", "", "path to the bank statement PDF")
	fullDocument := flag.Bool("full-document", false,
		"send the capped page concatenation in one extraction call instead of one call per page")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	if *pdfPath == "" {
		log.Fatal().Msg("-pdf is required")
	}

	// Context with timeout so the CLI doesn't hang on a stuck collaborator.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("pdf", *pdfPath).Int("page_cap", cfg.PageCap).Msg("starting ingestion")

	pages, err := pdftext.Extract(*pdfPath, cfg.PageCap)
	if err != nil {
		log.Fatal().Err(err).Msg("reading PDF failed")
	}

	gen, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.ExtractionModel)
	if err != nil {
		log.Fatal().Err(err).Msg("creating LLM client failed")
	}

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("opening store failed")
	}
	defer st.Close(ctx)

	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring schema failed")
	}

	ingestor := pipeline.NewIngestor(pipeline.NewExtractor(gen, log), st, cfg.MaxPromptChars, log)

	var res *pipeline.Result
	if *fullDocument {
		res, err = ingestor.IngestDocument(ctx, pages)
	} else {
		res, err = ingestor.IngestPages(ctx, pages)
	}
	if err != nil {
		log.Fatal().Err(err).
			Int("pages_processed", res.PagesProcessed).
			Int64("inserted_before_failure", res.Inserted).
			Msg("ingestion failed")
	}

	count, total, err := st.Snapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot failed")
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("pages", res.PagesProcessed).
		Int("extraction_failures", res.ExtractionFailures).
		Int("extracted", res.Extracted).
		Int64("inserted", res.Inserted).
		Int64("stored_rows", count).
		Float64("stored_total_spend", total).
		Msg("ingestion completed")
}
