package main

import (
	"context"
	"flag"
	"time"

	"github.com/Aksh2758/subzap-ai-agent/internal/config"
	"github.com/Aksh2758/subzap-ai-agent/internal/llm"
	"github.com/Aksh2758/subzap-ai-agent/internal/logger"
	"github.com/Aksh2758/subzap-ai-agent/internal/pricelookup"
	"github.com/Aksh2758/subzap-ai-agent/internal/store"
	"github.com/Aksh2758/subzap-ai-agent/internal/websearch"
)

// audit looks up the current monthly price of a subscription service and
// compares it against the most recent charge recorded for that merchant.
func main() {
	service := flag.String("service", "", "subscription service name, e.g. Netflix")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	if *service == "" {
		log.Fatal().Msg("-service is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gen, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.PriceModel)
	if err != nil {
		log.Fatal().Err(err).Msg("creating LLM client failed")
	}

	lookup := pricelookup.NewLookup(websearch.NewClient(), gen, cfg.SearchLocale, cfg.SearchMaxResults, log)

	price, diag := lookup.CurrentMonthlyPrice(ctx, *service)
	if price == 0 {
		log.Warn().Str("service", *service).Str("context", diag).Msg("could not determine current price")
		return
	}
	log.Info().Str("service", *service).Float64("current_price", price).Msg("current monthly price")

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("opening store failed")
	}
	defer st.Close(ctx)

	recorded, found, err := st.LatestCharge(ctx, *service)
	if err != nil {
		log.Fatal().Err(err).Msg("reading recorded charge failed")
	}
	if !found {
		log.Info().Str("service", *service).Msg("no recorded charge for this service")
		return
	}

	log.Info().
		Str("service", *service).
		Float64("recorded", recorded).
		Float64("current", price).
		Float64("difference", price-recorded).
		Msg("subscription audit")
}
