// Package pricelookup answers "what does this service cost per month right
// now" by combining web search snippets with an LLM read of them. It backs
// the subscription audit: the returned price is compared against the charge
// recorded in the store.
package pricelookup

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aksh2758/subzap-ai-agent/internal/websearch"
)

// Searcher is the web search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error)
}

// Generator is the LLM collaborator, same shape as the extraction one.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var numberPattern = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// Lookup resolves current subscription prices.
type Lookup struct {
	search     Searcher
	gen        Generator
	locale     string
	maxResults int
	log        zerolog.Logger
	now        func() time.Time
}

// NewLookup creates a price lookup. locale qualifies the search query (e.g.
// "India"); maxResults bounds how many snippets feed the model.
func NewLookup(search Searcher, gen Generator, locale string, maxResults int, log zerolog.Logger) *Lookup {
	return &Lookup{
		search:     search,
		gen:        gen,
		locale:     locale,
		maxResults: maxResults,
		log:        log,
		now:        time.Now,
	}
}

// CurrentMonthlyPrice returns the best-effort current monthly price for a
// service plus the diagnostic context behind it (the search snippets, or the
// failure message). Zero is the "unknown" sentinel; no failure escapes this
// boundary.
func (l *Lookup) CurrentMonthlyPrice(ctx context.Context, service string) (float64, string) {
	query := fmt.Sprintf("current monthly subscription price of %s in %s %d",
		service, l.locale, l.now().Year())

	results, err := l.search.Search(ctx, query, l.maxResults)
	if err != nil {
		l.log.Warn().Err(err).Str("service", service).Msg("price search failed")
		return 0, err.Error()
	}
	if len(results) == 0 {
		return 0, "no search results found"
	}

	snippets := make([]string, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, r.Snippet)
	}
	searchContext := strings.Join(snippets, "\n")

	raw, err := l.gen.GenerateText(ctx, buildPricePrompt(service, searchContext))
	if err != nil {
		l.log.Warn().Err(err).Str("service", service).Msg("price extraction failed")
		return 0, err.Error()
	}

	match := numberPattern.FindString(raw)
	if match == "" {
		return 0, searchContext
	}
	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, searchContext
	}

	return price, searchContext
}

func buildPricePrompt(service, searchContext string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "I searched for the price of %q and got these results:\n\n", service)
	b.WriteString(searchContext)
	b.WriteString("\n\nTask: extract the standard monthly price in Indian Rupees.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- If multiple plans exist, pick the \"Standard\" or \"Premium\" one (most common).\n")
	b.WriteString("- Return ONLY the number (e.g. 649).\n")
	b.WriteString("- If you cannot find a price, return '0'.\n")

	return b.String()
}
