package pricelookup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aksh2758/subzap-ai-agent/internal/websearch"
)

type fakeSearcher struct {
	results []websearch.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newLookup(s Searcher, g Generator) *Lookup {
	l := NewLookup(s, g, "India", 3, zerolog.Nop())
	l.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return l
}

func TestCurrentMonthlyPrice(t *testing.T) {
	search := &fakeSearcher{results: []websearch.Result{
		{Title: "Netflix India", Snippet: "Netflix Standard costs ₹199 per month"},
	}}
	gen := &fakeGenerator{response: "199"}
	l := newLookup(search, gen)

	price, diag := l.CurrentMonthlyPrice(context.Background(), "Netflix")
	if price != 199.0 {
		t.Errorf("price = %v, want 199", price)
	}
	if !strings.Contains(diag, "₹199 per month") {
		t.Errorf("diagnostics should carry the search context, got %q", diag)
	}
	if len(search.queries) != 1 || !strings.Contains(search.queries[0], "Netflix") ||
		!strings.Contains(search.queries[0], "India") || !strings.Contains(search.queries[0], "2025") {
		t.Errorf("query = %q, want locale- and year-qualified service query", search.queries)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "₹199 per month") {
		t.Error("prompt should embed the search snippets")
	}
}

func TestCurrentMonthlyPrice_FirstNumberWins(t *testing.T) {
	search := &fakeSearcher{results: []websearch.Result{{Snippet: "pricing details"}}}
	gen := &fakeGenerator{response: "The Standard plan is Rs. 649 per month, Premium is 999."}
	l := newLookup(search, gen)

	price, _ := l.CurrentMonthlyPrice(context.Background(), "Netflix")
	if price != 649.0 {
		t.Errorf("price = %v, want 649", price)
	}
}

func TestCurrentMonthlyPrice_DecimalPrice(t *testing.T) {
	search := &fakeSearcher{results: []websearch.Result{{Snippet: "pricing"}}}
	gen := &fakeGenerator{response: "199.50"}
	l := newLookup(search, gen)

	price, _ := l.CurrentMonthlyPrice(context.Background(), "Spotify")
	if price != 199.5 {
		t.Errorf("price = %v, want 199.5", price)
	}
}

func TestCurrentMonthlyPrice_NoSearchResults(t *testing.T) {
	l := newLookup(&fakeSearcher{}, &fakeGenerator{})

	price, diag := l.CurrentMonthlyPrice(context.Background(), "ObscureService")
	if price != 0 {
		t.Errorf("price = %v, want 0 sentinel", price)
	}
	if diag != "no search results found" {
		t.Errorf("diag = %q", diag)
	}
}

func TestCurrentMonthlyPrice_SearchError(t *testing.T) {
	l := newLookup(&fakeSearcher{err: errors.New("network down")}, &fakeGenerator{})

	price, diag := l.CurrentMonthlyPrice(context.Background(), "Netflix")
	if price != 0 {
		t.Errorf("price = %v, want 0 sentinel", price)
	}
	if !strings.Contains(diag, "network down") {
		t.Errorf("diag = %q, want the failure message", diag)
	}
}

func TestCurrentMonthlyPrice_GeneratorError(t *testing.T) {
	search := &fakeSearcher{results: []websearch.Result{{Snippet: "pricing"}}}
	l := newLookup(search, &fakeGenerator{err: errors.New("model unavailable")})

	price, diag := l.CurrentMonthlyPrice(context.Background(), "Netflix")
	if price != 0 {
		t.Errorf("price = %v, want 0 sentinel", price)
	}
	if !strings.Contains(diag, "model unavailable") {
		t.Errorf("diag = %q", diag)
	}
}

func TestCurrentMonthlyPrice_NoNumberInResponse(t *testing.T) {
	search := &fakeSearcher{results: []websearch.Result{{Snippet: "pricing context"}}}
	l := newLookup(search, &fakeGenerator{response: "I could not determine a price."})

	price, diag := l.CurrentMonthlyPrice(context.Background(), "Netflix")
	if price != 0 {
		t.Errorf("price = %v, want 0 sentinel", price)
	}
	if !strings.Contains(diag, "pricing context") {
		t.Errorf("diag = %q, want the search context", diag)
	}
}
