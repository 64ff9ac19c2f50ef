// Package websearch implements the web search collaborator used by the
// subscription price lookup. It queries DuckDuckGo's HTML endpoint and
// scrapes result snippets out of the page.
package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultEndpoint = "https://html.duckduckgo.com/html/"

// Result is a single search hit.
type Result struct {
	Title   string
	Snippet string
}

// Client queries DuckDuckGo. Construct with NewClient.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient returns a search client with a sane request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   defaultEndpoint,
	}
}

// Search returns up to maxResults hits for query, in ranking order. Results
// without a snippet are skipped; an empty slice with a nil error means the
// search genuinely found nothing.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("websearch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("websearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("websearch: unexpected status %d", resp.StatusCode)
	}

	return parseResults(resp.Body, maxResults)
}

func parseResults(body io.Reader, maxResults int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("websearch: parse response: %w", err)
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find(".result__a").First().Text())
		snippet := strings.TrimSpace(sel.Find(".result__snippet").First().Text())
		if snippet == "" {
			return true
		}
		results = append(results, Result{Title: title, Snippet: snippet})
		return maxResults <= 0 || len(results) < maxResults
	})

	return results, nil
}
