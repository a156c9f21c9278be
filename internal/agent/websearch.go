package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/kesona/askhub/internal/ai"
)

const defaultSearchEndpoint = "https://html.duckduckgo.com/html/"

const webSearchPrompt = `Based on these web search snippets, answer the question: %s

%s`

// SearchResult is one scraped web hit.
type SearchResult struct {
	Title   string
	Snippet string
	URL     string
}

// WebSearch scrapes DuckDuckGo's HTML results page and lets the model
// synthesize an answer from the snippets.
type WebSearch struct {
	gen        ai.IGenerator
	endpoint   string
	maxResults int
	client     *http.Client
}

func NewWebSearch(gen ai.IGenerator, endpoint string, maxResults int) *WebSearch {
	if endpoint == "" {
		endpoint = defaultSearchEndpoint
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &WebSearch{
		gen:        gen,
		endpoint:   endpoint,
		maxResults: maxResults,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *WebSearch) Name() Route {
	return RouteWebSearch
}

func (a *WebSearch) Answer(ctx context.Context, query string) (string, error) {
	results, err := a.search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("web search failed: %w", err)
	}
	if len(results) == 0 {
		return "No real-time web results were found for your query.", nil
	}
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		fmt.Fprintf(&sb, "Result %d:\nTitle: %s\nSnippet: %s", i+1, r.Title, r.Snippet)
	}
	logutil.GetLogger(ctx).Info("web search done", zap.Int("results", len(results)))
	return a.gen.Generate(ctx, fmt.Sprintf(webSearchPrompt, query, sb.String()))
}

func (a *WebSearch) search(ctx context.Context, query string) ([]SearchResult, error) {
	form := url.Values{}
	form.Set("q", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "askhub/1.0")
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find(".result__title").Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())
		href, _ := s.Find(".result__title a").Attr("href")
		if title == "" && snippet == "" {
			return true
		}
		results = append(results, SearchResult{
			Title:   title,
			Snippet: snippet,
			URL:     href,
		})
		return len(results) < a.maxResults
	})
	return results, nil
}
