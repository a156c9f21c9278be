package agent

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/kesona/askhub/internal/ai"
)

const defaultArxivEndpoint = "http://export.arxiv.org/api/query"

// Abstracts get clipped before prompting; full abstracts blow up the
// prompt without improving the summary.
const abstractClip = 300

const arxivPrompt = `Summarize these recent academic findings based on the abstracts for the query: %s

%s`

// Arxiv fetches the most recently submitted papers matching the query from
// the arXiv Atom API and summarizes their abstracts with the model.
type Arxiv struct {
	gen        ai.IGenerator
	endpoint   string
	maxResults int
	parser     *gofeed.Parser
}

func NewArxiv(gen ai.IGenerator, endpoint string, maxResults int) *Arxiv {
	if endpoint == "" {
		endpoint = defaultArxivEndpoint
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Arxiv{
		gen:        gen,
		endpoint:   endpoint,
		maxResults: maxResults,
		parser:     gofeed.NewParser(),
	}
}

func (a *Arxiv) Name() Route {
	return RouteArxiv
}

func (a *Arxiv) Answer(ctx context.Context, query string) (string, error) {
	feed, err := a.fetch(ctx, query)
	if err != nil {
		return "", fmt.Errorf("arxiv query failed: %w", err)
	}
	if len(feed.Items) == 0 {
		return "No recent academic papers found on arXiv.", nil
	}
	var sb strings.Builder
	for i, item := range feed.Items {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		fmt.Fprintf(&sb, "Paper: %s\nAbstract: %s...", strings.TrimSpace(item.Title), clip(item.Description, abstractClip))
	}
	logutil.GetLogger(ctx).Info("arxiv feed fetched", zap.Int("papers", len(feed.Items)))
	return a.gen.Generate(ctx, fmt.Sprintf(arxivPrompt, query, sb.String()))
}

func (a *Arxiv) fetch(ctx context.Context, query string) (*gofeed.Feed, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("sortBy", "submittedDate")
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", a.maxResults))
	return a.parser.ParseURLWithContext(a.endpoint+"?"+params.Encode(), ctx)
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
