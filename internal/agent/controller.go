package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/kesona/askhub/internal/ai"
)

// Keyword sets that force a route before the model gets a say. Deterministic
// pre-routing keeps research and document queries off the general path even
// when the routing model is confused.
var (
	arxivKeywords = []string{"paper", "research", "arxiv", "study", "abstracts"}
	docKeywords   = []string{"document", "uploaded file", "this pdf", "file content", "summarize", "resume"}
)

const routePrompt = `You are an intelligent routing agent. Pick the best tool for the user's query:
- "docqa": questions about the user's uploaded document.
- "websearch": current events, breaking news, or general knowledge.
- "arxiv": academic papers or research queries.
- "synthesis": simple definitions or knowledge needing no external lookup.

Return ONLY the single tool name, nothing else.

User query: %q

Best tool:`

// Controller decides which agent answers a query: a keyword match wins
// outright, otherwise a language model picks, and anything unparseable
// falls back to web search.
type Controller struct {
	router ai.IGenerator
}

func NewController(router ai.IGenerator) *Controller {
	return &Controller{router: router}
}

func (c *Controller) Route(ctx context.Context, query string) Route {
	logger := logutil.GetLogger(ctx)
	if route, ok := keywordRoute(query); ok {
		logger.Info("query routed by keyword", zap.String("route", string(route)))
		return route
	}
	route := c.modelRoute(ctx, query)
	logger.Info("query routed by model", zap.String("route", string(route)))
	return route
}

func keywordRoute(query string) (Route, bool) {
	lower := strings.ToLower(query)
	for _, kw := range arxivKeywords {
		if strings.Contains(lower, kw) {
			return RouteArxiv, true
		}
	}
	for _, kw := range docKeywords {
		if strings.Contains(lower, kw) {
			return RouteDocQA, true
		}
	}
	return "", false
}

func (c *Controller) modelRoute(ctx context.Context, query string) Route {
	if c.router == nil {
		return RouteWebSearch
	}
	answer, err := c.router.Generate(ctx, fmt.Sprintf(routePrompt, query))
	if err != nil {
		logutil.GetLogger(ctx).Warn("routing model failed, defaulting to web search", zap.Error(err))
		return RouteWebSearch
	}
	return parseRoute(answer)
}

func parseRoute(answer string) Route {
	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(answer), "`\"'."))
	switch {
	case strings.Contains(cleaned, "docqa"), strings.Contains(cleaned, "pdf"):
		return RouteDocQA
	case strings.Contains(cleaned, "arxiv"):
		return RouteArxiv
	case strings.Contains(cleaned, "synthesis"):
		return RouteSynthesis
	default:
		return RouteWebSearch
	}
}
