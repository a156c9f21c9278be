package agent

import "context"

// Route identifies the answering strategy chosen for a query.
type Route string

const (
	RouteDocQA     Route = "docqa"
	RouteWebSearch Route = "websearch"
	RouteArxiv     Route = "arxiv"
	RouteSynthesis Route = "synthesis"
)

// Agent answers a query with one retrieval strategy.
type Agent interface {
	Name() Route
	Answer(ctx context.Context, query string) (string, error)
}
