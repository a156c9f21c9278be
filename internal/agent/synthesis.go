package agent

import (
	"context"
	"fmt"

	"github.com/kesona/askhub/internal/ai"
)

// Synthesis answers directly from the model, no retrieval. It is the
// fallback strategy when no external lookup is needed.
type Synthesis struct {
	gen ai.IGenerator
}

func NewSynthesis(gen ai.IGenerator) *Synthesis {
	return &Synthesis{gen: gen}
}

func (a *Synthesis) Name() Route {
	return RouteSynthesis
}

func (a *Synthesis) Answer(ctx context.Context, query string) (string, error) {
	return a.gen.Generate(ctx, fmt.Sprintf("Answer the user query: %s", query))
}
