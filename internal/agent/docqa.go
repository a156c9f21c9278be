package agent

import (
	"context"
	"fmt"

	"github.com/kesona/askhub/internal/ai"
	"github.com/kesona/askhub/internal/rag"
)

const docQAPrompt = `You are a helpful assistant. Based only on the retrieved text from the user's document, answer the question concisely. If the information is not present, state that fact.

--- Retrieved Document Text ---
%s
--- End Text ---

User's question: %s`

// DocQA answers questions about the currently indexed document by
// retrieving the nearest segments and asking the model to stay within them.
type DocQA struct {
	store *rag.Store
	gen   ai.IGenerator
	topK  int
}

func NewDocQA(store *rag.Store, gen ai.IGenerator, topK int) *DocQA {
	if topK <= 0 {
		topK = 4
	}
	return &DocQA{store: store, gen: gen, topK: topK}
}

func (a *DocQA) Name() Route {
	return RouteDocQA
}

func (a *DocQA) Answer(ctx context.Context, query string) (string, error) {
	retrieved, err := a.store.SearchContext(ctx, query, a.topK)
	if err != nil {
		return "", err
	}
	return a.gen.Generate(ctx, fmt.Sprintf(docQAPrompt, retrieved, query))
}
