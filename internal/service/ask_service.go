package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/kesona/askhub/internal/agent"
	"github.com/kesona/askhub/internal/ai"
	appErr "github.com/kesona/askhub/internal/pkg/errors"
	"github.com/kesona/askhub/internal/rag"
)

var ErrAIUnavailable = ai.ErrUnavailable

// AskAnswer carries the final answer plus which agent produced it.
type AskAnswer struct {
	Agent  agent.Route
	Answer string
}

// AskService routes a query to an agent and synthesizes an answer. Answers
// are memoized for a while since routing plus generation is the expensive
// path and users tend to retry the same question.
type AskService struct {
	controller    *agent.Controller
	agents        map[agent.Route]agent.Agent
	maxInputChars int
	cache         *expirable.LRU[string, AskAnswer]
}

func NewAskService(controller *agent.Controller, agents []agent.Agent, maxInputChars, cacheSize int, cacheTTL time.Duration) *AskService {
	byRoute := make(map[agent.Route]agent.Agent, len(agents))
	for _, a := range agents {
		byRoute[a.Name()] = a
	}
	return &AskService{
		controller:    controller,
		agents:        byRoute,
		maxInputChars: maxInputChars,
		cache:         expirable.NewLRU[string, AskAnswer](cacheSize, nil, cacheTTL),
	}
}

func (s *AskService) Ask(ctx context.Context, query string) (AskAnswer, error) {
	query, err := s.cleanInput(query)
	if err != nil {
		return AskAnswer{}, err
	}
	cacheKey := s.cacheKey(query)
	if cached, ok := s.cache.Get(cacheKey); ok {
		logutil.GetLogger(ctx).Debug("ask cache hit", zap.String("agent", string(cached.Agent)))
		return cached, nil
	}

	route := s.controller.Route(ctx, query)
	answer, err := s.dispatch(ctx, route, query)
	if err != nil {
		return AskAnswer{}, err
	}
	result := AskAnswer{Agent: route, Answer: answer}
	s.cache.Add(cacheKey, result)
	return result, nil
}

// dispatch runs the chosen agent. A document route without a ready index
// turns into guidance toward the upload flow instead of an error; every
// other agent failure propagates.
func (s *AskService) dispatch(ctx context.Context, route agent.Route, query string) (string, error) {
	chosen := s.agents[route]
	if chosen == nil {
		chosen = s.agents[agent.RouteSynthesis]
	}
	if chosen == nil {
		return "", appErr.ErrInternal
	}
	answer, err := chosen.Answer(ctx, query)
	if err != nil && route == agent.RouteDocQA && errors.Is(err, rag.ErrNotReady) {
		return "This query seems to be about a document, but none has been uploaded yet. Please upload one first.", nil
	}
	return answer, err
}

func (s *AskService) cleanInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", appErr.ErrInvalid
	}
	if s.maxInputChars > 0 && len(trimmed) > s.maxInputChars {
		return "", appErr.ErrInvalid
	}
	return trimmed, nil
}

func (s *AskService) cacheKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return "ask:" + hex.EncodeToString(hash[:])
}
