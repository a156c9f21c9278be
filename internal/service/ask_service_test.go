package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kesona/askhub/internal/agent"
	appErr "github.com/kesona/askhub/internal/pkg/errors"
	"github.com/kesona/askhub/internal/rag"
)

type fakeAgent struct {
	route  agent.Route
	answer string
	err    error
	calls  int
}

func (a *fakeAgent) Name() agent.Route {
	return a.route
}

func (a *fakeAgent) Answer(context.Context, string) (string, error) {
	a.calls++
	if a.err != nil {
		return "", a.err
	}
	return a.answer, nil
}

type fixedRouter struct {
	route string
}

func (r fixedRouter) Generate(context.Context, string) (string, error) {
	return r.route, nil
}

func newAskService(route string, agents ...agent.Agent) *AskService {
	controller := agent.NewController(fixedRouter{route: route})
	return NewAskService(controller, agents, 1024, 128, time.Minute)
}

func TestAsk_DispatchesToRoutedAgent(t *testing.T) {
	web := &fakeAgent{route: agent.RouteWebSearch, answer: "from the web"}
	syn := &fakeAgent{route: agent.RouteSynthesis, answer: "from the model"}
	svc := newAskService("websearch", web, syn)

	got, err := svc.Ask(context.Background(), "what happened today")
	require.NoError(t, err)
	require.Equal(t, agent.RouteWebSearch, got.Agent)
	require.Equal(t, "from the web", got.Answer)
	require.Equal(t, 1, web.calls)
	require.Zero(t, syn.calls)
}

func TestAsk_CachesAnswers(t *testing.T) {
	web := &fakeAgent{route: agent.RouteWebSearch, answer: "cached answer"}
	svc := newAskService("websearch", web)

	for i := 0; i < 3; i++ {
		got, err := svc.Ask(context.Background(), "  same question  ")
		require.NoError(t, err)
		require.Equal(t, "cached answer", got.Answer)
	}
	require.Equal(t, 1, web.calls)
}

func TestAsk_RejectsBadInput(t *testing.T) {
	svc := newAskService("websearch", &fakeAgent{route: agent.RouteWebSearch})

	_, err := svc.Ask(context.Background(), "   ")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Ask(context.Background(), strings.Repeat("q", 2048))
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestAsk_DocQAWithoutDocumentGivesGuidance(t *testing.T) {
	doc := &fakeAgent{route: agent.RouteDocQA, err: rag.ErrNotReady}
	svc := newAskService("unused", doc)

	got, err := svc.Ask(context.Background(), "summarize the document please")
	require.NoError(t, err)
	require.Equal(t, agent.RouteDocQA, got.Agent)
	require.Contains(t, got.Answer, "upload")
}

func TestAsk_AgentErrorPropagates(t *testing.T) {
	boom := errors.New("provider down")
	web := &fakeAgent{route: agent.RouteWebSearch, err: boom}
	svc := newAskService("websearch", web)

	_, err := svc.Ask(context.Background(), "anything current")
	require.ErrorIs(t, err, boom)
}

func TestAsk_MissingAgentFallsBackToSynthesis(t *testing.T) {
	syn := &fakeAgent{route: agent.RouteSynthesis, answer: "direct"}
	// Router picks an agent that was never registered.
	svc := newAskService("websearch", syn)

	got, err := svc.Ask(context.Background(), "define entropy")
	require.NoError(t, err)
	require.Equal(t, "direct", got.Answer)
	require.Equal(t, 1, syn.calls)
}
