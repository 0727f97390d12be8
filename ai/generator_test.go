package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/planboard/backend/config"
	"github.com/planboard/backend/errs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient replays canned responses in order; a nil error with a response
// simulates a model reply, a non-nil error a transport failure.
type stubClient struct {
	responses []stubResponse
	calls     int
	prompts   []string
}

type stubResponse struct {
	content string
	err     error
}

func (s *stubClient) Complete(_ context.Context, _, userPrompt string, _ SamplingParams) (string, error) {
	s.prompts = append(s.prompts, userPrompt)
	if s.calls >= len(s.responses) {
		return "", errors.New("stub exhausted: unexpected extra call")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp.content, resp.err
}

func testConfig() config.AIConfig {
	return config.AIConfig{
		Temperature:            0.3,
		MaxTokens:              3000,
		TopP:                   1,
		SystemPrompt:           "system",
		BoardPromptTemplate:    "Project: {projectIdea}\nFeatures: {features}",
		RevisionPromptTemplate: "Project: {projectIdea}\nCurrent: {currentStructure}\nChanges: {revisionNotes}",
		TaskPromptTemplate:     "Task: {{cardTitle}} in {{boardName}}",
		TaskPromptTemperature:  0.7,
		TaskPromptMaxTokens:    1000,
		MaxRetries:             2,
		RetryDelay:             time.Millisecond,
		EnableFallback:         true,
		FallbackLabels:         []string{"frontend", "backend"},
	}
}

func newTestGenerator(client ChatClient, cfg config.AIConfig) *Generator {
	return NewGenerator(client, NewResponseCache(time.Minute, zerolog.Nop()), cfg, zerolog.Nop())
}

const validPlanJSON = `{"lists":[{"title":"Backlog","cards":[` +
	`{"title":"A","description":"a","labels":["feature"]},` +
	`{"title":"B","description":"b","labels":[]},` +
	`{"title":"C","description":"c","labels":["backend"]}]}]}`

func TestGeneratePlanFirstAttemptSucceeds(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{content: validPlanJSON},
	}}
	g := newTestGenerator(client, testConfig())

	structure, source, err := g.GeneratePlan(context.Background(), GenerationRequest{
		BoardName:   "My Board",
		ProjectIdea: "a todo application",
		Features:    []string{"auth", "boards"},
	})
	require.NoError(t, err)
	assert.Equal(t, SourceModel, source)
	assert.Equal(t, 3, structure.TotalCards())
	assert.Equal(t, 1, client.calls)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "a todo application")
	assert.Contains(t, client.prompts[0], "auth, boards")
}

func TestGeneratePlanRetriesThenFallsBack(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{content: "not json at all"},
		{err: errors.New("upstream 502")},
	}}
	g := newTestGenerator(client, testConfig())

	features := []string{"auth", "boards", "labels"}
	structure, source, err := g.GeneratePlan(context.Background(), GenerationRequest{
		BoardName:   "My Board",
		ProjectIdea: "a todo application",
		Features:    features,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, 2, client.calls, "budget of 2 attempts, never a third")

	// One card per feature, all in Backlog since there are four or fewer.
	require.Len(t, structure.Lists, 4)
	assert.Equal(t, "Backlog", structure.Lists[0].Title)
	assert.Equal(t, "To Do", structure.Lists[1].Title)
	assert.Equal(t, "In Progress", structure.Lists[2].Title)
	assert.Equal(t, "Done", structure.Lists[3].Title)
	assert.Len(t, structure.Lists[0].Cards, 3)
	assert.Empty(t, structure.Lists[1].Cards)
	assert.Empty(t, structure.Lists[2].Cards)
	assert.Empty(t, structure.Lists[3].Cards)
	assert.GreaterOrEqual(t, structure.TotalCards(), len(features))
}

func TestGeneratePlanFallbackSplitsAcrossLists(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("down")},
		{err: errors.New("down")},
	}}
	g := newTestGenerator(client, testConfig())

	features := []string{"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8"}
	structure, source, err := g.GeneratePlan(context.Background(), GenerationRequest{
		ProjectIdea: "a big application",
		Features:    features,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, source)

	// Capped at six cards: four in Backlog, the rest in To Do.
	assert.Len(t, structure.Lists[0].Cards, 4)
	assert.Len(t, structure.Lists[1].Cards, 2)
	assert.Equal(t, 6, structure.TotalCards())

	// Label pairs alternate between the two configured fallback labels.
	assert.Equal(t, []string{"frontend", "feature"}, structure.Lists[0].Cards[0].Labels)
	assert.Equal(t, []string{"backend", "feature"}, structure.Lists[0].Cards[1].Labels)
	assert.Equal(t, []string{"frontend", "feature"}, structure.Lists[0].Cards[2].Labels)
}

func TestGeneratePlanFallbackDisabled(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("down")},
		{err: errors.New("down")},
	}}
	cfg := testConfig()
	cfg.EnableFallback = false
	g := newTestGenerator(client, cfg)

	_, _, err := g.GeneratePlan(context.Background(), GenerationRequest{
		ProjectIdea: "a todo application",
		Features:    []string{"auth"},
	})
	require.Error(t, err)
	assert.True(t, errs.IsGenerationExhausted(err))
	assert.Equal(t, 2, client.calls)
}

func TestGeneratePlanServesFromCache(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{content: validPlanJSON},
	}}
	g := newTestGenerator(client, testConfig())

	req := GenerationRequest{
		ProjectIdea: "a todo application",
		Features:    []string{"auth", "boards"},
	}

	_, source, err := g.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceModel, source)

	// Same request again, feature order shuffled: no second model call.
	req.Features = []string{"boards", "auth"}
	structure, source, err := g.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, source)
	assert.Equal(t, 3, structure.TotalCards())
	assert.Equal(t, 1, client.calls)
}

func TestGeneratePlanFallbackIsNotServedFromCache(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("down")},
		{err: errors.New("down")},
		{content: validPlanJSON},
	}}
	g := newTestGenerator(client, testConfig())

	// Two features means a two-card fallback, below the cache quality floor.
	req := GenerationRequest{
		ProjectIdea: "a todo application",
		Features:    []string{"auth", "boards"},
	}

	_, source, err := g.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, source)

	// The degenerate entry is swept; the next identical request reaches the
	// model again.
	_, source, err = g.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceModel, source)
	assert.Equal(t, 3, client.calls)
}

func TestReviseBoard(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{content: validPlanJSON},
	}}
	g := newTestGenerator(client, testConfig())

	structure, source, err := g.ReviseBoard(context.Background(), RevisionRequest{
		ProjectIdea:      "a todo application",
		CurrentStructure: "- Backlog (3 cards)\n- Done (0 cards)",
		RevisionNotes:    "add a testing list",
		ListTitles:       []string{"Backlog", "Done"},
	})
	require.NoError(t, err)
	assert.Equal(t, SourceModel, source)
	assert.Equal(t, 3, structure.TotalCards())

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "add a testing list")
	assert.Contains(t, client.prompts[0], "- Backlog (3 cards)")
}

func TestReviseBoardFallbackKeepsListTitles(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("down")},
		{err: errors.New("down")},
	}}
	g := newTestGenerator(client, testConfig())

	structure, source, err := g.ReviseBoard(context.Background(), RevisionRequest{
		ProjectIdea:   "a todo application",
		RevisionNotes: "change things",
		ListTitles:    []string{"Backlog", "In Review", "Done"},
	})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, source)

	require.Len(t, structure.Lists, 3)
	assert.Equal(t, "In Review", structure.Lists[1].Title)
	assert.Equal(t, 0, structure.TotalCards())
}

func TestGenerateTaskPrompt(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{content: "You are an expert software engineer.\nImplement the login form using the session endpoint.\n"},
	}}
	g := newTestGenerator(client, testConfig())

	prompt, err := g.GenerateTaskPrompt(context.Background(), map[string]string{
		"cardTitle": "Add login",
		"boardName": "My Board",
	})
	require.NoError(t, err)
	assert.Equal(t, "Implement the login form using the session endpoint.", prompt)

	require.Len(t, client.prompts, 1)
	assert.Equal(t, "Task: Add login in My Board", client.prompts[0])
}

func TestGenerateTaskPromptNoRetry(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("down")},
	}}
	g := newTestGenerator(client, testConfig())

	_, err := g.GenerateTaskPrompt(context.Background(), map[string]string{"cardTitle": "x"})
	require.Error(t, err)
	assert.Equal(t, 1, client.calls, "task prompt generation is a single shot")
}

func TestGenerateDescriptionEmptyResponse(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{content: "   \n"},
	}}
	g := newTestGenerator(client, testConfig())

	_, err := g.GenerateDescription(context.Background(), DescriptionParams{CardTitle: "Add login"})
	assert.ErrorIs(t, err, errs.ErrEmptyResponse)
}

func TestGeneratePlanContextCancelled(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("down")},
	}}
	cfg := testConfig()
	cfg.RetryDelay = 500 * time.Millisecond
	cfg.EnableFallback = false
	g := newTestGenerator(client, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := g.GeneratePlan(ctx, GenerationRequest{
		ProjectIdea: "a todo application",
		Features:    []string{"auth"},
	})
	require.Error(t, err)
	assert.Equal(t, 1, client.calls, "cancellation during backoff stops the loop")
}
