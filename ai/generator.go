package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/planboard/backend/config"
	"github.com/planboard/backend/errs"
	"github.com/rs/zerolog"
)

// Source records which path produced a structure. The API never exposes the
// distinction; it exists for logs.
type Source string

const (
	SourceModel    Source = "llm"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Generator drives generation attempts against the chat client: build prompt,
// call model, extract and validate, retry with linear backoff, and fall back
// to deterministic synthetic content when the budget is spent. Attempts
// within one request are strictly sequential.
type Generator struct {
	client ChatClient
	cache  *ResponseCache
	cfg    config.AIConfig
	logger zerolog.Logger
}

func NewGenerator(client ChatClient, cache *ResponseCache, cfg config.AIConfig, logger zerolog.Logger) *Generator {
	return &Generator{
		client: client,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

// GeneratePlan returns a board structure for the request, serving from cache
// when an identical normalized request was answered recently.
func (g *Generator) GeneratePlan(ctx context.Context, req GenerationRequest) (BoardStructure, Source, error) {
	if cached, ok := g.cache.Get(req.ProjectIdea, req.Features); ok {
		g.logger.Info().Str("projectIdea", req.ProjectIdea).Msg("serving cached structure, skipping generation")
		return cached, SourceCache, nil
	}

	prompt := Interpolate(g.cfg.BoardPromptTemplate, map[string]string{
		"projectIdea": req.ProjectIdea,
		"features":    strings.Join(req.Features, ", "),
	})

	structure, source, err := g.generateWithRetry(ctx, prompt, func() (BoardStructure, error) {
		return g.fallbackStructure(req.Features), nil
	})
	if err != nil {
		return BoardStructure{}, source, err
	}

	g.cache.Put(req.ProjectIdea, req.Features, structure)
	return structure, source, nil
}

// ReviseBoard re-generates a full structure for an existing board. Revisions
// are never cached: the embedded board summary makes each request unique.
func (g *Generator) ReviseBoard(ctx context.Context, req RevisionRequest) (BoardStructure, Source, error) {
	prompt := Interpolate(g.cfg.RevisionPromptTemplate, map[string]string{
		"projectIdea":      req.ProjectIdea,
		"currentStructure": req.CurrentStructure,
		"revisionNotes":    req.RevisionNotes,
	})

	return g.generateWithRetry(ctx, prompt, func() (BoardStructure, error) {
		return g.revisionFallback(req.ListTitles), nil
	})
}

// generateWithRetry is the shared attempt loop. The first successful attempt
// returns immediately even if budget remains; exhaustion yields the fallback
// or, when fallback is disabled, GenerationExhausted.
func (g *Generator) generateWithRetry(ctx context.Context, prompt string, fallback func() (BoardStructure, error)) (BoardStructure, Source, error) {
	params := SamplingParams{
		Temperature:      g.cfg.Temperature,
		MaxTokens:        g.cfg.MaxTokens,
		TopP:             g.cfg.TopP,
		FrequencyPenalty: g.cfg.FrequencyPenalty,
		PresencePenalty:  g.cfg.PresencePenalty,
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxRetries; attempt++ {
		g.logger.Info().Int("attempt", attempt).Int("maxRetries", g.cfg.MaxRetries).Msg("generation attempt")

		raw, err := g.client.Complete(ctx, g.cfg.SystemPrompt, prompt, params)
		if err == nil {
			structure, parseErr := ParseAndValidate(raw)
			if parseErr == nil {
				g.logger.Info().Int("attempt", attempt).Int("cards", structure.TotalCards()).Msg("generation validated")
				return structure, SourceModel, nil
			}
			err = parseErr
		}

		lastErr = err
		g.logger.Warn().Err(err).Int("attempt", attempt).Msg("generation attempt failed")

		if attempt == g.cfg.MaxRetries {
			break
		}

		// Linear backoff: RetryDelay * attemptNumber
		if err := sleepContext(ctx, g.cfg.RetryDelay*time.Duration(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	if !g.cfg.EnableFallback {
		return BoardStructure{}, SourceModel, errs.NewGenerationExhaustedError(g.cfg.MaxRetries, lastErr)
	}

	g.logger.Warn().Err(lastErr).Int("attempts", g.cfg.MaxRetries).Msg("generation exhausted, using fallback structure")
	structure, _ := fallback()
	return structure, SourceFallback, nil
}

// fallbackStructure builds a deterministic board from the raw feature list:
// one card per feature capped at six, alternating between two label pairs,
// split across Backlog and To Do with the trailing lists left empty.
func (g *Generator) fallbackStructure(features []string) BoardStructure {
	capped := features
	if len(capped) > 6 {
		capped = capped[:6]
	}

	primary := "frontend"
	secondary := "backend"
	if len(g.cfg.FallbackLabels) > 0 && g.cfg.FallbackLabels[0] != "" {
		primary = g.cfg.FallbackLabels[0]
	}
	if len(g.cfg.FallbackLabels) > 1 && g.cfg.FallbackLabels[1] != "" {
		secondary = g.cfg.FallbackLabels[1]
	}

	cards := make([]CardSpec, 0, len(capped))
	for i, feature := range capped {
		labels := []string{primary, "feature"}
		if i%2 == 1 {
			labels = []string{secondary, "feature"}
		}
		cards = append(cards, CardSpec{
			Title:       fmt.Sprintf("Implement %s", feature),
			Description: fmt.Sprintf("<p><strong>Implement %s functionality</strong> for the project. This task involves developing the core features and ensuring proper integration with the existing system.</p>", feature),
			Labels:      labels,
		})
	}

	backlog := cards
	var todo []CardSpec
	if len(cards) > 4 {
		backlog = cards[:4]
		todo = cards[4:]
	}

	return BoardStructure{Lists: []ListSpec{
		{Title: "Backlog", Cards: backlog},
		{Title: "To Do", Cards: todo},
		{Title: "In Progress", Cards: []CardSpec{}},
		{Title: "Done", Cards: []CardSpec{}},
	}}
}

// revisionFallback recreates the board's existing list titles with zero
// cards. Weaker than the fresh-generation fallback on purpose: there is no
// feature list to synthesize cards from.
func (g *Generator) revisionFallback(listTitles []string) BoardStructure {
	lists := make([]ListSpec, 0, len(listTitles))
	for _, title := range listTitles {
		lists = append(lists, ListSpec{Title: title, Cards: []CardSpec{}})
	}
	return BoardStructure{Lists: lists}
}

// GenerateTaskPrompt does a single model call (no retry loop: there is no
// schema to validate, so a failed call is surfaced directly) and cleans
// echoed meta-instructions from the result.
func (g *Generator) GenerateTaskPrompt(ctx context.Context, variables map[string]string) (string, error) {
	metaPrompt := InterpolateTaskPrompt(g.cfg.TaskPromptTemplate, variables)

	raw, err := g.client.Complete(ctx, "", metaPrompt, SamplingParams{
		Temperature:      g.cfg.TaskPromptTemperature,
		MaxTokens:        g.cfg.TaskPromptMaxTokens,
		TopP:             g.cfg.TopP,
		FrequencyPenalty: g.cfg.FrequencyPenalty,
		PresencePenalty:  g.cfg.PresencePenalty,
	})
	if err != nil {
		return "", err
	}

	cleaned := CleanGeneratedPrompt(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", errs.ErrEmptyResponse
	}

	g.logger.Info().Int("length", len(cleaned)).Msg("generated task prompt")
	return cleaned, nil
}

// GenerateDescription does a single model call to produce a rich Markdown
// card description. Callers normalize the result before persisting it.
func (g *Generator) GenerateDescription(ctx context.Context, params DescriptionParams) (string, error) {
	prompt := BuildDescriptionPrompt(params)

	raw, err := g.client.Complete(ctx, "", prompt, SamplingParams{
		Temperature:      g.cfg.TaskPromptTemperature,
		MaxTokens:        g.cfg.TaskPromptMaxTokens,
		TopP:             g.cfg.TopP,
		FrequencyPenalty: g.cfg.FrequencyPenalty,
		PresencePenalty:  g.cfg.PresencePenalty,
	})
	if err != nil {
		return "", err
	}

	description := strings.TrimSpace(raw)
	if description == "" {
		return "", errs.ErrEmptyResponse
	}
	return description, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
