package ai

import (
	"context"
	"fmt"

	"github.com/planboard/backend/config"
	"github.com/planboard/backend/errs"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// SamplingParams are the per-call model parameters.
type SamplingParams struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// ChatClient is the chat-completion boundary of the pipeline. The production
// implementation talks to an OpenAI-compatible endpoint; tests substitute
// stubs.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, params SamplingParams) (string, error)
}

// OpenRouterClient implements ChatClient over any OpenAI-compatible API via
// langchaingo.
type OpenRouterClient struct {
	llm *openai.LLM
}

// NewChatClient builds the production client. A missing API key is a
// configuration error surfaced before any generation attempt is made.
func NewChatClient(cfg config.AIConfig) (*OpenRouterClient, error) {
	if cfg.APIKey == "" {
		return nil, errs.NewConfigMissingError("OPENROUTER_API_KEY")
	}

	llm, err := openai.New(
		openai.WithModel(cfg.ModelID),
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrConfigInvalid, err)
	}

	return &OpenRouterClient{llm: llm}, nil
}

func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userPrompt string, params SamplingParams) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userPrompt))

	response, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(params.Temperature),
		llms.WithMaxTokens(params.MaxTokens),
		llms.WithTopP(params.TopP),
		llms.WithFrequencyPenalty(params.FrequencyPenalty),
		llms.WithPresencePenalty(params.PresencePenalty),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrTransport, err)
	}

	if len(response.Choices) == 0 || response.Choices[0].Content == "" {
		return "", errs.ErrEmptyResponse
	}

	return response.Choices[0].Content, nil
}
