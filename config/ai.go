package config

import (
	"fmt"
	"time"

	"github.com/planboard/backend/errs"
)

// AIConfig holds every knob of the plan-generation pipeline. All values are
// env-overridable; defaults were tuned against the DeepSeek free tier on
// OpenRouter.
type AIConfig struct {
	ModelID string
	APIKey  string
	BaseURL string

	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64

	SystemPrompt           string
	BoardPromptTemplate    string
	RevisionPromptTemplate string
	TaskPromptTemplate     string

	TaskPromptTemperature float64
	TaskPromptMaxTokens   int

	MaxRetries int
	RetryDelay time.Duration

	EnableFallback bool
	FallbackLabels []string
}

const defaultSystemPrompt = `Role: You are an AI service designed to generate Kanban board plans. Action: Generate a complete Kanban board in JSON format. Context: The user will provide a high-level project idea along with a list of desired features. Using this input, the AI must generate a well-structured Kanban board that includes relevant lists, detailed cards, and appropriate labels. The output must be optimized to reduce setup time for the user and provide a practical, actionable starting point for the project. Expectation: The output must be in English. It must contain only valid JSON with no explanations, conversational text, or greetings. The response must not start with any non-JSON content or phrases. Ensure the JSON is fully valid and parseable, representing a Kanban board that includes lists, cards, and labels based on the provided project idea and features. Generate a JSON object with this EXACT structure (all text must be in English): { "lists": [ { "title": "Backlog", "cards": [ { "title": "Setup project repository", "description": "Initialize git repository and basic project structure", "labels": ["setup", "backend"] } ] }, { "title": "To Do", "cards": [] }, { "title": "In Progress", "cards": [] }, { "title": "Done", "cards": [] } ] }`

const defaultBoardPromptTemplate = `IMPORTANT: Respond ONLY with valid JSON. Do NOT include any text before or after the JSON. Do NOT use Chinese language.

Project: {projectIdea}
Features: {features}

Generate a JSON object with this EXACT structure (all text must be in English):

{
  "lists": [
    {
      "title": "Backlog",
      "cards": [
        {
          "title": "Setup project repository",
          "description": "Initialize git repository and basic project structure",
          "labels": ["setup", "backend"]
        },
        {
          "title": "Design user interface",
          "description": "Create wireframes and mockups for the main user interface",
          "labels": ["design", "frontend"]
        }
      ]
    },
    {
      "title": "To Do",
      "cards": [
        {
          "title": "Implement authentication",
          "description": "Set up user login and registration system",
          "labels": ["backend", "security"]
        }
      ]
    },
    {
      "title": "In Progress",
      "cards": []
    },
    {
      "title": "Done",
      "cards": []
    }
  ]
}

STRICT REQUIREMENTS:
1. ALL text must be in English, never Chinese
2. Create exactly 4 lists with titles: "Backlog", "To Do", "In Progress", "Done"
3. Generate 4-8 cards total, distributed across Backlog (3-5 cards) and To Do (1-3 cards)
4. Each card needs: title (English), description (English), labels array
5. Use labels: "frontend", "backend", "api", "ui", "database", "testing", "documentation", "feature"
6. Descriptions must be actionable and specific
7. Return ONLY the JSON object, no other text`

const defaultRevisionPromptTemplate = `IMPORTANT: Respond ONLY with valid JSON. Do NOT include any text before or after the JSON. Do NOT use Chinese language.

You are revising an existing Kanban board. The board was originally generated for this project:

Project: {projectIdea}

Current board structure:
{currentStructure}

The user has asked for the following changes:
{revisionNotes}

Generate the FULL revised board as a JSON object with the same structure as before: a "lists" array where each list has a "title" and a "cards" array, and each card has "title", "description" and a "labels" array. Keep cards that are unaffected by the requested changes. Return ONLY the JSON object, no other text, all text in English.`

const defaultTaskPromptTemplate = `You are an expert prompt engineer. Your goal is to create a detailed, ready-to-use AI prompt that will help a developer complete the specific task described below.

**Overall Project Context:**
{{projectIdea}}

**Board Context:**
{{boardName}}

**Specific Task Details:**
Title: {{cardTitle}}
Description: {{cardDescription}}

**Your Instructions:**
Based on all the context provided, write a single, self-contained prompt the developer can paste into an AI assistant to get concrete help with this task.

The prompt should:
1. Define the role the AI assistant should take
2. State the goal of the task clearly and specifically
3. Include the relevant project context the assistant needs
4. Specify the expected output format and level of detail

**Output Requirements:**
Respond ONLY with the generated prompt text, without any additional commentary, headings, or meta-instructions.`

// LoadAI builds and range-validates the AI configuration from the env map.
// Out-of-range parameters are a hard failure rather than silently clamped so
// a misconfigured deployment is caught before the first generation call.
func LoadAI(c map[string]string) (AIConfig, error) {
	cfg := AIConfig{
		ModelID: GetString(c, "AI_MODEL_ID", "deepseek/deepseek-chat-v3-0324:free"),
		APIKey:  GetString(c, "OPENROUTER_API_KEY", ""),
		BaseURL: GetString(c, "AI_BASE_URL", "https://openrouter.ai/api/v1"),

		Temperature:      GetFloat(c, "AI_TEMPERATURE", 0.3),
		MaxTokens:        GetInt(c, "AI_MAX_TOKENS", 3000),
		TopP:             GetFloat(c, "AI_TOP_P", 1),
		FrequencyPenalty: GetFloat(c, "AI_FREQUENCY_PENALTY", 0),
		PresencePenalty:  GetFloat(c, "AI_PRESENCE_PENALTY", 0),

		SystemPrompt:           GetString(c, "AI_SYSTEM_PROMPT", defaultSystemPrompt),
		BoardPromptTemplate:    GetString(c, "AI_KANBAN_PROMPT_TEMPLATE", defaultBoardPromptTemplate),
		RevisionPromptTemplate: GetString(c, "AI_REVISION_PROMPT_TEMPLATE", defaultRevisionPromptTemplate),
		TaskPromptTemplate:     GetString(c, "AI_TASK_PROMPT_TEMPLATE", defaultTaskPromptTemplate),

		TaskPromptTemperature: GetFloat(c, "AI_TASK_PROMPT_TEMPERATURE", 0.7),
		TaskPromptMaxTokens:   GetInt(c, "AI_TASK_PROMPT_MAX_TOKENS", 1000),

		MaxRetries: GetInt(c, "AI_MAX_RETRIES", 2),
		RetryDelay: time.Duration(GetInt(c, "AI_RETRY_DELAY", 1000)) * time.Millisecond,

		EnableFallback: GetBool(c, "AI_ENABLE_FALLBACK", true),
		FallbackLabels: GetStrings(c, "AI_FALLBACK_LABELS", []string{
			"frontend", "backend", "feature", "api", "ui", "database", "testing", "documentation",
		}),
	}

	if err := cfg.validate(); err != nil {
		return AIConfig{}, err
	}
	return cfg, nil
}

func (cfg AIConfig) validate() error {
	checks := []struct {
		ok      bool
		problem string
	}{
		{cfg.Temperature >= 0 && cfg.Temperature <= 2, "AI_TEMPERATURE must be between 0 and 2"},
		{cfg.MaxTokens >= 1 && cfg.MaxTokens <= 8000, "AI_MAX_TOKENS must be between 1 and 8000"},
		{cfg.TopP >= 0 && cfg.TopP <= 1, "AI_TOP_P must be between 0 and 1"},
		{cfg.FrequencyPenalty >= -2 && cfg.FrequencyPenalty <= 2, "AI_FREQUENCY_PENALTY must be between -2 and 2"},
		{cfg.PresencePenalty >= -2 && cfg.PresencePenalty <= 2, "AI_PRESENCE_PENALTY must be between -2 and 2"},
		{cfg.TaskPromptTemperature >= 0 && cfg.TaskPromptTemperature <= 2, "AI_TASK_PROMPT_TEMPERATURE must be between 0 and 2"},
		{cfg.TaskPromptMaxTokens >= 1 && cfg.TaskPromptMaxTokens <= 8000, "AI_TASK_PROMPT_MAX_TOKENS must be between 1 and 8000"},
		{cfg.MaxRetries >= 1 && cfg.MaxRetries <= 5, "AI_MAX_RETRIES must be between 1 and 5"},
		{cfg.RetryDelay >= 100*time.Millisecond && cfg.RetryDelay <= 5*time.Second, "AI_RETRY_DELAY must be between 100 and 5000 milliseconds"},
	}

	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s", errs.ErrConfigInvalid, check.problem)
		}
	}
	return nil
}
