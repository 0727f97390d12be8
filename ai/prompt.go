package ai

import (
	"regexp"
	"strings"
)

// Two placeholder syntaxes are in use: board and revision templates use
// single-brace {name} placeholders, the task prompt template uses
// double-brace {{name}}. Both share the same substitution rule: recognized
// placeholders are replaced, unresolved ones are left verbatim so a missing
// variable is visible in the output instead of failing the request.

var (
	singleBracePlaceholder = regexp.MustCompile(`\{(\w+)\}`)
	doubleBracePlaceholder = regexp.MustCompile(`\{\{(\w+)\}\}`)
)

// Interpolate fills {name} placeholders in a board or revision template.
func Interpolate(template string, variables map[string]string) string {
	return singleBracePlaceholder.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := variables[key]; ok {
			return value
		}
		return match
	})
}

// InterpolateTaskPrompt fills {{name}} placeholders in the task prompt
// template.
func InterpolateTaskPrompt(template string, variables map[string]string) string {
	return doubleBracePlaceholder.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-2]
		if value, ok := variables[key]; ok {
			return value
		}
		return match
	})
}

// Patterns for meta-instruction lines the model sometimes echoes back when
// asked to generate a task prompt.
var metaLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^.*You are an expert.*$`),
	regexp.MustCompile(`(?m)^.*Your goal is to create.*$`),
	regexp.MustCompile(`(?m)^.*Based on all the context provided.*$`),
	regexp.MustCompile(`(?m)^.*Respond ONLY with.*$`),
	regexp.MustCompile(`(?m)^.*without any additional commentary.*$`),
	regexp.MustCompile(`(?m)^\*\*Overall Project Context:\*\*.*$`),
	regexp.MustCompile(`(?m)^\*\*Board Context:\*\*.*$`),
	regexp.MustCompile(`(?m)^\*\*Specific Task Details:\*\*.*$`),
	regexp.MustCompile(`(?m)^\*\*Your Instructions:\*\*.*$`),
	regexp.MustCompile(`(?m)^\*\*Output Requirements:\*\*.*$`),
	regexp.MustCompile(`(?m)^The prompt should:.*$`),
	regexp.MustCompile(`(?m)^\d+\.\s+.*(?:should|must|include|specify|provide|mention).*$`),
}

var (
	leftoverPlaceholders = regexp.MustCompile(`\{\{[^}]+\}\}`)
	excessBlankLines     = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// CleanGeneratedPrompt strips meta-instructions, unreplaced template
// variables and excess blank lines from a model-generated task prompt.
func CleanGeneratedPrompt(prompt string) string {
	if prompt == "" {
		return ""
	}

	cleaned := prompt
	for _, pattern := range metaLinePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	cleaned = leftoverPlaceholders.ReplaceAllString(cleaned, "")
	cleaned = excessBlankLines.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}
