package ai

import (
	"fmt"
	"strings"
)

// DescriptionParams feed the card-description prompt. CardType selects the
// content guidelines; unknown types fall back to "task".
type DescriptionParams struct {
	CardTitle      string
	CardType       string
	ProjectContext string
	Requirements   []string
}

var cardTypeGuidelines = map[string]string{
	"epic": `- Describe the overarching goal and the user value it unlocks
- Break the epic into 3-6 major workstreams as a bulleted list
- Note dependencies between workstreams and external teams
- State what "done" looks like at the epic level`,
	"story": `- Open with a one-sentence user story (As a..., I want..., so that...)
- List concrete acceptance criteria as a blockquote
- Describe the main user flow step by step
- Mention edge cases the implementation must cover`,
	"task": `- State the specific technical work to be done and why
- List implementation steps in order
- Name the files, services, or components likely to change
- Include verification steps (how to confirm the task is complete)`,
	"bug": `- Describe observed behavior versus expected behavior
- Provide reproduction steps as a numbered list
- Note suspected root cause areas if known
- Define the fix's acceptance criteria as a blockquote`,
}

// BuildDescriptionPrompt assembles the single-shot prompt that asks the model
// for a rich Markdown card description.
func BuildDescriptionPrompt(params DescriptionParams) string {
	cardType := params.CardType
	if _, ok := cardTypeGuidelines[cardType]; !ok {
		cardType = "task"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a comprehensive, well-structured description for the following %s:\n\n", cardType)
	fmt.Fprintf(&sb, "**Card Title:** %s\n", params.CardTitle)
	if params.ProjectContext != "" {
		fmt.Fprintf(&sb, "**Project Context:** %s\n", params.ProjectContext)
	}
	if len(params.Requirements) > 0 {
		sb.WriteString("\nSpecific Requirements:\n")
		for _, req := range params.Requirements {
			fmt.Fprintf(&sb, "- %s\n", req)
		}
	}

	fmt.Fprintf(&sb, "\n**Description Requirements:**\n%s\n", cardTypeGuidelines[cardType])
	sb.WriteString(`
**Markdown Formatting Guidelines:**
- Use **bold text** for key actions and important concepts
- Use headings (## or ###) to organize sections
- Use bullet points or numbered lists for steps, requirements, or features
- Use blockquotes (>) for acceptance criteria or important notes
- Ensure proper line spacing and visual hierarchy

**Content Guidelines:**
- Write in active voice with specific action verbs
- Include concrete deliverables and outcomes
- Keep the description focused on this single card

Respond ONLY with the description text in Markdown, without any preamble.`)

	return sb.String()
}
