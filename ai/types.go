// Package ai implements the plan-generation pipeline: prompt templating,
// model response extraction and validation, markdown normalization, a
// short-TTL response cache and the retry/fallback orchestrator that ties them
// together.
package ai

// CardSpec is a card parsed from model output, not yet persisted.
type CardSpec struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
}

// ListSpec is a list parsed from model output together with its cards.
type ListSpec struct {
	Title string     `json:"title"`
	Cards []CardSpec `json:"cards"`
}

// BoardStructure is the canonical intermediate representation produced by
// either the model path or the fallback path. Exactly the lists it contains
// are persisted; nothing assumes there are four of them.
type BoardStructure struct {
	Lists []ListSpec `json:"lists"`
}

// TotalCards counts the cards across all lists.
func (s BoardStructure) TotalCards() int {
	total := 0
	for _, list := range s.Lists {
		total += len(list.Cards)
	}
	return total
}

// GenerationRequest is the immutable input of one plan generation.
type GenerationRequest struct {
	BoardName   string
	ProjectIdea string
	Features    []string
}

// RevisionRequest is the input of one board revision. CurrentStructure is a
// human-readable summary of the board's present lists and card counts that
// gets embedded in the prompt.
type RevisionRequest struct {
	ProjectIdea      string
	CurrentStructure string
	RevisionNotes    string
	ListTitles       []string
}
