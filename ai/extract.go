package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/planboard/backend/errs"
)

// CJK ideographs in a response mean the model ignored the English-only
// instruction; the whole response is rejected before any parsing is tried.
var cjkPattern = regexp.MustCompile(`[\x{4e00}-\x{9fff}]|你好|您好`)

var conversationalPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(Hello|Hi|Hey)[!.]?\s*`),
	regexp.MustCompile(`(?i)^(How can I help|What can I help)[^{]*`),
	regexp.MustCompile(`(?i)^(Sure|Of course)[!.]?\s*`),
	regexp.MustCompile(`(?i)^(Here is|Here's)[^{]*`),
}

var (
	jsonObjectSpan = regexp.MustCompile(`(?s)\{.*\}`)
	openingFence   = regexp.MustCompile("^```(?:json)?\\s*")
	closingFence   = regexp.MustCompile("\\s*```$")
)

// ExtractJSON locates the JSON object inside raw model output. Strategies are
// tried in order and the first one producing parseable JSON wins: strip
// conversational prefixes, scan for a {...} span, strip code fences and
// rescan, and finally try the whole cleaned string.
func ExtractJSON(rawText string) (string, error) {
	if strings.TrimSpace(rawText) == "" {
		return "", errs.NewMalformedResponseError("empty response content")
	}

	if cjkPattern.MatchString(rawText) {
		return "", errs.NewMalformedResponseError("response contains CJK characters, model ignored English-only instruction")
	}

	cleaned := strings.TrimSpace(rawText)
	for _, prefix := range conversationalPrefixes {
		cleaned = prefix.ReplaceAllString(cleaned, "")
	}

	if match := jsonObjectSpan.FindString(cleaned); match != "" && json.Valid([]byte(match)) {
		return match, nil
	}

	if strings.Contains(cleaned, "```") {
		defenced := openingFence.ReplaceAllString(cleaned, "")
		defenced = closingFence.ReplaceAllString(defenced, "")
		if match := jsonObjectSpan.FindString(defenced); match != "" && json.Valid([]byte(match)) {
			return match, nil
		}
		cleaned = defenced
	}

	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	preview := rawText
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return "", errs.NewMalformedResponseError(fmt.Sprintf("no valid JSON found in response: %s", preview))
}

// ValidateStructure checks the parsed payload against the expected shape:
// a lists array whose elements have a string title and a cards array, each
// card with string title and description. A card's labels array is optional
// and defaults to empty; any other deviation is a schema violation.
func ValidateStructure(parsed map[string]any) (BoardStructure, error) {
	rawLists, ok := parsed["lists"]
	if !ok {
		return BoardStructure{}, errs.NewSchemaViolationError("missing lists array")
	}

	listSlice, ok := rawLists.([]any)
	if !ok {
		return BoardStructure{}, errs.NewSchemaViolationError("lists is not an array")
	}

	structure := BoardStructure{Lists: make([]ListSpec, 0, len(listSlice))}
	for i, rawList := range listSlice {
		listMap, ok := rawList.(map[string]any)
		if !ok {
			return BoardStructure{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d] is not an object", i))
		}

		title, ok := listMap["title"].(string)
		if !ok {
			return BoardStructure{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d].title is not a string", i))
		}

		rawCards, ok := listMap["cards"]
		if !ok {
			return BoardStructure{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d] is missing cards array", i))
		}
		cardSlice, ok := rawCards.([]any)
		if !ok {
			return BoardStructure{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d].cards is not an array", i))
		}

		list := ListSpec{Title: title, Cards: make([]CardSpec, 0, len(cardSlice))}
		for j, rawCard := range cardSlice {
			card, err := validateCard(rawCard, i, j)
			if err != nil {
				return BoardStructure{}, err
			}
			list.Cards = append(list.Cards, card)
		}
		structure.Lists = append(structure.Lists, list)
	}

	return structure, nil
}

func validateCard(rawCard any, listIndex, cardIndex int) (CardSpec, error) {
	cardMap, ok := rawCard.(map[string]any)
	if !ok {
		return CardSpec{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d].cards[%d] is not an object", listIndex, cardIndex))
	}

	title, ok := cardMap["title"].(string)
	if !ok {
		return CardSpec{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d].cards[%d].title is not a string", listIndex, cardIndex))
	}

	description, ok := cardMap["description"].(string)
	if !ok {
		return CardSpec{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d].cards[%d].description is not a string", listIndex, cardIndex))
	}

	card := CardSpec{Title: title, Description: description, Labels: []string{}}

	if rawLabels, ok := cardMap["labels"]; ok && rawLabels != nil {
		labelSlice, ok := rawLabels.([]any)
		if !ok {
			return CardSpec{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d].cards[%d].labels is not an array", listIndex, cardIndex))
		}
		for _, rawLabel := range labelSlice {
			label, ok := rawLabel.(string)
			if !ok {
				return CardSpec{}, errs.NewSchemaViolationError(fmt.Sprintf("lists[%d].cards[%d].labels contains a non-string", listIndex, cardIndex))
			}
			card.Labels = append(card.Labels, label)
		}
	}

	return card, nil
}

// ParseAndValidate runs extraction, JSON decoding and structural validation
// in one step; it is what the orchestrator calls per attempt.
func ParseAndValidate(rawText string) (BoardStructure, error) {
	jsonText, err := ExtractJSON(rawText)
	if err != nil {
		return BoardStructure{}, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return BoardStructure{}, errs.NewMalformedResponseError("extracted text is not a JSON object")
	}

	return ValidateStructure(parsed)
}
