package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// Markdown -> editor-markup normalizer for AI-generated card descriptions.
// Conversion is a direct line/pattern scan kept behind Normalize so it could
// be swapped for a real parser without touching callers.

var (
	htmlBlockTag = regexp.MustCompile(`(?i)<(p|div|h[1-6]|ul|ol|li|strong|em|br|blockquote|code|pre)\b[^>]*>`)

	markdownPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\*\*[^*]+\*\*`),   // bold **text**
		regexp.MustCompile(`__[^_]+__`),       // bold __text__
		regexp.MustCompile(`\*[^*]+\*`),       // italic *text*
		regexp.MustCompile(`_[^_]+_`),         // italic _text_
		regexp.MustCompile(`(?m)^#{1,6}\s+`),  // headings
		regexp.MustCompile(`(?m)^[-*]\s+`),    // unordered lists
		regexp.MustCompile(`(?m)^\d+\.\s+`),   // ordered lists
		regexp.MustCompile(`(?m)^>\s+`),       // blockquotes
		regexp.MustCompile("`[^`]+`"),         // inline code
		regexp.MustCompile("(?s)```.*?```"),   // code blocks
	}

	codeBlockPattern  = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	h3Pattern         = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Pattern         = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Pattern         = regexp.MustCompile(`(?m)^# (.+)$`)
	boldStarPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderPattern  = regexp.MustCompile(`__([^_]+)__`)
	italicStarPattern = regexp.MustCompile(`\*([^*]+)\*`)
	italicUnderPattern = regexp.MustCompile(`_([^_]+)_`)
	blockquotePattern = regexp.MustCompile(`(?m)^> (.+)$`)

	unorderedItemPattern = regexp.MustCompile(`^[-*]\s+(.+)$`)
	orderedItemPattern   = regexp.MustCompile(`^\d+\.\s+(.+)$`)

	paragraphSeparator = regexp.MustCompile(`\n\s*\n`)
	blockElementStart  = regexp.MustCompile(`^<(h[1-6]|ul|ol|blockquote|pre|div)`)
	blockElementSpan   = regexp.MustCompile(`(?s)(<(?:ul|ol|blockquote|h[1-6]|pre|div)[^>]*>.*?</(?:ul|ol|blockquote|h[1-6]|pre|div)>)`)
)

// IsMarkup reports whether text already carries recognized markup tags.
func IsMarkup(text string) bool {
	return htmlBlockTag.MatchString(text)
}

// ContainsMarkdown reports whether text carries any Markdown construct worth
// converting.
func ContainsMarkdown(text string) bool {
	if text == "" {
		return false
	}
	for _, pattern := range markdownPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// Normalize converts a card description to editor markup. Three mutually
// exclusive states: already-markup input passes through unchanged, Markdown
// is converted construct by construct, and plain text is wrapped in a single
// paragraph. Normalize(Normalize(x)) == Normalize(x), and it never fails:
// any internal problem degrades to the plain-text wrap.
func Normalize(text string) (result string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warn().
				Interface("panic", r).
				Msg("markdown normalization failed, degrading to paragraph wrap")
			result = "<p>" + trimmed + "</p>"
		}
	}()

	if IsMarkup(trimmed) {
		return trimmed
	}

	if !ContainsMarkdown(trimmed) {
		return "<p>" + trimmed + "</p>"
	}

	return convertMarkdown(trimmed)
}

func convertMarkdown(markdown string) string {
	html := markdown

	// Code blocks first so their contents escape the other passes
	html = codeBlockPattern.ReplaceAllString(html, "<pre><code>$1</code></pre>")
	html = inlineCodePattern.ReplaceAllString(html, "<code>$1</code>")

	html = h3Pattern.ReplaceAllString(html, "<h3>$1</h3>")
	html = h2Pattern.ReplaceAllString(html, "<h2>$1</h2>")
	html = h1Pattern.ReplaceAllString(html, "<h1>$1</h1>")

	html = boldStarPattern.ReplaceAllString(html, "<strong>$1</strong>")
	html = boldUnderPattern.ReplaceAllString(html, "<strong>$1</strong>")
	html = italicStarPattern.ReplaceAllString(html, "<em>$1</em>")
	html = italicUnderPattern.ReplaceAllString(html, "<em>$1</em>")

	html = blockquotePattern.ReplaceAllString(html, "<blockquote><p>$1</p></blockquote>")

	html = convertLists(html)
	html = convertParagraphs(html)

	return strings.TrimSpace(html)
}

// convertLists walks lines and groups consecutive list items, closing one
// list type before opening the other when ordered and unordered runs
// interleave. Non-list lines always terminate the current run, so adjacent
// but distinct runs are never merged.
func convertLists(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	var items []string
	inUnordered := false
	inOrdered := false

	flushUnordered := func() {
		if inUnordered {
			result = append(result, wrapListItems("ul", items))
			items = nil
			inUnordered = false
		}
	}
	flushOrdered := func() {
		if inOrdered {
			result = append(result, wrapListItems("ol", items))
			items = nil
			inOrdered = false
		}
	}

	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)

		if match := unorderedItemPattern.FindStringSubmatch(trimmedLine); match != nil {
			flushOrdered()
			inUnordered = true
			items = append(items, match[1])
		} else if match := orderedItemPattern.FindStringSubmatch(trimmedLine); match != nil {
			flushUnordered()
			inOrdered = true
			items = append(items, match[1])
		} else {
			flushUnordered()
			flushOrdered()
			result = append(result, line)
		}
	}

	flushUnordered()
	flushOrdered()

	return strings.Join(result, "\n")
}

func wrapListItems(tag string, items []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%s>", tag)
	for _, item := range items {
		fmt.Fprintf(&sb, "<li>%s</li>", item)
	}
	fmt.Fprintf(&sb, "</%s>", tag)
	return sb.String()
}

// convertParagraphs splits on blank lines; single newlines inside a paragraph
// become <br>. Block elements are never wrapped in a paragraph.
func convertParagraphs(text string) string {
	paragraphs := paragraphSeparator.Split(text, -1)
	var parts []string

	for _, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}

		if blockElementStart.MatchString(trimmed) {
			parts = append(parts, trimmed)
			continue
		}

		if strings.Contains(trimmed, "<ul>") || strings.Contains(trimmed, "<ol>") || strings.Contains(trimmed, "<blockquote>") {
			parts = append(parts, splitAroundBlockElements(trimmed))
			continue
		}

		parts = append(parts, "<p>"+strings.ReplaceAll(trimmed, "\n", "<br>")+"</p>")
	}

	return strings.Join(parts, "")
}

// splitAroundBlockElements keeps block elements standalone and paragraph-wraps
// the text between them.
func splitAroundBlockElements(content string) string {
	var sb strings.Builder
	last := 0

	for _, span := range blockElementSpan.FindAllStringIndex(content, -1) {
		if text := strings.TrimSpace(content[last:span[0]]); text != "" {
			sb.WriteString("<p>" + strings.ReplaceAll(text, "\n", "<br>") + "</p>")
		}
		sb.WriteString(content[span[0]:span[1]])
		last = span[1]
	}
	if text := strings.TrimSpace(content[last:]); text != "" {
		sb.WriteString("<p>" + strings.ReplaceAll(text, "\n", "<br>") + "</p>")
	}

	return sb.String()
}
