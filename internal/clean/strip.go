package clean

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/suykerbuyk/llmclean/internal/sanitize"
)

// strategy applies the type-specific trimming that follows fence removal.
type strategy func(text string) string

var strategies = map[ContentType]strategy{
	Mermaid:    stripMermaid,
	SQL:        stripSQL,
	JavaScript: stripJavaScript,
	JS:         stripJavaScript,
	Python:     stripPython,
}

var (
	// openers holds one fence-open pattern per known type, e.g. ```python\n.
	openers = func() map[ContentType]*regexp.Regexp {
		m := make(map[ContentType]*regexp.Regexp, len(knownTypes))
		for _, ct := range knownTypes {
			m[ct] = regexp.MustCompile("(?i)```" + regexp.QuoteMeta(string(ct)) + `\n?`)
		}
		return m
	}()

	anyOpener   = regexp.MustCompile("```\\w*\\n?")
	fenceCloser = regexp.MustCompile("```\\n?")

	preCodeTags = regexp.MustCompile(`(?i)</?(?:pre|code)[^>]*>`)

	sqlLeadIn     = regexp.MustCompile(`(?i)SQL:\s*$`)
	pythonLeadIn  = regexp.MustCompile(`(?i)(?:code|example):\s*$`)
	unknownLeadIn = regexp.MustCompile(`(?i)^(?:Here's|Here’s|Here is|This is).*:\s*$`)

	pythonResultTrailer = regexp.MustCompile(`(?i)\n+The result is[^\n]*\n?`)
	pythonClassTrailer  = regexp.MustCompile(`(?is)\n+This class provides.*$`)
	unknownTrailer      = regexp.MustCompile(`(?i)\n\n+(?:The result is|This does|Explanation:)[^\n]*(?:\n[^\n]*\S[^\n]*)*`)

	mermaidLeadIn  = regexp.MustCompile(`(?i)flowchart:\s*$`)
	mermaidTrailer = regexp.MustCompile(`(?i)^(?:This|The above|Explanation|Note|Here)\b`)
)

// mermaidFallback captures from the first keyword occurrence up to the
// first paragraph break.
var mermaidFallback = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(mermaidKeywords))
	for i, kw := range mermaidKeywords {
		out[i] = regexp.MustCompile(`(?is)(` + regexp.QuoteMeta(kw) + `.*?)(?:\n\n|\z)`)
	}
	return out
}()

// Strip removes fence delimiters and wrapper artifacts from text.
//
// For a known type only openers tagged with that language are removed,
// followed by every bare ``` run, and then the type's strategy (if any) is
// applied. Unknown content goes through the generic fallback instead.
func Strip(text string, ct ContentType) string {
	if !ct.Known() {
		return trimBlankEdges(stripUnknown(text))
	}

	text = openers[ct].ReplaceAllString(text, "")
	text = fenceCloser.ReplaceAllString(text, "")

	if s, ok := strategies[ct]; ok {
		text = s(text)
	}
	return trimBlankEdges(text)
}

// dropFences removes ``` runs until none is left. Removing one run can
// join the backticks around it into another.
func dropFences(text string) string {
	for strings.Contains(text, "```") {
		text = fenceCloser.ReplaceAllString(text, "")
	}
	return text
}

func stripSQL(text string) string {
	return dropLeadIn(text, sqlLeadIn)
}

func stripJavaScript(text string) string {
	return preCodeTags.ReplaceAllString(text, "")
}

func stripPython(text string) string {
	text = dropLeadIn(text, pythonLeadIn)
	text = pythonResultTrailer.ReplaceAllString(text, "\n")
	return pythonClassTrailer.ReplaceAllString(text, "")
}

func stripMermaid(text string) string {
	text = sanitize.StripClosingTags(text)
	text = dropLeadIn(text, mermaidLeadIn)

	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if hasMermaidPrefix(strings.TrimSpace(line)) {
			start = i
			break
		}
	}

	if start == -1 {
		for _, re := range mermaidFallback {
			if m := re.FindStringSubmatch(text); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
		return strings.TrimSpace(text)
	}

	var kept []string
	for _, line := range lines[start:] {
		// Diagram bodies are indented; an unindented line opening with an
		// explanatory phrase ends the diagram.
		if line == strings.TrimLeftFunc(line, unicode.IsSpace) && mermaidTrailer.MatchString(line) {
			break
		}
		kept = append(kept, line)
	}
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func hasMermaidPrefix(line string) bool {
	for _, kw := range mermaidKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

func stripUnknown(text string) string {
	text = sanitize.StripTags(text)
	text = anyOpener.ReplaceAllString(text, "")
	text = fenceCloser.ReplaceAllString(text, "")
	text = preCodeTags.ReplaceAllString(text, "")

	text = dropLeadIn(text, unknownLeadIn)
	return unknownTrailer.ReplaceAllString(text, "")
}

// dropLeadIn removes prose lines matching re from the top of text,
// skipping blank lines between them. Everything from the first
// non-matching line on is left alone.
func dropLeadIn(text string, re *regexp.Regexp) string {
	lines := strings.Split(text, "\n")
	cut := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !re.MatchString(line) {
			break
		}
		cut = i + 1
	}
	if cut == 0 {
		return text
	}
	return strings.Join(lines[cut:], "\n")
}

// trimBlankEdges drops whitespace-only lines at both ends while keeping the
// indentation of the first real line.
func trimBlankEdges(text string) string {
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	lines := strings.Split(text, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return strings.Join(lines[i:], "\n")
}
