package sanitize

import (
	"regexp"
	"strings"
)

// Auxiliary tag names models use to wrap deliberation around the answer.
const (
	Reasoning = "reasoning"
	Analysis  = "analysis"
	Thinking  = "thinking"
)

var auxTags = []string{Reasoning, Analysis, Thinking}

type tagPatterns struct {
	block *regexp.Regexp // <tag>...</tag>, content captured
	bare  *regexp.Regexp // stray <tag> or </tag>
}

var patterns = func() map[string]tagPatterns {
	m := make(map[string]tagPatterns, len(auxTags))
	for _, tag := range auxTags {
		m[tag] = tagPatterns{
			block: regexp.MustCompile(`(?is)<` + tag + `>(.*?)</` + tag + `>`),
			bare:  regexp.MustCompile(`(?i)</?` + tag + `>`),
		}
	}
	return m
}()

var closingTagPattern = regexp.MustCompile(`(?i)</(?:reasoning|analysis|thinking)>\n?`)

// Tags returns the auxiliary tag names in extraction order.
func Tags() []string {
	out := make([]string, len(auxTags))
	copy(out, auxTags)
	return out
}

// Extract returns the contents of every <tag>...</tag> region in text,
// joined by newlines in document order and trimmed. Unterminated tags
// do not match. Tags outside the auxiliary set always yield "".
func Extract(text, tag string) string {
	p, ok := patterns[strings.ToLower(tag)]
	if !ok {
		return ""
	}
	matches := p.block.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m[1])
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// ExtractAll runs Extract for every auxiliary tag and keeps only the
// non-empty ones. Returns nil when nothing was found.
func ExtractAll(text string) map[string]string {
	var out map[string]string
	for _, tag := range auxTags {
		if v := Extract(text, tag); v != "" {
			if out == nil {
				out = make(map[string]string, len(auxTags))
			}
			out[tag] = v
		}
	}
	return out
}

// StripTags removes auxiliary tag blocks together with their content,
// then any unmatched opening or closing tag left behind.
func StripTags(text string) string {
	for _, tag := range auxTags {
		p := patterns[tag]
		text = p.block.ReplaceAllString(text, "")
		text = p.bare.ReplaceAllString(text, "")
	}
	return text
}

// StripClosingTags removes leftover closing auxiliary tags (and the newline
// that follows them) without touching the text they closed over.
func StripClosingTags(text string) string {
	return closingTagPattern.ReplaceAllString(text, "")
}
