package render

import (
	"fmt"
	"strings"

	"github.com/suykerbuyk/llmclean/internal/clean"
	"github.com/suykerbuyk/llmclean/internal/sanitize"
)

// Report renders a result as a markdown document: frontmatter, one
// section per auxiliary tag found, then the code in a fence.
func Report(r clean.Result) string {
	var b strings.Builder

	b.WriteString("---\n")
	if !r.OK() {
		b.WriteString(fmt.Sprintf("error: \"%s\"\n", escapeYAML(r.Err.Error())))
		b.WriteString("---\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("content_type: %s\n", r.ContentType))
	if r.Truncated {
		b.WriteString("truncated: true\n")
	}
	var tags []string
	for _, tag := range sanitize.Tags() {
		if _, ok := r.Aux[tag]; ok {
			tags = append(tags, tag)
		}
	}
	if len(tags) > 0 {
		b.WriteString(fmt.Sprintf("aux: [%s]\n", strings.Join(tags, ", ")))
	}
	b.WriteString("---\n\n")

	for _, tag := range tags {
		b.WriteString(fmt.Sprintf("## %s\n\n", titleCase(tag)))
		b.WriteString(r.Aux[tag])
		b.WriteString("\n\n")
	}

	b.WriteString("## Code\n\n")
	fence := codeFence(r.Code)
	lang := ""
	if r.ContentType != clean.Unknown {
		lang = r.ContentType.String()
	}
	b.WriteString(fence + lang + "\n")
	if r.Code != "" {
		b.WriteString(r.Code)
		b.WriteString("\n")
	}
	b.WriteString(fence + "\n")

	return b.String()
}

// codeFence picks a backtick run longer than any inside code.
func codeFence(code string) string {
	longest, run := 0, 0
	for _, c := range code {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func escapeYAML(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
