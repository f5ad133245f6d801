package clean

import (
	"regexp"
	"strings"
)

// rule is one step of the classifier. Rules run in slice order and the
// first one to match decides the content type.
type rule struct {
	name  string
	match func(text string) (ContentType, bool)
}

var (
	fenceTagPattern = regexp.MustCompile("```(\\w+)")

	mermaidKeywordPattern = regexp.MustCompile(
		`(?i)\b(?:` + strings.Join(mermaidKeywords, "|") + `)\b`,
	)

	pythonSyntax     = regexp.MustCompile(`\bdef\s+\w+\s*\(|import\s+\w+|from\s+\w+\s+import|\bprint\s*\(`)
	javascriptSyntax = regexp.MustCompile(`\bfunction\s+\w+\s*\(|const\s+\w+\s*=|console\.log|let\s+\w+`)
	htmlSyntax       = regexp.MustCompile(`(?i)<html|<head>|<body>|<!DOCTYPE`)
	sqlSyntax        = regexp.MustCompile(`(?i)\bSELECT\s+.*\bFROM\b|\bINSERT\s+INTO\b|\bUPDATE\s+.*\bSET\b`)
)

var rules = []rule{
	{"fence", matchFence},
	{"mermaid-keyword", matchPattern(mermaidKeywordPattern, Mermaid)},
	{"python-syntax", matchPattern(pythonSyntax, Python)},
	{"javascript-syntax", matchPattern(javascriptSyntax, JavaScript)},
	{"html-syntax", matchPattern(htmlSyntax, HTML)},
	{"sql-syntax", matchPattern(sqlSyntax, SQL)},
}

// matchFence returns the language of the first fence whose tag is in the
// known vocabulary. Fences with unrecognised tags are skipped so they do not
// short-circuit the syntax rules.
func matchFence(text string) (ContentType, bool) {
	for _, m := range fenceTagPattern.FindAllStringSubmatch(text, -1) {
		ct := ContentType(strings.ToLower(m[1]))
		if ct.Known() {
			return ct, true
		}
	}
	return "", false
}

func matchPattern(re *regexp.Regexp, ct ContentType) func(string) (ContentType, bool) {
	return func(text string) (ContentType, bool) {
		if re.MatchString(text) {
			return ct, true
		}
		return "", false
	}
}

// Classify assigns a content type to text. It always returns a label;
// Unknown when no rule matched.
func Classify(text string) ContentType {
	ct, _ := ClassifyRule(text)
	return ct
}

// ClassifyRule is Classify that also names the rule that decided.
// The rule name is empty for Unknown.
func ClassifyRule(text string) (ContentType, string) {
	for _, r := range rules {
		if ct, ok := r.match(text); ok {
			return ct, r.name
		}
	}
	return Unknown, ""
}

// RuleNames lists classifier rules in evaluation order.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
