package clean

import (
	"regexp"
	"strings"
)

var commentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)#.*$`),
	regexp.MustCompile(`(?m)//.*$`),
	regexp.MustCompile(`(?s)/\*.*?\*/`),
	regexp.MustCompile(`(?s)<!--.*?-->`),
}

// StripComments removes #, //, /* */ and <!-- --> comments regardless of
// language. String literals are not respected: a comment marker inside a
// string (a URL, a CSS colour) is cut just the same.
func StripComments(text string) string {
	for _, re := range commentPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
