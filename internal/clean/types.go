// Package clean turns a raw language-model completion into its primary
// payload: it classifies the content, strips markdown fences, wrapper tags
// and prose lead-ins, and pulls auxiliary reasoning text out on the side.
//
// Everything here is a pure function of its input. Clean allocates only
// local state and is safe to call from many goroutines at once.
package clean

import "errors"

// ContentType labels the detected language or format of a payload.
type ContentType string

const (
	Mermaid    ContentType = "mermaid"
	Python     ContentType = "python"
	SQL        ContentType = "sql"
	JavaScript ContentType = "javascript"
	JS         ContentType = "js"
	HTML       ContentType = "html"
	CSS        ContentType = "css"
	JSON       ContentType = "json"
	YAML       ContentType = "yaml"
	Markdown   ContentType = "markdown"
	MD         ContentType = "md"

	Unknown ContentType = "unknown"
)

var knownTypes = []ContentType{
	Mermaid, Python, SQL, JavaScript, JS, HTML, CSS, JSON, YAML, Markdown, MD,
}

var knownSet = func() map[ContentType]bool {
	m := make(map[ContentType]bool, len(knownTypes))
	for _, ct := range knownTypes {
		m[ct] = true
	}
	return m
}()

// Mermaid diagram keywords, matched as whole words.
var mermaidKeywords = []string{
	"flowchart", "sequenceDiagram", "stateDiagram", "gantt", "journey", "gitgraph", "classDiagram",
}

// KnownTypes returns the recognised content types, excluding Unknown.
func KnownTypes() []ContentType {
	out := make([]ContentType, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// Known reports whether c is in the recognised vocabulary.
func (c ContentType) Known() bool {
	return knownSet[c]
}

func (c ContentType) String() string {
	return string(c)
}

// ErrEmptyInput is reported in Result.Err for empty or whitespace-only input.
var ErrEmptyInput = errors.New("empty input")

// Result is the outcome of cleaning one completion.
type Result struct {
	Code        string
	ContentType ContentType
	// Aux holds auxiliary tag text keyed by tag name. Tags with no
	// content are absent, not empty.
	Aux map[string]string
	// Raw is the input as processed (after any length limit).
	Raw       string
	Truncated bool
	Err       error
}

// OK reports whether the result carries a payload rather than an error.
func (r Result) OK() bool {
	return r.Err == nil
}

// Tag returns the extracted text for an auxiliary tag.
func (r Result) Tag(name string) (string, bool) {
	v, ok := r.Aux[name]
	return v, ok
}
