package render

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/suykerbuyk/llmclean/internal/clean"
	"github.com/suykerbuyk/llmclean/internal/sanitize"
)

// Format selects how a result is written out.
type Format string

const (
	Text     Format = "text"
	JSON     Format = "json"
	YAML     Format = "yaml"
	Markdown Format = "markdown"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, JSON, YAML, Markdown:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, yaml or markdown)", s)
	}
}

// Document is the serialised shape of a result. Code is a pointer so an
// error result carries the error field alone.
type Document struct {
	Code        *string `json:"code,omitempty" yaml:"code,omitempty"`
	ContentType string  `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Reasoning   string  `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Analysis    string  `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Thinking    string  `json:"thinking,omitempty" yaml:"thinking,omitempty"`
	Truncated   bool    `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Raw         string  `json:"raw_input,omitempty" yaml:"raw_input,omitempty"`
	Error       string  `json:"error,omitempty" yaml:"error,omitempty"`
}

type options struct {
	includeRaw bool
}

// Option customises Render.
type Option func(*options)

// WithRaw includes the raw input in json and yaml documents.
func WithRaw(include bool) Option {
	return func(o *options) { o.includeRaw = include }
}

// NewDocument converts a result into its serialised shape.
func NewDocument(r clean.Result) Document {
	if !r.OK() {
		return Document{Error: r.Err.Error()}
	}
	code := r.Code
	return Document{
		Code:        &code,
		ContentType: r.ContentType.String(),
		Reasoning:   r.Aux[sanitize.Reasoning],
		Analysis:    r.Aux[sanitize.Analysis],
		Thinking:    r.Aux[sanitize.Thinking],
		Truncated:   r.Truncated,
	}
}

// Render writes r in format f. The text format is the bare code with a
// trailing newline, or nothing for an error result.
func Render(r clean.Result, f Format, opts ...Option) (string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	doc := NewDocument(r)
	if o.includeRaw && r.OK() {
		doc.Raw = r.Raw
	}

	switch f {
	case Text:
		if !r.OK() || r.Code == "" {
			return "", nil
		}
		return r.Code + "\n", nil

	case JSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal json: %w", err)
		}
		return string(data) + "\n", nil

	case YAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(data), nil

	case Markdown:
		return Report(r), nil

	default:
		return "", fmt.Errorf("unknown format %q", f)
	}
}

var extensions = map[clean.ContentType]string{
	clean.Mermaid:    ".mmd",
	clean.Python:     ".py",
	clean.SQL:        ".sql",
	clean.JavaScript: ".js",
	clean.JS:         ".js",
	clean.HTML:       ".html",
	clean.CSS:        ".css",
	clean.JSON:       ".json",
	clean.YAML:       ".yaml",
	clean.Markdown:   ".md",
	clean.MD:         ".md",
}

// FileExtension returns the output extension for a cleaned payload in
// format f.
func FileExtension(ct clean.ContentType, f Format) string {
	switch f {
	case JSON:
		return ".json"
	case YAML:
		return ".yaml"
	case Markdown:
		return ".md"
	}
	if ext, ok := extensions[ct]; ok {
		return ext
	}
	return ".txt"
}
