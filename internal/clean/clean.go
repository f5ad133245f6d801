package clean

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/suykerbuyk/llmclean/internal/sanitize"
)

type options struct {
	preserveComments bool
	maxInputBytes    int
	logger           *zap.Logger
}

func defaults() options {
	return options{
		preserveComments: true,
		logger:           zap.NewNop(),
	}
}

// Option customises Clean.
type Option func(*options)

// WithPreserveComments controls comment stripping. Default: true (keep).
func WithPreserveComments(keep bool) Option {
	return func(o *options) { o.preserveComments = keep }
}

// WithMaxInputBytes truncates longer inputs before processing.
// 0 (default) means no limit.
func WithMaxInputBytes(n int) Option {
	return func(o *options) { o.maxInputBytes = n }
}

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Clean extracts the primary payload from a raw completion.
//
// Empty or whitespace-only input yields a Result with only Err set.
// Content that cannot be classified is not an error: it is cleaned with
// the generic fallback and reported with ContentType Unknown.
func Clean(raw string, opts ...Option) Result {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(raw) == "" {
		return Result{Err: ErrEmptyInput}
	}

	var truncated bool
	if o.maxInputBytes > 0 && len(raw) > o.maxInputBytes {
		o.logger.Warn("input exceeds size limit; truncating",
			zap.Int("bytes", len(raw)),
			zap.Int("limit", o.maxInputBytes),
		)
		raw = truncateUTF8(raw, o.maxInputBytes)
		truncated = true
	}

	aux := sanitize.ExtractAll(raw)

	ct, ruleName := ClassifyRule(raw)
	if ct == Unknown {
		o.logger.Warn("content type not detected; applying default processing",
			zap.Int("bytes", len(raw)),
		)
	} else {
		o.logger.Debug("content classified",
			zap.String("content_type", ct.String()),
			zap.String("rule", ruleName),
		)
	}

	code := Strip(raw, ct)
	if !o.preserveComments {
		code = StripComments(code)
	}
	// Tag and comment removal can splice stray backticks into a new fence.
	code = dropFences(code)

	return Result{
		Code:        Normalize(code),
		ContentType: ct,
		Aux:         aux,
		Raw:         raw,
		Truncated:   truncated,
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
