package stats

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Format renders a Summary as aligned terminal output.
func Format(s Summary, contentType string) string {
	if s.TotalCompletions == 0 {
		if contentType != "" {
			return fmt.Sprintf("llmclean stats --type %s\n\n  No %s completions in history.\n", contentType, contentType)
		}
		return "llmclean stats\n\n  No completions in history. Run `llmclean clean` or `llmclean batch` first.\n"
	}

	var b strings.Builder

	if contentType != "" {
		fmt.Fprintf(&b, "llmclean stats --type %s\n", contentType)
	} else {
		b.WriteString("llmclean stats\n")
	}

	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "completions", humanize.Comma(int64(s.TotalCompletions)))
	if contentType == "" {
		fmt.Fprintf(&b, "  %-20s %d\n", "content types", len(s.Types))
		fmt.Fprintf(&b, "  %-20s %d\n", "undetected", s.Unknown)
	}
	fmt.Fprintf(&b, "  %-20s %d\n", "truncated", s.TotalTruncated)
	fmt.Fprintf(&b, "  %-20s %s in / %s code\n", "bytes", formatBytes(s.TotalInputBytes), formatBytes(s.TotalCodeBytes))
	fmt.Fprintf(&b, "  %-20s %.0f%%\n", "removed", s.Reduction)

	// Types (omit when filtered by type)
	if contentType == "" && len(s.Types) > 0 {
		b.WriteString("\nContent Types\n")
		for _, t := range s.Types {
			fmt.Fprintf(&b, "  %-24s %4d (%d%%)   %s code\n", t.Name, t.Count, int(t.Percent), formatBytes(t.CodeBytes))
		}
	}

	if len(s.Tags) > 0 {
		b.WriteString("\nAuxiliary Tags\n")
		for _, t := range s.Tags {
			fmt.Fprintf(&b, "  %-24s %4d (%d%%)\n", t.Name, t.Count, int(t.Percent))
		}
	}

	if len(s.Monthly) > 0 {
		b.WriteString("\nMonthly Trend\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "  %-12s %4d completions   %8s in / %8s code\n",
				m.Month, m.Completions, formatBytes(m.InputBytes), formatBytes(m.CodeBytes))
		}
	}

	return b.String()
}

func formatBytes(n int) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(n))
}
