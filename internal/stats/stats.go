// Package stats aggregates the completion history into summary metrics.
package stats

import (
	"sort"
	"strings"

	"github.com/suykerbuyk/llmclean/internal/index"
)

// Summary holds aggregate metrics computed from history entries.
type Summary struct {
	TotalCompletions int
	TotalTruncated   int
	TotalInputBytes  int
	TotalCodeBytes   int
	Unknown          int

	// Reduction is the share of input bytes removed by cleaning, 0-100.
	Reduction float64

	Types   []TypeStats
	Tags    []TagStats
	Monthly []MonthStats
}

// TypeStats holds per-content-type counts.
type TypeStats struct {
	Name      string
	Count     int
	Percent   float64
	CodeBytes int
}

// TagStats counts completions that carried an auxiliary tag.
type TagStats struct {
	Name    string
	Count   int
	Percent float64 // of all completions
}

// MonthStats holds per-month aggregate metrics.
type MonthStats struct {
	Month       string // YYYY-MM
	Completions int
	InputBytes  int
	CodeBytes   int
}

// Compute builds a Summary from history entries, optionally filtered by
// content type.
func Compute(entries []index.Entry, contentType string) Summary {
	var s Summary

	typeMap := make(map[string]*TypeStats)
	tagMap := make(map[string]int)
	monthMap := make(map[string]*MonthStats)

	for _, e := range entries {
		if contentType != "" && !strings.EqualFold(e.ContentType, contentType) {
			continue
		}

		s.TotalCompletions++
		s.TotalInputBytes += e.InputBytes
		s.TotalCodeBytes += e.CodeBytes
		if e.Truncated {
			s.TotalTruncated++
		}

		name := e.ContentType
		if name == "" || name == "unknown" {
			name = "unknown"
			s.Unknown++
		}
		ts, ok := typeMap[name]
		if !ok {
			ts = &TypeStats{Name: name}
			typeMap[name] = ts
		}
		ts.Count++
		ts.CodeBytes += e.CodeBytes

		for _, tag := range e.AuxTags {
			tagMap[tag]++
		}

		if !e.CreatedAt.IsZero() {
			month := e.CreatedAt.Local().Format("2006-01")
			mm, ok := monthMap[month]
			if !ok {
				mm = &MonthStats{Month: month}
				monthMap[month] = mm
			}
			mm.Completions++
			mm.InputBytes += e.InputBytes
			mm.CodeBytes += e.CodeBytes
		}
	}

	if s.TotalInputBytes > 0 {
		removed := s.TotalInputBytes - s.TotalCodeBytes
		if removed < 0 {
			removed = 0
		}
		s.Reduction = float64(removed) / float64(s.TotalInputBytes) * 100
	}

	// Sort types by count desc
	for _, ts := range typeMap {
		if s.TotalCompletions > 0 {
			ts.Percent = float64(ts.Count) / float64(s.TotalCompletions) * 100
		}
		s.Types = append(s.Types, *ts)
	}
	sort.Slice(s.Types, func(i, j int) bool {
		if s.Types[i].Count != s.Types[j].Count {
			return s.Types[i].Count > s.Types[j].Count
		}
		return s.Types[i].Name < s.Types[j].Name
	})

	// Sort tags by count desc
	for name, count := range tagMap {
		pct := 0.0
		if s.TotalCompletions > 0 {
			pct = float64(count) / float64(s.TotalCompletions) * 100
		}
		s.Tags = append(s.Tags, TagStats{Name: name, Count: count, Percent: pct})
	}
	sort.Slice(s.Tags, func(i, j int) bool {
		if s.Tags[i].Count != s.Tags[j].Count {
			return s.Tags[i].Count > s.Tags[j].Count
		}
		return s.Tags[i].Name < s.Tags[j].Name
	})

	// Sort months recent-first, cap at 6
	for _, mm := range monthMap {
		s.Monthly = append(s.Monthly, *mm)
	}
	sort.Slice(s.Monthly, func(i, j int) bool {
		return s.Monthly[i].Month > s.Monthly[j].Month
	})
	if len(s.Monthly) > 6 {
		s.Monthly = s.Monthly[:6]
	}

	return s
}
