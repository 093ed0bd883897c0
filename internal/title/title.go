// Package title splits Goodreads titles into the plain title and its series suffix.
package title

import "strings"

// Parsed is the result of splitting a raw title.
// Series and SeriesPosition are nil when the title carries no series suffix.
type Parsed struct {
	Title          string
	Series         *string
	SeriesPosition *string
}

// Parse splits title into title, series and series position, using titleWithoutSeries
// (the canonical title Goodreads reports alongside) to find the suffix.
//
// The split is a best-effort heuristic for the suffix formats Goodreads emits,
// e.g. "(Series, #3)", "(Series Book 2)" or "(Series)". Irregular suffixes such as
// "(Collected Edition)" are reported as a series name with an empty position.
func Parse(title, titleWithoutSeries string) Parsed {
	if title == titleWithoutSeries {
		return Parsed{Title: title}
	}

	suffix := strings.TrimPrefix(title, titleWithoutSeries)
	suffix = strings.Trim(suffix, " ()")

	var series, position string
	switch {
	case strings.Contains(suffix, "#"):
		series, position, _ = strings.Cut(suffix, "#")
	case strings.Contains(suffix, "Book"):
		series, position, _ = strings.Cut(suffix, "Book")
	default:
		series = suffix
	}
	series = strings.Trim(series, ", ")
	position = strings.Trim(position, ", #")

	return Parsed{
		Title:          titleWithoutSeries,
		Series:         &series,
		SeriesPosition: &position,
	}
}
