// Package backfill fills read dates the API omits from the HTML listing of the "read" shelf.
package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/at-ishikawa/goodreads-export/internal/goodreads"
	"github.com/at-ishikawa/goodreads-export/internal/model"
	"github.com/at-ishikawa/goodreads-export/internal/progress"
)

//go:generate mockgen -source=backfill.go -destination=../mocks/backfill/mock_backfill.go -package=mock_backfill

// ShelfLister returns 1-based pages of the HTML "read" shelf listing.
type ShelfLister interface {
	ReadShelfPage(ctx context.Context, userID string, page int) (*goodreads.ShelfPage, error)
}

// ReferenceDate supplies the components a displayed date leaves out.
var ReferenceDate = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

// Layouts Goodreads uses for the "date read" column, most specific first.
var displayLayouts = []struct {
	layout  string
	hasYear bool
}{
	{"Jan 02, 2006", true},
	{"Jan 2, 2006", true},
	{"January 2, 2006", true},
	{"Jan 2006", true},
	{"January 2006", true},
	{"2006", true},
	{"Jan 02", false},
	{"Jan 2", false},
	{"January 2", false},
}

// ReadDates sets ReadAt on reviews that have none and are filed on the "read" shelf,
// using the date the listing displays for them. Other reviews are never touched.
// Rows without a date, or with a date that cannot be parsed, are skipped.
// It returns the number of reviews it updated.
func ReadDates(ctx context.Context, lister ShelfLister, userID string, reviews map[string]model.Review, tracker progress.Tracker) (int, error) {
	candidates := make(map[string]bool)
	for id, review := range reviews {
		if review.ReadAt == nil && review.OnShelf(model.ReadShelf) {
			candidates[id] = true
		}
	}
	if len(candidates) == 0 {
		tracker.Done()
		return 0, nil
	}

	found, seen, total := 0, 0, 0
	for page := 1; ; page++ {
		result, err := lister.ReadShelfPage(ctx, userID, page)
		if err != nil {
			return found, fmt.Errorf("ReadShelfPage(%s, %d) > %w", userID, page, err)
		}
		if page == 1 {
			total = result.Total
			tracker.SetTotal(int64(total))
		}

		for _, row := range result.Rows {
			seen++
			tracker.Increment(1)
			if !candidates[row.ReviewID] || row.DateRead == "" {
				continue
			}
			date, err := ParseDisplayedDate(row.DateRead)
			if err != nil {
				slog.Default().Warn("Skipping an unreadable read date", "review", row.ReviewID, "date", row.DateRead, "error", err)
				continue
			}
			review := reviews[row.ReviewID]
			review.ReadAt = &date
			reviews[row.ReviewID] = review
			delete(candidates, row.ReviewID)
			found++
		}

		if !result.HasNext || seen >= total || len(result.Rows) == 0 {
			break
		}
	}
	tracker.Done()
	slog.Default().Debug("Scraped the read shelf", "rows", seen, "total", total, "found", found)
	return found, nil
}

// ParseDisplayedDate parses a date as the shelf listing renders it, e.g. "Mar 13, 2019" or "Mar 2019".
// Missing components are taken from ReferenceDate.
func ParseDisplayedDate(raw string) (time.Time, error) {
	raw = strings.Join(strings.Fields(raw), " ")
	for _, candidate := range displayLayouts {
		date, err := time.Parse(candidate.layout, raw)
		if err != nil {
			continue
		}
		if !candidate.hasYear {
			date = date.AddDate(ReferenceDate.Year()-date.Year(), 0, 0)
		}
		return date, nil
	}

	date, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable read date %q: %w", raw, err)
	}
	return date, nil
}
