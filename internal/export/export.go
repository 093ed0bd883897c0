// Package export runs one export of a user's Goodreads data into the database.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/at-ishikawa/goodreads-export/internal/backfill"
	"github.com/at-ishikawa/goodreads-export/internal/credentials"
	"github.com/at-ishikawa/goodreads-export/internal/fetch"
	"github.com/at-ishikawa/goodreads-export/internal/library"
	"github.com/at-ishikawa/goodreads-export/internal/profile"
	"github.com/at-ishikawa/goodreads-export/internal/progress"
)

type Options struct {
	// User is a numeric user id, a username or a profile URL. It may be empty.
	User string
	// DefaultUserID is used when User is empty, typically the id saved in the auth file.
	DefaultUserID string
	// ForceOnline ignores the stored user when resolving usernames and loading the profile.
	ForceOnline bool
	// Scrape fills missing read dates from the HTML "read" shelf listing.
	Scrape bool
}

// Result counts what one run wrote.
type Result struct {
	UserID    string
	Shelves   int
	Authors   int
	Books     int
	Reviews   int
	ReadDates int
	// Requests is the number of review list pages fetched.
	Requests int
}

type Exporter struct {
	profiles *profile.Loader
	reviews  fetch.ReviewLister
	shelves  backfill.ShelfLister
	library  library.ReviewRepository
	reporter progress.Reporter
}

func NewExporter(
	profiles *profile.Loader,
	reviews fetch.ReviewLister,
	shelves backfill.ShelfLister,
	repository library.ReviewRepository,
	reporter progress.Reporter,
) *Exporter {
	return &Exporter{
		profiles: profiles,
		reviews:  reviews,
		shelves:  shelves,
		library:  repository,
		reporter: reporter,
	}
}

// Run resolves the user, refreshes the profile if needed, walks the whole review list and
// writes it in a single transaction. Nothing of the review list is written unless the walk
// and the optional scrape succeed.
func (e *Exporter) Run(ctx context.Context, opts Options) (*Result, error) {
	userID, err := e.resolveUserID(ctx, opts)
	if err != nil {
		return nil, err
	}
	slog.Default().Debug("Exporting", "user", userID, "forceOnline", opts.ForceOnline, "scrape", opts.Scrape)

	user, err := e.profiles.Load(ctx, userID, opts.ForceOnline)
	if err != nil {
		return nil, fmt.Errorf("profiles.Load() > %w", err)
	}

	collection, err := fetch.Reviews(ctx, e.reviews, userID, e.reporter.Track("Fetching books"))
	if err != nil {
		return nil, fmt.Errorf("fetch.Reviews() > %w", err)
	}

	result := &Result{
		UserID:   userID,
		Shelves:  len(user.Shelves),
		Authors:  len(collection.Authors),
		Books:    len(collection.Books),
		Reviews:  len(collection.Reviews),
		Requests: collection.Requests,
	}
	if opts.Scrape {
		found, err := backfill.ReadDates(ctx, e.shelves, userID, collection.Reviews, e.reporter.Track("Scraping books"))
		if err != nil {
			return nil, fmt.Errorf("backfill.ReadDates() > %w", err)
		}
		result.ReadDates = found
	}

	if err := e.library.SaveAll(ctx, collection.SortedAuthors(), collection.SortedBooks(), collection.SortedReviews()); err != nil {
		return nil, fmt.Errorf("library.SaveAll() > %w", err)
	}
	return result, nil
}

func (e *Exporter) resolveUserID(ctx context.Context, opts Options) (string, error) {
	user := strings.TrimSpace(opts.User)
	if user == "" {
		if opts.DefaultUserID == "" {
			return "", credentials.ErrAuthMissing
		}
		return opts.DefaultUserID, nil
	}
	if id, err := credentials.ParseUserID(user); err == nil && id == user {
		return id, nil
	}

	id, err := e.profiles.ResolveUserID(ctx, user, opts.ForceOnline)
	if err != nil {
		return "", fmt.Errorf("profiles.ResolveUserID() > %w", err)
	}
	return id, nil
}
