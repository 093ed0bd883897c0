// Package profile loads a user and their shelves, skipping the network when
// a complete copy was stored by an earlier run.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/goodreads-export/internal/goodreads"
	"github.com/at-ishikawa/goodreads-export/internal/library"
	"github.com/at-ishikawa/goodreads-export/internal/model"
	"github.com/at-ishikawa/goodreads-export/internal/normalize"
)

//go:generate mockgen -source=profile.go -destination=../mocks/profile/mock_profile.go -package=mock_profile

// ErrPrivateProfile is returned when the profile lists no shelves, which Goodreads does for private profiles.
var ErrPrivateProfile = errors.New("this user's shelves and reviews are private, and cannot be fetched")

// Source fetches profiles from Goodreads.
type Source interface {
	User(ctx context.Context, userID string) (*goodreads.Node, error)
	ResolveUserID(ctx context.Context, username string) (string, error)
}

// Loader decides per user whether the stored copy is enough.
type Loader struct {
	source Source
	users  library.UserRepository
}

// NewLoader creates a new Loader.
func NewLoader(source Source, users library.UserRepository) *Loader {
	return &Loader{source: source, users: users}
}

// ResolveUserID returns the numeric id of a username or profile URL.
// User ids never change, so a stored user with that username answers without a request
// unless forceOnline is set.
func (l *Loader) ResolveUserID(ctx context.Context, username string, forceOnline bool) (string, error) {
	if !forceOnline {
		user, err := l.users.FindByUsername(ctx, username)
		if err != nil {
			slog.Default().Warn("Failed to look up the stored user", "username", username, "error", err)
		} else if user != nil {
			slog.Default().Debug("Resolved the user id from the database", "username", username, "id", user.ID)
			return user.ID, nil
		}
	}

	slog.Default().Info("Fetching user details.")
	id, err := l.source.ResolveUserID(ctx, username)
	if err != nil {
		return "", fmt.Errorf("source.ResolveUserID(%s) > %w", username, err)
	}
	return id, nil
}

// Load returns the user with their shelves. A stored user with every field populated and
// at least one shelf is returned as is; otherwise, or when forceOnline is set, the profile
// is fetched and stored, overwriting the partial copy.
func (l *Loader) Load(ctx context.Context, userID string, forceOnline bool) (*model.User, error) {
	if !forceOnline {
		stored, err := l.users.FindByID(ctx, userID)
		if err != nil {
			slog.Default().Warn("Failed to look up the stored user", "id", userID, "error", err)
		} else if isFresh(stored) {
			slog.Default().Debug("Using the stored user", "id", userID, "shelves", len(stored.Shelves))
			return stored, nil
		}
	}

	slog.Default().Info("Fetching shelves.")
	node, err := l.source.User(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("source.User(%s) > %w", userID, err)
	}
	user, err := normalize.User(node)
	if err != nil {
		return nil, fmt.Errorf("normalize.User(%s) > %w", userID, err)
	}
	if len(user.Shelves) == 0 {
		return nil, ErrPrivateProfile
	}
	if err := l.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("users.Save(%s) > %w", userID, err)
	}
	return &user, nil
}

// isFresh reports whether a stored user is complete. Staleness is never judged by age.
func isFresh(user *model.User) bool {
	return user != nil && user.IsComplete() && len(user.Shelves) > 0
}
