// Package fetch walks a user's paged review list and collects the entities it contains.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/at-ishikawa/goodreads-export/internal/goodreads"
	"github.com/at-ishikawa/goodreads-export/internal/model"
	"github.com/at-ishikawa/goodreads-export/internal/normalize"
	"github.com/at-ishikawa/goodreads-export/internal/progress"
)

//go:generate mockgen -source=reviews.go -destination=../mocks/fetch/mock_reviews.go -package=mock_fetch

// ReviewLister returns 1-based pages of a user's review list.
type ReviewLister interface {
	ReviewPage(ctx context.Context, userID string, page int) (*goodreads.ReviewPage, error)
}

// Collection holds the entities observed during one walk, keyed by Goodreads id.
// A later occurrence of an id replaces the earlier one.
type Collection struct {
	Authors map[string]model.Author
	Books   map[string]model.Book
	Reviews map[string]model.Review

	// Total is the review count the last page reported.
	Total int
	// Requests is the number of pages fetched.
	Requests int
}

func newCollection() *Collection {
	return &Collection{
		Authors: make(map[string]model.Author),
		Books:   make(map[string]model.Book),
		Reviews: make(map[string]model.Review),
	}
}

// Reviews requests pages until the reported end offset reaches the reported total.
// Any failure aborts the walk and nothing collected so far is returned.
func Reviews(ctx context.Context, lister ReviewLister, userID string, tracker progress.Tracker) (*Collection, error) {
	collection := newCollection()

	end, total := -1, 0
	for page := 1; end < total; page++ {
		result, err := lister.ReviewPage(ctx, userID, page)
		if err != nil {
			return nil, fmt.Errorf("ReviewPage(%s, %d) > %w", userID, page, err)
		}
		collection.Requests++
		end, total = result.End, result.Total
		collection.Total = total
		tracker.SetTotal(int64(total))

		for _, node := range result.Reviews {
			if err := collection.add(node, userID); err != nil {
				return nil, fmt.Errorf("page %d > %w", page, err)
			}
			tracker.Increment(1)
		}

		if len(result.Reviews) == 0 && end < total {
			slog.Default().Warn("Review list stopped before its reported total",
				"page", page,
				"end", end,
				"total", total)
			break
		}
	}
	tracker.Done()
	return collection, nil
}

func (c *Collection) add(node *goodreads.Node, userID string) error {
	bookNode, err := node.RequiredChild("book")
	if err != nil {
		return err
	}
	book, err := normalize.Book(bookNode)
	if err != nil {
		return err
	}
	review, err := normalize.Review(node, userID)
	if err != nil {
		return err
	}

	for _, author := range book.Authors {
		c.Authors[author.ID] = author
	}
	c.Books[book.ID] = book
	c.Reviews[review.ID] = review
	return nil
}

// SortedAuthors returns the authors ordered by id.
func (c *Collection) SortedAuthors() []model.Author {
	authors := make([]model.Author, 0, len(c.Authors))
	for _, author := range c.Authors {
		authors = append(authors, author)
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].ID < authors[j].ID })
	return authors
}

// SortedBooks returns the books ordered by id.
func (c *Collection) SortedBooks() []model.Book {
	books := make([]model.Book, 0, len(c.Books))
	for _, book := range c.Books {
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books
}

// SortedReviews returns the reviews ordered by id.
func (c *Collection) SortedReviews() []model.Review {
	reviews := make([]model.Review, 0, len(c.Reviews))
	for _, review := range c.Reviews {
		reviews = append(reviews, review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews
}
