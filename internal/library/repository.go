// Package library reads and writes the exported Goodreads entities.
package library

import (
	"context"

	"github.com/at-ishikawa/goodreads-export/internal/model"
	"github.com/at-ishikawa/goodreads-export/internal/store"
)

//go:generate mockgen -source=repository.go -destination=../mocks/library/mock_repository.go -package=mock_library

// UserRepository defines operations for users and their shelves.
type UserRepository interface {
	// FindByID returns the user with its shelves, or nil if not found.
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByUsername returns the user without shelves, or nil if not found.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// Save overwrites the user and its shelves.
	Save(ctx context.Context, user model.User) error
}

// ReviewRepository defines operations for the entities of a review list.
type ReviewRepository interface {
	// SaveAll overwrites the given entities and their relations in one transaction.
	SaveAll(ctx context.Context, authors []model.Author, books []model.Book, reviews []model.Review) error
}

var (
	usersTable   = store.Table{Name: "users", PrimaryKey: "id"}
	authorsTable = store.Table{Name: "authors", PrimaryKey: "id"}
	shelvesTable = store.Table{
		Name:        "shelves",
		PrimaryKey:  "id",
		ForeignKeys: []store.ForeignKey{{Column: "user_id", Table: "users", References: "id"}},
	}
	booksTable   = store.Table{Name: "books", PrimaryKey: "id"}
	reviewsTable = store.Table{
		Name:       "reviews",
		PrimaryKey: "id",
		ForeignKeys: []store.ForeignKey{
			{Column: "book_id", Table: "books", References: "id"},
			{Column: "user_id", Table: "users", References: "id"},
		},
	}
)

func userRow(user model.User) store.Row {
	return store.Row{
		"id":       user.ID,
		"name":     user.Name,
		"username": user.Username,
	}
}

func shelfRow(shelf model.Shelf) store.Row {
	return store.Row{
		"id":      shelf.ID,
		"name":    shelf.Name,
		"user_id": shelf.UserID,
	}
}

func authorRow(author model.Author) store.Row {
	return store.Row{
		"id":   author.ID,
		"name": author.Name,
	}
}

func bookRow(book model.Book) store.Row {
	return store.Row{
		"id":               book.ID,
		"isbn":             book.ISBN,
		"isbn13":           book.ISBN13,
		"title":            book.Title,
		"series":           book.Series,
		"series_position":  book.SeriesPosition,
		"pages":            book.Pages,
		"publisher":        book.Publisher,
		"publication_date": book.PublicationDate,
		"description":      book.Description,
		"image_url":        book.ImageURL,
	}
}

func reviewRow(review model.Review) store.Row {
	return store.Row{
		"id":           review.ID,
		"book_id":      review.BookID,
		"user_id":      review.UserID,
		"rating":       review.Rating,
		"text":         review.Text,
		"started_at":   review.StartedAt,
		"read_at":      review.ReadAt,
		"date_added":   review.DateAdded,
		"date_updated": review.DateUpdated,
	}
}
