package library

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/goodreads-export/internal/database"
	"github.com/at-ishikawa/goodreads-export/internal/model"
	"github.com/at-ishikawa/goodreads-export/internal/store"
)

// DBReviewRepository implements ReviewRepository on top of store.
type DBReviewRepository struct {
	db      *sqlx.DB
	dialect store.Dialect
}

// NewDBReviewRepository creates a new DBReviewRepository.
func NewDBReviewRepository(db *sqlx.DB, dialect store.Dialect) *DBReviewRepository {
	return &DBReviewRepository{db: db, dialect: dialect}
}

// SaveAll writes authors first, then books with their authors, then reviews with their shelves,
// so every foreign key points at a row that already exists. The users the reviews belong to
// must have been saved before.
func (r *DBReviewRepository) SaveAll(ctx context.Context, authors []model.Author, books []model.Book, reviews []model.Review) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		s := store.New(tx, r.dialect)

		rows := make([]store.Row, 0, len(authors))
		for _, author := range authors {
			rows = append(rows, authorRow(author))
		}
		if err := s.Upsert(ctx, authorsTable, rows...); err != nil {
			return fmt.Errorf("store.Upsert(authors) > %w", err)
		}

		for _, book := range books {
			if err := s.Upsert(ctx, booksTable, bookRow(book)); err != nil {
				return fmt.Errorf("store.Upsert(books) > %w", err)
			}
			related := make([]store.Row, 0, len(book.Authors))
			for _, author := range book.Authors {
				related = append(related, authorRow(author))
			}
			if err := s.AttachMany(ctx, booksTable, book.ID, authorsTable, related); err != nil {
				return fmt.Errorf("store.AttachMany(book %s, authors) > %w", book.ID, err)
			}
		}

		for _, review := range reviews {
			if err := s.Upsert(ctx, reviewsTable, reviewRow(review)); err != nil {
				return fmt.Errorf("store.Upsert(reviews) > %w", err)
			}
			related := make([]store.Row, 0, len(review.Shelves))
			for _, shelf := range review.Shelves {
				related = append(related, shelfRow(shelf))
			}
			if err := s.AttachMany(ctx, reviewsTable, review.ID, shelvesTable, related); err != nil {
				return fmt.Errorf("store.AttachMany(review %s, shelves) > %w", review.ID, err)
			}
		}
		return nil
	})
}
