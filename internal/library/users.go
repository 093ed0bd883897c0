package library

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/goodreads-export/internal/database"
	"github.com/at-ishikawa/goodreads-export/internal/model"
	"github.com/at-ishikawa/goodreads-export/internal/store"
)

// DBUserRepository implements UserRepository on top of store.
type DBUserRepository struct {
	db      *sqlx.DB
	dialect store.Dialect
}

// NewDBUserRepository creates a new DBUserRepository.
func NewDBUserRepository(db *sqlx.DB, dialect store.Dialect) *DBUserRepository {
	return &DBUserRepository{db: db, dialect: dialect}
}

func (r *DBUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	s := store.New(r.db, r.dialect)
	var user model.User
	found, err := s.Get(ctx, &user, usersTable.Name, "id", id)
	if err != nil {
		return nil, fmt.Errorf("store.Get(users, %s) > %w", id, err)
	}
	if !found {
		return nil, nil
	}
	if err := s.Select(ctx, &user.Shelves, shelvesTable.Name, store.Row{"user_id": id}, "id"); err != nil {
		return nil, fmt.Errorf("store.Select(shelves of %s) > %w", id, err)
	}
	return &user, nil
}

func (r *DBUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	found, err := store.New(r.db, r.dialect).Get(ctx, &user, usersTable.Name, "username", username)
	if err != nil {
		return nil, fmt.Errorf("store.Get(users, %s) > %w", username, err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (r *DBUserRepository) Save(ctx context.Context, user model.User) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		s := store.New(tx, r.dialect)
		if err := s.Upsert(ctx, usersTable, userRow(user)); err != nil {
			return fmt.Errorf("store.Upsert(users) > %w", err)
		}

		shelves := make([]store.Row, 0, len(user.Shelves))
		for _, shelf := range user.Shelves {
			shelf.UserID = user.ID
			shelves = append(shelves, shelfRow(shelf))
		}
		if err := s.Upsert(ctx, shelvesTable, shelves...); err != nil {
			return fmt.Errorf("store.Upsert(shelves) > %w", err)
		}
		return nil
	})
}
