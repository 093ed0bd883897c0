// Package model defines the normalized entities exported from Goodreads.
//
// All identifiers are the stable numeric-string ids Goodreads assigns and are used
// directly as primary keys. Optional values are pointers; nil is stored as NULL.
package model

import "time"

// ReadShelf is the name of the shelf Goodreads files finished books under.
const ReadShelf = "read"

// User is a Goodreads account.
type User struct {
	ID       string  `db:"id"`
	Name     *string `db:"name"`
	Username *string `db:"username"`

	Shelves []Shelf `db:"-"`
}

// IsComplete reports whether every user field is populated.
func (u User) IsComplete() bool {
	return u.ID != "" &&
		u.Name != nil && *u.Name != "" &&
		u.Username != nil && *u.Username != ""
}

// Shelf is a named collection a user files reviews under.
type Shelf struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	UserID string `db:"user_id"`
}

// Author of one or more books.
type Author struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// Book is a single edition as Goodreads lists it.
type Book struct {
	ID              string     `db:"id"`
	ISBN            *string    `db:"isbn"`
	ISBN13          *string    `db:"isbn13"`
	Title           string     `db:"title"`
	Series          *string    `db:"series"`
	SeriesPosition  *string    `db:"series_position"`
	Pages           *int       `db:"pages"`
	Publisher       *string    `db:"publisher"`
	PublicationDate *time.Time `db:"publication_date"`
	Description     *string    `db:"description"`
	ImageURL        *string    `db:"image_url"`

	Authors []Author `db:"-"`
}

// Review is a user's entry for a book, including unrated shelvings.
type Review struct {
	ID          string     `db:"id"`
	BookID      string     `db:"book_id"`
	UserID      string     `db:"user_id"`
	Rating      *int       `db:"rating"`
	Text        string     `db:"text"`
	StartedAt   *time.Time `db:"started_at"`
	ReadAt      *time.Time `db:"read_at"`
	DateAdded   *time.Time `db:"date_added"`
	DateUpdated *time.Time `db:"date_updated"`

	Shelves []Shelf `db:"-"`
}

// OnShelf reports whether the review is filed under the named shelf.
func (r Review) OnShelf(name string) bool {
	for _, shelf := range r.Shelves {
		if shelf.Name == name {
			return true
		}
	}
	return false
}
