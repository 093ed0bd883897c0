// Package normalize maps raw Goodreads records onto the entities in package model.
//
// Normalizers assume the record comes from a successful response. Missing elements are
// reported as goodreads.MalformedRecordError, and a non-empty date that cannot be parsed is
// an error as well: both mean the upstream format changed.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/at-ishikawa/goodreads-export/internal/goodreads"
	"github.com/at-ishikawa/goodreads-export/internal/model"
	"github.com/at-ishikawa/goodreads-export/internal/title"
)

// Author converts an <author> element.
func Author(node *goodreads.Node) (model.Author, error) {
	id, err := node.RequiredText("id")
	if err != nil {
		return model.Author{}, err
	}
	name, err := node.RequiredText("name")
	if err != nil {
		return model.Author{}, err
	}
	return model.Author{ID: id, Name: name}, nil
}

// Book converts a <book> element together with its nested authors.
func Book(node *goodreads.Node) (model.Book, error) {
	var book model.Book
	fields := make(map[string]string)
	for _, tag := range []string{
		"id", "isbn", "isbn13", "title", "title_without_series", "num_pages", "publisher",
		"publication_year", "publication_month", "publication_day", "description", "image_url",
	} {
		text, err := node.RequiredText(tag)
		if err != nil {
			return book, err
		}
		fields[tag] = text
	}

	parsed := title.Parse(fields["title"], fields["title_without_series"])
	pages, err := optionalInt(node, "num_pages", fields["num_pages"])
	if err != nil {
		return book, err
	}
	publicationDate, err := PublicationDate(fields["publication_year"], fields["publication_month"], fields["publication_day"])
	if err != nil {
		return book, fmt.Errorf("book %s > %w", fields["id"], err)
	}

	book = model.Book{
		ID:              fields["id"],
		ISBN:            optionalString(fields["isbn"]),
		ISBN13:          optionalString(fields["isbn13"]),
		Title:           parsed.Title,
		Series:          parsed.Series,
		SeriesPosition:  parsed.SeriesPosition,
		Pages:           pages,
		Publisher:       optionalString(fields["publisher"]),
		PublicationDate: publicationDate,
		Description:     optionalString(fields["description"]),
		ImageURL:        optionalString(fields["image_url"]),
	}

	authors, err := node.RequiredChild("authors")
	if err != nil {
		return book, err
	}
	for _, child := range authors.Children {
		author, err := Author(child)
		if err != nil {
			return book, err
		}
		book.Authors = append(book.Authors, author)
	}
	return book, nil
}

// Review converts a <review> element of the given user's review list.
// Shelves are attributed to userID.
func Review(node *goodreads.Node, userID string) (model.Review, error) {
	var review model.Review
	id, err := node.RequiredText("id")
	if err != nil {
		return review, err
	}
	book, err := node.RequiredChild("book")
	if err != nil {
		return review, err
	}
	bookID, err := book.RequiredText("id")
	if err != nil {
		return review, err
	}
	rawRating, err := node.RequiredText("rating")
	if err != nil {
		return review, err
	}
	rating, err := Rating(rawRating)
	if err != nil {
		return review, fmt.Errorf("review %s > %w", id, err)
	}

	review = model.Review{
		ID:     id,
		BookID: bookID,
		UserID: userID,
		Rating: rating,
		Text:   node.OptionalText("body"),
	}
	if shelves := node.Child("shelves"); shelves != nil {
		for _, shelf := range shelves.Children {
			review.Shelves = append(review.Shelves, model.Shelf{
				ID:     shelf.Attr("id"),
				Name:   shelf.Attr("name"),
				UserID: userID,
			})
		}
	}

	for _, field := range []struct {
		tag  string
		dest **time.Time
	}{
		{"started_at", &review.StartedAt},
		{"read_at", &review.ReadAt},
		{"date_added", &review.DateAdded},
		{"date_updated", &review.DateUpdated},
	} {
		raw, err := node.RequiredText(field.tag)
		if err != nil {
			return review, err
		}
		date, err := Date(raw)
		if err != nil {
			return review, fmt.Errorf("review %s %s > %w", id, field.tag, err)
		}
		*field.dest = date
	}
	return review, nil
}

// User converts the <user> element of a profile, including the shelves listed under <user_shelves>.
// A profile whose shelves are private has no <user_shelves> children.
func User(node *goodreads.Node) (model.User, error) {
	var user model.User
	id, err := node.RequiredText("id")
	if err != nil {
		return user, err
	}
	name, err := node.RequiredText("name")
	if err != nil {
		return user, err
	}
	username, err := node.RequiredText("user_name")
	if err != nil {
		return user, err
	}

	user = model.User{
		ID:       id,
		Name:     optionalString(name),
		Username: optionalString(username),
	}
	if shelves := node.Child("user_shelves"); shelves != nil {
		for _, child := range shelves.Children {
			shelfID, err := child.RequiredText("id")
			if err != nil {
				return user, err
			}
			shelfName, err := child.RequiredText("name")
			if err != nil {
				return user, err
			}
			user.Shelves = append(user.Shelves, model.Shelf{ID: shelfID, Name: shelfName, UserID: id})
		}
	}
	return user, nil
}

// Rating parses a review rating. Goodreads reports "0" for unrated reviews,
// so zero and absence both map to nil.
func Rating(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	rating, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("rating %q is not an integer: %w", raw, err)
	}
	if rating == 0 {
		return nil, nil
	}
	return &rating, nil
}

// PublicationDate builds a date from separate fields. Month and day default to 1;
// without a year there is no date at all.
func PublicationDate(year, month, day string) (*time.Time, error) {
	if year == "" {
		return nil, nil
	}
	parts := []int{0, 1, 1}
	for i, raw := range []string{year, month, day} {
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("publication date part %q is not an integer: %w", raw, err)
		}
		parts[i] = value
	}
	date := time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC)
	return &date, nil
}

// Date parses the loosely formatted date strings of the API, e.g. "Wed Mar 13 14:32:20 -0700 2019".
func Date(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil, fmt.Errorf("unparseable date %q: %w", raw, err)
	}
	return &date, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(node *goodreads.Node, tag, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return nil, &goodreads.MalformedRecordError{Record: node.Name(), Tag: tag, Reason: fmt.Sprintf("is not an integer: %q", raw)}
	}
	return &value, nil
}
