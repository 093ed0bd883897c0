package goodreads

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ShelfRow is one book row of the HTML shelf listing.
type ShelfRow struct {
	ReviewID string
	DateRead string
}

// ShelfPage is one page of the HTML shelf listing.
type ShelfPage struct {
	// Total is the number of books on the shelf as shown next to the shelf selector.
	Total   int
	Rows    []ShelfRow
	HasNext bool
}

func parseHTML(body []byte) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("html.Parse > %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// ParseShelfPage extracts the review rows, the shelf total and the pagination state from a shelf listing.
func ParseShelfPage(body []byte) (*ShelfPage, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return nil, err
	}

	selected := doc.Find("a.selectedShelf").First()
	if selected.Length() == 0 {
		return nil, &MalformedRecordError{Record: "shelf page", Tag: "a.selectedShelf"}
	}
	label := selected.Text()
	count := label
	if i := strings.Index(label, "("); i >= 0 {
		count = label[i:]
	}
	count = strings.TrimSpace(strings.Trim(strings.TrimSpace(count), "()"))
	total, err := strconv.Atoi(strings.ReplaceAll(count, ",", ""))
	if err != nil {
		return nil, &MalformedRecordError{Record: "shelf page", Tag: "a.selectedShelf", Reason: fmt.Sprintf("has no book count: %q", label)}
	}

	page := &ShelfPage{
		Total:   total,
		HasNext: doc.Find("a[rel=next]").Length() > 0,
	}
	doc.Find("table#books tbody tr").Each(func(_ int, row *goquery.Selection) {
		id, ok := row.Attr("id")
		if !ok || !strings.HasPrefix(id, "review_") {
			return
		}
		shelfRow := ShelfRow{ReviewID: strings.TrimPrefix(id, "review_")}
		if date := row.Find(".date_read_value").First(); date.Length() > 0 {
			shelfRow.DateRead = strings.TrimSpace(date.Text())
		}
		page.Rows = append(page.Rows, shelfRow)
	})
	return page, nil
}

// ParseBookshelvesLink returns the href of an author page's Bookshelves alternate link.
func ParseBookshelvesLink(body []byte) (string, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return "", err
	}
	href, ok := doc.Find("link[rel=alternate][title=Bookshelves]").First().Attr("href")
	if !ok {
		return "", &MalformedRecordError{Record: "author page", Tag: "link[rel=alternate][title=Bookshelves]"}
	}
	return href, nil
}

// UserIDFromURL extracts the numeric user id from the last path segment of a profile URL,
// which has the form <user_id>-<username>. A bare numeric id is accepted as well.
func UserIDFromURL(rawURL string) (string, bool) {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	path = strings.Trim(path, "/")
	segment := path[strings.LastIndex(path, "/")+1:]
	id, _, _ := strings.Cut(segment, "-")
	if !isDigits(id) {
		return "", false
	}
	return id, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
