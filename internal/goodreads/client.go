// Package goodreads talks to the Goodreads XML API and the HTML pages the API does not cover.
package goodreads

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL       = "https://www.goodreads.com/"
	DefaultTimeout       = 30 * time.Second
	DefaultInterval      = time.Second
	DefaultPageSize      = 200
	DefaultShelfPageSize = 100
)

// Config holds everything the client needs; nothing is read from package state.
type Config struct {
	BaseURL         string
	APIKey          string
	UserAgent       string
	Timeout         time.Duration
	RequestInterval time.Duration
	RetryAttempts   uint
	RetryDelay      time.Duration
	PageSize        int
	ShelfPageSize   int
}

// Client fetches users, review pages and shelf pages for a single API key.
// Requests are issued sequentially and paced by RequestInterval.
type Client struct {
	http   *resty.Client
	config Config
}

// NewClient creates a Client, filling unset config values with defaults.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(config.BaseURL, "/") {
		config.BaseURL += "/"
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.ShelfPageSize <= 0 {
		config.ShelfPageSize = DefaultShelfPageSize
	}

	client := resty.New()
	client.SetBaseURL(config.BaseURL)
	client.SetTimeout(config.Timeout)
	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}
	if config.RequestInterval > 0 {
		limiter := rate.NewLimiter(rate.Every(config.RequestInterval), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	return &Client{
		http:   client,
		config: config,
	}
}

// ReviewPage is one page of a user's review list.
type ReviewPage struct {
	End     int
	Total   int
	Reviews []*Node
}

// ReviewPage fetches the given 1-based page of the user's reviews, sorted by update date.
func (c *Client) ReviewPage(ctx context.Context, userID string, page int) (*ReviewPage, error) {
	res, err := c.get(ctx, fmt.Sprintf("review/list/%s.xml", userID), map[string]string{
		"key":      c.config.APIKey,
		"v":        "2",
		"per_page": strconv.Itoa(c.config.PageSize),
		"sort":     "date_updated",
		"page":     strconv.Itoa(page),
	})
	if err != nil {
		return nil, err
	}

	root, err := ParseXML(res.Body())
	if err != nil {
		return nil, fmt.Errorf("review list page %d > %w", page, err)
	}
	reviews, err := root.RequiredChild("reviews")
	if err != nil {
		return nil, err
	}
	end, err := reviews.IntAttr("end")
	if err != nil {
		return nil, err
	}
	total, err := reviews.IntAttr("total")
	if err != nil {
		return nil, err
	}

	result := &ReviewPage{End: end, Total: total}
	for _, child := range reviews.Children {
		if child.Name() == "review" {
			result.Reviews = append(result.Reviews, child)
		}
	}
	return result, nil
}

// User fetches the <user> element of the user's profile, including their shelves.
func (c *Client) User(ctx context.Context, userID string) (*Node, error) {
	res, err := c.get(ctx, fmt.Sprintf("user/show/%s.xml", userID), map[string]string{
		"key": c.config.APIKey,
	})
	if err != nil {
		return nil, err
	}

	root, err := ParseXML(res.Body())
	if err != nil {
		return nil, fmt.Errorf("user %s > %w", userID, err)
	}
	return root.RequiredChild("user")
}

// ReadShelfPage fetches the given 1-based page of the HTML listing of the user's "read" shelf.
func (c *Client) ReadShelfPage(ctx context.Context, userID string, page int) (*ShelfPage, error) {
	res, err := c.get(ctx, fmt.Sprintf("review/list/%s", userID), map[string]string{
		"utf8":     "✓",
		"shelf":    "read",
		"per_page": strconv.Itoa(c.config.ShelfPageSize),
		"sort":     "date_updated",
		"page":     strconv.Itoa(page),
	})
	if err != nil {
		return nil, err
	}
	return ParseShelfPage(res.Body())
}

// ResolveUserID turns a username, a profile URL or an author page URL into a numeric user id.
//
// Vanity profile URLs redirect to a canonical URL ending in <user_id>-<username>.
// Author pages carry the id in their Bookshelves alternate link instead.
func (c *Client) ResolveUserID(ctx context.Context, username string) (string, error) {
	target := username
	if !strings.HasPrefix(username, "http") {
		target = c.config.BaseURL + strings.TrimPrefix(username, "/")
	}

	res, err := c.get(ctx, target, nil)
	if err != nil {
		return "", err
	}

	resolved := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		resolved = res.RawResponse.Request.URL.String()
	}
	if strings.Contains(username, "/author/") {
		link, err := ParseBookshelvesLink(res.Body())
		if err != nil {
			return "", err
		}
		resolved = link
	}

	userID, ok := UserIDFromURL(resolved)
	if !ok {
		return "", &UnresolvableUserError{Input: username, URL: resolved}
	}
	return userID, nil
}

// get issues a GET and retries network failures, 429 and 5xx answers.
// Any other non-success status fails immediately.
func (c *Client) get(ctx context.Context, path string, params map[string]string) (*resty.Response, error) {
	var res *resty.Response
	var lastErr error
	err := retry.Do(
		func() error {
			r, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(params).
				Get(path)
			if err != nil {
				lastErr = fmt.Errorf("GET %s > %w", path, err)
				return lastErr
			}
			slog.Default().Debug("goodreads response",
				"url", redact(r.Request.URL),
				"status", r.StatusCode(),
				"duration", r.Time())

			if r.StatusCode() < http.StatusOK || r.StatusCode() >= http.StatusMultipleChoices {
				httpErr := &HTTPError{Method: http.MethodGet, URL: redact(r.Request.URL), StatusCode: r.StatusCode()}
				lastErr = httpErr
				if !httpErr.retryable() {
					return retry.Unrecoverable(httpErr)
				}
				return httpErr
			}
			res = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.config.RetryAttempts+1),
		retry.Delay(c.config.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying Goodreads request", "attempt", n+1, "path", path, "error", err)
		}),
	)
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return res, nil
}

// redact drops the API key from a URL before it is logged or shown.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := u.Query()
	if !query.Has("key") {
		return rawURL
	}
	query.Del("key")
	u.RawQuery = query.Encode()
	return u.String()
}
