package goodreads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, retryAttempts uint) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:       server.URL,
		APIKey:        "secret",
		Timeout:       5 * time.Second,
		RetryAttempts: retryAttempts,
		RetryDelay:    time.Millisecond,
		PageSize:      2,
	})
}

func TestClient_ReviewPage(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/review/list/42.xml", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "secret", query.Get("key"))
		assert.Equal(t, "2", query.Get("v"))
		assert.Equal(t, "2", query.Get("per_page"))
		assert.Equal(t, "date_updated", query.Get("sort"))
		assert.Equal(t, "3", query.Get("page"))
		_, _ = w.Write([]byte(`<GoodreadsResponse>
<Request><authentication>true</authentication></Request>
<reviews start="5" end="6" total="6">
  <review><id>1</id></review>
  <review><id>2</id></review>
</reviews>
</GoodreadsResponse>`))
	})
	client := newTestClient(t, handler, 0)

	page, err := client.ReviewPage(context.Background(), "42", 3)
	require.NoError(t, err)
	assert.Equal(t, 6, page.End)
	assert.Equal(t, 6, page.Total)
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, "2", page.Reviews[1].OptionalText("id"))
}

func TestClient_ReviewPage_MissingReviews(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<GoodreadsResponse><error>forbidden</error></GoodreadsResponse>`))
	}), 0)

	_, err := client.ReviewPage(context.Background(), "42", 1)
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "reviews", malformed.Tag)
}

func TestClient_HTTPErrors(t *testing.T) {
	tests := []struct {
		name          string
		statuses      []int
		retryAttempts uint
		wantCalls     int32
		wantStatus    int
	}{
		{
			name:       "client error fails without retry",
			statuses:   []int{http.StatusUnauthorized},
			wantCalls:  1,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:          "client error is not retried even with retries configured",
			statuses:      []int{http.StatusNotFound},
			retryAttempts: 2,
			wantCalls:     1,
			wantStatus:    http.StatusNotFound,
		},
		{
			name:          "server errors are retried until attempts run out",
			statuses:      []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusInternalServerError},
			retryAttempts: 2,
			wantCalls:     3,
			wantStatus:    http.StatusInternalServerError,
		},
		{
			name:          "server error recovers on retry",
			statuses:      []int{http.StatusTooManyRequests, http.StatusOK},
			retryAttempts: 2,
			wantCalls:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				w.WriteHeader(tt.statuses[n-1])
				_, _ = w.Write([]byte(`<GoodreadsResponse><user><id>42</id></user></GoodreadsResponse>`))
			}), tt.retryAttempts)

			user, err := client.User(context.Background(), "42")
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, "42", user.OptionalText("id"))
				return
			}
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.NotContains(t, httpErr.Error(), "secret")
		})
	}
}

func TestClient_ResolveUserID(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/rixx", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/user/show/4812558-rixx", http.StatusMovedPermanently)
	})
	handler.HandleFunc("/user/show/4812558-rixx", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	})
	handler.HandleFunc("/nobody", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	})
	handler.HandleFunc("/author/show/1-someone", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><link rel="alternate" title="Bookshelves" href="https://www.goodreads.com/review/list_rss/777-someone"></head></html>`))
	})
	client := newTestClient(t, handler, 0)
	ctx := context.Background()

	got, err := client.ResolveUserID(ctx, "rixx")
	require.NoError(t, err)
	assert.Equal(t, "4812558", got)

	got, err = client.ResolveUserID(ctx, client.config.BaseURL+"author/show/1-someone")
	require.NoError(t, err)
	assert.Equal(t, "777", got)

	_, err = client.ResolveUserID(ctx, "nobody")
	var unresolvable *UnresolvableUserError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "nobody", unresolvable.Input)
}

func TestClient_ReadShelfPage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/review/list/42", r.URL.Path)
		assert.Equal(t, "read", r.URL.Query().Get("shelf"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(shelfPageHTML))
	}), 0)

	page, err := client.ReadShelfPage(context.Background(), "42", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Rows, 2)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://example.com/a.xml?page=1", redact("https://example.com/a.xml?key=secret&page=1"))
	assert.Equal(t, "https://example.com/rixx", redact("https://example.com/rixx"))
}

func TestClient_PacesRequestsAndSendsUserAgent(t *testing.T) {
	var mu sync.Mutex
	var userAgents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		userAgents = append(userAgents, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`<GoodreadsResponse><user><id>42</id></user></GoodreadsResponse>`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:         server.URL,
		UserAgent:       "goodreads-export-test",
		RequestInterval: 100 * time.Millisecond,
	})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.User(context.Background(), "42")
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"goodreads-export-test", "goodreads-export-test", "goodreads-export-test"}, userAgents)
}
