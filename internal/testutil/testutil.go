// Package testutil provides shared test helpers for config files, auth files and a fake Goodreads server.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig writes a config file pointing at baseURL, with pacing and retries disabled,
// and a sqlite database and auth file inside tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, baseURL string) string {
	t.Helper()

	configContent := fmt.Sprintf(`goodreads:
  base_url: %s
  request_interval: 0s
  retry_attempts: 0
  timeout: 5s
auth:
  file: %s
database:
  driver: sqlite
  path: %s
`,
		baseURL,
		filepath.Join(tmpDir, "auth.yml"),
		filepath.Join(tmpDir, "goodreads.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteAuthFile writes an auth file in the format the auth command saves.
func WriteAuthFile(t *testing.T, path string, token string, userID string) {
	t.Helper()
	content := fmt.Sprintf("goodreads_personal_token: %q\ngoodreads_user_id: %q\n", token, userID)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// NewGoodreadsServer answers requests with the body registered for their path.
// Unknown paths answer 404. The server is closed when the test ends.
func NewGoodreadsServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, ".xml") {
			w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}
