package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/goodreads-export/internal/credentials"
	"github.com/at-ishikawa/goodreads-export/internal/goodreads"
	"github.com/at-ishikawa/goodreads-export/internal/profile"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(nil, slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "goodreads-export", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"auth", "books"}, names)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing auth",
			err:  fmt.Errorf("export > %w", credentials.ErrAuthMissing),
			want: "Cannot find authentication data, please run goodreads-export auth!",
		},
		{
			name: "private profile",
			err:  fmt.Errorf("profiles.Load() > %w", profile.ErrPrivateProfile),
			want: "This user's shelves and reviews are private, and cannot be fetched.",
		},
		{
			name: "unresolvable user",
			err:  fmt.Errorf("profiles.ResolveUserID() > %w", &goodreads.UnresolvableUserError{Input: "jane", URL: "https://www.goodreads.com/jane"}),
			want: "Cannot find user ID for jane",
		},
		{
			name: "invalid user id",
			err:  &credentials.InvalidUserIDError{Input: "jane"},
			want: "Your user ID has to be a number! jane does not look right",
		},
		{
			name: "http error",
			err:  fmt.Errorf("fetch.Reviews() > %w", &goodreads.HTTPError{Method: "GET", URL: "https://www.goodreads.com/review/list/42.xml", StatusCode: 404}),
			want: "Goodreads did not answer as expected: GET https://www.goodreads.com/review/list/42.xml: unexpected status 404 Not Found",
		},
		{
			name: "malformed record",
			err:  &goodreads.MalformedRecordError{Record: "review", Tag: "book"},
			want: "Goodreads sent data in an unknown format: malformed upstream record <review>: missing <book>",
		},
		{
			name: "other error",
			err:  errors.New("disk full"),
			want: "failed to execute a command: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(tt.err))
		})
	}
}

func TestPrintError(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	printError(&buf, credentials.ErrAuthMissing)
	assert.Equal(t, "Cannot find authentication data, please run goodreads-export auth!\n", buf.String())
}
