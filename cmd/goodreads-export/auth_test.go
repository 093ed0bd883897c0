package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/goodreads-export/internal/credentials"
	"github.com/at-ishikawa/goodreads-export/internal/testutil"
)

func TestRunAuth(t *testing.T) {
	tests := []struct {
		name    string
		saved   *credentials.Credentials
		input   string
		want    credentials.Credentials
		wantErr bool
	}{
		{
			name:  "numeric user id",
			input: "key\n42\n",
			want:  credentials.Credentials{Token: "key", UserID: "42"},
		},
		{
			name:  "profile url",
			input: "key\nhttps://www.goodreads.com/user/show/42-jane-doe\n",
			want:  credentials.Credentials{Token: "key", UserID: "42"},
		},
		{
			name:  "keeps the saved user id on an empty answer",
			saved: &credentials.Credentials{Token: "old-key", UserID: "42"},
			input: "new-key\n\n",
			want:  credentials.Credentials{Token: "new-key", UserID: "42"},
		},
		{
			name:  "input without a trailing newline",
			input: "key\n42",
			want:  credentials.Credentials{Token: "key", UserID: "42"},
		},
		{
			name:    "empty developer key",
			input:   "\n42\n",
			wantErr: true,
		},
		{
			name:    "invalid user id",
			input:   "key\njane\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authFile := filepath.Join(t.TempDir(), "auth.yml")
			if tt.saved != nil {
				testutil.WriteAuthFile(t, authFile, tt.saved.Token, tt.saved.UserID)
			}

			var out bytes.Buffer
			err := runAuth(strings.NewReader(tt.input), &out, authFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got, err := credentials.Load(authFile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Your authentication credentials have been saved to "+authFile)
			assert.Contains(t, out.String(), "goodreads-export books --auth "+authFile)
		})
	}
}

func TestRunAuth_InvalidUserIDError(t *testing.T) {
	authFile := filepath.Join(t.TempDir(), "auth.yml")

	err := runAuth(strings.NewReader("key\njane\n"), &bytes.Buffer{}, authFile)
	var invalid *credentials.InvalidUserIDError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "jane", invalid.Input)
	assert.NoFileExists(t, authFile)
}

func TestNewAuthCommand(t *testing.T) {
	cmd := newAuthCommand()

	assert.Equal(t, "auth", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	authFlag := cmd.Flags().Lookup("auth")
	require.NotNil(t, authFlag)
	assert.Equal(t, "a", authFlag.Shorthand)
	assert.Equal(t, "", authFlag.DefValue)
}

func TestNewAuthCommand_RunE(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir, "http://127.0.0.1/")
	setConfigFile(t, cfgPath)

	cmd := newAuthCommand()
	cmd.SetIn(strings.NewReader("key\n42\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	got, err := credentials.Load(filepath.Join(tmpDir, "auth.yml"))
	require.NoError(t, err)
	assert.Equal(t, credentials.Credentials{Token: "key", UserID: "42"}, got)
}

func TestNewAuthCommand_InvalidConfig(t *testing.T) {
	setConfigFile(t, setupBrokenConfigFile(t))

	cmd := newAuthCommand()
	cmd.SetIn(strings.NewReader("key\n42\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
