// Package credentials reads and writes the auth file holding the Goodreads developer key and user id.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/goodreads-export/internal/goodreads"
)

// ErrAuthMissing is returned when no developer key, or no user to export, is available.
var ErrAuthMissing = errors.New("cannot find authentication data, please run goodreads-export auth")

// InvalidUserIDError is returned when a user id is neither numeric nor a profile URL.
type InvalidUserIDError struct {
	Input string
}

func (e *InvalidUserIDError) Error() string {
	return fmt.Sprintf("your user ID has to be a number! %s does not look right", e.Input)
}

type Credentials struct {
	Token  string `yaml:"goodreads_personal_token"`
	UserID string `yaml:"goodreads_user_id"`
}

// Load reads the auth file. A missing file yields empty credentials.
func Load(path string) (Credentials, error) {
	var credentials Credentials

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return credentials, nil
	}
	if err != nil {
		return credentials, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&credentials); err != nil {
		return credentials, fmt.Errorf("yaml.NewDecoder().Decode(%s) > %w", path, err)
	}
	return credentials, nil
}

// Save writes the auth file, readable only by its owner.
func Save(path string, credentials Credentials) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewEncoder(file).Encode(credentials); err != nil {
		return fmt.Errorf("yaml.NewEncoder().Encode(%s) > %w", path, err)
	}
	return nil
}

// Override returns the credentials with the non-empty arguments taking precedence.
// A token must be known afterwards. The user id may stay empty when a username is given instead.
func (c Credentials) Override(token, userID string) (Credentials, error) {
	if token != "" {
		c.Token = token
	}
	if userID != "" {
		c.UserID = userID
	}
	if c.Token == "" {
		return c, ErrAuthMissing
	}
	return c, nil
}

// ParseUserID accepts a numeric user id or a profile URL such as
// https://www.goodreads.com/user/show/42-jane and returns the numeric id.
func ParseUserID(input string) (string, error) {
	input = strings.TrimSpace(input)
	id, ok := goodreads.UserIDFromURL(input)
	if !ok {
		return "", &InvalidUserIDError{Input: input}
	}
	return id, nil
}
