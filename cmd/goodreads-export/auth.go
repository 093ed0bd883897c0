package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/goodreads-export/internal/credentials"
)

func newAuthCommand() *cobra.Command {
	var authFile string

	command := &cobra.Command{
		Use:   "auth",
		Short: "Save a Goodreads developer key and user ID to the auth file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if authFile == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				authFile = cfg.Auth.File
			}
			return runAuth(cmd.InOrStdin(), cmd.OutOrStdout(), authFile)
		},
	}
	command.Flags().StringVarP(&authFile, "auth", "a", "", "Path to save the credentials to. Defaults to auth.file of the config")
	return command
}

func runAuth(in io.Reader, out io.Writer, authFile string) error {
	saved, err := credentials.Load(authFile)
	if err != nil {
		return fmt.Errorf("credentials.Load() > %w", err)
	}

	reader := bufio.NewReader(in)
	_, _ = fmt.Fprintln(out, "Please enter your Goodreads developer key. You can create one at https://www.goodreads.com/api/keys")
	token, err := prompt(reader, out, "Developer key", "")
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("a developer key is required")
	}

	_, _ = fmt.Fprintln(out, "Please enter your Goodreads user ID (numeric) or just paste your Goodreads profile URL.")
	rawUserID, err := prompt(reader, out, "User ID or URL", saved.UserID)
	if err != nil {
		return err
	}
	userID, err := credentials.ParseUserID(rawUserID)
	if err != nil {
		return err
	}

	if err := credentials.Save(authFile, credentials.Credentials{Token: token, UserID: userID}); err != nil {
		return fmt.Errorf("credentials.Save() > %w", err)
	}

	_, _ = fmt.Fprintf(out, "Your authentication credentials have been saved to %s. You can now import books by running\n\n", authFile)
	_, _ = fmt.Fprintf(out, "    goodreads-export books --auth %s [USERNAME]\n", authFile)
	return nil
}

// prompt reads one line. An empty answer falls back to defaultValue.
func prompt(reader *bufio.Reader, out io.Writer, label string, defaultValue string) (string, error) {
	if defaultValue != "" {
		_, _ = fmt.Fprintf(out, "%s [%s]: ", label, defaultValue)
	} else {
		_, _ = fmt.Fprintf(out, "%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reader.ReadString() > %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}
