package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/goodreads-export/internal/credentials"
	"github.com/at-ishikawa/goodreads-export/internal/goodreads"
	"github.com/at-ishikawa/goodreads-export/internal/profile"
)

var (
	configFile string
)

func main() {
	rootCommand := newRootCommand()
	if err := rootCommand.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCommand := &cobra.Command{
		Use:           "goodreads-export",
		Short:         "Save books, authors, reviews and shelves from Goodreads to a database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	rootCommand.AddCommand(
		newAuthCommand(),
		newBooksCommand(),
	)
	return rootCommand
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

// errorMessage turns the failures a user can act on into a short message.
func errorMessage(err error) string {
	var unresolvable *goodreads.UnresolvableUserError
	var invalidUserID *credentials.InvalidUserIDError
	var httpErr *goodreads.HTTPError
	var malformed *goodreads.MalformedRecordError

	switch {
	case errors.Is(err, credentials.ErrAuthMissing):
		return "Cannot find authentication data, please run goodreads-export auth!"
	case errors.Is(err, profile.ErrPrivateProfile):
		return "This user's shelves and reviews are private, and cannot be fetched."
	case errors.As(err, &unresolvable):
		return fmt.Sprintf("Cannot find user ID for %s", unresolvable.Input)
	case errors.As(err, &invalidUserID):
		return fmt.Sprintf("Your user ID has to be a number! %s does not look right", invalidUserID.Input)
	case errors.As(err, &httpErr):
		return fmt.Sprintf("Goodreads did not answer as expected: %s", httpErr)
	case errors.As(err, &malformed):
		return fmt.Sprintf("Goodreads sent data in an unknown format: %s", malformed)
	}
	return fmt.Sprintf("failed to execute a command: %+v", err)
}

func printError(w io.Writer, err error) {
	if _, fprintErr := color.New(color.FgRed, color.Bold).Fprintln(w, errorMessage(err)); fprintErr != nil {
		panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintErr))
	}
}
