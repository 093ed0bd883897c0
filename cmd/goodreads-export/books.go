package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/goodreads-export/internal/config"
	"github.com/at-ishikawa/goodreads-export/internal/credentials"
	"github.com/at-ishikawa/goodreads-export/internal/database"
	"github.com/at-ishikawa/goodreads-export/internal/export"
	"github.com/at-ishikawa/goodreads-export/internal/library"
	"github.com/at-ishikawa/goodreads-export/internal/profile"
	"github.com/at-ishikawa/goodreads-export/internal/progress"
	"github.com/at-ishikawa/goodreads-export/internal/store"
)

type Driver string

func (d *Driver) Set(val string) error {
	for _, driver := range allDrivers {
		if val == string(driver) {
			*d = driver
			return nil
		}
	}
	return fmt.Errorf("invalid driver: %s", val)
}

func (d Driver) String() string {
	return string(d)
}

func (d *Driver) Type() string {
	return "Driver"
}

const (
	DriverSQLite Driver = "sqlite"
	DriverMySQL  Driver = "mysql"
)

var (
	_          pflag.Value = (*Driver)(nil)
	allDrivers             = []Driver{DriverSQLite, DriverMySQL}
)

type booksOptions struct {
	authFile   string
	dbPath     string
	driver     Driver
	noProgress bool
	export     export.Options
}

func newBooksCommand() *cobra.Command {
	var opts booksOptions

	command := &cobra.Command{
		Use:   "books [USERNAME|USER_ID]",
		Short: "Save the books, authors, reviews and shelves of a user",
		Long: `Save the books, authors, reviews and shelves of a user.

The user can be a numeric user ID, a username or a profile URL.
Without one, the user ID of the auth file is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				opts.export.User = args[0]
			}

			result, err := runBooks(cmd.Context(), cfg, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), result, opts.export.Scrape)
			return nil
		},
	}

	flags := command.Flags()
	flags.StringVarP(&opts.authFile, "auth", "a", "", "Path to the auth file. Defaults to auth.file of the config")
	flags.StringVar(&opts.dbPath, "db", "", "Path to the sqlite database. Defaults to database.path of the config")
	flags.Var(&opts.driver, "driver", fmt.Sprintf("Database driver. Possible values are %v. Defaults to database.driver of the config", allDrivers))
	flags.BoolVar(&opts.export.ForceOnline, "force-online", false, "Ignore the stored profile and fetch it from Goodreads")
	flags.BoolVar(&opts.export.Scrape, "scrape", false, "Scrape the read shelf for read dates the API does not return")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Do not draw progress bars")
	return command
}

// applyOverrides lets flags take precedence over the config file.
func applyOverrides(cfg *config.Config, opts booksOptions) {
	if opts.authFile != "" {
		cfg.Auth.File = opts.authFile
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	if opts.driver != "" {
		cfg.Database.Driver = opts.driver.String()
	}
}

func runBooks(ctx context.Context, cfg *config.Config, opts booksOptions, progressOut io.Writer) (*export.Result, error) {
	applyOverrides(cfg, opts)

	saved, err := credentials.Load(cfg.Auth.File)
	if err != nil {
		return nil, fmt.Errorf("credentials.Load() > %w", err)
	}
	auth, err := saved.Override(cfg.Goodreads.APIKey, "")
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := database.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	dialect, err := store.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	var reporter progress.Reporter = progress.Nop{}
	if !opts.noProgress {
		renderer := progress.NewRenderer(progressOut)
		defer renderer.Stop()
		reporter = renderer
	}

	client := newClient(cfg.Goodreads, auth.Token)
	exporter := export.NewExporter(
		profile.NewLoader(client, library.NewDBUserRepository(db, dialect)),
		client,
		client,
		library.NewDBReviewRepository(db, dialect),
		reporter,
	)

	exportOptions := opts.export
	exportOptions.DefaultUserID = auth.UserID
	return exporter.Run(ctx, exportOptions)
}

func printSummary(out io.Writer, result *export.Result, scrape bool) {
	if scrape {
		_, _ = fmt.Fprintf(out, "Found %d previously missing read dates.\n", result.ReadDates)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("User %s", result.UserID))
	t.AppendHeader(table.Row{"Saved", "Count"})
	t.AppendRows([]table.Row{
		{"Shelves", result.Shelves},
		{"Authors", result.Authors},
		{"Books", result.Books},
		{"Reviews", result.Reviews},
	})
	t.AppendFooter(table.Row{"Requests", result.Requests})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
