package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/schooldesk/internal/config"
	"github.com/mrlokans/schooldesk/internal/database"
)

// MigrateCommand creates or updates the schema without starting the server.
type MigrateCommand struct {
	Driver       string
	DatabasePath string

	cfg *config.Config
}

func NewMigrateCommand(cfg *config.Config) *MigrateCommand {
	return &MigrateCommand{cfg: cfg}
}

func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)

	fs.StringVar(&cmd.Driver, "driver", cmd.cfg.Database.Driver, "Database driver: sqlite, mysql or postgres")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the sqlite database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create or update the database schema.\n")
		fmt.Fprintf(os.Stderr, "Connection settings for mysql and postgres come from DB_* environment variables.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *MigrateCommand) Run() error {
	db, err := openDatabase(cmd.cfg.Database, cmd.Driver, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Schema is up to date (%s)\n", db.Driver)
	return nil
}

// openDatabase connects with the configured settings, overridden by flags.
// Opening runs the migrations.
func openDatabase(base config.Database, driver, path string) (*database.Database, error) {
	opts := database.OptionsFromConfig(base)
	if driver != "" {
		opts.Driver = driver
	}
	if path != "" {
		opts.Path = path
	}

	db, err := database.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
