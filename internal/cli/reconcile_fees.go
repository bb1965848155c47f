package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/schooldesk/internal/config"
	"github.com/mrlokans/schooldesk/internal/database/fees"
)

// ReconcileFeesCommand recomputes every student's paid fee from the ledger.
type ReconcileFeesCommand struct {
	Driver       string
	DatabasePath string
	Timeout      time.Duration

	cfg *config.Config
}

func NewReconcileFeesCommand(cfg *config.Config) *ReconcileFeesCommand {
	return &ReconcileFeesCommand{cfg: cfg}
}

func (cmd *ReconcileFeesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reconcile-fees", flag.ContinueOnError)

	fs.StringVar(&cmd.Driver, "driver", cmd.cfg.Database.Driver, "Database driver: sqlite, mysql or postgres")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the sqlite database file")
	fs.DurationVar(&cmd.Timeout, "timeout", 5*time.Minute, "Abort when reconciliation takes longer than this")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reconcile-fees [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Recompute each student's paid fee from the fee ledger and fix drifted totals.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s reconcile-fees -db ./school.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  DB_HOST=db DB_USER=school %s reconcile-fees -driver mysql\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func (cmd *ReconcileFeesCommand) Run() error {
	db, err := openDatabase(cmd.cfg.Database, cmd.Driver, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	result, err := fees.NewRepository(db.DB).Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconcile fees: %w", err)
	}

	fmt.Printf("Checked %d students, corrected %d paid fee totals\n", result.Checked, result.Corrected)
	return nil
}
