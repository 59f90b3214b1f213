// Command migrate lists, reports and applies the bot's database
// migrations. It is intended to be run by a single operator before
// starting the bot after an update.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/newsbot/internal/config"
	"github.com/example/newsbot/internal/logging"
	"github.com/example/newsbot/internal/persistence/sqlite"
	"github.com/example/newsbot/internal/persistence/sqlite/migration"
	"github.com/example/newsbot/internal/persistence/sqlite/migration/migrations"
)

var (
	flagList     bool
	flagStatus   bool
	flagRun      string
	flagYes      bool
	flagDatabase string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply database migrations for the news bot",
		Long:          "Applies pending schema migrations to the bot's SQLite database,\nbacking the database file up before any change.",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().BoolVar(&flagList, "list", false, "list registered migrations and their status")
	rootCmd.Flags().BoolVar(&flagStatus, "status", false, "print the full migration status report")
	rootCmd.Flags().StringVar(&flagRun, "run", "", "run a single migration by id")
	rootCmd.Flags().BoolVar(&flagYes, "yes", false, "confirm destructive migrations without prompting")
	rootCmd.Flags().StringVar(&flagDatabase, "database", "", "database file path (overrides NEWSBOT_DATABASE)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(os.Stderr, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDatabase != "" {
		cfg.DatabasePath = flagDatabase
	}

	registry, err := migration.NewRegistry(migrations.All()...)
	if err != nil {
		return err
	}

	sqliteCfg := sqlite.DefaultConfig(cfg.DatabasePath)
	sqliteCfg.BusyTimeout = cfg.BusyTimeout
	db, err := sqlite.Open(sqliteCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	ledger := migration.NewLedger(db)
	backup := migration.NewFileBackup(cfg.DatabasePath, cfg.BackupDir, logger)
	runner := migration.NewRunner(db, registry, ledger, backup, logger)

	switch {
	case flagList:
		return printList(ctx, runner)
	case flagStatus:
		return printStatus(ctx, cfg.DatabasePath, runner)
	case flagRun != "":
		confirm, err := confirmRun(ctx, runner, flagRun)
		if err != nil {
			return err
		}
		return runner.RunOne(ctx, flagRun, confirm)
	default:
		confirm, err := confirmRun(ctx, runner, "")
		if err != nil {
			return err
		}
		return runner.RunAll(ctx, confirm)
	}
}

// confirmRun derives the confirmation flag for a run. With --yes it is
// granted outright; otherwise the pending migrations are shown and the
// operator is prompted. Declining cancels the run entirely.
func confirmRun(ctx context.Context, runner *migration.Runner, id string) (bool, error) {
	if flagYes {
		return true, nil
	}

	pending, err := runner.ListPending(ctx)
	if err != nil {
		return false, err
	}
	if len(pending) == 0 {
		return false, nil // nothing to do; the runner reports and exits cleanly
	}

	fmt.Printf("Pending migrations:\n")
	for _, mod := range pending {
		if id != "" && mod.ID() != id {
			continue
		}
		fmt.Printf("  %s: %s - %s\n", mod.ID(), mod.Name(), mod.Description())
	}

	fmt.Printf("\nContinue with migrations? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, fmt.Errorf("migration cancelled by operator")
	}
}

func printList(ctx context.Context, runner *migration.Runner) error {
	status, err := runner.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Registered migrations:")
	for _, entry := range status.Entries {
		state := "pending"
		if entry.Applied {
			state = "applied"
		}
		fmt.Printf("  %s: %s - %s\n", entry.ID, entry.Name, state)
	}
	return nil
}

func printStatus(ctx context.Context, databasePath string, runner *migration.Runner) error {
	status, err := runner.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Migration status report")
	fmt.Printf("Database: %s\n", databasePath)
	fmt.Printf("Total migrations: %d\n", len(status.Entries))
	fmt.Printf("Applied: %d\n", status.AppliedCount())
	fmt.Printf("Pending: %d\n", status.PendingCount())

	for _, entry := range status.Entries {
		if entry.Applied {
			fmt.Printf("  %s: %s - applied at %s\n", entry.ID, entry.Name, entry.AppliedAt.Format("2006-01-02 15:04:05 UTC"))
		} else {
			fmt.Printf("  %s: %s - pending\n", entry.ID, entry.Name)
		}
	}
	return nil
}
