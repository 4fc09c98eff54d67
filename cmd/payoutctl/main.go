// Command payoutctl is the operator tool for payout reconciliation: it imports
// payment exports, replays a month into simulated payouts and builds monthly
// statements.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/payout-reconciler/internal/config"
	"github.com/payout-reconciler/internal/data/mongo"
	"github.com/payout-reconciler/internal/data/postgres"
	"github.com/payout-reconciler/internal/logger"
	"github.com/payout-reconciler/internal/platform/persistence"
	"github.com/payout-reconciler/internal/reconciliation/components"
	"github.com/spf13/pflag"
)

const usage = `Usage: payoutctl <command> [flags]

Commands:
  import-csv           Import a payments export into an account
  calculate-payouts    Replay a month of charges into payouts
  generate-statement   Build and store a monthly statement

Run "payoutctl <command> --help" for the flags of a command.
`

type command func(ctx context.Context, args []string, stdout io.Writer) error

var commands = map[string]command{
	"import-csv":         runImport,
	"calculate-payouts":  runCalculate,
	"generate-statement": runStatement,
}

// flagBindings lets the common flags override the configuration file
var flagBindings = map[string]string{
	"LOG_LEVEL":       "log-level",
	"POSTGRES_URL":    "postgres-url",
	"MONGO_URI":       "mongo-uri",
	"PAYOUT_TIMEZONE": "timezone",
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd(ctx, os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("log-level", "warn", "log level written to stderr")
	fs.String("postgres-url", "", "PostgreSQL connection string")
	fs.String("mongo-uri", "", "MongoDB connection string")
	fs.String("timezone", "", "zone in which months and cutoff days are interpreted")
	return fs
}

// app holds the connections a command works with
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	postgres *persistence.PostgresDB
	mongo    *persistence.MongoDB
	repos    components.Repositories
}

// newApp loads configuration and connects to PostgreSQL, and to MongoDB when
// the command records reconciliation runs
func newApp(ctx context.Context, fs *pflag.FlagSet, withRuns bool) (*app, error) {
	cfg, err := config.LoadConfigWithFlags("payoutctl", fs, flagBindings)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.NewLoggerTo(cfg, os.Stderr)

	postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		postgres: postgresDB,
		repos: components.Repositories{
			Accounts:     postgres.NewAccountRepository(log, postgresDB),
			Transactions: postgres.NewTransactionRepository(log, postgresDB),
			Statements:   postgres.NewStatementRepository(log, postgresDB),
			Outbox:       postgres.NewOutboxRepository(log, postgresDB),
		},
	}

	if withRuns {
		mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
		if err != nil {
			postgresDB.Close()
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		a.mongo = mongoDB
		a.repos.Runs = mongo.NewRunRepository(log, mongoDB.Database())
	}

	return a, nil
}

func (a *app) Close() {
	a.postgres.Close()
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.MongoDB.Timeout)
		defer cancel()
		if err := a.mongo.Close(ctx); err != nil {
			a.log.Error("Error closing MongoDB connection", "error", err)
		}
	}
}
