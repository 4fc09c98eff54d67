package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/importer"
	"github.com/payout-reconciler/internal/reconciliation/components"
	"github.com/payout-reconciler/internal/reconciliation/service"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("invalid usage")

// parse handles --help and reports flag errors with the command's usage
func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func runImport(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("import-csv")
	file := fs.String("file", "", "path of the payments export (CSV)")
	account := fs.String("account", "", "processor account id of an existing account")
	createAccount := fs.String("create-account", "", "name of the account to find or create")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *file == "" && fs.NArg() > 0 {
		*file = fs.Arg(0)
	}
	if *file == "" {
		return fmt.Errorf("%w: --file is required", errUsage)
	}
	if *account == "" && *createAccount == "" {
		return fmt.Errorf("%w: please specify --account or --create-account", errUsage)
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *file, err)
	}
	defer f.Close()

	a, err := newApp(ctx, fs, false)
	if err != nil {
		return err
	}
	defer a.Close()

	imp := importer.NewImporter(a.repos.Accounts, a.repos.Transactions, a.cfg.Payout, a.log)
	result, err := imp.Import(ctx, f, importer.Options{Account: *account, CreateAccount: *createAccount})
	if err != nil {
		return err
	}

	renderImport(stdout, *file, result)
	return nil
}

func runCalculate(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("calculate-payouts")
	year := fs.Int("year", 0, "year")
	month := fs.Int("month", 0, "month (1-12)")
	account := fs.String("account", "", "account name, processor id or uuid")
	threshold := fs.String("payout-threshold", "", "payout threshold in major units (default from configuration)")
	cutoffDay := fs.Int("payout-cutoff-day", 0, "only charges up to this day of the month trigger payouts")
	dryRun := fs.Bool("dry-run", false, "show the payouts without creating them")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *account == "" || *year == 0 || *month == 0 {
		return fmt.Errorf("%w: --account, --year and --month are required", errUsage)
	}

	request := &shared.ReconciliationRequest{
		RequestID:     uuid.New(),
		Account:       *account,
		Year:          *year,
		Month:         *month,
		CutoffDay:     *cutoffDay,
		DryRun:        *dryRun,
		CorrelationID: uuid.NewString(),
		Timestamp:     time.Now(),
	}
	if *threshold != "" {
		minor, err := importer.ToMinorUnits(*threshold)
		if err != nil {
			return fmt.Errorf("%w: --payout-threshold: %v", errUsage, err)
		}
		if minor <= 0 {
			return fmt.Errorf("%w: --payout-threshold must be positive", errUsage)
		}
		request.Threshold = minor
	}

	a, err := newApp(ctx, fs, true)
	if err != nil {
		return err
	}
	defer a.Close()

	payouts := components.CreatePayoutService(a.postgres.Pool(), a.repos, a.log, a.cfg)
	calc, err := payouts.Calculate(ctx, request)
	if err != nil {
		return err
	}

	renderCalculation(stdout, calc, a.cfg.Payout.Currency)
	return nil
}

func runStatement(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("generate-statement")
	year := fs.Int("year", 0, "year of the statement")
	month := fs.Int("month", 0, "month of the statement (1-12)")
	account := fs.String("account", "", "account name, processor id or uuid")
	opening := fs.String("opening-balance", "", "opening balance in major units (default: previous closing balance)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *account == "" || *year == 0 || *month == 0 {
		return fmt.Errorf("%w: --account, --year and --month are required", errUsage)
	}

	request := &service.StatementRequest{
		Account:       *account,
		Year:          *year,
		Month:         *month,
		CorrelationID: uuid.NewString(),
	}
	if *opening != "" {
		minor, err := importer.ToMinorUnits(*opening)
		if err != nil {
			return fmt.Errorf("%w: --opening-balance: %v", errUsage, err)
		}
		request.OpeningBalance = &minor
	}

	a, err := newApp(ctx, fs, false)
	if err != nil {
		return err
	}
	defer a.Close()

	acc, err := a.repos.Accounts.Resolve(ctx, *account)
	if err != nil {
		return err
	}

	statements := components.CreateStatementService(a.repos, a.log, a.cfg)
	st, err := statements.Generate(ctx, request)
	if err != nil {
		return err
	}

	renderStatement(stdout, acc, st, acc.Currency)
	return nil
}
