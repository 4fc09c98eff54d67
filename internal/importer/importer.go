// Package importer loads a payments export from the processor dashboard into
// the transaction store of one account.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/config"
	"github.com/payout-reconciler/internal/domain/stripe"
)

var ErrNoAccount = errors.New("either an account or an account name to create is required")

// Options selects the target account. CreateAccount wins when both are set.
type Options struct {
	Account       string // processor account id of an existing account
	CreateAccount string // name of an account to find or create
}

// RowError describes a row that could not be imported
type RowError struct {
	Line     int
	StripeID string
	Err      error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.StripeID, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Result summarises an import
type Result struct {
	Account        *stripe.Account
	AccountCreated bool
	Imported       int
	Skipped        int
	Errors         int
	RowErrors      []RowError
}

// Importer imports payment exports
type Importer interface {
	Import(ctx context.Context, r io.Reader, opts Options) (*Result, error)
}

type ImporterImpl struct {
	accountRepo stripe.AccountRepository
	txnRepo     stripe.TransactionRepository
	cfg         config.PayoutConfig
	logger      *slog.Logger
	now         func() time.Time
}

func NewImporter(
	accountRepo stripe.AccountRepository,
	txnRepo stripe.TransactionRepository,
	cfg config.PayoutConfig,
	logger *slog.Logger,
) Importer {
	return &ImporterImpl{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Import reads the export row by row. Rows without an id and rows already
// stored are skipped; a bad row is counted and logged without stopping the
// import. Only an unusable file or account fails the whole call.
func (i *ImporterImpl) Import(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	account, created, err := i.resolveAccount(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger := i.logger.With("account_id", account.ID.String(), "import_id", uuid.NewString())
	result := &Result{Account: account, AccountCreated: created}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}
	index := indexHeader(header)
	if _, ok := index[colID]; !ok {
		return nil, ErrMissingIDColumn
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				i.rowFailed(logger, result, RowError{Line: parseErr.Line, Err: err})
				continue
			}
			return result, fmt.Errorf("failed to read export: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec := row{header: index, fields: fields}
		stripeID := rec.value(colID)
		if stripeID == "" {
			result.Skipped++
			continue
		}

		exists, err := i.txnRepo.ExistsByStripeID(ctx, stripeID)
		if err != nil {
			i.rowFailed(logger, result, RowError{Line: line, StripeID: stripeID, Err: err})
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		txn, err := rec.toTransaction(account, i.now().UTC())
		if err != nil {
			i.rowFailed(logger, result, RowError{Line: line, StripeID: stripeID, Err: err})
			continue
		}
		txn.ID = uuid.New()

		inserted, err := i.txnRepo.Create(ctx, txn)
		if err != nil {
			i.rowFailed(logger, result, RowError{Line: line, StripeID: stripeID, Err: err})
			continue
		}
		if !inserted {
			result.Skipped++
			continue
		}

		result.Imported++
		if result.Imported%100 == 0 {
			logger.Info("Import progress", "imported", result.Imported)
		}
	}

	logger.Info("Import complete",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", result.Errors,
	)
	return result, nil
}

func (i *ImporterImpl) rowFailed(logger *slog.Logger, result *Result, rowErr RowError) {
	logger.Warn("Error importing row", "line", rowErr.Line, "stripe_id", rowErr.StripeID, "error", rowErr.Err)
	result.Errors++
	result.RowErrors = append(result.RowErrors, rowErr)
}

func (i *ImporterImpl) resolveAccount(ctx context.Context, opts Options) (*stripe.Account, bool, error) {
	if opts.CreateAccount != "" {
		return i.findOrCreate(ctx, opts.CreateAccount)
	}
	if opts.Account == "" {
		return nil, false, ErrNoAccount
	}

	acc, err := i.accountRepo.GetByProcessorID(ctx, opts.Account)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up account %s: %w", opts.Account, err)
	}
	if acc == nil {
		return nil, false, stripe.ErrAccountNotFound{Ref: opts.Account}
	}
	return acc, false, nil
}

func (i *ImporterImpl) findOrCreate(ctx context.Context, name string) (*stripe.Account, bool, error) {
	processorID := stripe.ProcessorIDFromName(name)
	acc, err := i.accountRepo.GetByProcessorID(ctx, processorID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up account %s: %w", processorID, err)
	}
	if acc != nil {
		return acc, false, nil
	}

	acc, err = stripe.NewAccount(name, processorID, i.cfg.Currency)
	if err != nil {
		return nil, false, err
	}
	if err := i.accountRepo.Create(ctx, acc); err != nil {
		var dup stripe.ErrDuplicateAccount
		if !errors.As(err, &dup) {
			return nil, false, fmt.Errorf("failed to create account %s: %w", processorID, err)
		}
		// Created concurrently
		existing, getErr := i.accountRepo.GetByProcessorID(ctx, processorID)
		if getErr != nil || existing == nil {
			return nil, false, fmt.Errorf("failed to create account %s: %w", processorID, err)
		}
		return existing, false, nil
	}

	i.logger.Info("Created account", "account_id", acc.ID.String(), "processor_id", processorID, "name", name)
	return acc, true, nil
}
