package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/shopspring/decimal"
)

// Columns of the processor's payments export
const (
	colID              = "id"
	colAmount          = "Amount"
	colConvertedAmount = "Converted Amount"
	colAmountRefunded  = "Amount Refunded"
	colFee             = "Fee"
	colCurrency        = "Currency"
	colConvertedCurr   = "Converted Currency"
	colCreated         = "Created date (UTC)"
	colStatus          = "Status"
	colCustomerEmail   = "Customer Email"
	colDescription     = "Description"
)

const createdLayout = "2006-01-02 15:04:05"

var metadataColumns = map[string]string{
	"customer_id": "Customer ID",
	"card_id":     "Card ID",
	"invoice_id":  "Invoice ID",
	"subs_type":   "subs_type (metadata)",
	"site":        "site (metadata)",
}

var (
	ErrMissingIDColumn = errors.New("export has no id column")
	ErrTooPrecise      = errors.New("amount has more than two decimal places")
	ErrNegativeAmount  = errors.New("amount, fee and amount refunded cannot be negative")
)

var hundred = decimal.NewFromInt(100)

// row gives access to a record by column name
type row struct {
	header map[string]int
	fields []string
}

// get returns the trimmed value of a column and whether the column exists
func (r row) get(column string) (string, bool) {
	i, ok := r.header[column]
	if !ok || i >= len(r.fields) {
		return "", false
	}
	return strings.TrimSpace(r.fields[i]), true
}

func (r row) value(column string) string {
	v, _ := r.get(column)
	return v
}

// first returns the first non-blank value among the columns
func (r row) first(columns ...string) string {
	for _, c := range columns {
		if v := r.value(c); v != "" {
			return v
		}
	}
	return ""
}

func indexHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}
	return index
}

// ToMinorUnits converts a major-unit amount such as "1,234.50" to 123450.
// Blank input is zero.
func ToMinorUnits(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	minor := d.Mul(hundred)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q", ErrTooPrecise, s)
	}
	return minor.IntPart(), nil
}

func parseStatus(raw string) (stripe.TransactionStatus, error) {
	switch strings.ToLower(raw) {
	case "paid", "succeeded":
		return stripe.TransactionStatusSucceeded, nil
	case "canceled", "cancelled":
		return stripe.TransactionStatusCanceled, nil
	case "", "pending", "uncaptured":
		return stripe.TransactionStatusPending, nil
	case "failed":
		return stripe.TransactionStatusFailed, nil
	case "refunded":
		return stripe.TransactionStatusRefunded, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

// toTransaction maps one export row. Unparseable dates fall back to now.
func (r row) toTransaction(account *stripe.Account, now time.Time) (*stripe.Transaction, error) {
	amount, err := ToMinorUnits(r.first(colConvertedAmount, colAmount))
	if err != nil {
		return nil, err
	}
	fee, err := ToMinorUnits(r.value(colFee))
	if err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}
	refunded, err := ToMinorUnits(r.value(colAmountRefunded))
	if err != nil {
		return nil, fmt.Errorf("amount refunded: %w", err)
	}
	if amount < 0 || fee < 0 || refunded < 0 {
		return nil, fmt.Errorf("%w: amount %d, fee %d, refunded %d", ErrNegativeAmount, amount, fee, refunded)
	}
	status, err := parseStatus(r.value(colStatus))
	if err != nil {
		return nil, err
	}

	currency := strings.ToLower(r.first(colConvertedCurr, colCurrency))
	if currency == "" {
		currency = account.Currency
	}

	created := now
	if v := r.value(colCreated); v != "" {
		if t, err := time.ParseInLocation(createdLayout, v, time.UTC); err == nil {
			created = t
		}
	}

	txnType := stripe.TransactionTypeCharge
	if refunded > 0 {
		txnType = stripe.TransactionTypeRefund
	}

	metadata := make(map[string]string)
	for key, column := range metadataColumns {
		if v := r.value(column); v != "" {
			metadata[key] = v
		}
	}

	return &stripe.Transaction{
		StripeID:      r.value(colID),
		AccountID:     account.ID,
		Amount:        amount,
		Fee:           fee,
		Currency:      currency,
		Status:        status,
		Type:          txnType,
		StripeCreated: created,
		CustomerEmail: r.value(colCustomerEmail),
		Description:   r.value(colDescription),
		Metadata:      metadata,
		CreatedAt:     now,
	}, nil
}
