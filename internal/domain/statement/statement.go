// Package statement builds the monthly account statement: every transaction of
// the month as debit and credit lines with a running balance, the totals per
// category and the closing balance carried into the next month.
package statement

import (
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/payout"
	"github.com/payout-reconciler/internal/domain/stripe"
)

// Nature classifies a statement line
type Nature string

const (
	NatureGrossPayment  Nature = "Gross Payment"
	NatureRefund        Nature = "Refund"
	NaturePayout        Nature = "Payout"
	NatureProcessingFee Nature = "Processing Fee"
)

const (
	partyProcessor       = "Stripe"
	partyUnknown         = "Unknown"
	processingFeeDetails = "Stripe processing fee"
)

// Line is one row of the statement. Debits add to the balance, credits subtract.
type Line struct {
	Date        time.Time `json:"date"`
	Nature      Nature    `json:"nature"`
	Party       string    `json:"party"`
	Debit       int64     `json:"debit"`
	Credit      int64     `json:"credit"`
	Balance     int64     `json:"balance"`
	Description string    `json:"description,omitempty"`
	StripeID    string    `json:"stripe_id"`
}

// CustomerPayment is a gross payment attributed to a customer
type CustomerPayment struct {
	Date   time.Time `json:"date"`
	Email  string    `json:"email"`
	Amount int64     `json:"amount"`
}

// Statement is the monthly statement of one account
type Statement struct {
	ID             uuid.UUID `json:"id"`
	AccountID      uuid.UUID `json:"account_id"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	OpeningBalance int64     `json:"opening_balance"` // Stored in cents/minor units
	ClosingBalance int64     `json:"closing_balance"`
	TotalCharges   int64     `json:"total_charges"`
	TotalRefunds   int64     `json:"total_refunds"`
	TotalFees      int64     `json:"total_fees"`
	TotalPayouts   int64     `json:"total_payouts"`
	IsReconciled   bool      `json:"is_reconciled"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Only present on a freshly built statement
	Lines     []Line            `json:"lines,omitempty"`
	Customers []CustomerPayment `json:"customers,omitempty"`
}

// TotalDebits is the sum of the debit column
func (s *Statement) TotalDebits() int64 {
	return s.TotalCharges
}

// TotalCredits is the sum of the credit column
func (s *Statement) TotalCredits() int64 {
	return s.TotalRefunds + s.TotalFees + s.TotalPayouts
}

// Build walks the transactions of the period in the order given. Succeeded
// charges are debited, refunds and payouts credited, and any fee becomes its
// own credit line directly after the transaction that incurred it.
// Transactions of other kinds or states do not appear on the statement.
func Build(accountID uuid.UUID, period payout.Period, openingBalance int64, txns []*stripe.Transaction, payoutDescription string) *Statement {
	now := time.Now()
	st := &Statement{
		ID:             uuid.New(),
		AccountID:      accountID,
		Year:           period.Year,
		Month:          int(period.Month),
		OpeningBalance: openingBalance,
		Lines:          []Line{},
		Customers:      []CustomerPayment{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	balance := openingBalance
	for _, txn := range txns {
		line := Line{Date: txn.StripeCreated, StripeID: txn.StripeID, Party: partyProcessor}

		switch {
		case txn.IsSucceededCharge():
			line.Nature = NatureGrossPayment
			line.Party = txn.CustomerEmail
			if line.Party == "" {
				line.Party = partyUnknown
			}
			line.Debit = txn.Amount
			balance += txn.Amount
			st.TotalCharges += txn.Amount
			st.Customers = append(st.Customers, CustomerPayment{
				Date:   txn.StripeCreated,
				Email:  txn.CustomerEmail,
				Amount: txn.Amount,
			})
		case txn.Type == stripe.TransactionTypeRefund:
			line.Nature = NatureRefund
			line.Credit = txn.Amount
			balance -= txn.Amount
			st.TotalRefunds += txn.Amount
		case txn.Type == stripe.TransactionTypePayout:
			line.Nature = NaturePayout
			line.Credit = txn.Amount
			line.Description = payoutDescription
			balance -= txn.Amount
			st.TotalPayouts += txn.Amount
		default:
			continue
		}

		line.Balance = balance
		st.Lines = append(st.Lines, line)

		if txn.Fee > 0 {
			balance -= txn.Fee
			st.TotalFees += txn.Fee
			st.Lines = append(st.Lines, Line{
				Date:        txn.StripeCreated,
				Nature:      NatureProcessingFee,
				Party:       partyProcessor,
				Credit:      txn.Fee,
				Balance:     balance,
				Description: processingFeeDetails,
				StripeID:    txn.StripeID,
			})
		}
	}

	st.ClosingBalance = balance
	return st
}

// TotalCustomerPayments sums the customer summary
func (s *Statement) TotalCustomerPayments() int64 {
	var total int64
	for _, c := range s.Customers {
		total += c.Amount
	}
	return total
}
