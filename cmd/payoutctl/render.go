package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/payout-reconciler/internal/domain/statement"
	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/payout-reconciler/internal/importer"
	"github.com/payout-reconciler/internal/reconciliation/service"
	"github.com/shopspring/decimal"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
	rule           = "======================================================================"
)

// money formats minor units with two decimals and the currency code
func money(minor int64, currency string) string {
	return decimal.New(minor, -2).StringFixed(2) + " " + strings.ToUpper(currency)
}

func amount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

func banner(w io.Writer, title string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderImport(w io.Writer, file string, result *importer.Result) {
	banner(w, "IMPORT "+file)
	if result.Account != nil {
		created := ""
		if result.AccountCreated {
			created = " (created)"
		}
		fmt.Fprintf(w, "Account:   %s [%s]%s\n", result.Account.Name, result.Account.ProcessorID, created)
	}
	fmt.Fprintf(w, "Imported:  %d\n", result.Imported)
	fmt.Fprintf(w, "Skipped:   %d\n", result.Skipped)
	fmt.Fprintf(w, "Errors:    %d\n", result.Errors)

	if len(result.RowErrors) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "LINE\tID\tERROR")
	for _, e := range result.RowErrors {
		fmt.Fprintf(tw, "%d\t%s\t%v\n", e.Line, e.StripeID, e.Err)
	}
	tw.Flush()
}

func renderCalculation(w io.Writer, calc *service.Calculation, defaultCurrency string) {
	currency := defaultCurrency
	name := calc.Run.ProcessorID
	if calc.Account != nil {
		currency = calc.Account.Currency
		name = calc.Account.Name
	}
	loc := calc.Period.Location
	if loc == nil {
		loc = time.UTC
	}

	banner(w, fmt.Sprintf("PAYOUTS FOR %s - %s", strings.ToUpper(name), calc.Period.String()))
	fmt.Fprintf(w, "Threshold: %s\n", money(calc.Run.Threshold, currency))
	if calc.Run.Cutoff != nil {
		fmt.Fprintf(w, "Cutoff:    %s (payouts triggered later are skipped)\n", calc.Run.Cutoff.In(loc).Format(dateTimeLayout))
	}
	if calc.Run.DryRun {
		fmt.Fprintln(w, "Dry run:   no payouts are created")
	}
	fmt.Fprintln(w)

	result := calc.Result
	if result == nil || len(calc.Charges) == 0 {
		fmt.Fprintln(w, "No succeeded charges found for this period.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tKIND\tAMOUNT\tBALANCE\tREF")
	for _, step := range result.Steps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			step.Record.Timestamp.In(loc).Format(dateTimeLayout),
			step.Record.Kind,
			amount(step.Record.Amount),
			amount(step.Balance),
			step.Record.ExternalRef,
		)
	}
	tw.Flush()

	if len(result.Payouts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Payouts:")
		tw = newTable(w)
		fmt.Fprintln(tw, "#\tDATE\tAMOUNT")
		for _, p := range result.Payouts {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", p.Sequence, p.TriggeredAt.In(loc).Format(dateTimeLayout), money(p.Amount, currency))
		}
		tw.Flush()
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Payouts skipped (after cutoff):")
		tw = newTable(w)
		fmt.Fprintln(tw, "RECORD\tWOULD BE AT\tAMOUNT")
		for _, s := range result.Skipped {
			fmt.Fprintf(tw, "%s\t%s\t%s\n",
				s.RecordTimestamp.In(loc).Format(dateTimeLayout),
				s.WouldBeAt.In(loc).Format(dateTimeLayout),
				money(s.Amount, currency),
			)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	banner(w, "SUMMARY")
	fmt.Fprintf(w, "Total charges:      %d\n", len(calc.Charges))
	fmt.Fprintf(w, "Payouts:            %d\n", len(result.Payouts))
	fmt.Fprintf(w, "Total paid out:     %s\n", money(result.TotalPaidOut(), currency))
	fmt.Fprintf(w, "Remaining balance:  %s\n", money(result.Balance, currency))

	if calc.Writes != nil {
		for _, id := range calc.Writes.Created {
			fmt.Fprintf(w, "Created: %s\n", id)
		}
		for _, id := range calc.Writes.Existing {
			fmt.Fprintf(w, "Skipping (already exists): %s\n", id)
		}
	}
	fmt.Fprintf(w, "Run:                %s\n", calc.Run.RunID)
}

func renderStatement(w io.Writer, acc *stripe.Account, st *statement.Statement, currency string) {
	month := time.Date(st.Year, time.Month(st.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	banner(w, fmt.Sprintf("STATEMENT %s - %s", strings.ToUpper(acc.Name), month))
	fmt.Fprintf(w, "Opening balance:  %s\n", money(st.OpeningBalance, currency))
	fmt.Fprintf(w, "Gross payments:   %s\n", money(st.TotalCharges, currency))
	fmt.Fprintf(w, "Processing fees:  %s\n", money(st.TotalFees, currency))
	fmt.Fprintf(w, "Refunds:          %s\n", money(st.TotalRefunds, currency))
	fmt.Fprintf(w, "Payouts:          %s\n", money(st.TotalPayouts, currency))
	fmt.Fprintf(w, "Closing balance:  %s\n", money(st.ClosingBalance, currency))
	fmt.Fprintln(w)

	if len(st.Lines) > 0 {
		tw := newTable(w)
		fmt.Fprintln(tw, "DATE\tNATURE\tPARTY\tDEBIT\tCREDIT\tBALANCE\tDESCRIPTION")
		for _, l := range st.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				l.Date.Format(dateLayout), l.Nature, l.Party,
				column(l.Debit), column(l.Credit), amount(l.Balance), l.Description)
		}
		fmt.Fprintf(tw, "\tTOTAL\t\t%s\t%s\t%s\t\n",
			amount(st.TotalDebits()), amount(st.TotalCredits()), amount(st.ClosingBalance))
		tw.Flush()
	} else {
		fmt.Fprintln(w, "No transactions in this period.")
	}

	if len(st.Customers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Customer payments:")
		tw := newTable(w)
		fmt.Fprintln(tw, "DATE\tCUSTOMER\tAMOUNT")
		for _, c := range st.Customers {
			email := c.Email
			if email == "" {
				email = "Unknown"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Date.Format(dateLayout), email, amount(c.Amount))
		}
		fmt.Fprintf(tw, "\tTOTAL\t%s\n", amount(st.TotalCustomerPayments()))
		tw.Flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Use this closing balance as opening balance for next month: --opening-balance %s\n", amount(st.ClosingBalance))
}

// column leaves zero amounts blank
func column(minor int64) string {
	if minor == 0 {
		return ""
	}
	return amount(minor)
}
