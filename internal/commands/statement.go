package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/export"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
	"github.com/ledgerbook-dev/ledgerbook/internal/statements"
)

func emitReport(cmd *cobra.Command, o *outputFlags, b *book.Book, r statements.Report) error {
	am := newAmounts(b.Config.Currency.Locale)
	return o.emit(cmd, export.FromReport(r), func(w io.Writer) error {
		return writeReportTable(w, r, am)
	})
}

func newStatementCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Print a party or account statement",
	}
	for _, kind := range []model.PartyKind{model.PartyCustomer, model.PartySupplier} {
		cmd.AddCommand(newPartyStatementCommand(a, kind))
	}
	cmd.AddCommand(newAccountStatementCommand(a))
	return cmd
}

func newPartyStatementCommand(a *app, kind model.PartyKind) *cobra.Command {
	var o outputFlags
	cmd := &cobra.Command{
		Use:   string(kind) + " <id>",
		Short: fmt.Sprintf("Statement of a %s's account, oldest first", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.load()
			if err != nil {
				return err
			}
			r, err := statements.PartyStatement(b, kind, args[0])
			if err != nil {
				return err
			}
			return emitReport(cmd, &o, b, r)
		},
	}
	o.register(cmd)
	return cmd
}

func newAccountStatementCommand(a *app) *cobra.Command {
	var o outputFlags
	cmd := &cobra.Command{
		Use:   "account <code>",
		Short: "Journal lines posted to a leaf account, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.load()
			if err != nil {
				return err
			}
			accountID, err := b.AccountIDByCode(args[0])
			if err != nil {
				return err
			}
			r, err := statements.AccountStatement(b, accountID)
			if err != nil {
				return err
			}
			return emitReport(cmd, &o, b, r)
		},
	}
	o.register(cmd)
	return cmd
}

// treasuryAccount resolves --account, defaulting to the configured
// treasury account.
func treasuryAccount(b *book.Book, code string) (int, error) {
	if code == "" {
		return b.TreasuryAccount(), nil
	}
	return b.AccountIDByCode(code)
}

func newTreasuryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treasury",
		Short: "Cash and bank account reports",
	}
	cmd.AddCommand(newTreasuryLedgerCommand(a), newTreasuryPeriodCommand(a))
	return cmd
}

func newTreasuryLedgerCommand(a *app) *cobra.Command {
	var o outputFlags
	var account string
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Every movement on a cash account, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.load()
			if err != nil {
				return err
			}
			accountID, err := treasuryAccount(b, account)
			if err != nil {
				return err
			}
			r, err := statements.TreasuryLedger(b, accountID)
			if err != nil {
				return err
			}
			return emitReport(cmd, &o, b, r)
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "cash account code (default from config)")
	o.register(cmd)
	return cmd
}

func newTreasuryPeriodCommand(a *app) *cobra.Command {
	var o outputFlags
	var account, from, to string
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Opening, movements and closing of a cash account over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := model.ParseDate(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := model.ParseDate(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			b, err := a.load()
			if err != nil {
				return err
			}
			accountID, err := treasuryAccount(b, account)
			if err != nil {
				return err
			}
			r, err := statements.TreasuryPeriod(b, accountID, start, end)
			if err != nil {
				return err
			}
			return emitReport(cmd, &o, b, r)
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "cash account code (default from config)")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	o.register(cmd)
	return cmd
}

func newTrialBalanceCommand(a *app) *cobra.Command {
	var o outputFlags
	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Leaf accounts with opening, movements and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.load()
			if err != nil {
				return err
			}
			tb, err := statements.BuildTrialBalance(b)
			if err != nil {
				return err
			}
			am := newAmounts(b.Config.Currency.Locale)
			return o.emit(cmd, export.FromTrialBalance(tb), func(w io.Writer) error {
				return writeTrialTable(w, tb, am)
			})
		},
	}
	o.register(cmd)
	return cmd
}
