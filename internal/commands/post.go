package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// today is replaced in tests.
var today = func() time.Time {
	return model.CalendarDay(time.Now())
}

func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		return today(), nil
	}
	return model.ParseDate(s)
}

func parsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := model.ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", s)
	}
	return d, nil
}

// optionalAccount resolves an account code flag; empty means zero.
func optionalAccount(b *book.Book, code string) (int, error) {
	if code == "" {
		return 0, nil
	}
	return b.AccountIDByCode(code)
}

func newPostCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post documents, vouchers and notes",
	}
	for _, d := range []struct {
		use   string
		kind  model.DocumentKind
		post  postDocumentFunc
		short string
	}{
		{"sale", model.KindSale, (*book.Book).PostSale, "Post a sale to a customer"},
		{"sale-return", model.KindSaleReturn, (*book.Book).PostSaleReturn, "Post goods returned by a customer"},
		{"purchase", model.KindPurchase, (*book.Book).PostPurchase, "Post a purchase from a supplier"},
		{"purchase-return", model.KindPurchaseReturn, (*book.Book).PostPurchaseReturn, "Post goods returned to a supplier"},
	} {
		cmd.AddCommand(newPostDocumentCommand(a, d.use, d.kind, d.post, d.short))
	}
	cmd.AddCommand(
		newPostVoucherCommand(a, model.VoucherReceipt),
		newPostVoucherCommand(a, model.VoucherPayment),
		newPostNoteCommand(a),
	)
	return cmd
}

type postDocumentFunc func(*book.Book, model.Document) (model.Document, error)

func newPostDocumentCommand(a *app, use string, kind model.DocumentKind, post postDocumentFunc, short string) *cobra.Command {
	var doc model.Document
	var amount, date string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if doc.Amount, err = parsePositiveAmount(amount); err != nil {
				return err
			}
			if doc.Date, err = parseDateOrToday(date); err != nil {
				return err
			}

			b, err := a.load()
			if err != nil {
				return err
			}
			posted, err := post(b, doc)
			if err != nil {
				return err
			}
			if err := a.commit(b, "post", fmt.Sprintf("%s %s", kind, posted.ID)); err != nil {
				return err
			}

			partyKind := kind.PartyKind()
			am := newAmounts(b.Config.Currency.Locale)
			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s: %s %s (balance %s)\n",
				posted.ID, b.Parties.NameOf(partyKind, posted.PartyID), am.format(posted.Amount),
				am.format(b.PartyBalance(partyKind, posted.PartyID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&doc.PartyID, "party", "", "customer or supplier id (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "document total (required)")
	cmd.Flags().StringVar(&date, "date", "", "document date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&doc.Description, "desc", "", "description")
	cmd.Flags().StringVar(&doc.Reference, "ref", "", "external reference, e.g. invoice number")
	cmd.Flags().StringVar(&doc.ID, "id", "", "document id (default next in sequence)")
	_ = cmd.MarkFlagRequired("party")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newPostVoucherCommand(a *app, typ model.VoucherType) *cobra.Command {
	var tx model.TreasuryTransaction
	var amount, date, partyKind, account, counter string

	defaultKind := model.PartyCustomer
	short := "Post money received into a cash account"
	if typ == model.VoucherPayment {
		defaultKind = model.PartySupplier
		short = "Post money paid out of a cash account"
	}

	cmd := &cobra.Command{
		Use:   string(typ),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := parsePositiveAmount(amount)
			if err != nil {
				return err
			}
			if typ == model.VoucherPayment {
				amt = amt.Neg()
			}
			tx.Type = typ
			tx.Amount = amt
			if tx.Date, err = parseDateOrToday(date); err != nil {
				return err
			}
			if tx.PartyID != "" {
				if tx.PartyKind, err = parsePartyKind(partyKind); err != nil {
					return err
				}
			}

			b, err := a.load()
			if err != nil {
				return err
			}
			if tx.AccountID, err = treasuryAccount(b, account); err != nil {
				return err
			}
			counterID, err := optionalAccount(b, counter)
			if err != nil {
				return err
			}
			posted, err := b.PostVoucher(tx, counterID)
			if err != nil {
				return err
			}
			if err := a.commit(b, "post", fmt.Sprintf("%s %s", typ, posted.ID)); err != nil {
				return err
			}

			am := newAmounts(b.Config.Currency.Locale)
			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s: %s on %s (cash balance %s)\n",
				posted.ID, am.format(posted.Amount), b.Accounts.NameOf(posted.AccountID),
				am.format(b.AccountBalance(posted.AccountID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount, always positive (required)")
	cmd.Flags().StringVar(&date, "date", "", "voucher date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&tx.PartyID, "party", "", "customer or supplier id")
	cmd.Flags().StringVar(&partyKind, "party-kind", string(defaultKind), "customer or supplier")
	cmd.Flags().StringVar(&account, "account", "", "cash account code (default from config)")
	cmd.Flags().StringVar(&counter, "counter", "", "counter account code when no party is given (default suspense)")
	cmd.Flags().StringVar(&tx.Description, "desc", "", "description")
	cmd.Flags().StringVar(&tx.ID, "id", "", "voucher id (default next in sequence)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newPostNoteCommand(a *app) *cobra.Command {
	var n book.NoteParams
	var amount, date, partyKind, noteType, counter string

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Post a debit or credit note against a party",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if n.Amount, err = parsePositiveAmount(amount); err != nil {
				return err
			}
			if n.Date, err = parseDateOrToday(date); err != nil {
				return err
			}
			if n.PartyKind, err = parsePartyKind(partyKind); err != nil {
				return err
			}
			n.Type = model.NoteType(noteType)

			b, err := a.load()
			if err != nil {
				return err
			}
			if n.CounterAccountID, err = optionalAccount(b, counter); err != nil {
				return err
			}
			entry, err := b.PostNote(n)
			if err != nil {
				return err
			}
			if err := a.commit(b, "post", fmt.Sprintf("%s %s", n.Type, entry.ID)); err != nil {
				return err
			}

			am := newAmounts(b.Config.Currency.Locale)
			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s: %s %s (balance %s)\n",
				entry.ID, b.Parties.NameOf(n.PartyKind, n.PartyID), am.format(n.Amount),
				am.format(b.PartyBalance(n.PartyKind, n.PartyID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&n.PartyID, "party", "", "customer or supplier id (required)")
	cmd.Flags().StringVar(&partyKind, "party-kind", "", "customer or supplier (required)")
	cmd.Flags().StringVar(&noteType, "type", "", "debit_note or credit_note (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "note amount (required)")
	cmd.Flags().StringVar(&date, "date", "", "note date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&counter, "counter", "", "revenue or expense account code (default by note type)")
	cmd.Flags().StringVar(&n.Description, "desc", "", "description")
	cmd.Flags().StringVar(&n.ID, "id", "", "note id (default next in sequence)")
	for _, f := range []string{"party", "party-kind", "type", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newArchiveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a document, voucher or journal entry",
		Long: `Archive removes a record's effect from every balance while keeping it
on file. Statements built afterwards skip it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.load()
			if err != nil {
				return err
			}
			if err := b.Archive(args[0]); err != nil {
				return err
			}
			if err := a.commit(b, "archive", args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", args[0])
			return nil
		},
	}
}
