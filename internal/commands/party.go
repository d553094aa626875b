package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

var partyKindArgs = []string{string(model.PartyCustomer), string(model.PartySupplier)}

func parsePartyKind(s string) (model.PartyKind, error) {
	k := model.PartyKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("party kind must be customer or supplier, got %q", s)
	}
	return k, nil
}

func newPartyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Manage customers and suppliers",
	}
	cmd.AddCommand(newPartyAddCommand(a), newPartyListCommand(a))
	return cmd
}

func newPartyAddCommand(a *app) *cobra.Command {
	var p model.Party
	var balance string

	cmd := &cobra.Command{
		Use:       "add customer|supplier",
		Short:     "Register a customer or supplier",
		Args:      cobra.ExactArgs(1),
		ValidArgs: partyKindArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parsePartyKind(args[0])
			if err != nil {
				return err
			}
			p.Kind = kind
			p.Balance = decimal.Zero
			if balance != "" {
				if p.Balance, err = model.ParseAmount(balance); err != nil {
					return err
				}
			}

			b, err := a.load()
			if err != nil {
				return err
			}
			if err := b.AddParty(p); err != nil {
				return err
			}
			if err := a.commit(b, "party", fmt.Sprintf("add %s %s", kind, p.ID)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", kind, p.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.ID, "id", "", "party id (required)")
	cmd.Flags().StringVar(&p.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&p.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&p.Email, "email", "", "email address")
	cmd.Flags().StringVar(&p.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&balance, "balance", "", "opening balance carried over from before the book")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPartyListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "list customer|supplier",
		Short:     "List customers or suppliers with balances",
		Args:      cobra.ExactArgs(1),
		ValidArgs: partyKindArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parsePartyKind(args[0])
			if err != nil {
				return err
			}
			b, err := a.load()
			if err != nil {
				return err
			}

			list := b.Parties.Customers()
			if kind == model.PartySupplier {
				list = b.Parties.Suppliers()
			}
			am := newAmounts(b.Config.Currency.Locale)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tName\tPhone\tEmail\tBalance")
			for _, p := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Phone, p.Email, am.format(p.Balance))
			}
			return tw.Flush()
		},
	}
}
