package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

func newEditCommand(a *app) *cobra.Command {
	var amount, date, desc, ref string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Correct a document, voucher or journal entry",
		Long: `Edit rewrites the date, amount, description or reference of a posted
record and moves every balance it touched by the difference. Only the
flags given change. Amounts are positive; payments keep their sign.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c book.Changes
			flags := cmd.Flags()
			if flags.Changed("amount") {
				d, err := parsePositiveAmount(amount)
				if err != nil {
					return err
				}
				c.Amount = &d
			}
			if flags.Changed("date") {
				t, err := model.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				c.Date = &t
			}
			if flags.Changed("desc") {
				c.Description = &desc
			}
			if flags.Changed("ref") {
				c.Reference = &ref
			}
			if c == (book.Changes{}) {
				return fmt.Errorf("nothing to edit: pass --amount, --date, --desc or --ref")
			}

			b, err := a.load()
			if err != nil {
				return err
			}
			if err := b.Edit(args[0], c); err != nil {
				return err
			}
			if err := a.commit(b, "edit", args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Edited %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&date, "date", "", "new date, YYYY-MM-DD")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	cmd.Flags().StringVar(&ref, "ref", "", "new external reference (documents only)")
	return cmd
}
