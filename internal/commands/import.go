package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/importer"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

func newImportCommand(a *app) *cobra.Command {
	var bank, account string
	var dryRun bool

	registry := importer.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "import <format>",
		Short: "Post bank CSV exports from import/ as vouchers",
		Long: `Import parses every CSV in the book's import/ directory with the named
bank format and posts each line as a receipt or payment on the mapped
cash account. The other side goes to the suspense account until it is
reclassified. Lines already on file are skipped, and processed files
move to import/processed/.

Formats: ` + strings.Join(registry.Formats(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := registry.Get(args[0])
			if parser == nil {
				return fmt.Errorf("unknown import format %q", args[0])
			}
			b, err := a.load()
			if err != nil {
				return err
			}
			accountID, err := importAccount(b, account, bank)
			if err != nil {
				return err
			}

			files, err := importer.Scan(b.Root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
				return nil
			}

			out := cmd.OutOrStdout()
			var posted, skipped int
			for _, file := range files {
				f, err := os.Open(file.Path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", file.Name, err)
				}
				lines, err := parser.Parse(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", file.Name, err)
				}

				drafts, dupes := importer.Dedupe(b.Documents.Treasury, importer.Drafts(lines, accountID))
				skipped += dupes
				a.logger.Debug("parsed bank file", "file", file.Name, "lines", len(lines), "new", len(drafts), "skipped", dupes)
				if dryRun {
					fmt.Fprintf(out, "%s: %d new, %d already posted\n", file.Name, len(drafts), dupes)
					continue
				}

				for _, d := range drafts {
					if _, err := b.PostVoucher(d, 0); err != nil {
						return fmt.Errorf("%s: %s %s: %w", file.Name, d.Date.Format(model.DateFormat), d.Description, err)
					}
					posted++
				}
				if err := b.Save(); err != nil {
					return err
				}
				if err := importer.MarkProcessed(b.Root, file.Name); err != nil {
					return err
				}
			}

			if dryRun {
				return nil
			}
			if err := a.commit(b, "import", fmt.Sprintf("%s, %d vouchers", args[0], posted)); err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d vouchers from %d files (%d already posted)\n", posted, len(files), skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "configured bank account name or last four digits")
	cmd.Flags().StringVar(&account, "account", "", "cash account code, overriding --bank")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be posted without writing")
	return cmd
}

// importAccount picks the cash account bank lines land on: --account,
// then the configured bank mapping, then the default treasury account.
func importAccount(b *book.Book, account, bank string) (int, error) {
	if account != "" {
		return b.AccountIDByCode(account)
	}
	if bank == "" && len(b.Config.BankAccounts) == 0 {
		return b.TreasuryAccount(), nil
	}
	code, err := importer.BankAccountCode(b.Config.BankAccounts, bank)
	if err != nil {
		return 0, err
	}
	return b.AccountIDByCode(code)
}
