package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ledgerbook-dev/ledgerbook/internal/export"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
	"github.com/ledgerbook-dev/ledgerbook/internal/statements"
)

// amounts formats money with the book locale's digit grouping. Only the
// whole part goes through the printer; cents come from the decimal.
type amounts struct {
	p   *message.Printer
	sep string
}

func newAmounts(locale string) amounts {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	p := message.NewPrinter(tag)
	sep := strings.Trim(p.Sprintf("%.1f", 1.5), "0123456789")
	if sep == "" {
		sep = "."
	}
	return amounts{p: p, sep: sep}
}

func (a amounts) format(d decimal.Decimal) string {
	r := d.Round(2)
	abs := r.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).StringFixed(2)[2:]
	s := a.p.Sprintf("%d", whole.IntPart()) + a.sep + cents
	if r.IsNegative() {
		return "-" + s
	}
	return s
}

// blankZero leaves empty debit or credit cells empty.
func (a amounts) blankZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return a.format(d)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateFormat)
}

// outputFlags are shared by every report command.
type outputFlags struct {
	format string
	out    string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "format", string(export.FormatTable), "output format: table, csv or xlsx")
	cmd.Flags().StringVar(&o.out, "out", "", "write to file instead of stdout")
}

// emit writes a report in the chosen format. Tables go to stdout unless
// --out is set; xlsx always needs --out.
func (o *outputFlags) emit(cmd *cobra.Command, sheet export.Sheet, table func(io.Writer) error) error {
	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX && o.out == "" {
		return fmt.Errorf("--format xlsx needs --out")
	}

	w := cmd.OutOrStdout()
	if o.out != "" {
		if err := os.MkdirAll(filepath.Dir(o.out), 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		f, err := os.Create(o.out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", o.out, err)
		}
		defer f.Close()
		w = f
	}

	if format == export.FormatTable {
		return table(w)
	}
	if err := export.Write(w, sheet, format); err != nil {
		return err
	}
	if o.out != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", o.out)
	}
	return nil
}

func writeReportTable(w io.Writer, r statements.Report, am amounts) error {
	fmt.Fprintf(w, "%s: %s\n", r.Title, r.Subject)
	if r.Group != "" {
		fmt.Fprintf(w, "under %s\n", r.Group)
	}
	if r.IsPeriod() {
		fmt.Fprintf(w, "period %s to %s\n", formatDate(r.Start), formatDate(r.End))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tID\tKind\tDescription\tCounterpart\tDebit\tCredit\tBalance\t")
	fmt.Fprintf(tw, "\t\t\tOpening balance\t\t\t\t%s\t\n", am.format(r.Opening))
	for _, l := range r.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			formatDate(l.Date), l.ID, l.Kind, l.Description, l.Counterpart,
			am.blankZero(l.Debit), am.blankZero(l.Credit), am.format(l.Balance))
	}
	fmt.Fprintf(tw, "\t\t\tClosing balance\t\t%s\t%s\t%s\t\n",
		am.format(r.TotalDebit), am.format(r.TotalCredit), am.format(r.Closing))
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.IsPeriod() {
		fmt.Fprintf(w, "\nin %s  out %s\n", am.format(r.TotalIn), am.format(r.TotalOut))
	}
	return nil
}

func writeTrialTable(w io.Writer, tb statements.TrialBalance, am amounts) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Code\tAccount\tType\tOpening\tDebit\tCredit\tBalance\t")
	for _, r := range tb.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Code, r.Name, r.Type, am.format(r.Opening),
			am.blankZero(r.Debit), am.blankZero(r.Credit), am.format(r.Balance))
	}
	fmt.Fprintf(tw, "\tBalance totals\t\t\t%s\t%s\t\t\n", am.format(tb.Debit), am.format(tb.Credit))
	if err := tw.Flush(); err != nil {
		return err
	}
	if !tb.Balanced() {
		fmt.Fprintln(w, "\nwarning: trial balance does not balance")
	}
	return nil
}
