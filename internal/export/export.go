// Package export writes reports as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
	"github.com/ledgerbook-dev/ledgerbook/internal/statements"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, csv or xlsx)", s)
}

// Sheet is a rectangular report. Cells hold string, decimal.Decimal or
// time.Time values.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// FromReport lays a statement out as opening row, one row per line, and a
// closing row.
func FromReport(r statements.Report) Sheet {
	s := Sheet{
		Name:   "Statement",
		Header: []string{"Date", "ID", "Kind", "Description", "Counterpart", "Debit", "Credit", "Balance"},
	}
	opening := []any{"", "", "", "Opening balance", "", "", "", r.Opening}
	closing := []any{"", "", "", "Closing balance", "", r.TotalDebit, r.TotalCredit, r.Closing}
	if r.IsPeriod() {
		opening[0] = r.Start
		closing[0] = r.End
	}
	s.Rows = append(s.Rows, opening)
	for _, l := range r.Lines {
		s.Rows = append(s.Rows, []any{l.Date, l.ID, string(l.Kind), l.Description, l.Counterpart, l.Debit, l.Credit, l.Balance})
	}
	s.Rows = append(s.Rows, closing)
	return s
}

// FromTrialBalance lays out one row per leaf account. The last row holds
// the debit and credit balance sums, not movement totals.
func FromTrialBalance(tb statements.TrialBalance) Sheet {
	s := Sheet{
		Name:   "Trial balance",
		Header: []string{"Code", "Account", "Type", "Opening", "Debit", "Credit", "Balance"},
	}
	for _, r := range tb.Rows {
		s.Rows = append(s.Rows, []any{r.Code, r.Name, string(r.Type), r.Opening, r.Debit, r.Credit, r.Balance})
	}
	s.Rows = append(s.Rows, []any{"", "Balance totals", "", "", tb.Debit, tb.Credit, ""})
	return s
}

func cellString(v any) string {
	switch c := v.(type) {
	case decimal.Decimal:
		return c.StringFixed(2)
	case time.Time:
		if c.IsZero() {
			return ""
		}
		return c.Format(model.DateFormat)
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

// WriteCSV writes the sheet with a header row.
func WriteCSV(w io.Writer, s Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range s.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = cellString(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the sheet as a single-sheet workbook. Amounts are
// numeric cells formatted with two decimals.
func WriteXLSX(w io.Writer, s Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := s.Name
	if name == "" {
		name = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	for col, h := range s.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}

	for i, row := range s.Rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			switch c := v.(type) {
			case decimal.Decimal:
				if err := f.SetCellValue(name, cell, c.InexactFloat64()); err != nil {
					return err
				}
				if err := f.SetCellStyle(name, cell, cell, money); err != nil {
					return err
				}
			default:
				if err := f.SetCellValue(name, cell, cellString(v)); err != nil {
					return err
				}
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Write encodes s in the given file format.
func Write(w io.Writer, s Sheet, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	default:
		return fmt.Errorf("format %q is not a file format", format)
	}
}
