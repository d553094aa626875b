package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/id"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_id,date,description,account_id,account_name,debit,credit,status,archived,party_id,party_kind,note_type"

const (
	numFields    = 12
	colEntryID   = 0
	colDate      = 1
	colDesc      = 2
	colAcctID    = 3
	colAcctName  = 4
	colDebit     = 5
	colCredit    = 6
	colStatus    = 7
	colArchived  = 8
	colPartyID   = 9
	colPartyKind = 10
	colNoteType  = 11
)

// Row is one journal.csv line: a single journal line carrying its entry's
// header fields. LineID is the entry id plus a letter suffix.
type Row struct {
	LineID string
	Entry  model.JournalEntry // header fields only, no lines
	Line   model.JournalLine
}

// ReadEntries reads journal.csv and groups its rows into entries.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return GroupLines(rows), nil
}

// WriteEntries writes entries to a journal.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	n := 2
	for _, e := range entries {
		for _, row := range SplitEntry(e) {
			if err := cw.Write(MarshalRow(row)); err != nil {
				return fmt.Errorf("writing row %d: %w", n, err)
			}
			n++
		}
	}
	cw.Flush()
	return cw.Error()
}

// SplitEntry expands an entry into one Row per line.
func SplitEntry(e model.JournalEntry) []Row {
	header := e
	header.Lines = nil
	rows := make([]Row, len(e.Lines))
	for i, l := range e.Lines {
		rows[i] = Row{
			LineID: id.FormatLegID(e.ID, i),
			Entry:  header,
			Line:   l,
		}
	}
	return rows
}

// GroupLines rebuilds entries from rows. Entries keep the order of their
// first row; header fields come from that row and the denormalized totals
// are recomputed from the lines.
func GroupLines(rows []Row) []model.JournalEntry {
	index := make(map[string]int)
	var entries []model.JournalEntry
	for _, row := range rows {
		group := id.EntryGroup(row.LineID)
		i, seen := index[group]
		if !seen {
			e := row.Entry
			e.ID = group
			e.Lines = nil
			entries = append(entries, e)
			i = len(entries) - 1
			index[group] = i
		}
		entries[i].Lines = append(entries[i].Lines, row.Line)
	}
	for i := range entries {
		entries[i].Debit, entries[i].Credit = entries[i].Totals()
	}
	return entries
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	e := row.Entry
	rec[colEntryID] = row.LineID
	rec[colDate] = e.Date.Format(model.DateFormat)
	rec[colDesc] = e.Description
	rec[colAcctID] = strconv.Itoa(row.Line.AccountID)
	rec[colAcctName] = row.Line.AccountName

	if !row.Line.Debit.IsZero() {
		rec[colDebit] = row.Line.Debit.StringFixed(2)
	}
	if !row.Line.Credit.IsZero() {
		rec[colCredit] = row.Line.Credit.StringFixed(2)
	}

	rec[colStatus] = string(e.Status)
	if e.Archived {
		rec[colArchived] = "true"
	}
	rec[colPartyID] = e.PartyID
	rec[colPartyKind] = string(e.PartyKind)
	rec[colNoteType] = string(e.NoteType)
	return rec
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := model.ParseDate(record[colDate])
	if err != nil {
		return Row{}, err
	}

	accountID, err := strconv.Atoi(record[colAcctID])
	if err != nil {
		return Row{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}

	var debit, credit decimal.Decimal
	if debit, err = model.ParseOptionalAmount(record[colDebit]); err != nil {
		return Row{}, fmt.Errorf("parsing debit: %w", err)
	}
	if credit, err = model.ParseOptionalAmount(record[colCredit]); err != nil {
		return Row{}, fmt.Errorf("parsing credit: %w", err)
	}

	archived := false
	if record[colArchived] != "" {
		archived, err = strconv.ParseBool(record[colArchived])
		if err != nil {
			return Row{}, fmt.Errorf("parsing archived %q: %w", record[colArchived], err)
		}
	}

	return Row{
		LineID: record[colEntryID],
		Entry: model.JournalEntry{
			ID:          id.EntryGroup(record[colEntryID]),
			Date:        date,
			Description: record[colDesc],
			Status:      model.EntryStatus(record[colStatus]),
			Archived:    archived,
			PartyID:     record[colPartyID],
			PartyKind:   model.PartyKind(record[colPartyKind]),
			NoteType:    model.NoteType(record[colNoteType]),
		},
		Line: model.JournalLine{
			AccountID:   accountID,
			AccountName: record[colAcctName],
			Debit:       debit,
			Credit:      credit,
		},
	}, nil
}
