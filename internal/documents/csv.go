package documents

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

var (
	documentHeader = []string{"id", "date", "party_id", "amount", "description", "reference", "archived"}
	treasuryHeader = []string{"id", "date", "type", "account_id", "amount", "party_id", "party_kind", "description", "archived"}
)

// ReadDocuments reads one trade document file. kind is stamped on every
// record since the file name carries it.
func ReadDocuments(r io.Reader, kind model.DocumentKind) ([]model.Document, error) {
	records, err := readRecords(r, len(documentHeader))
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", kind, err)
	}
	docs := make([]model.Document, 0, len(records))
	for i, rec := range records {
		d, err := UnmarshalDocument(rec, kind)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// WriteDocuments writes one trade document file.
func WriteDocuments(w io.Writer, docs []model.Document) error {
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = MarshalDocument(d)
	}
	return writeRecords(w, documentHeader, rows)
}

// ReadTreasury reads treasury.csv.
func ReadTreasury(r io.Reader) ([]model.TreasuryTransaction, error) {
	records, err := readRecords(r, len(treasuryHeader))
	if err != nil {
		return nil, fmt.Errorf("reading treasury CSV: %w", err)
	}
	txs := make([]model.TreasuryTransaction, 0, len(records))
	for i, rec := range records {
		tx, err := UnmarshalTreasury(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTreasury writes treasury.csv.
func WriteTreasury(w io.Writer, txs []model.TreasuryTransaction) error {
	rows := make([][]string, len(txs))
	for i, tx := range txs {
		rows[i] = MarshalTreasury(tx)
	}
	return writeRecords(w, treasuryHeader, rows)
}

// MarshalDocument converts a Document to a CSV row.
func MarshalDocument(d model.Document) []string {
	return []string{
		d.ID,
		d.Date.Format(model.DateFormat),
		d.PartyID,
		d.Amount.StringFixed(2),
		d.Description,
		d.Reference,
		formatBool(d.Archived),
	}
}

// UnmarshalDocument converts a CSV row to a Document.
func UnmarshalDocument(rec []string, kind model.DocumentKind) (model.Document, error) {
	date, err := model.ParseDate(rec[1])
	if err != nil {
		return model.Document{}, err
	}
	amount, err := model.ParseAmount(rec[3])
	if err != nil {
		return model.Document{}, fmt.Errorf("%s %q: %w", kind, rec[0], err)
	}
	archived, err := parseBool(rec[6])
	if err != nil {
		return model.Document{}, err
	}
	return model.Document{
		ID:          rec[0],
		Kind:        kind,
		Date:        date,
		PartyID:     rec[2],
		Amount:      amount,
		Description: rec[4],
		Reference:   rec[5],
		Archived:    archived,
	}, nil
}

// MarshalTreasury converts a TreasuryTransaction to a CSV row.
func MarshalTreasury(tx model.TreasuryTransaction) []string {
	return []string{
		tx.ID,
		tx.Date.Format(model.DateFormat),
		string(tx.Type),
		strconv.Itoa(tx.AccountID),
		tx.Amount.StringFixed(2),
		tx.PartyID,
		string(tx.PartyKind),
		tx.Description,
		formatBool(tx.Archived),
	}
}

// UnmarshalTreasury converts a CSV row to a TreasuryTransaction.
func UnmarshalTreasury(rec []string) (model.TreasuryTransaction, error) {
	date, err := model.ParseDate(rec[1])
	if err != nil {
		return model.TreasuryTransaction{}, err
	}
	accountID, err := strconv.Atoi(rec[3])
	if err != nil {
		return model.TreasuryTransaction{}, fmt.Errorf("parsing account_id %q: %w", rec[3], err)
	}
	amount, err := model.ParseAmount(rec[4])
	if err != nil {
		return model.TreasuryTransaction{}, fmt.Errorf("voucher %q: %w", rec[0], err)
	}
	archived, err := parseBool(rec[8])
	if err != nil {
		return model.TreasuryTransaction{}, err
	}
	return model.TreasuryTransaction{
		ID:          rec[0],
		Date:        date,
		Type:        model.VoucherType(rec[2]),
		AccountID:   accountID,
		Amount:      amount,
		PartyID:     rec[5],
		PartyKind:   model.PartyKind(rec[6]),
		Description: rec[7],
		Archived:    archived,
	}, nil
}

func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func writeRecords(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parsing archived %q: %w", s, err)
	}
	return b, nil
}
