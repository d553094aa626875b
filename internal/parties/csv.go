package parties

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

const (
	numFields  = 6
	colID      = 0
	colName    = 1
	colPhone   = 2
	colEmail   = 3
	colAddress = 4
	colBalance = 5
)

var header = []string{"id", "name", "phone", "email", "address", "balance"}

// ReadParties reads a customers.csv or suppliers.csv file. kind is stamped
// on every record since the file name carries it.
func ReadParties(r io.Reader, kind model.PartyKind) ([]model.Party, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", kind, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	parties := make([]model.Party, 0, len(records)-1)
	for i, rec := range records[1:] {
		p, err := UnmarshalParty(rec, kind)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		parties = append(parties, p)
	}
	return parties, nil
}

// WriteParties writes parties in the given order.
func WriteParties(w io.Writer, parties []model.Party) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range parties {
		if err := cw.Write(MarshalParty(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalParty converts a Party to a CSV row.
func MarshalParty(p model.Party) []string {
	row := make([]string, numFields)
	row[colID] = p.ID
	row[colName] = p.Name
	row[colPhone] = p.Phone
	row[colEmail] = p.Email
	row[colAddress] = p.Address
	row[colBalance] = p.Balance.StringFixed(2)
	return row
}

// UnmarshalParty converts a CSV row to a Party.
func UnmarshalParty(record []string, kind model.PartyKind) (model.Party, error) {
	if len(record) != numFields {
		return model.Party{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	bal, err := model.ParseOptionalAmount(record[colBalance])
	if err != nil {
		return model.Party{}, fmt.Errorf("%s %q balance: %w", kind, record[colID], err)
	}
	return model.Party{
		ID:      record[colID],
		Kind:    kind,
		Name:    record[colName],
		Phone:   record[colPhone],
		Email:   record[colEmail],
		Address: record[colAddress],
		Balance: bal,
	}, nil
}
