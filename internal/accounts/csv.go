package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
	"github.com/ledgerbook-dev/ledgerbook/internal/tree"
)

const (
	numFields  = 6
	colID      = 0
	colCode    = 1
	colName    = 2
	colType    = 3
	colParent  = 4
	colBalance = 5
)

var header = []string{"account_id", "code", "name", "type", "parent_id", "balance"}

// ReadAccounts reads chart-of-accounts.csv and rebuilds the tree. Children
// keep their file order.
func ReadAccounts(r io.Reader) ([]*model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	flat := make([]*model.Account, 0, len(records)-1)
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		flat = append(flat, acct)
	}
	return BuildTree(flat)
}

// BuildTree links flat accounts into a forest using ParentID. A parent
// must be listed before its children.
func BuildTree(flat []*model.Account) ([]*model.Account, error) {
	byID := make(map[int]*model.Account, len(flat))
	var roots []*model.Account
	for _, acct := range flat {
		if _, dup := byID[acct.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateAccount, acct.ID)
		}
		byID[acct.ID] = acct
		if acct.ParentID == 0 {
			roots = append(roots, acct)
			continue
		}
		parent, ok := byID[acct.ParentID]
		if !ok {
			return nil, fmt.Errorf("account %d: %w: parent %d", acct.ID, ErrUnknownAccount, acct.ParentID)
		}
		parent.Children = append(parent.Children, acct)
	}
	return roots, nil
}

// WriteAccounts writes chart-of-accounts.csv in pre-order, so parents
// always precede their children.
func WriteAccounts(w io.Writer, roots []*model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range tree.Flatten(roots, children) {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row. Parent nodes leave the
// balance cell empty.
func MarshalAccount(acct *model.Account) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(acct.ID)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	if acct.ParentID != 0 {
		row[colParent] = strconv.Itoa(acct.ParentID)
	}
	if acct.IsLeaf() {
		row[colBalance] = acct.BalanceOrZero().StringFixed(2)
	}
	return row
}

// UnmarshalAccount converts a CSV row to an Account without children.
func UnmarshalAccount(record []string) (*model.Account, error) {
	if len(record) != numFields {
		return nil, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return nil, fmt.Errorf("parsing account_id %q: %w", record[colID], err)
	}

	var parentID int
	if record[colParent] != "" {
		parentID, err = strconv.Atoi(record[colParent])
		if err != nil {
			return nil, fmt.Errorf("parsing parent_id %q: %w", record[colParent], err)
		}
	}

	typ := model.AccountType(record[colType])
	if !typ.Valid() {
		return nil, fmt.Errorf("account %d: unknown type %q", id, record[colType])
	}

	acct := &model.Account{
		ID:       id,
		Code:     record[colCode],
		Name:     record[colName],
		Type:     typ,
		ParentID: parentID,
	}
	if record[colBalance] != "" {
		bal, err := model.ParseAmount(record[colBalance])
		if err != nil {
			return nil, fmt.Errorf("account %d balance: %w", id, err)
		}
		acct.Balance = &bal
	}
	return acct, nil
}

func children(a *model.Account) []*model.Account { return a.Children }

func zeroBalance() *decimal.Decimal {
	z := decimal.Zero
	return &z
}
