package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// ChaseParser parses Chase checking exports:
//
//	Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
	chaseColCheck   = 6
)

func (p *ChaseParser) Format() string { return "chase" }

// ErrWrongFormat is returned when a file's header is not the one the
// parser expects.
var ErrWrongFormat = errors.New("importer: header does not match format")

// Parse streams the export row by row. The header row must name the
// Posting Date and Amount columns; amounts keep the bank's sign.
func (p *ChaseParser) Parse(r io.Reader) ([]BankLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if !strings.EqualFold(header[chaseColDate], "Posting Date") || !strings.EqualFold(header[chaseColAmount], "Amount") {
		return nil, fmt.Errorf("%w: chase wants Posting Date and Amount, got %q and %q",
			ErrWrongFormat, header[chaseColDate], header[chaseColAmount])
	}

	var lines []BankLine
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading chase CSV: %w", err)
		}
		l, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		lines = append(lines, l)
	}
}

func parseChaseRow(rec []string) (BankLine, error) {
	date, err := time.Parse(chaseDateFormat, strings.TrimSpace(rec[chaseColDate]))
	if err != nil {
		return BankLine{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}
	amount, err := model.ParseAmount(strings.ReplaceAll(rec[chaseColAmount], ",", ""))
	if err != nil {
		return BankLine{}, err
	}

	desc := strings.TrimSpace(rec[chaseColDesc])
	ref := makeChaseRef(date, desc)
	if check := strings.TrimSpace(rec[chaseColCheck]); check != "" {
		ref = fmt.Sprintf("chase_%s_CHK%s", date.Format("20060102"), check)
	}

	return BankLine{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Reference:   ref,
		Type:        rec[chaseColType],
	}, nil
}

// makeChaseRef builds a reference like chase_20250103_GITHUBPROS.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
