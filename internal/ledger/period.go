package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// PeriodStatement is a bounded statement for [Start, End].
type PeriodStatement struct {
	Start    time.Time
	End      time.Time
	Opening  decimal.Decimal
	Closing  decimal.Decimal
	TotalIn  decimal.Decimal
	TotalOut decimal.Decimal
	Rows     []Row
}

// BuildPeriodStatement reconstructs the statement for [start, end] when
// the only known balance is the current one.
//
// The closing balance of the period is current minus the net effect of
// everything dated after end; the opening balance is that closing minus the
// net effect inside the period. When start is after end the period is
// empty and opening equals closing. Dates compare as calendar days.
func BuildPeriodStatement(current decimal.Decimal, txs []Transaction, start, end time.Time) PeriodStatement {
	startDay, endDay := model.CalendarDay(start), model.CalendarDay(end)

	var inPeriod, postPeriod []Transaction
	for _, t := range txs {
		if t.Archived {
			continue
		}
		day := model.CalendarDay(t.Date)
		switch {
		case day.After(endDay):
			postPeriod = append(postPeriod, t)
		case !day.Before(startDay) && !startDay.After(endDay):
			inPeriod = append(inPeriod, t)
		}
	}

	closing := current.Sub(NetChange(postPeriod))
	ps := PeriodStatement{
		Start:    start,
		End:      end,
		Closing:  closing,
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
	}
	if startDay.After(endDay) {
		ps.Opening = closing
		ps.Rows = []Row{}
		return ps
	}

	ps.Opening = InferOpeningBalance(closing, inPeriod)
	ps.Rows = BuildStatement(ps.Opening, inPeriod, OldestFirst)
	for _, t := range inPeriod {
		if t.Amount.IsPositive() {
			ps.TotalIn = ps.TotalIn.Add(t.Amount)
		} else {
			ps.TotalOut = ps.TotalOut.Add(t.Amount.Abs())
		}
	}
	return ps
}
