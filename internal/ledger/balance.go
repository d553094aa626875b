package ledger

import "github.com/shopspring/decimal"

// EffectFunc maps a record to its signed effect on a balance.
type EffectFunc[T any] func(T) decimal.Decimal

// InferOpeningBalanceFunc returns the balance that existed before any of
// records: current minus the sum of the effects of every record for which
// archived reports false. A nil archived func keeps every record.
func InferOpeningBalanceFunc[T any](current decimal.Decimal, records []T, effect EffectFunc[T], archived func(T) bool) decimal.Decimal {
	return current.Sub(sumEffects(records, effect, archived))
}

// ReplayFunc applies every unarchived record's effect to opening.
func ReplayFunc[T any](opening decimal.Decimal, records []T, effect EffectFunc[T], archived func(T) bool) decimal.Decimal {
	return opening.Add(sumEffects(records, effect, archived))
}

func sumEffects[T any](records []T, effect EffectFunc[T], archived func(T) bool) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if archived != nil && archived(r) {
			continue
		}
		total = total.Add(effect(r))
	}
	return total
}

func effectOf(t Transaction) decimal.Decimal { return t.Amount }

func archivedOf(t Transaction) bool { return t.Archived }

// InferOpeningBalance returns current minus the net effect of the
// unarchived transactions. With no transactions it equals current.
func InferOpeningBalance(current decimal.Decimal, txs []Transaction) decimal.Decimal {
	return InferOpeningBalanceFunc(current, txs, effectOf, archivedOf)
}

// NetChange sums the effects of the unarchived transactions.
func NetChange(txs []Transaction) decimal.Decimal {
	return sumEffects(txs, effectOf, archivedOf)
}

// Replay applies the unarchived transactions to opening and returns the
// resulting balance. Replay(InferOpeningBalance(b, txs), txs) == b.
func Replay(opening decimal.Decimal, txs []Transaction) decimal.Decimal {
	return ReplayFunc(opening, txs, effectOf, archivedOf)
}
