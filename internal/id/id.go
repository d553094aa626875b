package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Document number prefixes.
const (
	PrefixSale           = "SAL"
	PrefixSaleReturn     = "SRT"
	PrefixPurchase       = "PUR"
	PrefixPurchaseReturn = "PRT"
	PrefixReceipt        = "RCV"
	PrefixPayment        = "PAY"
	PrefixJournal        = "JV"
	PrefixDebitNote      = "DN"
	PrefixCreditNote     = "CN"
)

// FormatDocID returns a document ID like "SAL-2025-01-001".
func FormatDocID(prefix string, year, month, seq int) string {
	return fmt.Sprintf("%s-%04d-%02d-%03d", prefix, year, month, seq)
}

// FormatLegID returns a line ID like "JV-2025-01-001a" (line 0='a', 1='b', etc.).
func FormatLegID(entryID string, leg int) string {
	return entryID + string(rune('a'+leg))
}

// ParseDocID parses "SAL-2025-01-001" into prefix, year, month, seq.
func ParseDocID(id string) (prefix string, year, month, seq int, err error) {
	// Strip any line suffix (trailing lowercase letters).
	base := EntryGroup(id)

	parts := strings.SplitN(base, "-", 4)
	if len(parts) != 4 || parts[0] == "" {
		return "", 0, 0, 0, fmt.Errorf("invalid document ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid year in document ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[2])
	if err != nil || month < 1 || month > 12 {
		return "", 0, 0, 0, fmt.Errorf("invalid month in document ID %q", id)
	}

	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid sequence in document ID %q: %w", id, err)
	}

	return parts[0], year, month, seq, nil
}

// NextSeq returns the next free sequence for prefix in year/month given the
// IDs already issued. IDs that do not parse are ignored.
func NextSeq(ids []string, prefix string, year, month int) int {
	maxSeq := 0
	for _, existing := range ids {
		p, y, m, seq, err := ParseDocID(existing)
		if err != nil || p != prefix || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

// EntryGroup strips the line suffix from a line ID.
// "JV-2025-01-001a" -> "JV-2025-01-001"
func EntryGroup(legID string) string {
	if len(legID) == 0 {
		return ""
	}
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
