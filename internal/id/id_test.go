package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDocID(t *testing.T) {
	tests := []struct {
		prefix           string
		year, month, seq int
		want             string
	}{
		{PrefixSale, 2025, 1, 1, "SAL-2025-01-001"},
		{PrefixReceipt, 2025, 12, 99, "RCV-2025-12-099"},
		{PrefixJournal, 2025, 1, 123, "JV-2025-01-123"},
	}
	for _, tt := range tests {
		got := FormatDocID(tt.prefix, tt.year, tt.month, tt.seq)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatLegID(t *testing.T) {
	tests := []struct {
		entryID string
		leg     int
		want    string
	}{
		{"JV-2025-01-001", 0, "JV-2025-01-001a"},
		{"JV-2025-01-001", 1, "JV-2025-01-001b"},
		{"JV-2025-01-001", 2, "JV-2025-01-001c"},
	}
	for _, tt := range tests {
		got := FormatLegID(tt.entryID, tt.leg)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseDocID(t *testing.T) {
	tests := []struct {
		input               string
		wantPrefix          string
		wantYear, wantMonth int
		wantSeq             int
	}{
		{"SAL-2025-01-001", "SAL", 2025, 1, 1},
		{"PAY-2025-12-099", "PAY", 2025, 12, 99},
		{"JV-2025-01-001a", "JV", 2025, 1, 1},
		{"JV-2025-01-001b", "JV", 2025, 1, 1},
	}
	for _, tt := range tests {
		prefix, year, month, seq, err := ParseDocID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantPrefix, prefix)
		assert.Equal(t, tt.wantYear, year)
		assert.Equal(t, tt.wantMonth, month)
		assert.Equal(t, tt.wantSeq, seq)
	}
}

func TestParseDocID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"not-valid",
		"SAL-2025-01",
		"SAL-xxxx-01-001",
		"SAL-2025-13-001",
		"-2025-01-001",
	}
	for _, input := range badInputs {
		_, _, _, _, err := ParseDocID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestNextSeq(t *testing.T) {
	ids := []string{"SAL-2025-01-001", "SAL-2025-01-004", "SAL-2025-02-009", "RCV-2025-01-007", "legacy-id"}

	assert.Equal(t, 5, NextSeq(ids, PrefixSale, 2025, 1))
	assert.Equal(t, 10, NextSeq(ids, PrefixSale, 2025, 2))
	assert.Equal(t, 8, NextSeq(ids, PrefixReceipt, 2025, 1))
	assert.Equal(t, 1, NextSeq(ids, PrefixPayment, 2025, 1))
	assert.Equal(t, 1, NextSeq(nil, PrefixSale, 2025, 1))
}

func TestDocIDsSortLexicallyInIssueOrder(t *testing.T) {
	first := FormatDocID(PrefixSale, 2025, 1, 9)
	second := FormatDocID(PrefixSale, 2025, 1, 10)
	assert.Less(t, first, second)
}

func TestEntryGroup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"JV-2025-01-001a", "JV-2025-01-001"},
		{"JV-2025-01-001b", "JV-2025-01-001"},
		{"JV-2025-01-001", "JV-2025-01-001"},
		{"", ""},
	}
	for _, tt := range tests {
		got := EntryGroup(tt.input)
		assert.Equal(t, tt.want, got)
	}
}
