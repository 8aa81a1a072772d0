package translate

import (
	"testing"

	"discoveryspark/domain/core"
)

func TestTranslate(t *testing.T) {
	tr := NewBusinessTranslator()

	cases := []struct {
		key  core.FeatureKey
		want string
	}{
		{"SUM(sales.amount)", "Total amount across sales"},
		{"MEAN(sales.amount)", "Average amount across sales"},
		{"COUNT(sales)", "Number of sales"},
		{"MAX(sales.unit_price)", "Highest unit price across sales"},
		{"MIN(sales.amount)", "Lowest amount across sales"},
		{"STD(sales.amount)", "Variation of amount across sales"},
		{"age", "Age"},
		{"customer_segment", "Customer segment"},
		{"MEDIAN(sales.amount)", "MEDIAN amount across sales"}, // unknown fn passes through
	}

	for _, tc := range cases {
		if got := tr.Translate(tc.key); got != tc.want {
			t.Errorf("Translate(%s) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestTranslate_MalformedNamesFallThrough(t *testing.T) {
	tr := NewBusinessTranslator()

	// Not aggregate syntax, so these humanize as plain names
	cases := map[core.FeatureKey]string{
		"(weird":        "(weird",
		"SUM(unclosed":  "SUM(unclosed",
		"plain_feature": "Plain feature",
	}
	for key, want := range cases {
		if got := tr.Translate(key); got != want {
			t.Errorf("Translate(%s) = %q, want %q", key, got, want)
		}
	}
}
