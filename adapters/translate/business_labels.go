package translate

import (
	"strings"

	"discoveryspark/domain/core"
)

// BusinessTranslator converts machine feature names produced by the
// synthesizer into business phrases, e.g.
//
//	SUM(sales.amount) -> "Total amount across sales"
//	COUNT(sales)      -> "Number of sales"
//	age               -> "Age"
type BusinessTranslator struct{}

// NewBusinessTranslator creates a feature-name translator
func NewBusinessTranslator() *BusinessTranslator {
	return &BusinessTranslator{}
}

var aggregatePhrases = map[string]string{
	"SUM":   "Total",
	"MEAN":  "Average",
	"COUNT": "Number of",
	"MAX":   "Highest",
	"MIN":   "Lowest",
	"STD":   "Variation of",
}

// Translate renders one feature key as a business label
func (t *BusinessTranslator) Translate(key core.FeatureKey) string {
	name := key.String()

	fn, inner, ok := splitAggregate(name)
	if !ok {
		return capitalize(humanize(name))
	}

	phrase, known := aggregatePhrases[fn]
	if !known {
		phrase = fn
	}

	table, column, qualified := strings.Cut(inner, ".")
	if !qualified {
		return capitalize(phrase + " " + humanize(inner))
	}
	return capitalize(phrase + " " + humanize(column) + " across " + humanize(table))
}

// splitAggregate parses FN(inner) names
func splitAggregate(name string) (fn, inner string, ok bool) {
	open := strings.IndexByte(name, '(')
	if open <= 0 || !strings.HasSuffix(name, ")") {
		return "", "", false
	}
	return name[:open], name[open+1 : len(name)-1], true
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
