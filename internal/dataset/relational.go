package dataset

import (
	"fmt"
	"math"
	"strconv"

	"discoveryspark/domain/feature"
)

// Role marks a table as the parent entity table or a child detail table
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// Table is one loaded relational table: named string cells plus the
// per-column numeric view used for synthesis.
type Table struct {
	Name    string
	Role    Role
	KeyCol  string // join key column (entity id)
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the index of a header, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// NumericColumn parses a column as float64, NaN for blanks and non-numbers
func (t *Table) NumericColumn(name string) ([]float64, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = parseCell(row[idx])
	}
	return out, true
}

// InferKind decides a column's semantic kind once, at ingestion
func (t *Table) InferKind(name string) feature.SemanticKind {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return feature.KindCategorical
	}
	numeric := 0
	distinct := make(map[string]struct{})
	total := 0
	for _, row := range t.Rows {
		cell := row[idx]
		if cell == "" {
			continue
		}
		total++
		distinct[cell] = struct{}{}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			numeric++
		}
	}
	if total == 0 || numeric < total {
		return feature.KindCategorical
	}
	// Small-cardinality integer columns behave like ordered codes
	if len(distinct) <= 10 {
		return feature.KindOrdinal
	}
	return feature.KindNumeric
}

func parseCell(cell string) float64 {
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// RelationalBundle is the input shape for feature synthesis: exactly one
// parent table plus zero or more children related to it by key columns.
type RelationalBundle struct {
	Parent   *Table
	Children []*Table
}

// NewRelationalBundle assembles and validates a bundle from loaded tables
func NewRelationalBundle(tables []*Table) (*RelationalBundle, error) {
	bundle := &RelationalBundle{}
	for _, t := range tables {
		switch t.Role {
		case RoleParent:
			if bundle.Parent != nil {
				return nil, fmt.Errorf("mapping defines more than one parent table (%s, %s)", bundle.Parent.Name, t.Name)
			}
			bundle.Parent = t
		case RoleChild:
			bundle.Children = append(bundle.Children, t)
		default:
			return nil, fmt.Errorf("table %s has unknown role %q", t.Name, t.Role)
		}
	}
	if bundle.Parent == nil {
		return nil, fmt.Errorf("mapping defines no parent table")
	}
	if bundle.Parent.ColumnIndex(bundle.Parent.KeyCol) < 0 {
		return nil, fmt.Errorf("parent table %s is missing key column %q", bundle.Parent.Name, bundle.Parent.KeyCol)
	}
	for _, c := range bundle.Children {
		if c.ColumnIndex(c.KeyCol) < 0 {
			return nil, fmt.Errorf("child table %s is missing key column %q", c.Name, c.KeyCol)
		}
	}
	return bundle, nil
}
