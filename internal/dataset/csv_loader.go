package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// LoadTable reads one CSV table from dir/<name>.csv
func LoadTable(dir string, rule MappingRule) (*Table, error) {
	path := filepath.Join(dir, rule.Table+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", rule.Table, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("table %s has no data rows", rule.Table)
	}

	headers := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		// Pad ragged rows so column access stays safe
		if len(rec) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec[:len(headers)])
	}

	return &Table{
		Name:    rule.Table,
		Role:    rule.Role,
		KeyCol:  rule.Keys[0],
		Headers: headers,
		Rows:    rows,
	}, nil
}

// LoadBundle reads a mapping file and all tables it names
func LoadBundle(datasetDir, mappingPath string) (*RelationalBundle, error) {
	raw, err := os.ReadFile(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	rules, err := ParseMapping(string(raw))
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(rules))
	for _, rule := range rules {
		t, err := LoadTable(datasetDir, rule)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return NewRelationalBundle(tables)
}
