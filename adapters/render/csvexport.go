package render

import (
	"encoding/csv"
	"os"
	"strconv"

	"discoveryspark/domain/feature"
)

// WriteMatrixCSV exports the synthesized feature matrix alongside the
// markdown report, one row per entity. Missing values render as empty
// cells.
func WriteMatrixCSV(path string, matrix *feature.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	keys := matrix.Keys()
	header := make([]string, len(keys))
	for i, key := range keys {
		header[i] = key.String()
	}
	if err := w.Write(header); err != nil {
		return err
	}

	columns := make([][]float64, len(keys))
	for i, key := range keys {
		columns[i], _ = matrix.Column(key)
	}

	record := make([]string, len(keys))
	for row := 0; row < matrix.RowCount(); row++ {
		for i := range keys {
			v := columns[i][row]
			if feature.Missing(v) {
				record[i] = ""
				continue
			}
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
