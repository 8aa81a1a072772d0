package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"discoveryspark/domain/insight"
)

// ExcelRenderer renders an analysis report as an .xlsx workbook: one
// sheet per target plus an interactions sheet.
type ExcelRenderer struct{}

// NewExcelRenderer creates an Excel report renderer
func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

// Render produces the workbook bytes
func (r *ExcelRenderer) Render(report *insight.AnalysisReport) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	for i, result := range report.Results {
		sheet := sheetName(result.Target.String())
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := wb.NewSheet(sheet); err != nil {
			return nil, err
		}

		headers := []interface{}{"Rank", "Insight", "Impact", "Direction", "Ambiguous"}
		if err := wb.SetSheetRow(sheet, "A1", &headers); err != nil {
			return nil, err
		}
		for row, ins := range result.Insights {
			label := ins.Label
			if label == "" {
				label = ins.Feature.String()
			}
			cell := fmt.Sprintf("A%d", row+2)
			values := []interface{}{ins.Rank, label, ins.Impact, string(ins.Direction), ins.Ambiguous}
			if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
				return nil, err
			}
		}
	}

	if len(report.Interactions) > 0 {
		const sheet = "Interactions"
		if _, err := wb.NewSheet(sheet); err != nil {
			return nil, err
		}
		headers := []interface{}{"Target A", "Target B", "Correlation", "Strength", "Direction"}
		if err := wb.SetSheetRow(sheet, "A1", &headers); err != nil {
			return nil, err
		}
		for row, ia := range report.Interactions {
			cell := fmt.Sprintf("A%d", row+2)
			values := []interface{}{ia.TargetA.String(), ia.TargetB.String(), ia.Correlation, string(ia.Strength), string(ia.Direction)}
			if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
				return nil, err
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetName trims target names to Excel's 31-character sheet limit
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
