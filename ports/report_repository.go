package ports

import (
	"context"

	"discoveryspark/domain/core"
	"discoveryspark/domain/insight"
)

// ReportSummary is a listing row for stored reports
type ReportSummary struct {
	RunID     core.RunID     `json:"run_id"`
	Project   string         `json:"project"`
	Targets   int            `json:"targets"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// ReportRepositoryPort persists finished analysis reports
type ReportRepositoryPort interface {
	SaveReport(ctx context.Context, report *insight.AnalysisReport) error
	GetReport(ctx context.Context, runID core.RunID) (*insight.AnalysisReport, error)
	ListReports(ctx context.Context, limit int) ([]ReportSummary, error)
}
