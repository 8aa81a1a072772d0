package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"discoveryspark/domain/core"
	"discoveryspark/domain/insight"
	"discoveryspark/ports"
)

// ReportRepository persists finished analysis reports as JSON rows
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Migrate creates the reports table if it does not exist
func (r *ReportRepository) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS analysis_reports (
			run_id     TEXT PRIMARY KEY,
			project    TEXT NOT NULL,
			targets    INT NOT NULL,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create analysis_reports table: %w", err)
	}
	return nil
}

// SaveReport stores one finished report
func (r *ReportRepository) SaveReport(ctx context.Context, report *insight.AnalysisReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO analysis_reports (run_id, project, targets, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id) DO UPDATE SET
			project = EXCLUDED.project,
			targets = EXCLUDED.targets,
			payload = EXCLUDED.payload`

	_, err = r.db.ExecContext(ctx, query,
		report.RunID.String(),
		report.Project,
		len(report.Results),
		payload,
		report.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport loads one report by run id
func (r *ReportRepository) GetReport(ctx context.Context, runID core.RunID) (*insight.AnalysisReport, error) {
	var payload []byte
	query := `SELECT payload FROM analysis_reports WHERE run_id = $1`
	if err := r.db.GetContext(ctx, &payload, query, runID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report %s: %w", runID, err)
	}

	var report insight.AnalysisReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", runID, err)
	}
	return &report, nil
}

// ListReports returns the most recent report summaries
func (r *ReportRepository) ListReports(ctx context.Context, limit int) ([]ports.ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows := []struct {
		RunID     string    `db:"run_id"`
		Project   string    `db:"project"`
		Targets   int       `db:"targets"`
		CreatedAt time.Time `db:"created_at"`
	}{}
	query := `SELECT run_id, project, targets, created_at
		FROM analysis_reports ORDER BY created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	summaries := make([]ports.ReportSummary, len(rows))
	for i, row := range rows {
		summaries[i] = ports.ReportSummary{
			RunID:     core.RunID(row.RunID),
			Project:   row.Project,
			Targets:   row.Targets,
			CreatedAt: core.Timestamp(row.CreatedAt),
		}
	}
	return summaries, nil
}
