package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"discoveryspark/adapters/render"
	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
	"discoveryspark/domain/insight"
	"discoveryspark/ports"
)

type memoryRepository struct {
	reports map[core.RunID]*insight.AnalysisReport
}

func (r *memoryRepository) SaveReport(_ context.Context, report *insight.AnalysisReport) error {
	r.reports[report.RunID] = report
	return nil
}

func (r *memoryRepository) GetReport(_ context.Context, runID core.RunID) (*insight.AnalysisReport, error) {
	report, ok := r.reports[runID]
	if !ok {
		return nil, core.ErrReportNotFound
	}
	return report, nil
}

func (r *memoryRepository) ListReports(_ context.Context, _ int) ([]ports.ReportSummary, error) {
	var out []ports.ReportSummary
	for _, report := range r.reports {
		out = append(out, ports.ReportSummary{
			RunID:     report.RunID,
			Project:   report.Project,
			Targets:   len(report.Results),
			CreatedAt: report.CreatedAt,
		})
	}
	return out, nil
}

func storedReport() (*memoryRepository, *insight.AnalysisReport) {
	report := insight.NewAnalysisReport("retail")
	report.Results = []insight.TargetResult{{
		Target: "churn",
		Task:   feature.TaskClassification,
		Insights: []insight.Insight{
			{Feature: "SUM(sales.amount)", Label: "Total amount across sales", Impact: 0.61, Direction: insight.DirectionPositive, Rank: 1},
		},
	}}
	repo := &memoryRepository{reports: map[core.RunID]*insight.AnalysisReport{report.RunID: report}}
	return repo, report
}

func newTestApp(repo ports.ReportRepositoryPort) *App {
	return NewApp(repo, render.NewMarkdownRenderer(), nil)
}

func TestIndexListsReports(t *testing.T) {
	repo, report := storedReport()
	app := newTestApp(repo)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "retail") {
		t.Error("index should list the stored project")
	}
	if !strings.Contains(body, report.RunID.String()) {
		t.Error("index should link to the stored run")
	}
}

func TestReportPageRendersHTML(t *testing.T) {
	repo, report := storedReport()
	app := newTestApp(repo)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/"+report.RunID.String(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Intelligence Report: RETAIL") {
		t.Error("report page should contain the rendered title")
	}
	if !strings.Contains(body, "<table>") {
		t.Error("markdown tables should render as HTML tables")
	}
}

func TestReportNotFound(t *testing.T) {
	repo, _ := storedReport()
	app := newTestApp(repo)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/does-not-exist", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestReportJSON(t *testing.T) {
	repo, report := storedReport()
	app := newTestApp(repo)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/"+report.RunID.String(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var decoded insight.AnalysisReport
	if err := json.NewDecoder(rec.Body).Decode(&decoded); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if decoded.RunID != report.RunID || decoded.Project != "retail" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
	if len(decoded.Results) != 1 || decoded.Results[0].Insights[0].Label != "Total amount across sales" {
		t.Errorf("insights did not round-trip: %+v", decoded.Results)
	}
}

func TestNilRepositoryIsUnavailable(t *testing.T) {
	app := newTestApp(nil)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without storage, got %d", rec.Code)
	}
}
