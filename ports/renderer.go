package ports

import "discoveryspark/domain/insight"

// ReportRendererPort renders a finished analysis report to bytes
// (markdown, xlsx, ...). Renderers depend only on the report shape,
// never on engine internals.
type ReportRendererPort interface {
	Render(report *insight.AnalysisReport) ([]byte, error)
}
