package ui

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"discoveryspark/domain/core"
	"discoveryspark/domain/insight"
	"discoveryspark/internal"
	"discoveryspark/ports"
)

// App is the report dashboard: a small chi application listing stored
// reports and rendering each one from its markdown form.
type App struct {
	router   *chi.Mux
	reports  ports.ReportRepositoryPort
	renderer ports.ReportRendererPort // markdown renderer
	logger   *internal.Logger
}

// Config holds dashboard configuration
type Config struct {
	Port string
}

// NewApp creates the dashboard application
func NewApp(reports ports.ReportRepositoryPort, renderer ports.ReportRendererPort, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	app := &App{
		router:   chi.NewRouter(),
		reports:  reports,
		renderer: renderer,
		logger:   logger,
	}
	app.routes()
	return app
}

func (a *App) routes() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)

	a.router.Get("/", a.handleIndex)
	a.router.Get("/reports/{runID}", a.handleReport)
	a.router.Get("/api/reports", a.handleListJSON)
	a.router.Get("/api/reports/{runID}", a.handleReportJSON)
}

// Serve blocks serving the dashboard
func (a *App) Serve(cfg Config) error {
	a.logger.Info("dashboard listening on :%s", cfg.Port)
	return http.ListenAndServe(":"+cfg.Port, a.router)
}

// Router exposes the handler for tests and embedding
func (a *App) Router() http.Handler {
	return a.router
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>DiscoverySpark Reports</title></head>
<body>
<h1>Analysis Reports</h1>
{{if not .}}<p>No reports yet.</p>{{end}}
<ul>
{{range .}}<li><a href="/reports/{{.RunID}}">{{.Project}}</a> — {{.Targets}} targets — {{.CreatedAt}}</li>
{{end}}
</ul>
</body></html>`))

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	if a.reports == nil {
		http.Error(w, "report storage is not configured", http.StatusServiceUnavailable)
		return
	}
	summaries, err := a.reports.ListReports(r.Context(), 50)
	if err != nil {
		a.logger.Error("failed to list reports: %v", err)
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, summaries); err != nil {
		a.logger.Error("failed to render index: %v", err)
	}
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := a.loadReport(w, r)
	if !ok {
		return
	}

	md, err := a.renderer.Render(report)
	if err != nil {
		a.logger.Error("failed to render report %s: %v", report.RunID, err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	htmlRenderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.ToHTML(md, p, htmlRenderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s</title></head><body>", template.HTMLEscapeString(report.Project))
	w.Write(body)
	fmt.Fprint(w, `<p><a href="/">Back to reports</a></p></body></html>`)
}

func (a *App) handleListJSON(w http.ResponseWriter, r *http.Request) {
	if a.reports == nil {
		http.Error(w, "report storage is not configured", http.StatusServiceUnavailable)
		return
	}
	summaries, err := a.reports.ListReports(r.Context(), 50)
	if err != nil {
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summaries)
}

func (a *App) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	report, ok := a.loadReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, report)
}

func (a *App) loadReport(w http.ResponseWriter, r *http.Request) (*insight.AnalysisReport, bool) {
	if a.reports == nil {
		http.Error(w, "report storage is not configured", http.StatusServiceUnavailable)
		return nil, false
	}
	runID := core.RunID(chi.URLParam(r, "runID"))
	loaded, err := a.reports.GetReport(r.Context(), runID)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "report not found", http.StatusNotFound)
			return nil, false
		}
		a.logger.Error("failed to load report %s: %v", runID, err)
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return nil, false
	}
	return loaded, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.DefaultLogger.Error("failed to encode response: %v", err)
	}
}
