package render

import (
	"fmt"
	"strings"

	"discoveryspark/domain/insight"
)

// MarkdownRenderer renders an analysis report as a markdown document with
// one insight table per target plus a target interaction section.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a markdown report renderer
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render produces the full markdown document
func (r *MarkdownRenderer) Render(report *insight.AnalysisReport) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Intelligence Report: %s\n\n", strings.ToUpper(report.Project))

	for _, result := range report.Results {
		fmt.Fprintf(&b, "**Target:** %s | **Type:** %s\n\n", result.Target, result.Task)
		fmt.Fprintf(&b, "## Top %d Insights and Trends\n\n", len(result.Insights))
		b.WriteString("| Rank | Insight | Impact | Trend |\n")
		b.WriteString("| :--- | :--- | :--- | :--- |\n")
		for _, ins := range result.Insights {
			label := ins.Label
			if label == "" {
				label = ins.Feature.String()
			}
			fmt.Fprintf(&b, "| #%d | %s | %.2f%% | %s |\n",
				ins.Rank, label, ins.Impact*100, trendPhrase(ins, result.Target.String()))
		}
		b.WriteString("\n")
	}

	if len(report.Interactions) > 0 {
		b.WriteString("## Target Interactions\n\n")
		b.WriteString("| Targets | Correlation | Strength | Direction |\n")
		b.WriteString("| :--- | :--- | :--- | :--- |\n")
		for _, ia := range report.Interactions {
			fmt.Fprintf(&b, "| %s / %s | %.3f | %s | %s |\n",
				ia.TargetA, ia.TargetB, ia.Correlation, ia.Strength, ia.Direction)
		}
		b.WriteString("\n")
	}

	if len(report.Failures) > 0 {
		b.WriteString("## Skipped Targets\n\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "- **%s**: %s\n", f.Target, f.Reason)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n---\n*Generated at: %s*\n", report.CreatedAt)
	return []byte(b.String()), nil
}

func trendPhrase(ins insight.Insight, target string) string {
	if ins.Ambiguous {
		return "(~) Direction ambiguous across classes"
	}
	switch ins.Direction {
	case insight.DirectionPositive:
		return fmt.Sprintf("(+) Higher values increase %s", target)
	case insight.DirectionNegative:
		return fmt.Sprintf("(-) Higher values decrease %s", target)
	default:
		return "(~) No measurable direction"
	}
}
