package engine

import (
	"fmt"
	"sort"
	"strings"
)

// RenderMarkdown produces the caller-facing Markdown report: findings grouped
// by resource, ordered by the result's severity-first ordering, with
// remediation text. Pure presentation over the result.
func RenderMarkdown(res *AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString("# Security Analysis Report\n\n")
	sb.WriteString(res.Summary + "\n\n")
	sb.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", res.Score.Score))

	sb.WriteString("## Severity breakdown\n\n")
	sb.WriteString("| Severity | Count |\n|---|---|\n")
	for _, sev := range []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow} {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sev, res.Score.BySeverity[sev]))
	}
	sb.WriteString("\n")

	if len(res.Findings) == 0 {
		sb.WriteString("No findings.\n")
	} else {
		sb.WriteString("## Findings by resource\n\n")
		// Resources appear in the order their worst finding sorts, which is
		// deterministic because res.Findings already is.
		seen := make(map[string]bool)
		for _, f := range res.Findings {
			if seen[f.Resource] {
				continue
			}
			seen[f.Resource] = true
			group := res.FindingsByResource[f.Resource]
			first := group[0]
			sb.WriteString(fmt.Sprintf("### %s\n\n", f.Resource))
			if first.File != "" {
				sb.WriteString(fmt.Sprintf("File: `%s`\n\n", first.File))
			}
			for _, g := range group {
				sb.WriteString(fmt.Sprintf("- **%s** [%s/%s] %s (rule `%s`)\n",
					g.Severity, g.SourceLibrary, g.Category, g.Issue, g.RuleID))
				sb.WriteString(fmt.Sprintf("  - Remediation: %s\n", g.Recommendation))
				if len(g.Compliance) > 0 {
					sb.WriteString(fmt.Sprintf("  - Compliance: %s\n", strings.Join(g.Compliance, ", ")))
				}
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Scanner status\n\n")
	names := make([]string, 0, len(res.ScannerStatus))
	for name := range res.ScannerStatus {
		names = append(names, name)
	}
	// map iteration is unordered; the report must not be
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", name, res.ScannerStatus[name]))
	}
	for _, e := range res.ScannerErrors {
		sb.WriteString(fmt.Sprintf("- note: %s\n", e))
	}
	return sb.String()
}
