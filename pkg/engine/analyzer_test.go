package engine

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// stubScanner returns a canned outcome, standing in for an external tool.
type stubScanner struct {
	name    string
	outcome Outcome
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(ctx context.Context, dir string, index *ResourceIndex) Outcome {
	return s.outcome
}

func finding(source, resource string, severity Severity) SecurityFinding {
	return SecurityFinding{
		Resource:       resource,
		ResourceType:   strings.SplitN(resource, ".", 2)[0],
		ResourceName:   resource[strings.LastIndex(resource, ".")+1:],
		File:           "main.tf",
		Severity:       severity,
		Category:       CategoryGeneral,
		SourceLibrary:  source,
		Issue:          "Policy violation",
		Recommendation: "Review and remediate this policy violation.",
		RuleID:         "RULE",
		Compliance:     []string{},
	}
}

func TestAnalyzePartialFailure(t *testing.T) {
	analyzer := Analyzer{Scanners: []Scanner{
		&stubScanner{name: "checkov", outcome: Outcome{
			Status: StatusOK,
			Findings: []SecurityFinding{
				finding("checkov", "aws_s3_bucket.logs", SeverityHigh),
				finding("checkov", "aws_instance.web", SeverityLow),
			},
		}},
		&stubScanner{name: "tfsec", outcome: Outcome{
			Status: StatusError,
			Err:    "tfsec failed (exit 2): boom",
		}},
		&stubScanner{name: "terrascan", outcome: Outcome{
			Status: StatusOK,
			Findings: []SecurityFinding{
				finding("terrascan", "aws_s3_bucket.logs", SeverityCritical),
			},
		}},
	}}

	result := analyzer.Analyze(context.Background(), nil, t.TempDir())

	if result.FindingsCount != 3 {
		t.Fatalf("expected 3 findings, got %d", result.FindingsCount)
	}
	if result.ScannerStatus["checkov"] != StatusOK ||
		result.ScannerStatus["tfsec"] != StatusError ||
		result.ScannerStatus["terrascan"] != StatusOK {
		t.Errorf("unexpected scanner status map: %v", result.ScannerStatus)
	}
	if len(result.ScannerErrors) != 1 {
		t.Fatalf("expected exactly one scanner error, got %d", len(result.ScannerErrors))
	}
	if !strings.Contains(result.Summary, "tfsec=error") {
		t.Errorf("summary should reflect scanner status: %s", result.Summary)
	}
	if !strings.Contains(result.Summary, "Scanner notes:") {
		t.Errorf("summary should carry scanner notes: %s", result.Summary)
	}
}

func TestAnalyzeOrderingAndScore(t *testing.T) {
	analyzer := Analyzer{Scanners: []Scanner{
		&stubScanner{name: "checkov", outcome: Outcome{
			Status: StatusOK,
			Findings: []SecurityFinding{
				finding("checkov", "b.second", SeverityLow),
				finding("checkov", "a.first", SeverityCritical),
			},
		}},
		&stubScanner{name: "tfsec", outcome: Outcome{
			Status: StatusOK,
			Findings: []SecurityFinding{
				finding("tfsec", "a.first", SeverityCritical),
				finding("tfsec", "c.third", SeverityMedium),
			},
		}},
	}}

	result := analyzer.Analyze(context.Background(), nil, t.TempDir())

	// critical first; within critical, scanner name ascending.
	wantOrder := []struct{ source, resource string }{
		{"checkov", "a.first"},
		{"tfsec", "a.first"},
		{"tfsec", "c.third"},
		{"checkov", "b.second"},
	}
	for i, want := range wantOrder {
		got := result.Findings[i]
		if got.SourceLibrary != want.source || got.Resource != want.resource {
			t.Errorf("position %d: got %s/%s, want %s/%s",
				i, got.SourceLibrary, got.Resource, want.source, want.resource)
		}
	}

	// 2 critical + 1 medium + 1 low = 40 + 6 + 2 = 48 penalty.
	if result.Score.Score != 52 {
		t.Errorf("expected score 52, got %d", result.Score.Score)
	}
	total := 0
	for _, count := range result.Score.BySeverity {
		total += count
	}
	if total != result.FindingsCount {
		t.Errorf("by_severity sum %d != findings_count %d", total, result.FindingsCount)
	}

	if len(result.FindingsByResource["a.first"]) != 2 {
		t.Errorf("expected 2 findings grouped under a.first, got %d",
			len(result.FindingsByResource["a.first"]))
	}
}

func TestAnalyzeScoreClampsAtZero(t *testing.T) {
	var findings []SecurityFinding
	for i := 0; i < 10; i++ {
		findings = append(findings, finding("checkov", "a.b", SeverityCritical))
	}
	analyzer := Analyzer{Scanners: []Scanner{
		&stubScanner{name: "checkov", outcome: Outcome{Status: StatusOK, Findings: findings}},
	}}

	result := analyzer.Analyze(context.Background(), nil, t.TempDir())
	if result.Score.Score != 0 {
		t.Errorf("expected clamped score 0, got %d", result.Score.Score)
	}
}

func TestAnalyzeWithoutScanDir(t *testing.T) {
	analyzer := Analyzer{Scanners: []Scanner{
		&stubScanner{name: "checkov", outcome: Outcome{Status: StatusOK}},
		&stubScanner{name: "tfsec", outcome: Outcome{Status: StatusOK}},
	}}

	// Relative file paths give the analyzer nothing to infer a directory from.
	resources := []ResourceRecord{
		{File: "main.tf", ResourceType: "aws_s3_bucket", ResourceName: "logs"},
	}
	result := analyzer.Analyze(context.Background(), resources, "")

	for name, status := range result.ScannerStatus {
		if status != StatusSkipped {
			t.Errorf("expected %s to be skipped, got %s", name, status)
		}
	}
	if len(result.ScannerErrors) != 1 {
		t.Fatalf("expected one explanatory note, got %d", len(result.ScannerErrors))
	}
	if result.Score.Score != 100 {
		t.Errorf("expected score 100 with no findings, got %d", result.Score.Score)
	}
}

func TestAnalyzeNonexistentExplicitDirSkipsScanners(t *testing.T) {
	analyzer := Analyzer{Scanners: []Scanner{
		&stubScanner{name: "checkov", outcome: Outcome{Status: StatusOK}},
	}}

	result := analyzer.Analyze(context.Background(), nil, "/definitely/not/a/dir")
	if result.ScannerStatus["checkov"] != StatusSkipped {
		t.Errorf("expected skipped, got %s", result.ScannerStatus["checkov"])
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	dir := t.TempDir()
	run := func() string {
		analyzer := Analyzer{Scanners: []Scanner{
			&stubScanner{name: "checkov", outcome: Outcome{
				Status: StatusOK,
				Findings: []SecurityFinding{
					finding("checkov", "a.x", SeverityHigh),
					finding("checkov", "b.y", SeverityHigh),
				},
			}},
			&stubScanner{name: "tfsec", outcome: Outcome{
				Status: StatusOK,
				Findings: []SecurityFinding{
					finding("tfsec", "a.x", SeverityMedium),
				},
			}},
		}}
		data, err := json.Marshal(analyzer.Analyze(context.Background(), nil, dir))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return string(data)
	}

	first, second := run(), run()
	if first != second {
		t.Error("expected identical serialized results across runs")
	}
}

func TestRenderMarkdown(t *testing.T) {
	analyzer := Analyzer{Scanners: []Scanner{
		&stubScanner{name: "checkov", outcome: Outcome{
			Status: StatusOK,
			Findings: []SecurityFinding{
				finding("checkov", "aws_s3_bucket.logs", SeverityHigh),
			},
		}},
	}}
	result := analyzer.Analyze(context.Background(), nil, t.TempDir())

	md := result.ReportMarkdown
	for _, want := range []string{
		"# Security Analysis Report",
		"### aws_s3_bucket.logs",
		"Remediation:",
		"checkov: ok",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
}
