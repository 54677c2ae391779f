package wrappers

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/user/terrasight/pkg/engine"
)

// TfsecWrapper invokes tfsec against a Terraform directory.
type TfsecWrapper struct {
	Exec    string
	Timeout time.Duration
}

func (w *TfsecWrapper) Name() string {
	return "tfsec"
}

func (w *TfsecWrapper) binary() string {
	if w.Exec != "" {
		return w.Exec
	}
	return "tfsec"
}

type tfsecReport struct {
	Results []tfsecResult `json:"results"`
}

type tfsecResult struct {
	RuleID          string        `json:"rule_id"`
	LongID          string        `json:"long_id"`
	RuleDescription string        `json:"rule_description"`
	Description     string        `json:"description"`
	Resolution      string        `json:"resolution"`
	Severity        string        `json:"severity"`
	Resource        string        `json:"resource"`
	Location        tfsecLocation `json:"location"`
}

type tfsecLocation struct {
	Filename  string `json:"filename"`
	StartLine int64  `json:"start_line"`
	EndLine   int64  `json:"end_line"`
}

func (w *TfsecWrapper) Scan(ctx context.Context, dir string, index *engine.ResourceIndex) engine.Outcome {
	exe, err := exec.LookPath(w.binary())
	if err != nil {
		return engine.Outcome{
			Status: engine.StatusUnavailable,
			Err:    "tfsec executable not found on PATH.",
		}
	}

	code, stdout, stderr := runCommand(ctx, dir, w.Timeout, exe,
		dir, "--format", "json", "--no-color")
	// Exit 1 signals findings, not failure.
	if code != 0 && code != 1 {
		return engine.Outcome{
			Status: engine.StatusError,
			Err:    fmt.Sprintf("tfsec failed (exit %d): %s", code, firstNonEmpty(stderr, stdout)),
		}
	}

	return engine.Outcome{Status: engine.StatusOK, Findings: parseTfsecOutput(stdout, index)}
}

func parseTfsecOutput(stdout string, index *engine.ResourceIndex) []engine.SecurityFinding {
	var report tfsecReport
	if !decodeLenient(stdout, &report) {
		return nil
	}

	var findings []engine.SecurityFinding
	for _, result := range report.Results {
		issue := firstNonEmpty(result.Description, result.RuleDescription, "Policy violation")
		recommendation := firstNonEmpty(result.Resolution, "Review and remediate this policy violation.")
		ruleID := firstNonEmpty(result.LongID, result.RuleID, "TFSEC.UNKNOWN")
		findings = append(findings, newFinding(index, "tfsec",
			result.Resource, result.Location.Filename, result.Severity, issue, recommendation, ruleID))
	}
	return findings
}
