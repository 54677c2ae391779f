package wrappers

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/user/terrasight/pkg/engine"
)

// CheckovWrapper invokes checkov against a Terraform directory and converts
// its failed checks into normalized findings.
type CheckovWrapper struct {
	Exec    string // overrides the binary name, mainly for tests
	Timeout time.Duration
}

func (w *CheckovWrapper) Name() string {
	return "checkov"
}

func (w *CheckovWrapper) binary() string {
	if w.Exec != "" {
		return w.Exec
	}
	return "checkov"
}

// checkovReport models checkov's native JSON shape; it never escapes the
// adapter boundary.
type checkovReport struct {
	Results struct {
		FailedChecks []checkovCheck `json:"failed_checks"`
	} `json:"results"`
}

type checkovCheck struct {
	CheckID   string   `json:"check_id"`
	CheckName string   `json:"check_name"`
	Guideline string   `json:"guideline"`
	Details   []string `json:"details"`
	Severity  string   `json:"severity"`
	Resource  string   `json:"resource"`
	FilePath  string   `json:"file_path"`
}

func (w *CheckovWrapper) Scan(ctx context.Context, dir string, index *engine.ResourceIndex) engine.Outcome {
	exe, err := exec.LookPath(w.binary())
	if err != nil {
		return engine.Outcome{
			Status: engine.StatusUnavailable,
			Err:    "checkov executable not found on PATH.",
		}
	}

	code, stdout, stderr := runCommand(ctx, dir, w.Timeout, exe,
		"-d", dir, "--framework", "terraform", "--output", "json", "--quiet")
	// checkov exits 1 when violations were found; only other codes are real
	// failures.
	if code != 0 && code != 1 {
		return engine.Outcome{
			Status: engine.StatusError,
			Err:    fmt.Sprintf("checkov failed (exit %d): %s", code, firstNonEmpty(stderr, stdout)),
		}
	}

	return engine.Outcome{Status: engine.StatusOK, Findings: parseCheckovOutput(stdout, index)}
}

func parseCheckovOutput(stdout string, index *engine.ResourceIndex) []engine.SecurityFinding {
	var report checkovReport
	if !decodeLenient(stdout, &report) {
		return nil
	}

	var findings []engine.SecurityFinding
	for _, check := range report.Results.FailedChecks {
		issue := firstNonEmpty(check.CheckName, check.CheckID, "Policy violation")
		recommendation := firstNonEmpty(check.Guideline, strings.Join(check.Details, " "),
			"Review and remediate this policy violation.")
		ruleID := firstNonEmpty(check.CheckID, "CHECKOV.UNKNOWN")
		findings = append(findings, newFinding(index, "checkov",
			check.Resource, check.FilePath, check.Severity, issue, recommendation, ruleID))
	}
	return findings
}
