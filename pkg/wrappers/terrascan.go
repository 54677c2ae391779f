package wrappers

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/user/terrasight/pkg/engine"
)

// TerrascanWrapper invokes terrascan against a Terraform directory.
type TerrascanWrapper struct {
	Exec    string
	Timeout time.Duration
}

func (w *TerrascanWrapper) Name() string {
	return "terrascan"
}

func (w *TerrascanWrapper) binary() string {
	if w.Exec != "" {
		return w.Exec
	}
	return "terrascan"
}

type terrascanReport struct {
	Results struct {
		Violations []terrascanViolation `json:"violations"`
	} `json:"results"`
}

type terrascanViolation struct {
	RuleName     string `json:"rule_name"`
	Description  string `json:"description"`
	RuleID       string `json:"rule_id"`
	Severity     string `json:"severity"`
	Resolution   string `json:"resolution"`
	ResourceName string `json:"resource_name"`
	ResourceType string `json:"resource_type"`
	File         string `json:"file"`
	Line         int    `json:"line"`
}

func (w *TerrascanWrapper) Scan(ctx context.Context, dir string, index *engine.ResourceIndex) engine.Outcome {
	exe, err := exec.LookPath(w.binary())
	if err != nil {
		return engine.Outcome{
			Status: engine.StatusUnavailable,
			Err:    "terrascan executable not found on PATH.",
		}
	}

	code, stdout, stderr := runCommand(ctx, dir, w.Timeout, exe,
		"scan", "-d", dir, "-i", "terraform", "-o", "json")
	// terrascan exits 3 purely to signal that violations were found.
	if code != 0 && code != 3 {
		return engine.Outcome{
			Status: engine.StatusError,
			Err:    fmt.Sprintf("terrascan failed (exit %d): %s", code, firstNonEmpty(stderr, stdout)),
		}
	}

	return engine.Outcome{Status: engine.StatusOK, Findings: parseTerrascanOutput(stdout, index)}
}

func parseTerrascanOutput(stdout string, index *engine.ResourceIndex) []engine.SecurityFinding {
	var report terrascanReport
	if !decodeLenient(stdout, &report) {
		return nil
	}

	var findings []engine.SecurityFinding
	for _, violation := range report.Results.Violations {
		issue := firstNonEmpty(violation.Description, violation.RuleName, "Policy violation")
		recommendation := firstNonEmpty(violation.Resolution, "Review and remediate this policy violation.")
		ruleID := firstNonEmpty(violation.RuleID, violation.RuleName, "TERRASCAN.UNKNOWN")
		// terrascan reports a bare resource name; the reconciler's unique-name
		// rule maps it back to the declared resource.
		findings = append(findings, newFinding(index, "terrascan",
			violation.ResourceName, violation.File, violation.Severity, issue, recommendation, ruleID))
	}
	return findings
}
