package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Scanner is one external scanning tool. Implementations must never return a
// fatal error: every failure mode is folded into the Outcome.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, dir string, index *ResourceIndex) Outcome
}

// Analyzer drives a full analysis run: it fans out to every scanner, merges
// and orders the findings, and assembles the scored result.
type Analyzer struct {
	Scanners   []Scanner
	Compliance *ComplianceEngine // optional; nil leaves compliance lists empty
}

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Penalty weights per finding severity when computing the aggregate score.
var severityWeight = map[Severity]int{
	SeverityLow:      2,
	SeverityMedium:   6,
	SeverityHigh:     12,
	SeverityCritical: 20,
}

// Analyze never fails: every code path yields a complete result, degrading to
// fewer findings and a populated error list when scanners misbehave.
func (a *Analyzer) Analyze(ctx context.Context, resources []ResourceRecord, scanDir string) *AnalysisResult {
	log := logrus.WithField("component", "engine")
	index := NewResourceIndex(resources)
	dir := resolveScanDir(resources, scanDir)

	scannerStatus := make(map[string]Status, len(a.Scanners))
	for _, s := range a.Scanners {
		scannerStatus[s.Name()] = StatusSkipped
	}
	var scannerErrors []string
	var findings []SecurityFinding

	if dir == "" {
		scannerErrors = append(scannerErrors,
			"Scan directory was not provided or could not be inferred; external scanners were skipped.")
	} else {
		// Scanners share nothing mutable beyond the read-only index, so they
		// run concurrently. Outcomes are slotted by scanner position to keep
		// merge order deterministic.
		outcomes := make([]Outcome, len(a.Scanners))
		var wg sync.WaitGroup
		for i, s := range a.Scanners {
			wg.Add(1)
			go func(i int, s Scanner) {
				defer wg.Done()
				start := time.Now()
				outcomes[i] = s.Scan(ctx, dir, index)
				log.WithFields(logrus.Fields{
					"scanner":  s.Name(),
					"status":   outcomes[i].Status,
					"findings": len(outcomes[i].Findings),
					"duration": time.Since(start).Round(time.Millisecond),
				}).Debug("scanner finished")
			}(i, s)
		}
		wg.Wait()

		for i, s := range a.Scanners {
			scannerStatus[s.Name()] = outcomes[i].Status
			findings = append(findings, outcomes[i].Findings...)
			if outcomes[i].Err != "" {
				scannerErrors = append(scannerErrors, outcomes[i].Err)
			}
		}
	}

	if a.Compliance != nil {
		for i := range findings {
			findings[i].Compliance = a.Compliance.Tags(findings[i])
		}
	}

	sortFindings(findings)

	byResource := make(map[string][]SecurityFinding)
	for _, f := range findings {
		byResource[f.Resource] = append(byResource[f.Resource], f)
	}

	bySeverity := map[Severity]int{
		SeverityCritical: 0,
		SeverityHigh:     0,
		SeverityMedium:   0,
		SeverityLow:      0,
	}
	for _, f := range findings {
		bySeverity[f.Severity]++
	}

	result := &AnalysisResult{
		FindingsCount:      len(findings),
		Findings:           findings,
		FindingsByResource: byResource,
		Score: SecurityScore{
			Score:      calculateScore(bySeverity),
			BySeverity: bySeverity,
		},
		ScannerStatus: scannerStatus,
		ScannerErrors: scannerErrors,
		Summary:       a.buildSummary(len(findings), scannerStatus, scannerErrors),
	}
	result.ReportMarkdown = RenderMarkdown(result)
	return result
}

func (a *Analyzer) buildSummary(count int, status map[string]Status, errs []string) string {
	parts := make([]string, 0, len(a.Scanners))
	for _, s := range a.Scanners {
		parts = append(parts, fmt.Sprintf("%s=%s", s.Name(), status[s.Name()]))
	}
	summary := fmt.Sprintf("Detected %d finding(s) from scanner libraries (%s).",
		count, strings.Join(parts, ", "))
	if len(errs) > 0 {
		summary = fmt.Sprintf("%s Scanner notes: %s", summary, strings.Join(errs, " | "))
	}
	return summary
}

func calculateScore(bySeverity map[Severity]int) int {
	penalty := 0
	for sev, count := range bySeverity {
		penalty += severityWeight[sev] * count
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// sortFindings orders severity-descending, then scanner name, then canonical
// resource id. Stable so that ties keep the deterministic merge order.
func sortFindings(findings []SecurityFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if severityRank[findings[i].Severity] != severityRank[findings[j].Severity] {
			return severityRank[findings[i].Severity] < severityRank[findings[j].Severity]
		}
		if findings[i].SourceLibrary != findings[j].SourceLibrary {
			return findings[i].SourceLibrary < findings[j].SourceLibrary
		}
		return findings[i].Resource < findings[j].Resource
	})
}

// resolveScanDir validates an explicit scan directory or, failing that,
// infers one when every resource file shares the same existing absolute
// parent directory. Returns "" when no directory can be established.
func resolveScanDir(resources []ResourceRecord, scanDir string) string {
	if scanDir != "" {
		abs, err := filepath.Abs(scanDir)
		if err != nil {
			return ""
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs
		}
		return ""
	}

	parents := make(map[string]struct{})
	for _, r := range resources {
		if !filepath.IsAbs(r.File) {
			continue
		}
		if _, err := os.Stat(r.File); err != nil {
			continue
		}
		parents[filepath.Dir(r.File)] = struct{}{}
	}
	if len(parents) == 1 {
		for dir := range parents {
			return dir
		}
	}
	return ""
}
