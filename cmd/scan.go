package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/terrasight/pkg/config"
	"github.com/user/terrasight/pkg/engine"
	"github.com/user/terrasight/pkg/parser"
	"github.com/user/terrasight/pkg/wrappers"
)

var severityRank = map[string]int{
	"low":      1,
	"medium":   2,
	"high":     3,
	"critical": 4,
}

var (
	scanFailOn        string
	scanOutJSON       string
	scanOutMD         string
	scanDirOverride   string
	scanComplianceDir string
	scanBaseline      string
	scanSaveSnapshot  string
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a Terraform directory, .tf file, or .zip archive",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runScan(cmd, args[0]))
	},
}

func runScan(cmd *cobra.Command, targetArg string) int {
	target, err := filepath.Abs(targetArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return 2
	}
	if _, err := os.Stat(target); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Path not found: %s\n", target)
		return 2
	}

	resources, scanDir, err := loadResources(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return 2
	}
	if scanDirOverride != "" {
		scanDir = scanDirOverride
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
		return 3
	}

	analyzer := engine.Analyzer{Scanners: wrappers.DefaultScanners(cfg)}
	if scanComplianceDir != "" {
		compliance := engine.NewComplianceEngine()
		if err := compliance.LoadProfiles(scanComplianceDir); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
			return 3
		}
		fmt.Printf("Loaded compliance profiles: %s\n", strings.Join(compliance.Standards(), ", "))
		analyzer.Compliance = compliance
	}

	result := analyzer.Analyze(cmd.Context(), resources, scanDir)

	fmt.Println(result.Summary)
	fmt.Printf("Severity counts: critical=%d, high=%d, medium=%d, low=%d\n",
		result.Score.BySeverity[engine.SeverityCritical],
		result.Score.BySeverity[engine.SeverityHigh],
		result.Score.BySeverity[engine.SeverityMedium],
		result.Score.BySeverity[engine.SeverityLow])

	if scanOutJSON != "" {
		if err := writeJSONReport(scanOutJSON, result); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
			return 3
		}
		fmt.Printf("Wrote JSON report: %s\n", scanOutJSON)
	}
	if scanOutMD != "" {
		if err := os.WriteFile(scanOutMD, []byte(result.ReportMarkdown), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
			return 3
		}
		fmt.Printf("Wrote Markdown report: %s\n", scanOutMD)
	}

	if scanBaseline != "" {
		baseline, err := engine.LoadSnapshot(scanBaseline)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
			return 3
		}
		diff := engine.CompareSnapshot(result.Findings, baseline.Findings)
		fmt.Printf("Baseline comparison: %d new, %d fixed, %d unchanged\n",
			len(diff.New), len(diff.Fixed), len(diff.Unchanged))
		for _, f := range diff.New {
			fmt.Printf("  NEW   [%s] %s: %s\n", f.Severity, f.Resource, f.Issue)
		}
		for _, f := range diff.Fixed {
			fmt.Printf("  FIXED [%s] %s: %s\n", f.Severity, f.Resource, f.Issue)
		}
	}
	if scanSaveSnapshot != "" {
		if err := engine.SaveSnapshot(scanSaveSnapshot, result.Findings); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
			return 3
		}
		fmt.Printf("Saved snapshot: %s\n", scanSaveSnapshot)
	}

	if shouldFail(result.Findings, scanFailOn) {
		fmt.Printf("Policy gate failed: findings at or above '%s' were detected.\n", scanFailOn)
		return 1
	}
	return 0
}

// loadResources parses the scan target: a directory (scan dir is the
// directory itself), a .tf file (scan dir is its parent), or a .zip archive
// (no scan dir, so external scanners are skipped).
func loadResources(target string) ([]engine.ResourceRecord, string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, "", err
	}

	if info.IsDir() {
		resources, err := parser.ParseDirectory(target)
		return resources, target, err
	}

	switch filepath.Ext(target) {
	case ".tf":
		resources, err := parser.ParseFile(target)
		return resources, filepath.Dir(target), err
	case ".zip":
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, "", err
		}
		resources, err := parser.ParseZip(data)
		return resources, "", err
	}
	return nil, "", fmt.Errorf("target must be a Terraform directory, .tf file, or .zip archive")
}

func writeJSONReport(path string, result *engine.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func shouldFail(findings []engine.SecurityFinding, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	rank, ok := severityRank[threshold]
	if !ok {
		return false
	}
	for _, f := range findings {
		if severityRank[string(f.Severity)] >= rank {
			return true
		}
	}
	return false
}

func init() {
	scanCmd.Flags().StringVar(&scanFailOn, "fail-on", "none",
		"Fail with exit code 1 if any finding meets/exceeds this severity (none|low|medium|high|critical)")
	scanCmd.Flags().StringVar(&scanOutJSON, "out-json", "", "Write full security analysis to JSON file")
	scanCmd.Flags().StringVar(&scanOutMD, "out-md", "", "Write security report markdown file")
	scanCmd.Flags().StringVar(&scanDirOverride, "dir", "", "Explicit scan directory for the external scanners")
	scanCmd.Flags().StringVar(&scanComplianceDir, "compliance-dir", "", "Directory of YAML compliance profiles for finding tagging")
	scanCmd.Flags().StringVar(&scanBaseline, "baseline", "", "Compare findings against a saved snapshot")
	scanCmd.Flags().StringVar(&scanSaveSnapshot, "save-snapshot", "", "Save this run's findings as a snapshot")
	rootCmd.AddCommand(scanCmd)
}
