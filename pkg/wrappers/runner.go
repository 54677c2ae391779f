package wrappers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/user/terrasight/pkg/engine"
)

// Sentinel exit codes, distinguishable from any scanner-specific code.
const (
	exitCommandNotFound = 127
	exitTimeout         = 124
)

const defaultTimeout = 300 * time.Second

var log = logrus.WithField("component", "wrappers")

// runCommand executes an external scanner with a bounded timeout, returning
// exit code plus trimmed stdout and stderr. It never returns an error: start
// failures and timeouts are encoded as sentinel exit codes with a descriptive
// stderr. Cancellation of ctx terminates the subprocess.
func runCommand(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (int, string, string) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.WithFields(logrus.Fields{"cmd": name, "args": strings.Join(args, " ")}).Debug("invoking scanner")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return exitTimeout, strings.TrimSpace(stdout.String()),
			fmt.Sprintf("Command timed out after %s: %s %s", timeout, name, strings.Join(args, " "))
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String())
		}
		return exitCommandNotFound, strings.TrimSpace(stdout.String()),
			fmt.Sprintf("Command could not be started: %s (%v)", name, err)
	}
	return 0, strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String())
}

// decodeLenient parses scanner stdout that is not always strictly valid JSON:
// tools emit log noise before or after the payload. First a strict parse,
// then a retry on the outermost {...} span. Returns false when nothing usable
// is recoverable; callers treat that as zero findings, since a scanner that
// legitimately found nothing is indistinguishable from noisy-but-empty
// output.
func decodeLenient(raw string, v any) bool {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return false
	}
	if json.Unmarshal([]byte(payload), v) == nil {
		return true
	}
	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start == -1 || end == -1 || end <= start {
		return false
	}
	if json.Unmarshal([]byte(payload[start:end+1]), v) == nil {
		log.Debug("recovered JSON payload from noisy scanner output")
		return true
	}
	return false
}

// firstNonEmpty returns the first non-empty candidate, so missing optional
// scanner fields degrade to placeholder text instead of rejecting the item.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// newFinding resolves the raw resource reference through the shared
// reconciler and assembles the normalized finding. The compliance list is
// always empty at the adapter boundary.
func newFinding(index *engine.ResourceIndex, source, rawResource, rawFile, rawSeverity, issue, recommendation, ruleID string) engine.SecurityFinding {
	id, resourceType, resourceName, file := index.Resolve(rawResource, rawFile)
	return engine.SecurityFinding{
		Resource:       id,
		ResourceType:   resourceType,
		ResourceName:   resourceName,
		File:           file,
		Severity:       engine.NormalizeSeverity(rawSeverity),
		Category:       engine.DetectCategory(resourceType, issue),
		SourceLibrary:  source,
		Issue:          issue,
		Recommendation: recommendation,
		RuleID:         ruleID,
		Compliance:     []string{},
	}
}
