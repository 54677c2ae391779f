package engine

import "strings"

// Severity tokens vary per scanner; each bucket lists the native tokens that
// map onto it. Tables are fixed at compile time and never mutated.
var severityBuckets = []struct {
	severity Severity
	tokens   []string
}{
	{SeverityCritical, []string{"critical", "very_high"}},
	{SeverityHigh, []string{"high", "error"}},
	{SeverityMedium, []string{"medium", "moderate", "warning"}},
}

var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryIdentity, []string{"role", "identity", "rbac", "iam", "principal"}},
	{CategoryNetwork, []string{"nsg", "network", "inbound", "egress", "firewall", "public ip"}},
	{CategoryStorage, []string{"storage", "blob", "s3", "bucket"}},
	{CategoryCompute, []string{"vm", "compute", "container", "kubernetes", "disk"}},
	{CategoryMonitoring, []string{"monitor", "log", "diagnostic", "alert"}},
}

// NormalizeSeverity maps a scanner's native severity token onto the fixed
// scale. Unrecognized or empty tokens fall through to low.
func NormalizeSeverity(raw string) Severity {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, bucket := range severityBuckets {
		for _, token := range bucket.tokens {
			if text == token {
				return bucket.severity
			}
		}
	}
	return SeverityLow
}

// DetectCategory classifies a finding from keywords in the resource type and
// issue text. First matching bucket wins; the default is general.
func DetectCategory(resourceType, issue string) Category {
	key := strings.ToLower(resourceType + " " + issue)
	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(key, kw) {
				return bucket.category
			}
		}
	}
	return CategoryGeneral
}
