package engine

import "testing"

func TestNormalizeSeverity(t *testing.T) {
	cases := []struct {
		raw  string
		want Severity
	}{
		{"CRITICAL", SeverityCritical},
		{"very_high", SeverityCritical},
		{"HIGH", SeverityHigh},
		{"ERROR", SeverityHigh},
		{"Medium", SeverityMedium},
		{"moderate", SeverityMedium},
		{"WARNING", SeverityMedium},
		{"low", SeverityLow},
		{"foo", SeverityLow},
		{"", SeverityLow},
		{"  High  ", SeverityHigh},
	}
	for _, c := range cases {
		if got := NormalizeSeverity(c.raw); got != c.want {
			t.Errorf("NormalizeSeverity(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestDetectCategory(t *testing.T) {
	cases := []struct {
		resourceType string
		issue        string
		want         Category
	}{
		{"aws_security_group", "open ingress", CategoryNetwork},
		{"aws_iam_role", "wildcard actions", CategoryIdentity},
		{"aws_s3_bucket", "no encryption", CategoryStorage},
		{"aws_instance", "public vm", CategoryCompute},
		{"azurerm_monitor_diagnostic_setting", "missing retention", CategoryMonitoring},
		{"random_pet", "something odd", CategoryGeneral},
	}
	for _, c := range cases {
		if got := DetectCategory(c.resourceType, c.issue); got != c.want {
			t.Errorf("DetectCategory(%q, %q) = %s, want %s", c.resourceType, c.issue, got, c.want)
		}
	}
}

func TestDetectCategoryFirstBucketWins(t *testing.T) {
	// "iam" (identity) appears before "s3" (storage) in bucket order.
	if got := DetectCategory("aws_iam_policy", "allows access to s3 bucket"); got != CategoryIdentity {
		t.Errorf("expected identity to win, got %s", got)
	}
}
