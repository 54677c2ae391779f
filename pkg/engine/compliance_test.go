package engine

import (
	"os"
	"path/filepath"
	"testing"
)

const cisProfile = `standard: CIS
description: CIS benchmark mappings
rules:
  - control: "2.1.1"
    rule_ids:
      - "CKV_AWS_*"
  - control: "5.2"
    categories:
      - network
`

func writeProfile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestComplianceLoadAndTag(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "cis.yaml", cisProfile)
	writeProfile(t, dir, "notes.txt", "not a profile")

	ce := NewComplianceEngine()
	if err := ce.LoadProfiles(dir); err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	if got := ce.Standards(); len(got) != 1 || got[0] != "CIS" {
		t.Fatalf("unexpected standards: %v", got)
	}

	tags := ce.Tags(SecurityFinding{RuleID: "CKV_AWS_20", Category: CategoryStorage})
	if len(tags) != 1 || tags[0] != "CIS:2.1.1" {
		t.Errorf("expected rule-id prefix match, got %v", tags)
	}

	tags = ce.Tags(SecurityFinding{RuleID: "AVD-AWS-0107", Category: CategoryNetwork})
	if len(tags) != 1 || tags[0] != "CIS:5.2" {
		t.Errorf("expected category match, got %v", tags)
	}

	tags = ce.Tags(SecurityFinding{RuleID: "AVD-AWS-0107", Category: CategoryCompute})
	if len(tags) != 0 {
		t.Errorf("expected no tags, got %v", tags)
	}
}

func TestComplianceMultipleStandardsOrdered(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "nist.yml", `standard: NIST
rules:
  - control: AC-3
    categories: [identity]
`)
	writeProfile(t, dir, "cis.yaml", `standard: CIS
rules:
  - control: "1.4"
    categories: [identity]
`)

	ce := NewComplianceEngine()
	if err := ce.LoadProfiles(dir); err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}

	tags := ce.Tags(SecurityFinding{RuleID: "X", Category: CategoryIdentity})
	want := []string{"CIS:1.4", "NIST:AC-3"}
	if len(tags) != 2 || tags[0] != want[0] || tags[1] != want[1] {
		t.Errorf("expected tags in standard order %v, got %v", want, tags)
	}
}

func TestComplianceMissingDir(t *testing.T) {
	ce := NewComplianceEngine()
	if err := ce.LoadProfiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing profile directory")
	}
}
