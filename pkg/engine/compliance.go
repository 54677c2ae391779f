package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ComplianceRule matches findings onto one framework control. A finding
// matches when its rule id matches any pattern (exact, or prefix when the
// pattern ends with '*'), or when its category is listed.
type ComplianceRule struct {
	Control    string   `yaml:"control"`
	RuleIDs    []string `yaml:"rule_ids"`
	Categories []string `yaml:"categories"`
}

// ComplianceProfile represents one framework (e.g. CIS, NIST).
type ComplianceProfile struct {
	Standard    string           `yaml:"standard"`
	Description string           `yaml:"description"`
	Rules       []ComplianceRule `yaml:"rules"`
}

// ComplianceEngine tags findings with framework controls from loaded
// profiles. With no profiles loaded, adapters' empty compliance lists are
// left untouched.
type ComplianceEngine struct {
	Profiles map[string]ComplianceProfile
}

// NewComplianceEngine creates an empty engine.
func NewComplianceEngine() *ComplianceEngine {
	return &ComplianceEngine{Profiles: make(map[string]ComplianceProfile)}
}

// LoadProfiles reads YAML profiles from a directory.
func (e *ComplianceEngine) LoadProfiles(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		var p ComplianceProfile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("failed to parse %s: %v", entry.Name(), err)
		}
		e.Profiles[p.Standard] = p
	}
	return nil
}

// Standards returns the loaded standard names in sorted order.
func (e *ComplianceEngine) Standards() []string {
	keys := make([]string, 0, len(e.Profiles))
	for k := range e.Profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tags returns the ordered "STANDARD:control" tags matching a finding.
func (e *ComplianceEngine) Tags(f SecurityFinding) []string {
	tags := []string{}
	for _, standard := range e.Standards() {
		for _, rule := range e.Profiles[standard].Rules {
			if ruleMatches(rule, f) {
				tags = append(tags, standard+":"+rule.Control)
			}
		}
	}
	return tags
}

func ruleMatches(rule ComplianceRule, f SecurityFinding) bool {
	for _, pattern := range rule.RuleIDs {
		if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(f.RuleID, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		} else if f.RuleID == pattern {
			return true
		}
	}
	for _, cat := range rule.Categories {
		if Category(strings.ToLower(cat)) == f.Category {
			return true
		}
	}
	return false
}
