package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Snapshot is a persisted finding list from one analysis run, used to track
// posture drift between runs.
type Snapshot struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Findings    []SecurityFinding `json:"findings"`
}

// SnapshotDiff buckets the current run's findings against a baseline.
type SnapshotDiff struct {
	New       []SecurityFinding `json:"new"`
	Fixed     []SecurityFinding `json:"fixed"`
	Unchanged []SecurityFinding `json:"unchanged"`
}

// SaveSnapshot writes the findings of a run to a JSON file.
func SaveSnapshot(path string, findings []SecurityFinding) error {
	snap := Snapshot{
		GeneratedAt: time.Now().UTC(),
		Findings:    findings,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSnapshot reads a previously saved snapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %v", path, err)
	}
	return &snap, nil
}

// CompareSnapshot diffs the current findings against a baseline. Findings are
// identified by resource + rule id + source scanner.
func CompareSnapshot(current, baseline []SecurityFinding) SnapshotDiff {
	baselineKeys := make(map[string]bool, len(baseline))
	for _, f := range baseline {
		baselineKeys[findingKey(f)] = true
	}
	currentKeys := make(map[string]bool, len(current))
	for _, f := range current {
		currentKeys[findingKey(f)] = true
	}

	var diff SnapshotDiff
	for _, f := range current {
		if baselineKeys[findingKey(f)] {
			diff.Unchanged = append(diff.Unchanged, f)
		} else {
			diff.New = append(diff.New, f)
		}
	}
	for _, f := range baseline {
		if !currentKeys[findingKey(f)] {
			diff.Fixed = append(diff.Fixed, f)
		}
	}
	return diff
}

func findingKey(f SecurityFinding) string {
	return f.Resource + "|" + f.RuleID + "|" + f.SourceLibrary
}
