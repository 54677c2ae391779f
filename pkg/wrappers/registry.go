package wrappers

import (
	"github.com/user/terrasight/pkg/config"
	"github.com/user/terrasight/pkg/engine"
)

// DefaultScanners builds the adapter set for one analysis run, honoring the
// per-scanner toggles and the shared timeout from configuration.
func DefaultScanners(cfg *config.Config) []engine.Scanner {
	timeout := cfg.Timeout()
	all := []engine.Scanner{
		&CheckovWrapper{Timeout: timeout},
		&TfsecWrapper{Timeout: timeout},
		&TerrascanWrapper{Timeout: timeout},
	}
	scanners := make([]engine.Scanner, 0, len(all))
	for _, s := range all {
		if cfg.ScannerEnabled(s.Name()) {
			scanners = append(scanners, s)
		}
	}
	return scanners
}
