package engine

// Severity is the fixed severity scale shared by every scanner after
// normalization.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category buckets findings by the area of infrastructure they concern.
type Category string

const (
	CategoryIdentity   Category = "identity"
	CategoryNetwork    Category = "network"
	CategoryStorage    Category = "storage"
	CategoryCompute    Category = "compute"
	CategoryMonitoring Category = "monitoring"
	CategoryGeneral    Category = "general"
)

// Status is the per-scanner execution outcome.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusError       Status = "error"
	StatusSkipped     Status = "skipped"
)

// ResourceRecord is a declared Terraform resource as produced by the parser.
// The engine only reads it.
type ResourceRecord struct {
	File         string         `json:"file"`
	ResourceType string         `json:"resource_type"`
	ResourceName string         `json:"resource_name"`
	Config       map[string]any `json:"config"`
}

// CanonicalID returns the stable key used to group findings per resource.
func (r ResourceRecord) CanonicalID() string {
	return r.ResourceType + "." + r.ResourceName
}

// SecurityFinding is the normalized finding emitted by every scanner adapter.
type SecurityFinding struct {
	Resource       string   `json:"resource"`
	ResourceType   string   `json:"resource_type"`
	ResourceName   string   `json:"resource_name"`
	File           string   `json:"file"`
	Severity       Severity `json:"severity"`
	Category       Category `json:"category"`
	SourceLibrary  string   `json:"source_library"`
	Issue          string   `json:"issue"`
	Recommendation string   `json:"recommendation"`
	RuleID         string   `json:"rule_id"`
	Compliance     []string `json:"compliance"`
}

// Outcome captures one scanner's execution result. A scanner never aborts the
// run; failures are carried in Status and Err.
type Outcome struct {
	Status   Status
	Err      string
	Findings []SecurityFinding
}

// SecurityScore is the aggregate 0-100 score with its severity breakdown.
type SecurityScore struct {
	Score      int              `json:"score"`
	BySeverity map[Severity]int `json:"by_severity"`
}

// AnalysisResult is the complete output of one analysis run.
type AnalysisResult struct {
	FindingsCount      int                          `json:"findings_count"`
	Findings           []SecurityFinding            `json:"findings"`
	FindingsByResource map[string][]SecurityFinding `json:"findings_by_resource"`
	Score              SecurityScore                `json:"score"`
	ScannerStatus      map[string]Status            `json:"scanner_status"`
	ScannerErrors      []string                     `json:"scanner_errors"`
	Summary            string                       `json:"summary"`
	ReportMarkdown     string                       `json:"report_markdown"`
}
