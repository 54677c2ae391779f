package advisor

import (
	"fmt"
	"strings"

	"github.com/user/terrasight/pkg/engine"
)

// AdviceItem is one best-practice recommendation tied to a resource.
type AdviceItem struct {
	RuleID           string `json:"rule_id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	ResourceType     string `json:"resource_type"`
	ResourceName     string `json:"resource_name"`
	File             string `json:"file"`
	Problem          string `json:"problem"`
	Suggestion       string `json:"suggestion"`
	TerraformExample string `json:"terraform_example,omitempty"`
}

// AdviceResponse is the advisor's full output.
type AdviceResponse struct {
	AdvisorMode string       `json:"advisor_mode"`
	Summary     string       `json:"summary"`
	AdviceCount int          `json:"advice_count"`
	Advice      []AdviceItem `json:"advice"`
}

// BuildAdvice applies the static rule set directly to resource configuration.
// No cross-source reconciliation happens here; each rule only inspects the
// declared attributes of one resource.
func BuildAdvice(resources []engine.ResourceRecord) AdviceResponse {
	advice := rulesBasedAdvice(resources)

	types := make(map[string]bool)
	for _, r := range resources {
		types[r.ResourceType] = true
	}

	return AdviceResponse{
		AdvisorMode: "rules",
		Summary: fmt.Sprintf(
			"Generated %d recommendation(s) from %d resource(s) across %d resource type(s).",
			len(advice), len(resources), len(types)),
		AdviceCount: len(advice),
		Advice:      advice,
	}
}

func rulesBasedAdvice(resources []engine.ResourceRecord) []AdviceItem {
	var advice []AdviceItem

	for _, resource := range resources {
		cfg := resource.Config

		switch resource.ResourceType {
		case "aws_security_group":
			for _, ingress := range asList(cfg["ingress"]) {
				block, ok := ingress.(map[string]any)
				if !ok {
					continue
				}
				if containsOpenCIDR(block["cidr_blocks"]) {
					advice = append(advice, AdviceItem{
						RuleID:       "AWS.SG.OPEN_INGRESS",
						Title:        "Avoid open ingress from the internet",
						Category:     "security",
						Priority:     "high",
						ResourceType: resource.ResourceType,
						ResourceName: resource.ResourceName,
						File:         resource.File,
						Problem:      "Security group ingress allows 0.0.0.0/0.",
						Suggestion: "Restrict ingress CIDRs to known internal ranges or trusted source IPs. " +
							"If public access is required, limit by port and add WAF/reverse proxy controls.",
						TerraformExample: "ingress {\n  cidr_blocks = [\"10.0.0.0/16\"]\n  from_port = 443\n  to_port = 443\n  protocol = \"tcp\"\n}",
					})
				}
			}

		case "aws_s3_bucket":
			acl := strings.ToLower(strings.TrimSpace(asString(cfg["acl"])))
			if acl == "public-read" || acl == "public-read-write" || acl == "website" {
				advice = append(advice, AdviceItem{
					RuleID:       "AWS.S3.PUBLIC_ACL",
					Title:        "Prevent public S3 ACLs",
					Category:     "security",
					Priority:     "high",
					ResourceType: resource.ResourceType,
					ResourceName: resource.ResourceName,
					File:         resource.File,
					Problem:      fmt.Sprintf("S3 ACL is public (%s).", acl),
					Suggestion: "Use private ACL and enforce account-level/public-access block settings. " +
						"Serve public content through CloudFront with origin access control.",
					TerraformExample: `acl = "private"`,
				})
			}

		case "aws_instance":
			if _, ok := cfg["monitoring"]; !ok {
				advice = append(advice, AdviceItem{
					RuleID:       "AWS.EC2.MONITORING",
					Title:        "Enable EC2 detailed monitoring",
					Category:     "operations",
					Priority:     "medium",
					ResourceType: resource.ResourceType,
					ResourceName: resource.ResourceName,
					File:         resource.File,
					Problem:      "EC2 detailed monitoring is not configured.",
					Suggestion: "Enable detailed monitoring for better observability and alert " +
						"quality.",
					TerraformExample: "monitoring = true",
				})
			}
			if instanceType, ok := cfg["instance_type"]; ok && strings.HasPrefix(asString(instanceType), "t2.") {
				advice = append(advice, AdviceItem{
					RuleID:       "AWS.EC2.INSTANCE_FAMILY",
					Title:        "Consider newer generation instance families",
					Category:     "cost",
					Priority:     "low",
					ResourceType: resource.ResourceType,
					ResourceName: resource.ResourceName,
					File:         resource.File,
					Problem:      "Legacy burstable family detected (t2.*).",
					Suggestion: "Evaluate t3/t4g or right-sized alternatives for improved " +
						"cost/performance.",
					TerraformExample: `instance_type = "t3.micro"`,
				})
			}

		case "azurerm_storage_account":
			if httpsOnly, ok := cfg["enable_https_traffic_only"].(bool); !ok || !httpsOnly {
				advice = append(advice, AdviceItem{
					RuleID:           "AZURE.STORAGE.HTTPS_ONLY",
					Title:            "Force HTTPS traffic for storage",
					Category:         "security",
					Priority:         "high",
					ResourceType:     resource.ResourceType,
					ResourceName:     resource.ResourceName,
					File:             resource.File,
					Problem:          "Storage account does not explicitly enforce HTTPS-only traffic.",
					Suggestion:       "Set enable_https_traffic_only to true.",
					TerraformExample: "enable_https_traffic_only = true",
				})
			}

		case "google_storage_bucket":
			if uniform, ok := cfg["uniform_bucket_level_access"].(bool); !ok || !uniform {
				advice = append(advice, AdviceItem{
					RuleID:       "GCP.GCS.UNIFORM_ACCESS",
					Title:        "Use uniform bucket-level access",
					Category:     "security",
					Priority:     "medium",
					ResourceType: resource.ResourceType,
					ResourceName: resource.ResourceName,
					File:         resource.File,
					Problem:      "Uniform bucket-level access is not enabled.",
					Suggestion: "Enable uniform_bucket_level_access to simplify and harden access " +
						"controls.",
					TerraformExample: "uniform_bucket_level_access = true",
				})
			}
		}
	}

	if len(advice) > 0 {
		return advice
	}

	// Baseline guidance so advisor mode always produces actionable output.
	for _, resource := range resources {
		advice = append(advice, AdviceItem{
			RuleID:       "GEN.BASELINE.TAGGING",
			Title:        "Add consistent tags/labels for ownership and cost tracking",
			Category:     "operations",
			Priority:     "low",
			ResourceType: resource.ResourceType,
			ResourceName: resource.ResourceName,
			File:         resource.File,
			Problem:      "No specific best-practice rule was triggered for this resource.",
			Suggestion: "Apply standard metadata tags (owner, environment, service, cost-center) " +
				"to improve governance, automation, and reporting.",
			TerraformExample: `tags = { owner = "platform", environment = "dev", service = "example" }`,
		})
	}
	return advice
}

func asList(value any) []any {
	if value == nil {
		return nil
	}
	if list, ok := value.([]any); ok {
		return list
	}
	return []any{value}
}

func asString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func containsOpenCIDR(values any) bool {
	for _, v := range asList(values) {
		if strings.TrimSpace(asString(v)) == "0.0.0.0/0" {
			return true
		}
	}
	return false
}
