package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/user/terrasight/pkg/engine"
)

const defaultModel = "gemini-1.5-flash"

// GenerateLLMAdvice asks Gemini for contextual remediation guidance over the
// parsed resources and any scanner findings. Deterministic generation
// (temperature 0) so repeated runs over the same input stay comparable.
func GenerateLLMAdvice(ctx context.Context, apiKey, modelName string, resources []engine.ResourceRecord, findings []engine.SecurityFinding) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("no API key configured for provider gemini; run 'terrasight config set-key'")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	if modelName == "" {
		modelName = defaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(resources, findings)))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return out.String(), nil
}

func buildPrompt(resources []engine.ResourceRecord, findings []engine.SecurityFinding) string {
	var sb strings.Builder
	sb.WriteString("You are a cloud infrastructure security reviewer. ")
	sb.WriteString("Given the Terraform resources and scanner findings below, produce prioritized, ")
	sb.WriteString("concrete remediation guidance with Terraform snippets where useful.\n\nResources:\n")
	for _, r := range resources {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", r.CanonicalID(), r.File))
	}
	if len(findings) > 0 {
		sb.WriteString("\nFindings:\n")
		for _, f := range findings {
			sb.WriteString(fmt.Sprintf("- [%s] %s: %s (%s)\n", f.Severity, f.Resource, f.Issue, f.SourceLibrary))
		}
	}
	return sb.String()
}
