package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/clinsight/compliance-review/internal/types"
)

// defaultGeminiModel is used unless GEMINI_MODEL overrides it.
const defaultGeminiModel = "gemini-2.5-flash"

// GeminiAnalyzer implements Analyzer using Google Gemini. The multimodal
// model receives the prompt directly and returns structured issues as JSON.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer. The API key comes from
// GEMINI_API_KEY.
func NewGeminiAnalyzer(ctx context.Context) (*GeminiAnalyzer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Name returns the provider name.
func (a *GeminiAnalyzer) Name() string { return NameGemini }

// Close releases resources held by the underlying client.
func (a *GeminiAnalyzer) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// Analyze runs one compliance analysis against Gemini.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, doc types.Document, ref types.ComplianceReference) ([]types.Issue, error) {
	if doc.Content == "" {
		return nil, nil
	}

	model := a.client.GenerativeModel(a.model)
	model.SetTemperature(0.1) // low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	prompt := BuildAnalysisPrompt(doc, ref)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, a.classifyError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &UpstreamRejectedError{Provider: NameGemini, Reason: "no usable candidate in response", Err: err}
	}

	return decodeIssueList(NameGemini, text)
}

// classifyError maps a Gemini call failure onto the adapter error taxonomy.
func (a *GeminiAnalyzer) classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &UpstreamUnavailableError{Provider: NameGemini, Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return &QuotaExceededError{Provider: NameGemini, Err: err}
		case apiErr.Code >= 500:
			return &UpstreamUnavailableError{Provider: NameGemini, Err: err}
		}
		return &AdapterError{Provider: NameGemini, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &UpstreamUnavailableError{Provider: NameGemini, Err: err}
	}

	return &AdapterError{Provider: NameGemini, Err: err}
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
