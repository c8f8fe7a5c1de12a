package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/clinsight/compliance-review/internal/types"
)

// Default configuration values for the Azure adapter.
const (
	DefaultAzureDeployment = "gpt-4o"
	DefaultAzureAPIVersion = "2024-06-01"
	DefaultDocIntelVersion = "2024-11-30"
	DefaultAzureTimeout    = 120 * time.Second
	azureRequestsPerSecond = 4.0
	azureBurstSize         = 8
	docIntelPollInterval   = 500 * time.Millisecond
)

// binaryFormats are document formats routed through text extraction before
// analysis. Content for these formats is base64-encoded.
var binaryFormats = map[string]bool{
	"pdf":  true,
	"docx": true,
	"tiff": true,
	"png":  true,
	"jpeg": true,
	"jpg":  true,
}

// AzureConfig holds configuration for the Azure adapter.
type AzureConfig struct {
	// OpenAIEndpoint is the Azure OpenAI resource endpoint (required),
	// e.g. https://myresource.openai.azure.com.
	OpenAIEndpoint string

	// APIKey is the Azure OpenAI API key (required).
	APIKey string

	// Deployment is the chat-completions deployment name (default: gpt-4o).
	Deployment string

	// APIVersion is the Azure OpenAI API version (default: 2024-06-01).
	APIVersion string

	// DocIntelEndpoint and DocIntelKey configure the Document Intelligence
	// text-extraction step. Optional; without them binary-format documents
	// are analysed as-is.
	DocIntelEndpoint string
	DocIntelKey      string

	// Timeout is the per-call request timeout (default: 120s).
	Timeout time.Duration
}

// LoadAzureConfig reads the Azure adapter configuration from the
// AZURE_* environment namespace.
func LoadAzureConfig() AzureConfig {
	return AzureConfig{
		OpenAIEndpoint:   strings.TrimRight(os.Getenv("AZURE_OPENAI_ENDPOINT"), "/"),
		APIKey:           os.Getenv("AZURE_OPENAI_API_KEY"),
		Deployment:       os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		APIVersion:       os.Getenv("AZURE_OPENAI_API_VERSION"),
		DocIntelEndpoint: strings.TrimRight(os.Getenv("AZURE_DOCINTEL_ENDPOINT"), "/"),
		DocIntelKey:      os.Getenv("AZURE_DOCINTEL_API_KEY"),
	}
}

// AzureAnalyzer implements Analyzer using Azure OpenAI chat completions, with
// an optional Document Intelligence extraction stage for binary formats.
type AzureAnalyzer struct {
	client  *http.Client
	cfg     AzureConfig
	limiter *rate.Limiter
}

// NewAzureAnalyzer creates an Azure-backed analyzer.
func NewAzureAnalyzer(cfg AzureConfig) (*AzureAnalyzer, error) {
	if cfg.OpenAIEndpoint == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT environment variable is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_API_KEY environment variable is required")
	}
	if cfg.Deployment == "" {
		cfg.Deployment = DefaultAzureDeployment
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAzureAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultAzureTimeout
	}

	return &AzureAnalyzer{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(azureRequestsPerSecond), azureBurstSize),
	}, nil
}

// Name returns the provider name.
func (a *AzureAnalyzer) Name() string { return NameAzure }

// Close releases idle connections.
func (a *AzureAnalyzer) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

// Analyze runs one compliance analysis against Azure. Binary-format
// documents pass through Document Intelligence first; their issues are
// re-based onto the submitted content by quoted text, and findings whose
// quote does not occur in the submitted content are dropped so that every
// returned issue keeps the offset invariant.
func (a *AzureAnalyzer) Analyze(ctx context.Context, doc types.Document, ref types.ComplianceReference) ([]types.Issue, error) {
	if doc.Content == "" {
		return nil, nil
	}

	analysed := doc
	extracted := false
	if binaryFormats[strings.ToLower(doc.Format)] && a.cfg.DocIntelEndpoint != "" {
		text, err := a.extractText(ctx, doc)
		if err != nil {
			return nil, err
		}
		analysed.Content = text
		extracted = true
	}

	raw, err := a.chatCompletion(ctx, BuildAnalysisPrompt(analysed, ref))
	if err != nil {
		return nil, err
	}

	issues, err := decodeIssueList(NameAzure, raw)
	if err != nil {
		return nil, err
	}

	if extracted {
		issues = rebaseIssues(doc.Content, issues)
	}
	return issues, nil
}

// rebaseIssues maps issues produced against extracted text back onto the
// original content by locating each quoted text. Quotes not present in the
// original are dropped.
func rebaseIssues(content string, issues []types.Issue) []types.Issue {
	out := make([]types.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.QuotedText == "" {
			continue
		}
		start := strings.Index(content, issue.QuotedText)
		if start < 0 {
			continue
		}
		issue.Offset = types.Offset{Start: start, End: start + len(issue.QuotedText)}
		out = append(out, issue)
	}
	return out
}

// chatCompletionRequest is the Azure OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionResponse is the Azure OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// chatCompletion calls the configured Azure OpenAI deployment.
func (a *AzureAnalyzer) chatCompletion(ctx context.Context, prompt string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", &UpstreamUnavailableError{Provider: NameAzure, Err: err}
	}

	reqBody := chatCompletionRequest{
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    0.1,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &AdapterError{Provider: NameAzure, Err: err}
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		a.cfg.OpenAIEndpoint, a.cfg.Deployment, a.cfg.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &AdapterError{Provider: NameAzure, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.cfg.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &UpstreamUnavailableError{Provider: NameAzure, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamUnavailableError{Provider: NameAzure, Err: err}
	}

	if err := a.classifyStatus(resp.StatusCode, body); err != nil {
		return "", err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", &UpstreamRejectedError{Provider: NameAzure, Reason: "completion response is not valid JSON", Err: err}
	}
	if completion.Error != nil {
		return "", &AdapterError{Provider: NameAzure, Err: fmt.Errorf("%s: %s", completion.Error.Code, completion.Error.Message)}
	}
	if len(completion.Choices) == 0 {
		return "", &UpstreamRejectedError{Provider: NameAzure, Reason: "no choices in completion response"}
	}

	return completion.Choices[0].Message.Content, nil
}

// classifyStatus maps a non-success HTTP status onto the error taxonomy.
func (a *AzureAnalyzer) classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK || status == http.StatusAccepted:
		return nil
	case status == http.StatusTooManyRequests:
		return &QuotaExceededError{Provider: NameAzure, Err: fmt.Errorf("HTTP 429: %s", truncate(body))}
	case status >= 500:
		return &UpstreamUnavailableError{Provider: NameAzure, Err: fmt.Errorf("HTTP %d: %s", status, truncate(body))}
	default:
		return &AdapterError{Provider: NameAzure, Err: fmt.Errorf("HTTP %d: %s", status, truncate(body))}
	}
}

// truncate limits an error body to a loggable size.
func truncate(body []byte) string {
	const max = 256
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// analyzeResultResponse is the Document Intelligence poll response format.
type analyzeResultResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Content string `json:"content"`
	} `json:"analyzeResult"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// extractText submits a binary document to the Document Intelligence
// prebuilt-read model and polls the analysis operation until it completes.
// Document content is expected to be base64-encoded for binary formats.
func (a *AzureAnalyzer) extractText(ctx context.Context, doc types.Document) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", &UpstreamUnavailableError{Provider: NameAzure, Err: err}
	}

	payload, err := json.Marshal(map[string]string{"base64Source": doc.Content})
	if err != nil {
		return "", &AdapterError{Provider: NameAzure, Err: err}
	}

	url := fmt.Sprintf("%s/documentintelligence/documentModels/prebuilt-read:analyze?api-version=%s",
		a.cfg.DocIntelEndpoint, DefaultDocIntelVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &AdapterError{Provider: NameAzure, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.cfg.DocIntelKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &UpstreamUnavailableError{Provider: NameAzure, Err: err}
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err := a.classifyStatus(resp.StatusCode, body); err != nil {
		return "", err
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", &UpstreamRejectedError{Provider: NameAzure, Reason: "analyze accepted without Operation-Location"}
	}

	return a.pollExtraction(ctx, operationURL)
}

// pollExtraction polls the analysis operation until it succeeds, fails, or
// the context expires.
func (a *AzureAnalyzer) pollExtraction(ctx context.Context, operationURL string) (string, error) {
	ticker := time.NewTicker(docIntelPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", &UpstreamUnavailableError{Provider: NameAzure, Err: ctx.Err()}
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return "", &AdapterError{Provider: NameAzure, Err: err}
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", a.cfg.DocIntelKey)

		resp, err := a.client.Do(req)
		if err != nil {
			return "", &UpstreamUnavailableError{Provider: NameAzure, Err: err}
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err := a.classifyStatus(resp.StatusCode, body); err != nil {
			return "", err
		}

		var result analyzeResultResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return "", &UpstreamRejectedError{Provider: NameAzure, Reason: "analyze result is not valid JSON", Err: err}
		}

		switch result.Status {
		case "succeeded":
			return result.AnalyzeResult.Content, nil
		case "failed":
			reason := "document analysis failed"
			if result.Error != nil {
				reason = fmt.Sprintf("document analysis failed: %s: %s", result.Error.Code, result.Error.Message)
			}
			return "", &UpstreamRejectedError{Provider: NameAzure, Reason: reason}
		}
		// "running" or "notStarted": keep polling.
	}
}
