package guide

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hampi-heritage/quest/backend/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// defaultModel is the generation model used when none is configured.
const defaultModel = "gemini-2.0-flash"

// GeminiClient calls the Gemini generateContent API over plain HTTP.
// It performs exactly one request per call: rate limiting (HTTP 429) is
// surfaced as domain.ErrRateLimited and never retried here.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

// NewGeminiClient constructs a client for the given API key.
// An empty key yields a client whose Generate always fails with a
// configuration error, keeping the rest of the API usable without a key.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// geminiContent mirrors the generateContent wire format.
type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the system prompt and conversation history upstream and
// returns the generated reply. The system prompt travels as a leading user
// turn followed by a canned model acknowledgement, which is the pattern the
// generateContent API expects for models without a system role.
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("guide.GeminiClient.Generate: API key is not configured")
	}

	contents := make([]geminiContent, 0, len(history)+2)
	contents = append(contents,
		geminiContent{Role: "user", Parts: []geminiPart{{Text: systemPrompt}}},
		geminiContent{Role: "model", Parts: []geminiPart{{Text: "Understood. I am Hampi Guide, ready to help plan the trip."}}},
	)
	for _, m := range history {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}

	reqBody := geminiRequest{Contents: contents}
	reqBody.GenerationConfig.Temperature = 0.7
	reqBody.GenerationConfig.MaxOutputTokens = 1024

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("guide.GeminiClient.Generate: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("guide.GeminiClient.Generate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("guide.GeminiClient.Generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("guide.GeminiClient.Generate: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("guide.GeminiClient.Generate: upstream status %d: %s", resp.StatusCode, body)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("guide.GeminiClient.Generate: decode: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("guide.GeminiClient.Generate: empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
