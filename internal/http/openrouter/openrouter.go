package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// Trailing slash matters: endpoints resolve relative to this path.
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1/"
)

// Client handles communication with the OpenRouter chat completions API.
type Client struct {
	BaseURL    *url.URL
	APIKey     string
	Model      string
	SiteURL    string
	SiteName   string
	HTTPClient *http.Client
}

// NewClient creates a new OpenRouter API client with default timeout.
func NewClient(apiKey, model string) *Client {
	baseURL, _ := url.Parse(defaultOpenRouterBaseURL)
	return &Client{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Model:    model,
		SiteURL:  "https://citydashboard.innodatatics.com",
		SiteName: "City Dashboard",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// --- Chat Completion Structures ---

type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a single-turn user prompt and returns the trimmed assistant
// reply. An empty reply is reported as an error so callers can fall back.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload := ChatCompletionRequest{
		Model: c.Model,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshal completion request")
	}

	rel, _ := url.Parse("chat/completions")
	reqURL := c.BaseURL.ResolveReference(rel).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", errors.Wrap(err, "create completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	// OpenRouter attribution headers
	req.Header.Set("HTTP-Referer", c.SiteURL)
	req.Header.Set("X-Title", c.SiteName)

	var result ChatCompletionResponse
	if err := c.do(req, &result); err != nil {
		return "", errors.Wrap(err, "execute completion request")
	}

	if result.Error != nil {
		return "", fmt.Errorf("openrouter error %d: %s", result.Error.Code, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("completion returned empty content")
	}
	return content, nil
}

// do executes HTTP requests and decodes JSON responses.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}
