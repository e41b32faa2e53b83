package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"resgen.org/internal/apperr"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Client calls the text-generation collaborator. Any failure on this path is
// a BadGateway: the generation service is downstream of us.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

// ClientOption configures Client behavior.
type ClientOption func(*Client)

// WithEndpoint overrides the completion endpoint (used by tests).
func WithEndpoint(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a generation client for the given key and model.
func NewClient(apiKey, model string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate submits the candidate data and returns the parsed resume plus the
// raw JSON body the model produced.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*Resume, string, error) {
	input, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "internal error", err)
	}

	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPromptPrefix + string(input)},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "ResumeSchema",
				"strict": true,
				"schema": responseSchema,
			},
		},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "internal error", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "internal error", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.BadGateway, "error from model", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", apperr.New(apperr.BadGateway, fmt.Sprintf("error from model: %s", resp.Status))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", apperr.Wrap(apperr.BadGateway, "error from model", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return nil, "", apperr.New(apperr.BadGateway, "no output from model")
	}

	body := out.Choices[0].Message.Content
	var result Resume
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, "", apperr.Wrap(apperr.BadGateway, "model returned invalid JSON", err)
	}
	return &result, body, nil
}
