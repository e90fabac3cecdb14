// server/internal/ai/mistral/client.go
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vetiver-carbon-api-server/config"
)

const (
	defaultBaseURL     = "https://api.mistral.ai"
	conversationPath   = "/v1/conversations"
	defaultHTTPTimeout = 30 * time.Second
)

type Client struct {
	apiKey  string
	agentID string
	baseURL string
	http    *http.Client
}

type ConversationRequest struct {
	AgentID string      `json:"agent_id"`
	Inputs  interface{} `json:"inputs"`
}

type ConversationResponse struct {
	ID      string               `json:"id"`
	Object  string               `json:"object"`
	Status  string               `json:"status"`
	Message ConversationPiece    `json:"message"`
	Outputs []ConversationOutput `json:"outputs"`
	Output  any                  `json:"output"`
}

type ConversationPiece struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type ConversationOutput struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"`
	Role    string              `json:"role"`
	Content []ConversationChunk `json:"content"`
}

type ConversationChunk struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewClient(cfg config.MistralConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("mistral apiKey is not configured")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		agentID: cfg.AgentID,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}, nil
}

func (c *Client) SendConversation(ctx context.Context, prompt string) (*ConversationResponse, error) {
	if c.agentID == "" {
		return nil, errors.New("mistral agentID is not configured")
	}
	payload := ConversationRequest{
		AgentID: c.agentID,
		Inputs:  prompt,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+conversationPath, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mistral conversation status %d", resp.StatusCode)
	}

	var out ConversationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FirstText returns the first non-empty text chunk of the response.
func (r *ConversationResponse) FirstText() string {
	if r == nil {
		return ""
	}
	if r.Message.Content != "" {
		return r.Message.Content
	}
	for _, out := range r.Outputs {
		for _, chunk := range out.Content {
			if chunk.Text != "" {
				return chunk.Text
			}
		}
	}
	if text, ok := r.Output.(string); ok && text != "" {
		return text
	}
	return ""
}
