package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GroqClient implements the Client interface for Groq models.
// Groq exposes an OpenAI-compatible API.
type GroqClient struct {
	config     Config
	httpClient *http.Client
}

// NewGroqClient creates a new Groq client.
func NewGroqClient(config Config) *GroqClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.groq.com"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GroqClient{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// groqRequest represents the request structure for the Groq API.
type groqRequest struct {
	Model          string              `json:"model"`
	Messages       []groqMessage       `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature"`
	Stream         bool                `json:"stream"`
	ResponseFormat *groqResponseFormat `json:"response_format,omitempty"`
}

type groqResponseFormat struct {
	Type string `json:"type"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []groqChoice `json:"choices"`
	Usage   *groqUsage   `json:"usage,omitempty"`
	Error   *groqError   `json:"error,omitempty"`
}

type groqChoice struct {
	Index        int         `json:"index"`
	Message      groqMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type groqUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type groqError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Chat implements the Client interface for Groq.
func (g *GroqClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	return g.chat(ctx, messages, false)
}

// ChatWithStructuredOutput implements structured output for Groq using its
// OpenAI-compatible JSON mode.
func (g *GroqClient) ChatWithStructuredOutput(ctx context.Context, messages []Message, schema any) (json.RawMessage, error) {
	resp, err := g.chat(ctx, appendSchemaInstruction(messages, schema), true)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Content), nil
}

// Close cleans up resources (no-op for Groq client).
func (g *GroqClient) Close() error {
	return nil
}

func (g *GroqClient) chat(ctx context.Context, messages []Message, jsonMode bool) (*Response, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	groqMessages := make([]groqMessage, 0, len(messages))
	for _, msg := range messages {
		groqMessages = append(groqMessages, groqMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	req := groqRequest{
		Model:       g.config.Model,
		Messages:    groqMessages,
		MaxTokens:   g.config.MaxTokens,
		Temperature: float64(g.config.Temperature),
		Stream:      false,
	}
	if jsonMode {
		req.ResponseFormat = &groqResponseFormat{Type: "json_object"}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.config.BaseURL+"/openai/v1/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groq API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(body, &groqResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if groqResp.Error != nil {
		return nil, fmt.Errorf("groq API error: %s", groqResp.Error.Message)
	}

	if len(groqResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	out := &Response{
		Content:      groqResp.Choices[0].Message.Content,
		FinishReason: groqResp.Choices[0].FinishReason,
	}
	if groqResp.Usage != nil {
		out.TokensUsed = &TokenUsage{
			PromptTokens:     groqResp.Usage.PromptTokens,
			CompletionTokens: groqResp.Usage.CompletionTokens,
			TotalTokens:      groqResp.Usage.TotalTokens,
		}
	}
	return out, nil
}
