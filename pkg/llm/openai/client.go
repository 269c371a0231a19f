package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/user/groqcli/pkg/llm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultTimeout applies when the config does not set one.
const DefaultTimeout = 60 * time.Second

// Client implements the llm.Provider interface for OpenAI-compatible APIs
// such as Groq.
type Client struct {
	config     *llm.Config
	httpClient *http.Client
}

// New creates a new OpenAI-compatible client with the given configuration.
func New(config *llm.Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []requestMessage `json:"messages"`
	Temperature *float32         `json:"temperature,omitempty"`
	MaxTokens   int              `json:"max_completion_tokens,omitempty"`
	TopP        *float32         `json:"top_p,omitempty"`
	Stream      bool             `json:"stream"`
	Stop        []string         `json:"stop,omitempty"`
}

// requestMessage carries either a string or a parts array as content.
type requestMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// chatResponse is the chat completions response body.
type chatResponse struct {
	ID      string        `json:"id"`
	Model   string        `json:"model"`
	Choices []choice      `json:"choices"`
	Usage   responseUsage `json:"usage"`
}

type choice struct {
	Index        int             `json:"index"`
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type responseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type modelList struct {
	Data []llm.Model `json:"data"`
}

// Complete sends a chat completion request and returns the full completion.
func (c *Client) Complete(ctx context.Context, req *llm.Request) (*llm.Completion, error) {
	reqMessages := make([]requestMessage, len(req.Messages))
	for i, msg := range req.Messages {
		rm := requestMessage{Role: msg.Role, Content: msg.Content}
		if len(msg.Parts) > 0 {
			rm.Content = msg.Parts
		}
		reqMessages[i] = rm
	}

	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    reqMessages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
		Stream:      false,
		Stop:        req.Stop,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return nil, err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	completion := &llm.Completion{
		ID:      chatResp.ID,
		Model:   chatResp.Model,
		Choices: make([]llm.Choice, len(chatResp.Choices)),
		Usage: llm.Usage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:  chatResp.Usage.TotalTokens,
		},
	}
	for i, ch := range chatResp.Choices {
		completion.Choices[i] = llm.Choice{
			Index:        ch.Index,
			Message:      llm.Message{Role: ch.Message.Role, Content: ch.Message.Content},
			FinishReason: ch.FinishReason,
		}
	}
	return completion, nil
}

// ListModels returns the models served at {base}/models, sorted by ID.
func (c *Client) ListModels(ctx context.Context) ([]llm.Model, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}

	var list modelList
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("parsing models: %w", err)
	}
	sort.Slice(list.Data, func(i, j int) bool { return list.Data[i].ID < list.Data[j].ID })
	return list.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
