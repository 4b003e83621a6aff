package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type openaiProvider struct {
	cfg  ProviderConfig
	http *http.Client
}

// NewOpenAIProvider creates a Provider backed by the OpenAI chat completions API.
func NewOpenAIProvider(cfg ProviderConfig) Provider {
	return &openaiProvider{cfg: cfg, http: newHTTPClient()}
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (p *openaiProvider) Name() ProviderName { return ProviderOpenAI }

func (p *openaiProvider) Complete(ctx context.Context, call Call) (*Completion, error) {
	model := p.cfg.Model
	if call.Model != "" {
		model = call.Model
	}

	var messages []openaiMessage
	if call.SystemPrompt != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: call.SystemPrompt})
	}
	messages = append(messages, openaiMessage{Role: "user", Content: call.UserPrompt})

	body := openaiRequest{Model: model, Messages: messages, MaxTokens: call.MaxTokens}
	if call.Temperature != 0 {
		t := call.Temperature
		body.Temperature = &t
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	raw, status, err := doJSON(ctx, p.http, req, ProviderOpenAI)
	if err != nil {
		return nil, err
	}

	var or openaiResponse
	decodeErr := json.Unmarshal(raw, &or)
	if status != http.StatusOK {
		msg := string(raw)
		if decodeErr == nil && or.Error != nil {
			msg = or.Error.Code + ": " + or.Error.Message
		}
		return nil, statusError(ProviderOpenAI, status, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("openai: %w: decoding response: %v", ErrProvider, decodeErr)
	}
	if len(or.Choices) == 0 || or.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("openai: %w: no choices in response", ErrProvider)
	}
	return &Completion{Text: or.Choices[0].Message.Content, Model: or.Model}, nil
}
