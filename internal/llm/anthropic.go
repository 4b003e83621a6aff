package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const anthropicVersion = "2023-06-01"

type anthropicProvider struct {
	cfg  ProviderConfig
	http *http.Client
}

// NewAnthropicProvider creates a Provider backed by the Anthropic messages API.
func NewAnthropicProvider(cfg ProviderConfig) Provider {
	return &anthropicProvider{cfg: cfg, http: newHTTPClient()}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *anthropicProvider) Name() ProviderName { return ProviderAnthropic }

func (p *anthropicProvider) Complete(ctx context.Context, call Call) (*Completion, error) {
	model := p.cfg.Model
	if call.Model != "" {
		model = call.Model
	}
	body := anthropicRequest{
		Model:     model,
		MaxTokens: call.MaxTokens,
		System:    call.SystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: call.UserPrompt}},
	}
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
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	raw, status, err := doJSON(ctx, p.http, req, ProviderAnthropic)
	if err != nil {
		return nil, err
	}

	var ar anthropicResponse
	decodeErr := json.Unmarshal(raw, &ar)
	if status != http.StatusOK {
		msg := string(raw)
		if decodeErr == nil && ar.Error != nil {
			msg = ar.Error.Type + ": " + ar.Error.Message
		}
		return nil, statusError(ProviderAnthropic, status, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("anthropic: %w: decoding response: %v", ErrProvider, decodeErr)
	}

	var text strings.Builder
	for _, block := range ar.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("anthropic: %w: no text content in response", ErrProvider)
	}
	return &Completion{Text: text.String(), Model: ar.Model}, nil
}
