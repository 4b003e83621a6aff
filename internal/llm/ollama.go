package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ollamaProvider talks to a local Ollama instance.
type ollamaProvider struct {
	cfg  ProviderConfig
	http *http.Client
}

// NewOllamaProvider creates a Provider that talks to a local Ollama instance.
func NewOllamaProvider(cfg ProviderConfig) Provider {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &ollamaProvider{cfg: cfg, http: newHTTPClient()}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (p *ollamaProvider) Name() ProviderName { return ProviderOllama }

func (p *ollamaProvider) Complete(ctx context.Context, call Call) (*Completion, error) {
	model := p.cfg.Model
	if call.Model != "" {
		model = call.Model
	}
	body := ollamaRequest{
		Model:  model,
		System: call.SystemPrompt,
		Prompt: call.UserPrompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: call.Temperature,
			NumPredict:  call.MaxTokens,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, status, err := doJSON(ctx, p.http, req, ProviderOllama)
	if err != nil {
		return nil, err
	}

	var resp ollamaResponse
	decodeErr := json.Unmarshal(raw, &resp)
	if status != http.StatusOK {
		msg := string(raw)
		if decodeErr == nil && resp.Error != "" {
			msg = resp.Error
		}
		return nil, statusError(ProviderOllama, status, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("ollama: %w: decoding response: %v", ErrProvider, decodeErr)
	}
	return &Completion{Text: resp.Response, Model: resp.Model}, nil
}
