package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default

	// Provider overrides the configured primary. When it is empty the
	// configured fallbacks apply unless Fallbacks is non-nil.
	Provider  ProviderName
	Fallbacks []ProviderName
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	Provider  ProviderName
	LatencyMs int64
	Attempts  int
}

// Generator produces text for a request.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Router sends requests to the first provider that succeeds, retrying
// rate-limited calls with exponential backoff before falling through.
type Router struct {
	cfg       LLMConfig
	providers map[ProviderName]Provider
	observer  Observer
	sleep     func(ctx context.Context, d time.Duration) error
}

// ProvidersFromConfig builds every provider the config has credentials for.
func ProvidersFromConfig(cfg LLMConfig) []Provider {
	if !cfg.Enabled {
		return nil
	}
	var out []Provider
	if cfg.Anthropic.APIKey != "" {
		out = append(out, NewAnthropicProvider(cfg.Anthropic))
	}
	if cfg.OpenAI.APIKey != "" {
		out = append(out, NewOpenAIProvider(cfg.OpenAI))
	}
	if cfg.Ollama.Endpoint != "" {
		out = append(out, NewOllamaProvider(cfg.Ollama))
	}
	return out
}

// NewRouter creates a Router over the given providers.
func NewRouter(cfg LLMConfig, observer Observer, providers ...Provider) *Router {
	if observer == nil {
		observer = NoopObserver{}
	}
	r := &Router{
		cfg:       cfg,
		providers: make(map[ProviderName]Provider, len(providers)),
		observer:  observer,
		sleep:     sleepContext,
	}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Providers lists the registered provider names in a stable order.
func (r *Router) Providers() []ProviderName {
	names := make([]ProviderName, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (r *Router) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	order := r.order(req)
	if len(order) == 0 {
		return nil, ErrNoProviders
	}

	call := r.call(req)
	timeout := time.Duration(r.cfg.TaskTimeout(req.Task)) * time.Millisecond

	var lastErr error
	for _, p := range order {
		resp, err := r.generateWith(ctx, p, req.Task, call, timeout)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (r *Router) generateWith(ctx context.Context, p Provider, task TaskType, call Call, timeout time.Duration) (*GenerateResponse, error) {
	attempts := r.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		start := time.Now()
		c, err := r.complete(ctx, p, call, timeout)
		latency := time.Since(start).Milliseconds()

		event := LLMCallEvent{
			Task:      task,
			Provider:  p.Name(),
			Model:     call.Model,
			Attempt:   attempt,
			LatencyMs: latency,
			Success:   err == nil,
			ErrorCode: errorCode(err),
		}
		if c != nil && c.Model != "" {
			event.Model = c.Model
		}
		r.observer.OnCallComplete(event)

		if err == nil {
			return &GenerateResponse{
				Text:      c.Text,
				Model:     c.Model,
				Provider:  p.Name(),
				LatencyMs: latency,
				Attempts:  attempt,
			}, nil
		}
		if !errors.Is(err, ErrRateLimited) || attempt >= attempts {
			return nil, err
		}
		if serr := r.sleep(ctx, r.backoff(attempt)); serr != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), ErrTimeout)
		}
	}
}

func (r *Router) complete(ctx context.Context, p Provider, call Call, timeout time.Duration) (*Completion, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	c, err := p.Complete(ctx, call)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrTimeout) {
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrTimeout)
	}
	return c, err
}

// backoff doubles from the base delay per attempt, capped at the max.
func (r *Router) backoff(attempt int) time.Duration {
	base := time.Duration(r.cfg.BackoffBaseMs) * time.Millisecond
	limit := time.Duration(r.cfg.BackoffMaxMs) * time.Millisecond
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if limit > 0 && d >= limit {
			return limit
		}
	}
	if limit > 0 && d > limit {
		return limit
	}
	return d
}

// order resolves the provider sequence for req, skipping unregistered
// providers and duplicates.
func (r *Router) order(req GenerateRequest) []Provider {
	primary, fallbacks := req.Provider, req.Fallbacks
	if primary == "" {
		primary = r.cfg.Provider
		if fallbacks == nil {
			fallbacks = r.cfg.Fallbacks
		}
	}

	seen := make(map[ProviderName]bool)
	var out []Provider
	for _, name := range append([]ProviderName{primary}, fallbacks...) {
		p, ok := r.providers[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, p)
	}
	return out
}

func (r *Router) call(req GenerateRequest) Call {
	taskCfg := r.cfg.Tasks[req.Task]
	call := Call{
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserPrompt,
		Temperature:  taskCfg.Temperature,
		MaxTokens:    taskCfg.MaxTokens,
	}
	if req.Temperature != nil {
		call.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		call.MaxTokens = *req.MaxTokens
	}
	if call.MaxTokens <= 0 {
		call.MaxTokens = 4000
	}
	return call
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
