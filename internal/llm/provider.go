package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Call is a single provider invocation with task defaults already applied.
type Call struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Completion is the text a provider produced for a Call.
type Completion struct {
	Text  string
	Model string
}

// Provider is one text-generation backend. Implementations return errors
// wrapping ErrRateLimited, ErrTokenLimit, ErrUnavailable, ErrTimeout or
// ErrProvider so the router can decide between retrying and falling through.
type Provider interface {
	Name() ProviderName
	Complete(ctx context.Context, call Call) (*Completion, error)
}

const maxResponseBytes = 10 * 1024 * 1024

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

// doJSON posts body and returns the raw response body along with the status.
// Transport failures are mapped onto ErrTimeout and ErrUnavailable.
func doJSON(ctx context.Context, client *http.Client, req *http.Request, name ProviderName) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, transportError(ctx, name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%s: reading response: %w", name, err)
	}
	return data, resp.StatusCode, nil
}

func transportError(ctx context.Context, name ProviderName, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", name, ErrTimeout)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%s: %w: %v", name, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %v", name, ErrProvider, err)
}

// statusError classifies a non-200 response.
func statusError(name ProviderName, status int, message string) error {
	msg := truncate(message, 200)
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: %s", name, ErrRateLimited, msg)
	case status == http.StatusRequestEntityTooLarge || mentionsTokenLimit(message):
		return fmt.Errorf("%s: %w: %s", name, ErrTokenLimit, msg)
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w: HTTP %d: %s", name, ErrUnavailable, status, msg)
	default:
		return fmt.Errorf("%s: %w: HTTP %d: %s", name, ErrProvider, status, msg)
	}
}

func mentionsTokenLimit(message string) bool {
	m := strings.ToLower(message)
	for _, marker := range []string{"context_length", "context length", "maximum context", "too many tokens", "prompt is too long"} {
		if strings.Contains(m, marker) {
			return true
		}
	}
	return false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrTokenLimit):
		return "TOKEN_LIMIT"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrProvider):
		return "PROVIDER_ERROR"
	default:
		return "UNKNOWN"
	}
}
