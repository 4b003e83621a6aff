package llm

import "errors"

var (
	// ErrRateLimited indicates the provider rejected the call with HTTP 429.
	// The router retries these with exponential backoff.
	ErrRateLimited = errors.New("llm rate limited")

	// ErrTokenLimit indicates the prompt or requested output exceeded the
	// model's context window.
	ErrTokenLimit = errors.New("llm token limit exceeded")

	// ErrProvider indicates any other provider-side failure.
	ErrProvider = errors.New("llm provider error")

	// ErrUnavailable indicates the provider endpoint is unreachable.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrNoProviders indicates no configured provider could take the call.
	ErrNoProviders = errors.New("no llm providers configured")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)
