package ai

import (
	"errors"
	"fmt"
)

const (
	// DefaultModel is used when GEMINI_MODEL is not set
	DefaultModel = "gemini-2.0-flash"
	// Temperature is the sampling temperature of every request
	Temperature float32 = 0.2
	// MaxOutputTokens bounds the generated README
	MaxOutputTokens int32 = 800
)

var (
	// ErrMissingCredentials is returned when no Gemini API key is configured
	ErrMissingCredentials = errors.New("GOOGLE_API_KEY is missing")
	// ErrEmptyCompletion is returned when the model produced no text
	ErrEmptyCompletion = errors.New("Gemini returned empty README")
)

// CompletionAPIError carries a non-success response from the Gemini API
type CompletionAPIError struct {
	StatusCode int
	Body       string
}

func (e *CompletionAPIError) Error() string {
	return fmt.Sprintf("Gemini API error %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError means the response lacked candidates, content or parts
type MalformedResponseError struct {
	Payload string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unexpected Gemini API response: %s", e.Payload)
}
