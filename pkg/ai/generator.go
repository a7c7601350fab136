package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/saint0x/ggreadme/pkg/log"
	"google.golang.org/genai"
)

// Options configures a Generator
type Options struct {
	APIKey string
	// Model defaults to DefaultModel.
	Model string
	// BaseURL overrides https://generativelanguage.googleapis.com/.
	BaseURL    string
	HTTPClient *http.Client
}

// Generator turns a prompt into README text with Gemini
type Generator struct {
	logger *log.Logger
	client *genai.Client
	model  string
}

// New creates a Generator. It fails with ErrMissingCredentials before any
// network access when no API key is set.
func New(ctx context.Context, logger *log.Logger, opts Options) (*Generator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingCredentials
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = opts.BaseURL
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Generator{
		logger: logger,
		client: client,
		model:  model,
	}, nil
}

// Model returns the model identifier requests are sent to
func (g *Generator) Model() string {
	return g.model
}

// Generate sends prompt as a single non-streaming request and returns the
// first candidate's text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("Gemini request to %s: %d bytes", g.model, len(prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(Temperature),
			MaxOutputTokens: MaxOutputTokens,
		},
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &CompletionAPIError{StatusCode: apiErr.Code, Body: apiErrorBody(apiErr)}
		}
		return "", fmt.Errorf("failed to make request: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil ||
		len(resp.Candidates) == 0 ||
		resp.Candidates[0] == nil ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0] == nil {
		return "", &MalformedResponseError{Payload: payload(resp)}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func payload(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "null"
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf("%+v", *resp)
	}
	return string(data)
}

func apiErrorBody(e genai.APIError) string {
	if e.Status != "" && e.Message != "" {
		return e.Status + ": " + e.Message
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}
