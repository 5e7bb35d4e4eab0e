package ai

import (
	"context"
	"github.com/myrjola/guessthechild/internal/errors"
	"google.golang.org/genai"
	"log/slog"
)

// DefaultGeminiModel is a stable model with balanced speed and quality.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini captions photos with the Google Gemini API.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini API client. baseURL overrides the API endpoint and is meant for tests; leave it
// empty to use the public endpoint.
func NewGemini(ctx context.Context, apiKey string, baseURL string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{ //nolint:exhaustruct // defaults are fine
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL}, //nolint:exhaustruct // only the endpoint is overridden
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	return &Gemini{client: client}, nil
}

// Caption sends the parts as a single user turn and returns the generated text.
func (g *Gemini) Caption(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, part := range req.Parts {
		if part.IsImage() {
			parts = append(parts, genai.NewPartFromBytes(part.Data, part.MIMEType))
		} else {
			parts = append(parts, genai.NewPartFromText(part.Text))
		}
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", errors.Wrap(err, "generate content", slog.String("model", model))
	}
	if resp == nil {
		return "", errors.Wrap(ErrEmptyResponse, "generate content", slog.String("model", model))
	}
	text := resp.Text()
	if text == "" {
		return "", errors.Wrap(ErrEmptyResponse, "generate content", slog.String("model", model))
	}
	return text, nil
}
