package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/sashabaranov/go-openai"
	"log/slog"
)

// DefaultOpenAIModel is a vision-capable chat model.
const DefaultOpenAIModel = openai.GPT4oMini

// MaxTokens bounds the caption length. One or two sentences fit comfortably.
const MaxTokens = 256

// OpenAI captions photos with the OpenAI chat completions API.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI creates an OpenAI client. baseURL overrides the API endpoint and is meant for tests; leave it empty
// to use the public endpoint.
func NewOpenAI(apiKey string, baseURL string) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
	}
}

// Caption sends the parts as a single multi-part user message. Images travel as base64 data URLs.
func (o *OpenAI) Caption(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	content := make([]openai.ChatMessagePart, 0, len(req.Parts))
	for _, part := range req.Parts {
		if part.IsImage() {
			content = append(content, openai.ChatMessagePart{ //nolint:exhaustruct // this is better for readability
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL(part),
					Detail: openai.ImageURLDetailLow,
				},
			})
		} else {
			content = append(content, openai.ChatMessagePart{ //nolint:exhaustruct // this is better for readability
				Type: openai.ChatMessagePartTypeText,
				Text: part.Text,
			})
		}
	}

	completion, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     model,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{ //nolint:exhaustruct // this is better for readability
					Role:         openai.ChatMessageRoleUser,
					MultiContent: content,
				},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion", slog.String("model", model))
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.Wrap(ErrEmptyResponse, "create chat completion", slog.String("model", model))
	}
	return completion.Choices[0].Message.Content, nil
}

func dataURL(part Part) string {
	return fmt.Sprintf("data:%s;base64,%s", part.MIMEType, base64.StdEncoding.EncodeToString(part.Data))
}
