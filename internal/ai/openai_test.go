package ai_test

import (
	"context"
	"encoding/json"
	"github.com/myrjola/guessthechild/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type openAIRequestBody struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL *struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
}

func TestOpenAI_Caption(t *testing.T) {
	var gotBody openAIRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,` +
			`"message":{"role":"assistant","content":"Still plotting mischief."},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)

	client := ai.NewOpenAI("test-key", srv.URL+"/v1")
	caption, err := client.Caption(context.Background(), newCaptionRequest(t, ""))
	require.NoError(t, err)
	require.Equal(t, "Still plotting mischief.", caption)

	require.Equal(t, ai.DefaultOpenAIModel, gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	content := gotBody.Messages[0].Content
	require.Len(t, content, 3)
	require.Equal(t, "image_url", content[0].Type)
	require.NotNil(t, content[0].ImageURL)
	require.True(t, strings.HasPrefix(content[0].ImageURL.URL, "data:image/png;base64,"))
	require.Equal(t, "image_url", content[1].Type)
	require.True(t, strings.HasPrefix(content[1].ImageURL.URL, "data:image/jpeg;base64,"))
	require.Equal(t, "text", content[2].Type)
	require.Equal(t, ai.CaptionPrompt, content[2].Text)
}

func TestOpenAI_CaptionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := ai.NewOpenAI("test-key", srv.URL+"/v1")
	_, err := client.Caption(context.Background(), newCaptionRequest(t, "gpt-4o"))
	require.ErrorIs(t, err, ai.ErrEmptyResponse)
}
