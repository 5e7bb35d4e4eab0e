package main

import (
	"bytes"
	"context"
	"fmt"
	"github.com/myrjola/guessthechild/internal/e2etest"
	"github.com/myrjola/guessthechild/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeCaptionService is an OpenAI compatible chat completions endpoint answering "Caption N" for the Nth call.
type fakeCaptionService struct {
	*httptest.Server
	calls atomic.Int32
	fail  atomic.Bool
	// gate, when set, holds every request until it is closed.
	gate chan struct{}
}

func newFakeCaptionService(t *testing.T, gate chan struct{}) *fakeCaptionService {
	t.Helper()
	f := &fakeCaptionService{gate: gate} //nolint:exhaustruct // counters start at zero
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if f.gate != nil {
			<-f.gate
		}
		n := f.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if f.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"service down","type":"server_error"}}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"id":"%d","object":"chat.completion","choices":[{"index":0,`+
			`"message":{"role":"assistant","content":"Caption %d"},"finish_reason":"stop"}]}`, n, n)
	}))
	t.Cleanup(f.Close)
	return f
}

func testLookupEnv(captionServiceURL string) func(string) (string, bool) {
	env := map[string]string{
		"CAPTION_PROVIDER": "openai",
		"CAPTION_BASE_URL": captionServiceURL + "/v1",
		"OPENAI_API_KEY":   "test-key",
	}
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

// startTestServer starts the server against the fake caption service and stops it when the test ends.
func startTestServer(t *testing.T, captionService *fakeCaptionService) *e2etest.Server {
	t.Helper()
	logSink := testhelpers.NewWriter(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, logSink, testLookupEnv(captionService.URL), run)
	require.NoError(t, err)
	return server
}

// testPNG encodes a small single colour PNG.
func testPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
