package testhelpers

import (
	"github.com/myrjola/guessthechild/internal/logging"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewLogger creates a new logger with the given log sink such as io.Discard.
func NewLogger(logSink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}

type testWriter struct {
	mu   sync.Mutex
	t    *testing.T
	done bool
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// t.Log panics once the test has completed, background goroutines may still log during shutdown.
	if !w.done {
		w.t.Log(strings.TrimSuffix(string(p), "\n"))
	}
	return len(p), nil
}

// NewWriter returns a log sink that writes to t.Log so that server logs show up for failing tests only.
// Writes after the test has finished are dropped.
func NewWriter(t *testing.T) io.Writer {
	t.Helper()
	w := &testWriter{t: t} //nolint:exhaustruct // zero values are the initial state
	t.Cleanup(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.done = true
	})
	return w
}
