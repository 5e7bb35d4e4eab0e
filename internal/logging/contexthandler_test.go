package logging_test

import (
	"bytes"
	"context"
	"github.com/myrjola/guessthechild/internal/logging"
	"github.com/stretchr/testify/require"
	"log/slog"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(buf, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})))
}

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf).With("source", "test")

	ctx := logging.WithAttrs(context.Background(), slog.String("workspace_id", "abc"))
	logger.InfoContext(ctx, "hello")
	require.Equal(t, "level=INFO msg=hello source=test workspace_id=abc\n", buf.String())
}

func TestWithAttrs_siblingsDoNotShareAttrs(t *testing.T) {
	parent := logging.WithAttrs(context.Background(), slog.String("a", "1"))
	first := logging.WithAttrs(parent, slog.String("b", "2"))
	second := logging.WithAttrs(parent, slog.String("c", "3"))

	require.Equal(t, []slog.Attr{slog.String("a", "1")}, logging.Attrs(parent))
	require.Equal(t, []slog.Attr{slog.String("a", "1"), slog.String("b", "2")}, logging.Attrs(first))
	require.Equal(t, []slog.Attr{slog.String("a", "1"), slog.String("c", "3")}, logging.Attrs(second))
	require.Empty(t, logging.Attrs(context.Background()))
}
