package e2etest

import (
	"context"
	"fmt"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/logging"
	"io"
	"log/slog"
)

// LogAddrKey is the attribute under which the web server logs its listening address once the listener is open.
const LogAddrKey = "addr"

// isolatedEnv is applied over the caller's environment so that parallel test servers never share a port, a
// session database or the pprof listener.
var isolatedEnv = map[string]string{
	"GUESSWHO_ADDR":       "localhost:0",
	"GUESSWHO_PPROF_PORT": "",
	"GUESSWHO_SQLITE_URL": ":memory:",
}

// RunFunc has the signature of the web server's run function. It blocks until ctx is cancelled.
type RunFunc func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error

// Server is a slideshow web server running in the test process.
type Server struct {
	url    string
	client *Client
}

// StartServer launches run in a goroutine and returns once /api/healthy answers.
//
// The server gets a random port on localhost, its own in-memory session database and no pprof listener. Every
// other setting, the caption provider among them, comes from lookupEnv. The port is read from the first log
// record carrying [LogAddrKey]. Server logs go to logSink. Cancelling ctx stops the server.
func StartServer(ctx context.Context, logSink io.Writer, lookupEnv func(string) (string, bool), run RunFunc) (
	*Server, error) {
	ctx, cancel := context.WithCancelCause(ctx)

	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == LogAddrKey {
				select {
				case addrCh <- a.Value.String():
				default:
				}
			}
			return a
		},
	})))

	env := func(key string) (string, bool) {
		if value, ok := isolatedEnv[key]; ok {
			return value, true
		}
		return lookupEnv(key)
	}
	go func() {
		err := run(ctx, logger, env)
		if err == nil {
			err = errors.NewSentinel("server exited")
		}
		cancel(err)
	}()

	var addr string
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(context.Cause(ctx), "server stopped before it was ready")
	case addr = <-addrCh:
	}

	serverURL := fmt.Sprintf("http://%s", addr)
	client, err := NewClient(serverURL)
	if err != nil {
		cancel(err)
		return nil, errors.Wrap(err, "new client")
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		cancel(err)
		return nil, errors.Wrap(err, "wait for ready", slog.String("url", serverURL))
	}
	return &Server{url: serverURL, client: client}, nil
}

// Client returns a client whose cookie jar carries one browser session.
func (s *Server) Client() *Client {
	return s.client
}

func (s *Server) URL() string {
	return s.url
}
