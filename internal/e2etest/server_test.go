package e2etest_test

import (
	"context"
	"github.com/myrjola/guessthechild/internal/e2etest"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
)

var errNoAPIKey = errors.NewSentinel("no api key")

// fakeRun serves /api/healthy on GUESSWHO_ADDR and records the environment it was started with.
type fakeRun struct {
	mu  sync.Mutex
	env map[string]string
}

func (f *fakeRun) run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	f.mu.Lock()
	f.env = map[string]string{}
	for _, key := range []string{"GUESSWHO_ADDR", "GUESSWHO_PPROF_PORT", "GUESSWHO_SQLITE_URL", "OPENAI_API_KEY"} {
		if value, ok := lookupEnv(key); ok {
			f.env[key] = value
		}
	}
	addr := f.env["GUESSWHO_ADDR"]
	f.mu.Unlock()

	if _, ok := lookupEnv("OPENAI_API_KEY"); !ok {
		return errNoAPIKey
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/healthy", func(http.ResponseWriter, *http.Request) {})
	srv := &http.Server{Handler: mux} //nolint:exhaustruct,gosec // test server
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String(e2etest.LogAddrKey, listener.Addr().String()))
	_ = srv.Serve(listener)
	return nil
}

func TestStartServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	callerEnv := map[string]string{
		"GUESSWHO_ADDR":       "localhost:4000",
		"GUESSWHO_PPROF_PORT": ":6060",
		"GUESSWHO_SQLITE_URL": "guesswho.sqlite3",
		"OPENAI_API_KEY":      "test-key",
	}
	lookupEnv := func(key string) (string, bool) {
		value, ok := callerEnv[key]
		return value, ok
	}

	fake := &fakeRun{} //nolint:exhaustruct // filled by run
	server, err := e2etest.StartServer(ctx, testhelpers.NewWriter(t), lookupEnv, fake.run)
	require.NoError(t, err)

	fake.mu.Lock()
	env := fake.env
	fake.mu.Unlock()
	require.Equal(t, map[string]string{
		"GUESSWHO_ADDR":       "localhost:0",
		"GUESSWHO_PPROF_PORT": "",
		"GUESSWHO_SQLITE_URL": ":memory:",
		"OPENAI_API_KEY":      "test-key",
	}, env)
	require.NotEqual(t, "http://localhost:4000", server.URL())

	resp, err := server.Client().Get(ctx, "/api/healthy")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStartServer_runFails(t *testing.T) {
	fake := &fakeRun{} //nolint:exhaustruct // filled by run
	lookupEnv := func(string) (string, bool) { return "", false }
	_, err := e2etest.StartServer(context.Background(), testhelpers.NewWriter(t), lookupEnv, fake.run)
	require.ErrorIs(t, err, errNoAPIKey)
}
