package pprofserver

import (
	"context"
	"fmt"
	"github.com/myrjola/guessthechild/internal/errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"
)

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	return mux
}

// Launch a standard pprof server at ipv6 loopback address ::1 and given port, e.g. ":6060". An empty port
// disables the server. The server shuts down when ctx is cancelled.
func Launch(ctx context.Context, port string, logger *slog.Logger) {
	if port == "" {
		return
	}
	addr := fmt.Sprintf("[::1]%s", port)
	srv := &http.Server{ //nolint:exhaustruct // defaults are fine for a loopback debug server
		Addr:              addr,
		Handler:           newServeMux(),
		ReadHeaderTimeout: time.Second,
	}

	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close pprof server", errors.SlogError(err))
		}
	}()

	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped", errors.SlogError(err))
		}
	}()
}
