package main

import (
	"context"
	"fmt"
	"github.com/myrjola/guessthechild/internal/contexthelpers"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/slideshow"
	"log/slog"
	"net/http"
	"time"
)

// generate starts the caption pipeline in the background and sends the browser to the progress page.
func (app *application) generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	controller, err := app.controller(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	generation, err := controller.BeginGeneration()
	if errors.Is(err, slideshow.ErrEmptyRoster) {
		// The upload page shows the message.
		redirectHome(w, r)
		return
	}
	if err != nil {
		app.controllerError(w, r, err)
		return
	}

	// Progress is buffered for every entry so that the pipeline never waits for the browser.
	id := contexthelpers.WorkspaceID(ctx)
	progress := make(chan string, generation.Total())
	app.progress.Publish(id, progress)

	// The pipeline outlives the request.
	pipelineCtx := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				err := errors.New("caption pipeline panicked", slog.Any("recovered", rec))
				app.logger.LogAttrs(pipelineCtx, slog.LevelError, "caption pipeline panicked", errors.SlogError(err))
			}
		}()
		defer app.progress.Unpublish(id)
		defer close(progress)

		start := time.Now()
		if runErr := generation.Run(pipelineCtx, func(p slideshow.Progress) {
			progress <- p.String()
		}); runErr != nil {
			return
		}
		app.logger.LogAttrs(pipelineCtx, slog.LevelInfo, "captions generated",
			slog.Int("entries", generation.Total()), slog.Duration("duration", time.Since(start)))
	}()

	redirectHome(w, r)
}

// generateStream streams caption progress as Server Sent Events. A "done" event tells the browser to reload
// the page, which then shows the slideshow or the upload page with an error.
func (app *application) generateStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The stream lasts as long as the generation, longer than the server's write timeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		app.serverError(w, r, errors.Wrap(err, "clear write deadline"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if id := app.sessionManager.GetString(ctx, workspaceIDSessionKey); id != "" {
		var stream chan string
		select {
		case stream = <-app.progress.Subscribe(id):
		case <-ctx.Done():
			return
		}
		if !app.streamProgress(ctx, w, rc, stream) {
			return
		}
	}

	if _, err := fmt.Fprint(w, "event: done\ndata: done\n\n"); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "write done event", errors.SlogError(err))
		return
	}
	_ = rc.Flush()
}

// streamProgress forwards messages until stream is closed. It reports false when the client went away.
func (app *application) streamProgress(
	ctx context.Context,
	w http.ResponseWriter,
	rc *http.ResponseController,
	stream chan string,
) bool {
	if stream == nil {
		return true
	}
	for {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-stream:
			if !ok {
				return true
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
				app.logger.LogAttrs(ctx, slog.LevelDebug, "write progress event", errors.SlogError(err))
				return false
			}
			if err := rc.Flush(); err != nil {
				app.logger.LogAttrs(ctx, slog.LevelDebug, "flush progress event", errors.SlogError(err))
				return false
			}
		}
	}
}
