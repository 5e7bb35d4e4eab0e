package main

import (
	"github.com/justinas/alice"
	"github.com/myrjola/guessthechild/ui"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.FileServerFS(ui.Files))

	dynamic := alice.New(
		app.timeout,
		limitRequestBody,
		app.sessionManager.LoadAndSave,
		noSurf(app.logger),
		commonContext,
		app.workspace,
	)

	mux.Handle("GET /{$}", dynamic.ThenFunc(app.home))
	mux.Handle("POST /photos/{slot}", dynamic.ThenFunc(app.selectPhoto))
	mux.Handle("POST /entries", dynamic.ThenFunc(app.commitEntry))
	mux.Handle("POST /entries/{id}/delete", dynamic.ThenFunc(app.deleteEntry))
	mux.Handle("POST /generate", dynamic.ThenFunc(app.generate))
	mux.Handle("POST /slides/reveal", dynamic.ThenFunc(app.revealSlide))
	mux.Handle("POST /slides/next", dynamic.ThenFunc(app.nextSlide))
	mux.Handle("POST /slides/prev", dynamic.ThenFunc(app.prevSlide))
	mux.Handle("POST /reset", dynamic.ThenFunc(app.reset))

	// The stream outlives the request timeout and must not touch the session cookie.
	mux.Handle("GET /generate/stream", alice.New(app.serverSentEventMiddleware).ThenFunc(app.generateStream))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	standard := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	return standard.Then(mux)
}
