package main

import (
	"github.com/myrjola/guessthechild/internal/contexthelpers"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/slideshow"
	"log/slog"
	"net/http"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound)
}

// redirectHome sends the browser back to the page for the current view.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// controller returns the workspace bound to the request by the workspace middleware.
func (app *application) controller(r *http.Request) (*slideshow.Controller, error) {
	controller, err := app.workspaces.Get(contexthelpers.WorkspaceID(r.Context()))
	if err != nil {
		return nil, errors.Wrap(err, "get workspace")
	}
	return controller, nil
}

// controllerError maps slideshow state errors to responses. Actions submitted from a stale page, e.g. a
// slide button after Start Over in another tab, just show the current view.
func (app *application) controllerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, slideshow.ErrBusy):
		app.clientError(w, r, http.StatusConflict)
	case errors.Is(err, slideshow.ErrNotUploading), errors.Is(err, slideshow.ErrNotPresenting):
		redirectHome(w, r)
	default:
		app.serverError(w, r, err)
	}
}
