package main

import (
	"github.com/myrjola/guessthechild/internal/slideshow"
	"net/http"
)

func (app *application) revealSlide(w http.ResponseWriter, r *http.Request) {
	app.slideAction(w, r, (*slideshow.Controller).Reveal)
}

func (app *application) nextSlide(w http.ResponseWriter, r *http.Request) {
	app.slideAction(w, r, (*slideshow.Controller).Next)
}

func (app *application) prevSlide(w http.ResponseWriter, r *http.Request) {
	app.slideAction(w, r, (*slideshow.Controller).Prev)
}

// reset discards the workspace contents and returns to the upload page.
func (app *application) reset(w http.ResponseWriter, r *http.Request) {
	app.slideAction(w, r, (*slideshow.Controller).Reset)
}

func (app *application) slideAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(*slideshow.Controller) error,
) {
	controller, err := app.controller(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = action(controller); err != nil {
		app.controllerError(w, r, err)
		return
	}
	redirectHome(w, r)
}
