package main

import (
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/imaging"
	"github.com/myrjola/guessthechild/internal/models"
	"io"
	"log/slog"
	"net/http"
)

const (
	// maxUploadBytes is the largest photo accepted.
	maxUploadBytes = 16 << 20
	// multipartOverheadBytes leaves room for the multipart framing and the CSRF token field.
	multipartOverheadBytes = 1 << 20
)

// selectPhoto stores an uploaded photo in the childhood or current slot.
func (app *application) selectPhoto(w http.ResponseWriter, r *http.Request) {
	slot, err := models.ParseSlot(r.PathValue("slot"))
	if err != nil {
		app.notFound(w, r)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			app.clientError(w, r, http.StatusRequestEntityTooLarge)
			return
		}
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	defer func() {
		_ = file.Close()
	}()
	if header.Size > maxUploadBytes {
		app.clientError(w, r, http.StatusRequestEntityTooLarge)
		return
	}

	var data []byte
	if data, err = io.ReadAll(file); err != nil {
		app.serverError(w, r, errors.Wrap(err, "read upload", slog.String("filename", header.Filename)))
		return
	}

	controller, err := app.controller(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	// An unreadable image leaves a message for the upload page.
	if err = controller.SelectImage(r.Context(), slot, data); err != nil && !errors.Is(err, imaging.ErrUnsupportedImage) {
		app.controllerError(w, r, err)
		return
	}
	redirectHome(w, r)
}

// commitEntry adds the two pending photos to the roster.
func (app *application) commitEntry(w http.ResponseWriter, r *http.Request) {
	controller, err := app.controller(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	entry, ok, err := controller.CommitEntry()
	if err != nil {
		app.controllerError(w, r, err)
		return
	}
	if ok {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "added person", slog.String("entry_id", entry.ID))
	}
	redirectHome(w, r)
}

// deleteEntry removes a person from the roster. Unknown ids are ignored.
func (app *application) deleteEntry(w http.ResponseWriter, r *http.Request) {
	controller, err := app.controller(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if _, err = controller.DeleteEntry(r.PathValue("id")); err != nil {
		app.controllerError(w, r, err)
		return
	}
	redirectHome(w, r)
}
