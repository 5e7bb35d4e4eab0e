package main

import (
	"github.com/myrjola/guessthechild/internal/errors"
	"net/http"
)

// healthy responds with a JSON object indicating that the server and its session database are healthy.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	if err := app.db.ReadOnly.PingContext(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "ping session database"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
