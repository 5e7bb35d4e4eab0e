package main

import (
	"fmt"
	"github.com/justinas/nosurf"
	"github.com/myrjola/guessthechild/internal/contexthelpers"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/logging"
	"github.com/myrjola/guessthechild/internal/random"
	"log/slog"
	"net/http"
)

const cspNonceLength = 24

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := random.Letters(cspNonceLength)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		r = contexthelpers.SetCSPNonce(r, nonce)

		// Photo previews are data URLs.
		w.Header().Set("Content-Security-Policy",
			fmt.Sprintf(`default-src 'self';
				   script-src 'nonce-%s' 'strict-dynamic';
				   img-src 'self' data:;
				   style-src 'self';
				   form-action 'self';
				   frame-ancestors 'none';
				   object-src 'none';
				   base-uri 'none';`, nonce))

		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "received request",
			slog.String("proto", proto), slog.String("method", method), slog.String("uri", uri))

		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, errors.New("panic", slog.Any("recovered", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) timeout(next http.Handler) http.Handler {
	return timeoutHandler(next, defaultTimeout)
}

// limitRequestBody caps request bodies slightly above the photo limit so that multipart overhead fits.
func limitRequestBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+multipartOverheadBytes)
		next.ServeHTTP(w, r)
	})
}

// workspace binds the session to a slideshow workspace, creating one on first visit or when the server has
// forgotten the previous one.
func (app *application) workspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		previousID := app.sessionManager.GetString(ctx, workspaceIDSessionKey)
		id, _ := app.workspaces.GetOrCreate(ctx, previousID)
		if id != previousID {
			if previousID != "" {
				if err := app.sessionManager.RenewToken(ctx); err != nil {
					app.serverError(w, r, errors.Wrap(err, "renew session token"))
					return
				}
			}
			app.sessionManager.Put(ctx, workspaceIDSessionKey, id)
		}

		r = contexthelpers.SetWorkspaceID(r, id)
		r = r.WithContext(logging.WithAttrs(r.Context(), slog.String("workspace_id", id)))
		next.ServeHTTP(w, r)
	})
}

// serverSentEventMiddleware makes our session library scs work with Server Sent Events (SSE).
// Use this instead of app.sessionManager.LoadAndSave.
// See https://github.com/alexedwards/scs/issues/141#issuecomment-1807075358
func (app *application) serverSentEventMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		cookie, err := r.Cookie(app.sessionManager.Cookie.Name)
		if err == nil {
			token = cookie.Value
		}
		ctx, err := app.sessionManager.Load(r.Context(), token)
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "load session"))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCSRFToken(r, nosurf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// noSurf implements CSRF protection using https://github.com/justinas/nosurf
func noSurf(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		csrfHandler := nosurf.New(next)
		csrfHandler.SetBaseCookie(http.Cookie{ //nolint:exhaustruct // only the security relevant fields
			HttpOnly: true,
			Path:     "/",
			Secure:   true,
		})
		csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogAttrs(r.Context(), slog.LevelWarn, "CSRF validation failed",
				slog.String("uri", r.URL.RequestURI()), slog.Any("reason", nosurf.Reason(r)))
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		}))
		return csrfHandler
	}
}
