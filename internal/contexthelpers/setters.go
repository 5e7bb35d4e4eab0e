package contexthelpers

import (
	"context"
	"net/http"
)

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := context.WithValue(r.Context(), csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, nonce string) *http.Request {
	ctx := context.WithValue(r.Context(), cspNonceContextKey, nonce)
	return r.WithContext(ctx)
}

func SetWorkspaceID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), workspaceIDContextKey, id)
	return r.WithContext(ctx)
}
