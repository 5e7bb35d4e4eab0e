package contexthelpers

import (
	"context"
)

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	nonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return nonce
}

// WorkspaceID returns the slideshow workspace bound to the request's session, or "" outside the workspace
// middleware.
func WorkspaceID(ctx context.Context) string {
	id, ok := ctx.Value(workspaceIDContextKey).(string)
	if !ok {
		return ""
	}

	return id
}
