package contexthelpers

type contextKey string

const csrfTokenContextKey = contextKey("csrfToken")
const cspNonceContextKey = contextKey("cspNonce")
const workspaceIDContextKey = contextKey("workspaceID")
