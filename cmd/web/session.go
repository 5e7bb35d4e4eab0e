package main

// workspaceIDSessionKey is the only value kept in the session. The workspace itself lives in memory.
const workspaceIDSessionKey = "workspaceID"
