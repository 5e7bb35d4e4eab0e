// Package ui holds the HTML templates and static assets compiled into the web server.
package ui

import "embed"

// Files contains templates/ and static/.
//
//go:embed templates static
var Files embed.FS
