package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<!doctype html>
<html lang="en">
<head><title>Guess The Child</title></head>
<body>
<h1>That took too long</h1>
<p>The server did not answer in time. Your photos are still there.</p>
<p><a href="/">Back to the slideshow</a></p>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, defaultTimeout time.Duration) http.Handler {
	// We want the timeout to be a little shorter than the server's read timeout so that the
	// timeout handler has a chance to respond before the server closes the connection.
	httpHandlerTimeout := defaultTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
