package client

import (
	"log/slog"
	"net/http"
	"time"
)

// New initializes the HTTP client used for every call to the HR backend.
// The client carries an in-memory cookie jar, logs redirects, and
// enforces a hard timeout so a hung backend surfaces as a transport
// error instead of an indefinitely spinning loading state.
func New(log *slog.Logger, timeout time.Duration) *http.Client {
	jar := NewCookieJar(log)

	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}
