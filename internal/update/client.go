package update

import (
	"net/http"
	"time"
)

// UserAgent identifies the app to GitHub and download mirrors.
const UserAgent = "countdown-timer"

// Fixed per-request budgets. Nothing is retried.
const (
	CheckTimeout     = 10 * time.Second
	DownloadTimeout  = 300 * time.Second
	FileReleaseDelay = 500 * time.Millisecond
)

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", UserAgent)
	return t.base.RoundTrip(r)
}

// NewHTTPClient returns a client that always sends UserAgent and gives up
// after timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: http.DefaultTransport},
	}
}
