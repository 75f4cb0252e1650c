package gateway

import (
	"net/http"
	"time"
)

const defaultExternalHTTPTimeout = 30 * time.Second

// NewHTTPClient returns the client used for every outbound call that is not
// GitHub: catalog URLs, the intake webhook and Slack.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultExternalHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}
