package predict

import "net/http"

// userAgentTransport identifies the client to the prediction service.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

func newHTTPClient(cfg ClientConfig) *http.Client {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.UserAgent != "" {
		client.Transport = &userAgentTransport{
			base:      http.DefaultTransport,
			userAgent: cfg.UserAgent,
		}
	}
	return client
}
