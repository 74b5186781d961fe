package clients

import (
	"net"
	"net/http"
	"time"
)

type HTTPClient *http.Client

// NewHTTPClient returns a pooled HTTP client for outbound calls (currently
// the review refinement API). The refiner applies its own per-request
// deadline on top of these transport timeouts.
func NewHTTPClient() HTTPClient {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          25,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
