package httpx

import (
	"net/http"
	"net/url"
	"time"

	"sublify/internal/config"
)

// NewClient builds the HTTP client shared by all provider backends: cloned
// DefaultTransport (keeping its pooling and HTTP/2 settings), optional proxy,
// and transparent response decompression.
func NewClient(proxy string, timeout time.Duration) *http.Client {
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("proxy", proxy).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: NewCompressionTransport(baseTransport),
	}
}
