package probe

import (
	"context"
	"net"
	"net/http"
	"time"
)

// newTransport returns an HTTP transport dialing over the given network
// ("tcp", "tcp4" or "tcp6", empty meaning "tcp").
//
// cf. https://go.googlesource.com/go/+/refs/tags/go1.22.1/src/net/http/transport.go#43
func newTransport(network string) *http.Transport {
	if network == "" {
		network = "tcp"
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, _, addr string) (net.Conn, error) {
			return (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: keepAliveInterval,
			}).DialContext(ctx, network, addr)
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// NewLatencyClient returns the client used for zero-payload round trips.
func NewLatencyClient(network string) *http.Client {
	return &http.Client{
		Transport: newTransport(network),
		Timeout:   latencyRequestTimeout,
	}
}

// NewTransferClient returns the client used for bulk download/upload
// requests.
func NewTransferClient(network string) *http.Client {
	return &http.Client{
		Transport: newTransport(network),
		Timeout:   transferTimeout,
	}
}
