package probe

import "time"

// Measurement endpoints. The base URL is overridable per probe for
// testing; there is no endpoint discovery.
const (
	DefaultBaseURL  = "https://speed.cloudflare.com"
	downPathFormat  = "%s/__down?bytes=%d"
	upPath          = "%s/__up"
	octetStreamMIME = "application/octet-stream"
)

// Measurement tunables.
const (
	// UploadChunkSize is the size of each sequential POST body.
	UploadChunkSize = 1000 * 1000

	// SamplingInterval is the minimum wall-clock spacing between
	// consecutive throughput samples and progress emissions.
	SamplingInterval = 100 * time.Millisecond

	// InterPingDelay paces sequential latency round trips.
	InterPingDelay = 200 * time.Millisecond

	// LatencyWindowSize and ThroughputWindowSize bound the live chart
	// history per phase.
	LatencyWindowSize    = 100
	ThroughputWindowSize = 200
)

// HTTP client timeouts.
const (
	latencyRequestTimeout = 5 * time.Second
	transferTimeout       = 120 * time.Second
	dialTimeout           = 10 * time.Second
	keepAliveInterval     = 30 * time.Second
)
