// Package probe implements the three sequential network measurements:
// latency round trips, bulk download and chunked upload.
package probe

// LatencyUpdate reports one latency round trip. Sampled is false when
// the attempt failed; consumers should then retain their previous value
// rather than display zero.
type LatencyUpdate struct {
	RTTMS   float64
	Sampled bool
}

// TransferUpdate reports bulk transfer progress for download and upload.
// Window is a snapshot of the recent instantaneous throughput samples in
// megabits per second, oldest first.
type TransferUpdate struct {
	Transferred int64
	Total       int64
	Window      []float64
}

// LatencyResult is the latency phase summary.
type LatencyResult struct {
	MeanMS   float64
	JitterMS float64
}

// TransferResult is the download/upload phase summary. AverageMbps is
// computed over the whole transfer, not the windowed samples.
type TransferResult struct {
	AverageMbps float64
}
