package engine

// Event is the outward stream consumed by the presentation layer. For a
// completed run the stream satisfies
//
//	LatencyProgress* LatencyComplete
//	DownloadProgress* DownloadComplete
//	UploadProgress* UploadComplete
//
// with no interleaving across phases. An aborted run ends with RunError
// instead; a cancelled run simply stops emitting.
type Event interface {
	event()
}

// LatencyProgress carries the most recent round-trip time. Sampled is
// false when the attempt failed; consumers should keep their previous
// display value in that case.
type LatencyProgress struct {
	LatestMS float64
	Sampled  bool
}

// LatencyComplete is the latency phase summary.
type LatencyComplete struct {
	MeanMS   float64
	JitterMS float64
}

// DownloadProgress carries cumulative download progress and a snapshot
// of the recent instantaneous throughput samples.
type DownloadProgress struct {
	Transferred int64
	Total       int64
	Window      []float64
}

// DownloadComplete is the download phase summary.
type DownloadComplete struct {
	AverageMbps float64
}

// UploadProgress mirrors DownloadProgress for the upload phase.
type UploadProgress struct {
	Transferred int64
	Total       int64
	Window      []float64
}

// UploadComplete is the upload phase summary.
type UploadComplete struct {
	AverageMbps float64
}

// RunError reports a probe-level failure that aborted the run. It is
// never emitted for cancellation.
type RunError struct {
	Phase Phase
	Err   error
}

func (LatencyProgress) event() {}

func (LatencyComplete) event() {}

func (DownloadProgress) event() {}

func (DownloadComplete) event() {}

func (UploadProgress) event() {}

func (UploadComplete) event() {}

func (RunError) event() {}
