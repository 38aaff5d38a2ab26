package engine

// Phase identifies the measurement stage a run is in. Transitions are
// strictly sequential; cancellation returns to PhaseIdle from any
// non-terminal phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLatency
	PhaseDownload
	PhaseUpload
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLatency:
		return "latency"
	case PhaseDownload:
		return "download"
	case PhaseUpload:
		return "upload"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// RunResult accumulates one summary per completed phase. Fields stay
// zero until their phase completes, so it can be read mid-run.
type RunResult struct {
	RunID        string
	PingMS       float64
	JitterMS     float64
	DownloadMbps float64
	UploadMbps   float64
}
