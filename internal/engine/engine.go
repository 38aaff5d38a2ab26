// Package engine sequences the three measurement probes and relays
// their progress onto a single event stream.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/cfpulse/cfpulse/internal/logging"
	"github.com/cfpulse/cfpulse/internal/probe"
	"github.com/cfpulse/cfpulse/internal/settings"
)

// eventQueueSize bounds the outward event channel and each probe's
// progress channel. A slow consumer applies backpressure to the active
// probe instead of dropping events.
const eventQueueSize = 32

// Engine owns the lifecycle of the active probe. Exactly one probe runs
// at a time; Start while a run is active cancels it first. The zero
// value of the overridable fields selects the production defaults.
type Engine struct {
	// BaseURL overrides the measurement endpoint (tests only; there is
	// no endpoint discovery).
	BaseURL string
	// Network pins the dialer family: "tcp", "tcp4" or "tcp6".
	Network string
	// PingDelay and SampleInterval override the probe pacing.
	PingDelay      time.Duration
	SampleInterval time.Duration

	mu     sync.Mutex
	phase  Phase
	result RunResult
	cancel context.CancelFunc
	done   chan struct{}

	events chan Event
}

func New() *Engine {
	return &Engine{
		events: make(chan Event, eventQueueSize),
	}
}

// Events returns the outward event stream. The channel is never closed;
// UploadComplete and RunError are the terminal events of a run.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Phase returns the currently active phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Result returns a copy of the accumulated results, reflecting only the
// phases completed so far.
func (e *Engine) Result() RunResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Start begins a run with a snapshot of s. Any in-flight run is
// cancelled and fully torn down first, so events from two runs never
// interleave.
func (e *Engine) Start(s settings.Settings) {
	e.mu.Lock()
	if e.cancel != nil {
		cancel, done := e.cancel, e.done
		e.mu.Unlock()
		cancel()
		<-done
		e.mu.Lock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	runID := uuid.NewString()

	e.cancel = cancel
	e.done = done
	e.phase = PhaseLatency
	e.result = RunResult{RunID: runID}
	e.mu.Unlock()

	go e.run(ctx, done, s, runID)
}

// Cancel aborts the in-flight run, if any. The interrupted phase leaves
// no result behind. Calling Cancel when idle is a no-op.
func (e *Engine) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	active := e.phase != PhaseIdle && e.phase != PhaseComplete
	e.mu.Unlock()

	if active && cancel != nil {
		cancel()
	}
}

// emit forwards ev to the consumer, giving up if the run is cancelled
// while the send is blocked.
func (e *Engine) emit(ctx context.Context, ev Event) {
	select {
	case e.events <- ev:
	case <-ctx.Done():
	}
}

func (e *Engine) setPhase(p Phase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
}

func (e *Engine) run(ctx context.Context, done chan struct{}, s settings.Settings, runID string) {
	defer close(done)
	entry := logging.Logger.WithField("run", runID)

	latRes, ok := e.runLatency(ctx, entry, s)
	if !ok {
		return
	}
	e.mu.Lock()
	e.result.PingMS = latRes.MeanMS
	e.result.JitterMS = latRes.JitterMS
	e.phase = PhaseDownload
	e.mu.Unlock()
	e.emit(ctx, LatencyComplete{MeanMS: latRes.MeanMS, JitterMS: latRes.JitterMS})

	dlRes, ok := e.runDownload(ctx, entry, s)
	if !ok {
		return
	}
	e.mu.Lock()
	e.result.DownloadMbps = dlRes.AverageMbps
	e.phase = PhaseUpload
	e.mu.Unlock()
	e.emit(ctx, DownloadComplete{AverageMbps: dlRes.AverageMbps})

	ulRes, ok := e.runUpload(ctx, entry, s)
	if !ok {
		return
	}
	e.mu.Lock()
	e.result.UploadMbps = ulRes.AverageMbps
	e.phase = PhaseComplete
	e.mu.Unlock()
	e.emit(ctx, UploadComplete{AverageMbps: ulRes.AverageMbps})

	entry.Debug("run: complete")
}

func (e *Engine) runLatency(ctx context.Context, entry *log.Entry, s settings.Settings) (*probe.LatencyResult, bool) {
	p := probe.NewLatencyProbe(s.PingCount, e.Network)
	if e.BaseURL != "" {
		p.BaseURL = e.BaseURL
	}
	if e.PingDelay > 0 {
		p.Delay = e.PingDelay
	}
	res, err := relayPhase(e, ctx, p.Run, func(u probe.LatencyUpdate) Event {
		return LatencyProgress{LatestMS: u.RTTMS, Sampled: u.Sampled}
	})
	return res, e.finishPhase(ctx, entry, PhaseLatency, err)
}

func (e *Engine) runDownload(ctx context.Context, entry *log.Entry, s settings.Settings) (*probe.TransferResult, bool) {
	p := probe.NewDownloadProbe(s.DownloadSizeBytes(), e.Network)
	if e.BaseURL != "" {
		p.BaseURL = e.BaseURL
	}
	if e.SampleInterval > 0 {
		p.Interval = e.SampleInterval
	}
	res, err := relayPhase(e, ctx, p.Run, func(u probe.TransferUpdate) Event {
		return DownloadProgress{Transferred: u.Transferred, Total: u.Total, Window: u.Window}
	})
	return res, e.finishPhase(ctx, entry, PhaseDownload, err)
}

func (e *Engine) runUpload(ctx context.Context, entry *log.Entry, s settings.Settings) (*probe.TransferResult, bool) {
	p := probe.NewUploadProbe(s.UploadSizeBytes(), e.Network)
	if e.BaseURL != "" {
		p.BaseURL = e.BaseURL
	}
	if e.SampleInterval > 0 {
		p.Interval = e.SampleInterval
	}
	res, err := relayPhase(e, ctx, p.Run, func(u probe.TransferUpdate) Event {
		return UploadProgress{Transferred: u.Transferred, Total: u.Total, Window: u.Window}
	})
	return res, e.finishPhase(ctx, entry, PhaseUpload, err)
}

// finishPhase maps a probe outcome into the state machine: nil keeps the
// run going, cancellation returns to idle silently, anything else aborts
// the run with a RunError event.
func (e *Engine) finishPhase(ctx context.Context, entry *log.Entry, phase Phase, err error) bool {
	if err == nil {
		return true
	}

	e.setPhase(PhaseIdle)
	if ctx.Err() != nil {
		entry.WithField("phase", phase.String()).Debug("run: cancelled")
		return false
	}

	entry.WithField("phase", phase.String()).WithError(err).Error("run: aborted")
	e.emit(ctx, RunError{Phase: phase, Err: err})
	return false
}

type phaseOutcome[R any] struct {
	res *R
	err error
}

// relayPhase spawns the probe, forwards its progress updates to the
// outward stream in arrival order and waits for the final result. The
// cancellation signal is checked before every forwarded event; once it
// is observed the remaining updates are drained without forwarding so
// the probe goroutine can exit.
func relayPhase[U, R any](e *Engine, ctx context.Context, run func(context.Context, chan<- U) (*R, error), wrap func(U) Event) (*R, error) {
	progress := make(chan U, eventQueueSize)
	outcome := make(chan phaseOutcome[R], 1)

	go func() {
		res, err := run(ctx, progress)
		close(progress)
		outcome <- phaseOutcome[R]{res: res, err: err}
	}()

	for update := range progress {
		if ctx.Err() != nil {
			continue
		}
		e.emit(ctx, wrap(update))
	}

	out := <-outcome
	return out.res, out.err
}
