package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cfpulse/cfpulse/internal/logging"
	"github.com/cfpulse/cfpulse/internal/stats"
	"github.com/cfpulse/cfpulse/internal/window"
)

// LatencyProbe measures round-trip time with sequential zero-payload
// requests.
type LatencyProbe struct {
	Count   int
	BaseURL string
	Client  *http.Client
	Delay   time.Duration
}

// NewLatencyProbe returns a probe issuing count round trips over the
// given network family ("tcp", "tcp4" or "tcp6").
func NewLatencyProbe(count int, network string) *LatencyProbe {
	return &LatencyProbe{
		Count:   count,
		BaseURL: DefaultBaseURL,
		Client:  NewLatencyClient(network),
		Delay:   InterPingDelay,
	}
}

// Run issues Count sequential round trips, emitting one update per
// attempt on progress. Failed attempts emit an unsampled update and are
// excluded from the summary. Run does not close progress.
func (p *LatencyProbe) Run(ctx context.Context, progress chan<- LatencyUpdate) (*LatencyResult, error) {
	win := window.New(LatencyWindowSize)
	url := fmt.Sprintf(downPathFormat, p.BaseURL, 0)

	for i := 0; i < p.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		update := LatencyUpdate{}
		if err := p.ping(ctx, url); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logging.Logger.WithError(err).Debug("latency: attempt failed")
		} else {
			rtt := float64(time.Since(start).Microseconds()) / 1000
			win.Push(rtt)
			update = LatencyUpdate{RTTMS: rtt, Sampled: true}
		}

		select {
		case progress <- update:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	samples := win.Snapshot()
	return &LatencyResult{
		MeanMS:   stats.Mean(samples),
		JitterMS: stats.SampleStdDev(samples),
	}, nil
}

func (p *LatencyProbe) ping(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	_, err = flushResponse(resp)
	return err
}

// flushResponse drains and closes a response body so that the
// underlying connection can be reused.
func flushResponse(resp *http.Response) (int64, error) {
	flushed, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return 0, err
	}
	return flushed, resp.Body.Close()
}
