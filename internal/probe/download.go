package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const readBufferSize = 32 * 1024

// DownloadProbe streams a GET response of a declared size and samples
// instantaneous throughput at fixed wall-clock intervals.
type DownloadProbe struct {
	SizeBytes int64
	BaseURL   string
	Client    *http.Client
	Interval  time.Duration
}

func NewDownloadProbe(sizeBytes int64, network string) *DownloadProbe {
	return &DownloadProbe{
		SizeBytes: sizeBytes,
		BaseURL:   DefaultBaseURL,
		Client:    NewTransferClient(network),
		Interval:  SamplingInterval,
	}
}

// Run streams the response body, emitting a TransferUpdate each time a
// sample point is reached. The returned average covers the whole
// transfer. Any network failure is fatal; partial data is discarded.
// Run does not close progress.
func (p *DownloadProbe) Run(ctx context.Context, progress chan<- TransferUpdate) (*TransferResult, error) {
	url := fmt.Sprintf(downPathFormat, p.BaseURL, p.SizeBytes)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "download: building request")
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrap(err, "download: request failed")
	}
	defer resp.Body.Close()

	total := p.SizeBytes
	if resp.ContentLength > 0 {
		total = resp.ContentLength
	}

	start := time.Now()
	sampler := newRateSampler(p.Interval, start)
	transferred := int64(0)
	buf := make([]byte, readBufferSize)

	for {
		n, readErr := resp.Body.Read(buf)
		transferred += int64(n)

		if snap, ok := sampler.observe(transferred, time.Now()); ok {
			select {
			case progress <- TransferUpdate{Transferred: transferred, Total: total, Window: snap}:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, errors.Wrap(readErr, "download: reading body")
		}
	}

	return &TransferResult{AverageMbps: megabitsPerSecond(transferred, time.Since(start))}, nil
}
