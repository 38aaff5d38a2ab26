package probe

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/cfpulse/cfpulse/internal/logging"
)

// UploadProbe sends a pre-generated payload in fixed-size sequential
// POST requests, sampling throughput the same way DownloadProbe does.
type UploadProbe struct {
	SizeBytes int64
	BaseURL   string
	Client    *http.Client
	Interval  time.Duration
	ChunkSize int

	payload []byte
}

func NewUploadProbe(sizeBytes int64, network string) *UploadProbe {
	return &UploadProbe{
		SizeBytes: sizeBytes,
		BaseURL:   DefaultBaseURL,
		Client:    NewTransferClient(network),
		Interval:  SamplingInterval,
		ChunkSize: UploadChunkSize,
	}
}

// Run uploads the payload chunk by chunk. A failed chunk is logged and
// skipped, never retried; the final average is computed over the full
// declared size regardless. Run does not close progress.
func (p *UploadProbe) Run(ctx context.Context, progress chan<- TransferUpdate) (*TransferResult, error) {
	payload, err := p.fillerPayload()
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf(upPath, p.BaseURL)

	start := time.Now()
	sampler := newRateSampler(p.Interval, start)
	sent := int64(0)

	for offset := 0; offset < len(payload); offset += p.ChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := offset + p.ChunkSize
		if end > len(payload) {
			end = len(payload)
		}

		if err := p.send(ctx, url, payload[offset:end]); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// Best effort: lost chunks are not retried and do not
			// abort the probe.
			logging.Logger.WithError(err).Warn("upload: chunk send failed")
		}
		sent += int64(end - offset)

		if snap, ok := sampler.observe(sent, time.Now()); ok {
			select {
			case progress <- TransferUpdate{Transferred: sent, Total: p.SizeBytes, Window: snap}:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return &TransferResult{AverageMbps: megabitsPerSecond(p.SizeBytes, time.Since(start))}, nil
}

// fillerPayload generates the request body content once and keeps it
// for the probe's lifetime. The content only needs to be non-repeating,
// not secret.
func (p *UploadProbe) fillerPayload() ([]byte, error) {
	if p.payload != nil {
		return p.payload, nil
	}
	payload := make([]byte, p.SizeBytes)
	if _, err := rand.Read(payload); err != nil {
		return nil, errors.Wrap(err, "upload: generating payload")
	}
	p.payload = payload
	return payload, nil
}

func (p *UploadProbe) send(ctx context.Context, url string, chunk []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(chunk))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", octetStreamMIME)

	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	_, err = flushResponse(resp)
	return err
}
