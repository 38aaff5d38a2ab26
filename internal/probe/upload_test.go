package probe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestUploadProbeSendsSequentialChunks(t *testing.T) {
	var received atomic.Int64
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := io.Copy(io.Discard, r.Body)
		received.Add(n)
		requests.Add(1)
	}))
	defer srv.Close()

	const size = 2_500_000
	p := NewUploadProbe(size, "tcp")
	p.BaseURL = srv.URL
	p.Interval = time.Millisecond

	progress := make(chan TransferUpdate, 256)
	res, err := p.Run(context.Background(), progress)
	close(progress)

	assert.NilError(t, err)
	assert.Assert(t, res.AverageMbps > 0)
	assert.Equal(t, received.Load(), int64(size))
	// 1 MB chunks: two full plus a 500 kB remainder.
	assert.Equal(t, requests.Load(), int64(3))

	last := int64(0)
	for u := range progress {
		assert.Equal(t, u.Total, int64(size))
		assert.Assert(t, u.Transferred >= last)
		last = u.Transferred
	}
}

func TestUploadProbePayloadIsGeneratedOnce(t *testing.T) {
	p := NewUploadProbe(1000, "tcp")

	first, err := p.fillerPayload()
	assert.NilError(t, err)
	second, err := p.fillerPayload()
	assert.NilError(t, err)

	assert.Equal(t, len(first), 1000)
	assert.Assert(t, &first[0] == &second[0], "payload regenerated")
}

func TestUploadProbeSwallowsChunkFailures(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1)%2 == 0 {
			// Drop the connection without a response.
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		io.Copy(io.Discard, r.Body) //nolint:errcheck
	}))
	defer srv.Close()

	const size = 4_000_000
	p := NewUploadProbe(size, "tcp")
	p.BaseURL = srv.URL
	p.Interval = time.Millisecond

	progress := make(chan TransferUpdate, 256)
	res, err := p.Run(context.Background(), progress)
	close(progress)
	for range progress {
	}

	// Half the chunks died; the probe still completes and the average
	// is computed over the declared size.
	assert.NilError(t, err)
	assert.Assert(t, res.AverageMbps > 0)
	assert.Equal(t, requests.Load(), int64(4))
}

func TestUploadProbeCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body) //nolint:errcheck
		time.Sleep(5 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewUploadProbe(50_000_000, "tcp")
	p.BaseURL = srv.URL
	p.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	progress := make(chan TransferUpdate, 32)

	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		_, runErr = p.Run(ctx, progress)
	}()

	<-progress
	cancel()

	for {
		select {
		case <-progress:
		case <-done:
			assert.ErrorIs(t, runErr, context.Canceled)
			return
		}
	}
}
