package blobstore

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// Throttle wraps a BlobStore and bounds the read throughput of every blob
// opened through it. All blobs share one budget.
type Throttle struct {
	store   BlobStore
	limiter *rate.Limiter
}

// NewThrottle limits reads from store to bytesPerSec. A non-positive limit
// disables throttling.
func NewThrottle(store BlobStore, bytesPerSec int) *Throttle {
	t := &Throttle{store: store}
	if bytesPerSec > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
	}
	return t
}

// Open opens a blob for reading.
func (t *Throttle) Open(ctx context.Context, name string) (Blob, error) {
	b, err := t.store.Open(ctx, name)
	if err != nil || t.limiter == nil {
		return b, err
	}
	return &throttledBlob{Blob: b, limiter: t.limiter}, nil
}

type throttledBlob struct {
	Blob
	limiter *rate.Limiter
}

func (b *throttledBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	rc, err := b.Blob.ReadRange(ctx, off, length)
	if err != nil {
		return nil, err
	}
	return &throttledReader{rc: rc, ctx: ctx, limiter: b.limiter}, nil
}

type throttledReader struct {
	rc      io.ReadCloser
	ctx     context.Context
	limiter *rate.Limiter
}

func (r *throttledReader) Read(p []byte) (int, error) {
	// WaitN fails for n above the burst.
	if burst := r.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := r.rc.Read(p)
	if n > 0 {
		if werr := r.limiter.WaitN(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (r *throttledReader) Close() error {
	return r.rc.Close()
}
