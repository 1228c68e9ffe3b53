package resource

import (
	"context"
	"io"
)

// RateLimitedWriter wraps an io.Writer with rate limiting.
type RateLimitedWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// NewRateLimitedWriter creates a new RateLimitedWriter.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, rc *Controller) *RateLimitedWriter {
	return &RateLimitedWriter{
		ctx: ctx,
		w:   w,
		rc:  rc,
	}
}

// Write writes p in chunks no larger than the limiter burst.
func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	burst := w.rc.ioBurst()
	if burst == 0 {
		return w.w.Write(p)
	}

	written := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > burst {
			chunk = chunk[:burst]
		}
		if err := w.rc.AcquireIO(w.ctx, len(chunk)); err != nil {
			return written, err
		}
		n, err := w.w.Write(chunk)
		written += n
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}

// RateLimitedReader wraps an io.Reader with rate limiting.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewRateLimitedReader creates a new RateLimitedReader.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{
		ctx: ctx,
		r:   r,
		rc:  rc,
	}
}

// Read waits for tokens covering the bytes actually read.
func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if burst := r.rc.ioBurst(); burst > 0 && len(p) > burst {
		p = p[:burst]
	}
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.rc.AcquireIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
