package p2p

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/sui-direct/node/core"
)

const (
	// ChunkSize is the fixed outbound chunk size for blob emission.
	ChunkSize = 64 * 1024

	// PacingDelay is the cooperative flow-control pause between outbound
	// chunks.
	PacingDelay = 5 * time.Millisecond
)

// readDeadliner is satisfied by transports whose Read can be unblocked by a
// deadline.
type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// ReadAllLimit accumulates r until EOF, checking ctx and the running total
// between chunks. It fails with core.ErrSizeExceeded the instant the total
// crosses limit, so no peer can force more than one limit's worth of
// buffering. A ctx deadline is pushed down to the reader, so a peer that
// opens a stream and stalls cannot block past it.
func ReadAllLimit(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if d, ok := r.(readDeadliner); ok {
			if err := d.SetReadDeadline(deadline); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	chunk := make([]byte, ChunkSize)
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := r.Read(chunk)
		if n > 0 {
			total += int64(n)
			if total > limit {
				return nil, core.ErrSizeExceeded
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
	}
}

// WriteChunks emits data as fixed-size chunks, checking ctx before each
// chunk and pacing between them.
func WriteChunks(ctx context.Context, w interface {
	WriteAll(ctx context.Context, p []byte) error
}, data []byte, chunkSize int, pacing time.Duration) error {
	for off := 0; off < len(data); off += chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := w.WriteAll(ctx, data[off:end]); err != nil {
			return err
		}

		if end < len(data) && pacing > 0 {
			timer := time.NewTimer(pacing)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return nil
}
