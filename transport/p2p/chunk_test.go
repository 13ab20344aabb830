package p2p

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-direct/node/core"
)

// zeroReader never ends: it simulates a peer streaming forever.
type zeroReader struct {
	reads int
}

func (z *zeroReader) Read(p []byte) (int, error) {
	z.reads++
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestReadAllLimitWithinLimit(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 3*ChunkSize+17)

	got, err := ReadAllLimit(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReadAllLimitAbortsOnExcess(t *testing.T) {
	r := &zeroReader{}
	limit := int64(4 * ChunkSize)

	_, err := ReadAllLimit(context.Background(), r, limit)
	assert.ErrorIs(t, err, core.ErrSizeExceeded)

	// The reader stops the moment the total crosses the limit instead of
	// draining the endless stream.
	assert.LessOrEqual(t, r.reads, 6)
}

// stalledReader blocks in Read until a deadline set through SetReadDeadline
// fires, like a peer that opens a stream and sends nothing.
type stalledReader struct {
	expired chan struct{}
	once    sync.Once
}

func newStalledReader() *stalledReader {
	return &stalledReader{expired: make(chan struct{})}
}

func (s *stalledReader) Read(p []byte) (int, error) {
	<-s.expired
	return 0, os.ErrDeadlineExceeded
}

func (s *stalledReader) SetReadDeadline(t time.Time) error {
	go func() {
		time.Sleep(time.Until(t))
		s.once.Do(func() { close(s.expired) })
	}()
	return nil
}

func TestReadAllLimitUnblocksStalledReadOnDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := ReadAllLimit(ctx, newStalledReader(), 1<<20)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second,
		"a peer sending nothing must not block past the deadline")
}

func TestReadAllLimitHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadAllLimit(ctx, &zeroReader{}, 1<<30)
	assert.ErrorIs(t, err, context.Canceled)
}

// chunkRecorder captures each outbound buffer's size.
type chunkRecorder struct {
	sizes  []int
	cancel context.CancelFunc
}

func (c *chunkRecorder) WriteAll(_ context.Context, p []byte) error {
	c.sizes = append(c.sizes, len(p))
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func TestWriteChunksSplitsAtChunkSize(t *testing.T) {
	rec := &chunkRecorder{}
	data := bytes.Repeat([]byte("y"), 2*ChunkSize+100)

	err := WriteChunks(context.Background(), rec, data, ChunkSize, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{ChunkSize, ChunkSize, 100}, rec.sizes)
}

func TestWriteChunksEmptyPayload(t *testing.T) {
	rec := &chunkRecorder{}

	err := WriteChunks(context.Background(), rec, nil, ChunkSize, 0)
	require.NoError(t, err)
	assert.Empty(t, rec.sizes)
}

func TestWriteChunksStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &chunkRecorder{cancel: cancel}
	data := bytes.Repeat([]byte("z"), 10*ChunkSize)

	err := WriteChunks(ctx, rec, data, ChunkSize, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rec.sizes, 1)
}
