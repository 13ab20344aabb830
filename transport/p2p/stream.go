package p2p

import (
	"context"
	"errors"
	"io"
	"time"

	quic "github.com/quic-go/quic-go"

	"github.com/sui-direct/node/ports"
)

// quicStream adapts a QUIC stream to the ports.Stream capability the
// protocol engines depend on.
type quicStream struct {
	s      *quic.Stream
	remote string
}

var _ ports.Stream = (*quicStream)(nil)

func newQUICStream(s *quic.Stream, remote string) *quicStream {
	return &quicStream{s: s, remote: remote}
}

func (q *quicStream) Read(p []byte) (int, error) {
	return q.s.Read(p)
}

// SetReadDeadline lets ReadAllLimit unblock a stalled inbound stream when
// its ctx deadline fires.
func (q *quicStream) SetReadDeadline(t time.Time) error {
	return q.s.SetReadDeadline(t)
}

// WriteAll writes the whole buffer, honoring a ctx deadline through the
// stream's write deadline.
func (q *quicStream) WriteAll(ctx context.Context, p []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := q.s.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	for len(p) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := q.s.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (q *quicStream) RemoteIdentity() string {
	return q.remote
}

func (q *quicStream) Close() error {
	return q.s.Close()
}

// readProtocolHeader reads the newline-terminated protocol identifier that
// opens every stream.
func readProtocolHeader(r io.Reader) (string, error) {
	var one [1]byte
	line := make([]byte, 0, 32)
	for len(line) < 128 {
		if _, err := r.Read(one[:]); err != nil {
			return "", err
		}
		if one[0] == '\n' {
			return string(line), nil
		}
		line = append(line, one[0])
	}
	return "", errors.New("protocol header too long")
}
