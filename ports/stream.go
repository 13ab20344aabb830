package ports

import (
	"context"
	"io"
)

// Stream is the narrow capability the protocol engines need from a transport
// stream. The concrete transport is injected; engines never see wire-level
// chunk representations.
type Stream interface {
	io.Reader

	// WriteAll writes the whole buffer, honoring ctx cancellation.
	WriteAll(ctx context.Context, p []byte) error

	// RemoteIdentity returns the transport-reported peer identity of the
	// other end.
	RemoteIdentity() string

	Close() error
}
