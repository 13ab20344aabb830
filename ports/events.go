package ports

import (
	"context"

	"github.com/sui-direct/node/core"
)

// EventPublisher notifies other components about auth and repository
// lifecycle events. Publishing failures must not fail the operation that
// triggered them.
type EventPublisher interface {
	PublishLogin(ctx context.Context, account, peerID, deposit string) error
	PublishPushed(ctx context.Context, rec core.RepositoryRecord) error
	PublishRenamed(ctx context.Context, blobID, name string) error
}
