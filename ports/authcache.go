package ports

import "context"

// AuthCache holds temporary authorizations: short-lived, revocable grants
// that let an authenticated peer skip signature re-verification on transfer
// calls. Entries expire after the retention window.
type AuthCache interface {
	// Grant inserts or refreshes the authorization for a peer.
	Grant(ctx context.Context, peerID string) error

	// IsAuthorized reports whether a live authorization exists for a peer.
	IsAuthorized(ctx context.Context, peerID string) (bool, error)

	// Purge drops expired entries and returns how many were removed.
	// Backends with native TTL expiry may make this a no-op.
	Purge(ctx context.Context) (int, error)
}
