package service

import (
	"sync"
	"time"

	"github.com/sui-direct/node/core"
)

// sessionState owns the transient per-peer handshake state: registered
// peers and their outstanding challenge. It is shared by every in-flight
// handler and by the periodic cleaner, so every access goes through the
// mutex. Temporary authorizations live in the AuthCache port instead, so
// they can be backed by a distributed store.
type sessionState struct {
	mu     sync.RWMutex
	peers  map[string]core.PeerRecord
	nonces map[string]core.NonceEntry
}

func newSessionState() *sessionState {
	return &sessionState{
		peers:  make(map[string]core.PeerRecord),
		nonces: make(map[string]core.NonceEntry),
	}
}

// registerPeer creates or refreshes the record for a peer.
func (s *sessionState) registerPeer(peerID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[peerID] = core.PeerRecord{PeerID: peerID, FirstSeen: now}
}

func (s *sessionState) hasPeer(peerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.peers[peerID]
	return ok
}

// setNonce overwrites any previous challenge for the peer: at most one
// nonce is live per peer.
func (s *sessionState) setNonce(peerID string, value uint64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonces[peerID] = core.NonceEntry{PeerID: peerID, Value: value, IssuedAt: now}
}

func (s *sessionState) nonce(peerID string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.nonces[peerID]
	return e.Value, ok
}

// consumeNonce deletes the peer's challenge after a successful proof so the
// same nonce cannot be replayed before the next challenge overwrites it.
func (s *sessionState) consumeNonce(peerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nonces, peerID)
}

// sweep removes peer records older than the retention window, together with
// their outstanding nonces, and returns how many peers were dropped.
func (s *sessionState) sweep(now time.Time, retention time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for peerID, rec := range s.peers {
		if now.Sub(rec.FirstSeen) > retention {
			delete(s.peers, peerID)
			delete(s.nonces, peerID)
			removed++
		}
	}
	return removed
}
