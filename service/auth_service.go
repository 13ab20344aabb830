package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
	"github.com/sui-direct/node/protocol"
)

const (
	// DefaultRetention bounds how long peer records, nonces and temporary
	// authorizations stay alive without further activity.
	DefaultRetention = time.Hour

	// DefaultCleanInterval is how often the cleaner sweeps session state.
	DefaultCleanInterval = time.Hour

	// signTemplate is the fixed message the client must sign. The nonce is
	// the only variable part.
	signTemplate = "Welcome to %s!\n\nSign this message to authenticate.\n\nNonce: %d"
)

// AuthService is the authentication engine: it drives the four-step
// challenge-response handshake that converts a transport peer identity into
// an account-backed session.
type AuthService struct {
	state     *sessionState
	creds     ports.CredentialStore
	cache     ports.AuthCache
	tokenizer ports.Tokenizer
	verifier  ports.SignatureVerifier
	events    ports.EventPublisher

	service   string
	retention time.Duration
	interval  time.Duration
}

// AuthOption tweaks AuthService construction.
type AuthOption func(*AuthService)

// WithRetention overrides the retention window and cleaner interval.
func WithRetention(window, interval time.Duration) AuthOption {
	return func(s *AuthService) {
		s.retention = window
		s.interval = interval
	}
}

// NewAuthService creates the authentication engine. events may be nil.
func NewAuthService(
	creds ports.CredentialStore,
	cache ports.AuthCache,
	tokenizer ports.Tokenizer,
	verifier ports.SignatureVerifier,
	events ports.EventPublisher,
	serviceName string,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		state:     newSessionState(),
		creds:     creds,
		cache:     cache,
		tokenizer: tokenizer,
		verifier:  verifier,
		events:    events,
		service:   serviceName,
		retention: DefaultRetention,
		interval:  DefaultCleanInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates or refreshes the peer record. The transport handler is
// responsible for dropping the connection on malformed input.
func (s *AuthService) Register(ctx context.Context, peerID string) error {
	s.state.registerPeer(peerID, time.Now())
	return nil
}

// Challenge issues a fresh 48-bit nonce for a registered peer, overwriting
// any previous one.
func (s *AuthService) Challenge(ctx context.Context, peerID string) (uint64, error) {
	if !s.state.hasPeer(peerID) {
		return 0, core.ErrInvalidPeer
	}

	nonce, err := generateNonce()
	if err != nil {
		return 0, fmt.Errorf("generating nonce: %w", err)
	}
	s.state.setNonce(peerID, nonce, time.Now())
	return nonce, nil
}

// Prove verifies the signature over the challenge message and issues a
// session token. remoteID is the transport-reported identity of the caller;
// it must match the claimed peer ID. The checks short-circuit in order with
// distinct errors, except the signature check itself which always fails with
// the same generic error.
func (s *AuthService) Prove(ctx context.Context, remoteID string, req protocol.SignatureRequest) (string, error) {
	if !s.state.hasPeer(req.PeerID) || req.PeerID != remoteID {
		return "", core.ErrInvalidPeer
	}

	nonce, ok := s.state.nonce(req.PeerID)
	if !ok {
		return "", core.ErrInvalidNonce
	}

	message := []byte(fmt.Sprintf(signTemplate, s.service, nonce))
	valid, err := s.verifier.Verify(message, req.Signature, req.PublicKey)
	if err != nil || !valid {
		// Same error for wrong nonce, wrong template or wrong signer.
		return "", core.ErrSignatureInvalid
	}

	// The nonce is single-use: drop it so the same proof cannot be replayed.
	s.state.consumeNonce(req.PeerID)

	deposit, err := s.upsertCredential(ctx, req.PublicKey, req.PeerID, nonce)
	if err != nil {
		return "", err
	}

	token, err := s.tokenizer.Issue(core.SessionClaims{
		PeerID:    req.PeerID,
		PublicKey: req.PublicKey,
		Signature: req.Signature,
		Deposit:   deposit,
	})
	if err != nil {
		return "", fmt.Errorf("issuing session token: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishLogin(ctx, req.PublicKey, req.PeerID, deposit); err != nil {
			log.Printf("auth: failed to publish login event: %v", err)
		}
	}

	return token, nil
}

// upsertCredential updates the credential row for a known account or, for a
// first-time account, creates the credential and its deposit wallet in one
// transaction. It returns the deposit address either way.
func (s *AuthService) upsertCredential(ctx context.Context, account, peerID string, nonce uint64) (string, error) {
	_, err := s.creds.Credential(ctx, account)
	if err == nil {
		if err := s.creds.UpdateAuth(ctx, account, peerID, nonce); err != nil {
			return "", fmt.Errorf("updating credential: %w", err)
		}
		wallet, err := s.creds.Wallet(ctx, account)
		if err != nil {
			return "", fmt.Errorf("loading deposit wallet: %w", err)
		}
		return wallet.PublicKey, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return "", fmt.Errorf("loading credential: %w", err)
	}

	wallet, err := newDepositWallet(account)
	if err != nil {
		return "", fmt.Errorf("generating deposit wallet: %w", err)
	}
	err = s.creds.Register(ctx, core.AccountCredential{
		Account:      account,
		PeerID:       peerID,
		Nonce:        nonce,
		RegisteredAt: time.Now(),
	}, wallet)
	if err != nil {
		return "", fmt.Errorf("registering account: %w", err)
	}
	return wallet.PublicKey, nil
}

// Validate verifies a session token and, on success, grants the peer a
// temporary authorization. Token validity is independent of session state:
// no prior peer record is required.
func (s *AuthService) Validate(ctx context.Context, req protocol.ValidateRequest) (*core.SessionClaims, error) {
	claims, err := s.tokenizer.Verify(req.Token)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Grant(ctx, req.PeerID); err != nil {
		return nil, fmt.Errorf("granting authorization: %w", err)
	}
	return claims, nil
}

// IsAuthorized reports whether a peer holds a live temporary authorization.
func (s *AuthService) IsAuthorized(ctx context.Context, peerID string) bool {
	ok, err := s.cache.IsAuthorized(ctx, peerID)
	if err != nil {
		log.Printf("auth: authorization check failed for %s: %v", peerID, err)
		return false
	}
	return ok
}

// RunCleaner sweeps session state on a fixed interval until ctx is
// cancelled. Each sweep is independently guarded so one failure cannot kill
// the loop.
func (s *AuthService) RunCleaner(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *AuthService) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("auth: cleaner sweep panicked: %v", r)
		}
	}()

	removed := s.state.sweep(time.Now(), s.retention)
	if removed > 0 {
		log.Printf("auth: cleaned %d peer records", removed)
	}
	if _, err := s.cache.Purge(ctx); err != nil {
		log.Printf("auth: purging authorizations: %v", err)
	}
}

// generateNonce returns an unpredictable value in [0, 2^48).
func generateNonce() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[2:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// newDepositWallet generates the custodial keypair that pays for an
// account's storage operations.
func newDepositWallet(account string) (core.DepositWallet, error) {
	key, err := gethcrypto.GenerateKey()
	if err != nil {
		return core.DepositWallet{}, err
	}
	return core.DepositWallet{
		Account:    account,
		PublicKey:  gethcrypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(gethcrypto.FromECDSA(key)),
		CreatedAt:  time.Now(),
	}, nil
}
