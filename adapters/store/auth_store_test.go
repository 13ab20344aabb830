package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-direct/node/core"
)

func newTestAuthStore(t *testing.T) *AuthStore {
	t.Helper()
	s, err := NewAuthStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	return s
}

func testCredential(account, peerID string) (core.AccountCredential, core.DepositWallet) {
	now := time.Now().UTC().Truncate(time.Second)
	return core.AccountCredential{
			Account:      account,
			PeerID:       peerID,
			Nonce:        42,
			RegisteredAt: now,
		}, core.DepositWallet{
			Account:    account,
			PublicKey:  "0xdeposit-" + account,
			PrivateKey: "0xsecret-" + account,
			CreatedAt:  now,
		}
}

func TestRegisterAndLoad(t *testing.T) {
	s := newTestAuthStore(t)
	ctx := context.Background()

	cred, wallet := testCredential("0xacc", "peer-1")
	require.NoError(t, s.Register(ctx, cred, wallet))

	got, err := s.Credential(ctx, "0xacc")
	require.NoError(t, err)
	assert.Equal(t, "peer-1", got.PeerID)
	assert.Equal(t, uint64(42), got.Nonce)

	account, err := s.AccountByPeer(ctx, "peer-1")
	require.NoError(t, err)
	assert.Equal(t, "0xacc", account)

	w, err := s.Wallet(ctx, "0xacc")
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey, w.PublicKey)
	assert.Equal(t, wallet.PrivateKey, w.PrivateKey)
}

func TestRegisterDuplicateRollsBackWallet(t *testing.T) {
	s := newTestAuthStore(t)
	ctx := context.Background()

	cred, wallet := testCredential("0xacc", "peer-1")
	require.NoError(t, s.Register(ctx, cred, wallet))

	// A second registration for the same account must fail and must not
	// touch the wallet row.
	cred2, wallet2 := testCredential("0xacc", "peer-2")
	wallet2.PublicKey = "0xreplacement"
	require.Error(t, s.Register(ctx, cred2, wallet2))

	w, err := s.Wallet(ctx, "0xacc")
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey, w.PublicKey)
}

func TestUpdateAuth(t *testing.T) {
	s := newTestAuthStore(t)
	ctx := context.Background()

	cred, wallet := testCredential("0xacc", "peer-1")
	require.NoError(t, s.Register(ctx, cred, wallet))

	require.NoError(t, s.UpdateAuth(ctx, "0xacc", "peer-2", 77))

	got, err := s.Credential(ctx, "0xacc")
	require.NoError(t, err)
	assert.Equal(t, "peer-2", got.PeerID)
	assert.Equal(t, uint64(77), got.Nonce)

	account, err := s.AccountByPeer(ctx, "peer-2")
	require.NoError(t, err)
	assert.Equal(t, "0xacc", account)

	assert.ErrorIs(t, s.UpdateAuth(ctx, "0xmissing", "peer-3", 1), core.ErrNotFound)
}

func TestLookupsReportNotFound(t *testing.T) {
	s := newTestAuthStore(t)
	ctx := context.Background()

	_, err := s.Credential(ctx, "0xmissing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = s.AccountByPeer(ctx, "peer-missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = s.Wallet(ctx, "0xmissing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
