package verifier

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPersonal(t *testing.T, message []byte) (signature, address string) {
	t.Helper()
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)

	sig, err := gethcrypto.Sign(accounts.TextHash(message), key)
	require.NoError(t, err)
	// Wallets report V as 27/28.
	sig[64] += 27

	return hexutil.Encode(sig), gethcrypto.PubkeyToAddress(key.PublicKey).Hex()
}

func TestVerifyValidSignature(t *testing.T) {
	message := []byte("Welcome to test!\n\nSign this message to authenticate.\n\nNonce: 12345")
	sig, addr := signPersonal(t, message)

	ok, err := NewPersonalVerifier().Verify(message, sig, addr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRecoveryIDWithoutOffset(t *testing.T) {
	// Some signers emit V as 0/1 directly.
	message := []byte("hello")
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	sig, err := gethcrypto.Sign(accounts.TextHash(message), key)
	require.NoError(t, err)

	ok, err := NewPersonalVerifier().Verify(message, hexutil.Encode(sig), gethcrypto.PubkeyToAddress(key.PublicKey).Hex())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongSigner(t *testing.T) {
	message := []byte("hello")
	sig, _ := signPersonal(t, message)
	_, otherAddr := signPersonal(t, message)

	ok, err := NewPersonalVerifier().Verify(message, sig, otherAddr)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyDifferentMessage(t *testing.T) {
	sig, addr := signPersonal(t, []byte("hello"))

	ok, _ := NewPersonalVerifier().Verify([]byte("goodbye"), sig, addr)
	assert.False(t, ok)
}

func TestVerifyMalformedSignature(t *testing.T) {
	for _, sig := range []string{"", "nothex", "0x1234"} {
		ok, err := NewPersonalVerifier().Verify([]byte("hello"), sig, "0x0000000000000000000000000000000000000001")
		assert.False(t, ok)
		assert.Error(t, err)
	}
}
