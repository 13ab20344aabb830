package p2p

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIdentityGeneratesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peer-id.json")

	id, err := LoadIdentity(path)
	require.NoError(t, err)
	assert.Len(t, id.ID, 64)

	// Reloading yields the same identity.
	again, err := LoadIdentity(path)
	require.NoError(t, err)
	assert.Equal(t, id.ID, again.ID)
}

func TestLoadIdentityRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peer-id.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"privKey":"!!!"}`), 0o600))

	_, err := LoadIdentity(path)
	assert.Error(t, err)
}

func TestTLSCertificateCarriesIdentityKey(t *testing.T) {
	id, err := LoadIdentity(filepath.Join(t.TempDir(), "peer-id.json"))
	require.NoError(t, err)

	cert, err := id.TLSCertificate()
	require.NoError(t, err)
	require.Len(t, cert.Certificate, 1)
	assert.NotNil(t, cert.PrivateKey)
}

func TestReadProtocolHeader(t *testing.T) {
	header, err := readProtocolHeader(bytes.NewReader([]byte("/push/1.0.0\npayload")))
	require.NoError(t, err)
	assert.Equal(t, "/push/1.0.0", header)

	_, err = readProtocolHeader(bytes.NewReader([]byte(strings.Repeat("x", 200))))
	assert.Error(t, err)

	_, err = readProtocolHeader(bytes.NewReader([]byte("/truncated")))
	assert.Error(t, err)
}
