package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHandshakeRequest(t *testing.T) {
	req, err := DecodeHandshakeRequest([]byte(`{"peerID":"peer-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "peer-1", req.PeerID)

	_, err = DecodeHandshakeRequest([]byte(`{}`))
	assert.Error(t, err)
	_, err = DecodeHandshakeRequest([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeSignatureRequestRequiresAllFields(t *testing.T) {
	valid := `{"peerID":"peer-1","signature":"0xsig","publicKey":"0xacc"}`
	req, err := DecodeSignatureRequest([]byte(valid))
	require.NoError(t, err)
	assert.Equal(t, "0xacc", req.PublicKey)

	for _, raw := range []string{
		`{"signature":"0xsig","publicKey":"0xacc"}`,
		`{"peerID":"peer-1","publicKey":"0xacc"}`,
		`{"peerID":"peer-1","signature":"0xsig"}`,
	} {
		_, err := DecodeSignatureRequest([]byte(raw))
		assert.Error(t, err, "payload %s", raw)
	}
}

func TestDecodePullRequestAcceptsEitherIdentifier(t *testing.T) {
	req, err := DecodePullRequest([]byte(`{"id":"witty-walrus"}`))
	require.NoError(t, err)
	assert.Equal(t, "witty-walrus", req.Key())

	req, err = DecodePullRequest([]byte(`{"blobId":"blob-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "blob-1", req.Key())

	// The display name wins when both are present.
	req, err = DecodePullRequest([]byte(`{"id":"witty-walrus","blobId":"blob-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "witty-walrus", req.Key())

	_, err = DecodePullRequest([]byte(`{}`))
	assert.Error(t, err)
}

func TestDecodeRenameRequestNamePresence(t *testing.T) {
	req, err := DecodeRenameRequest([]byte(`{"id":"witty-walrus","name":"serious-seal"}`))
	require.NoError(t, err)
	require.NotNil(t, req.Name)
	assert.Equal(t, "serious-seal", *req.Name)

	// A missing name decodes fine; the engine distinguishes it from empty.
	req, err = DecodeRenameRequest([]byte(`{"id":"witty-walrus"}`))
	require.NoError(t, err)
	assert.Nil(t, req.Name)

	req, err = DecodeRenameRequest([]byte(`{"id":"witty-walrus","name":""}`))
	require.NoError(t, err)
	require.NotNil(t, req.Name)
	assert.Empty(t, *req.Name)

	_, err = DecodeRenameRequest([]byte(`{"name":"serious-seal"}`))
	assert.Error(t, err)
}

func TestDecodeValidateRequestTolerantOfMissingFields(t *testing.T) {
	// Field presence is checked by the handler so it can answer with the
	// field-specific message.
	req, err := DecodeValidateRequest([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, req.Token)
	assert.Empty(t, req.PeerID)

	_, err = DecodeValidateRequest([]byte(`not json`))
	assert.Error(t, err)
}
