package p2p

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// Identity is the node's persistent peer identity: an ed25519 keypair whose
// public key hash is the peer ID.
type Identity struct {
	ID  string
	key ed25519.PrivateKey
}

type identityFile struct {
	ID      string `json:"id"`
	PrivKey string `json:"privKey"`
	PubKey  string `json:"pubKey"`
}

// LoadIdentity reads the identity file at path, generating and persisting a
// fresh one when absent.
func LoadIdentity(path string) (*Identity, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		var f identityFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parsing identity file: %w", err)
		}
		key, err := base64.StdEncoding.DecodeString(f.PrivKey)
		if err != nil || len(key) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("identity file carries a bad private key")
		}
		priv := ed25519.PrivateKey(key)
		return &Identity{ID: PeerIDFromPublicKey(priv.Public().(ed25519.PublicKey)), key: priv}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}
	return generateIdentity(path)
}

func generateIdentity(path string) (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating identity key: %w", err)
	}

	id := &Identity{ID: PeerIDFromPublicKey(pub), key: priv}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating identity directory: %w", err)
	}
	raw, err := json.Marshal(identityFile{
		ID:      id.ID,
		PrivKey: base64.StdEncoding.EncodeToString(priv),
		PubKey:  base64.StdEncoding.EncodeToString(pub),
	})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return nil, fmt.Errorf("persisting identity: %w", err)
	}
	return id, nil
}

// PeerIDFromPublicKey derives the peer identity string for an ed25519
// public key.
func PeerIDFromPublicKey(pub ed25519.PublicKey) string {
	digest := sha256.Sum256(pub)
	return hex.EncodeToString(digest[:])
}

// TLSCertificate builds a self-signed certificate over the identity key so
// the QUIC layer can report the key-derived peer ID of either end.
func (id *Identity) TLSCertificate() (tls.Certificate, error) {
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(10 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		DNSNames:     []string{"direct-node"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, id.key.Public(), id.key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("creating identity certificate: %w", err)
	}
	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  id.key,
	}, nil
}
