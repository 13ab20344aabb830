// Package protocol defines the stream protocol identifiers and the typed
// request/response messages exchanged over them. Each request is decoded
// exactly once at the transport boundary; missing required fields are
// rejected before any business logic runs.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/sui-direct/node/core"
)

// Versioned protocol identifiers. A remote peer opens a stream naming one of
// these; the request payload follows and a single response (or chunk
// sequence, for pull) comes back on the same stream.
const (
	Handshake = "/handshake/1.0.0"
	Nonce     = "/nonce/1.0.0"
	Signature = "/signature/1.0.0"
	Validate  = "/validate/1.0.0"
	Push      = "/push/1.0.0"
	Pull      = "/pull/1.0.0"
	Rename    = "/rename/1.0.0"
)

// HandshakeRequest registers a peer before it may request a challenge.
type HandshakeRequest struct {
	PeerID string `json:"peerID"`
}

// NonceRequest asks for a fresh challenge value.
type NonceRequest struct {
	PeerID string `json:"peerID"`
}

// SignatureRequest proves account ownership by signing the challenge.
type SignatureRequest struct {
	PeerID    string `json:"peerID"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

// ValidateRequest presents a session token for verification.
type ValidateRequest struct {
	Token  string `json:"token"`
	PeerID string `json:"peerID"`
}

// PullRequest identifies a repository by display name or blob identifier.
type PullRequest struct {
	ID     string `json:"id"`
	BlobID string `json:"blobId"`
}

// RenameRequest changes a repository's display name. Name is a pointer so a
// missing field can be told apart from an empty one.
type RenameRequest struct {
	ID     string  `json:"id"`
	BlobID string  `json:"blobId"`
	Name   *string `json:"name"`
}

// Key returns whichever identifier the request carries, preferring the
// display name.
func (r PullRequest) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.BlobID
}

func (r RenameRequest) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.BlobID
}

func DecodeHandshakeRequest(data []byte) (HandshakeRequest, error) {
	var req HandshakeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("malformed handshake request: %w", err)
	}
	if req.PeerID == "" {
		return req, fmt.Errorf("handshake request missing peerID")
	}
	return req, nil
}

func DecodeNonceRequest(data []byte) (NonceRequest, error) {
	var req NonceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("malformed nonce request: %w", err)
	}
	if req.PeerID == "" {
		return req, fmt.Errorf("nonce request missing peerID")
	}
	return req, nil
}

func DecodeSignatureRequest(data []byte) (SignatureRequest, error) {
	var req SignatureRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("malformed signature request: %w", err)
	}
	if req.PeerID == "" || req.Signature == "" || req.PublicKey == "" {
		return req, fmt.Errorf("signature request missing required fields")
	}
	return req, nil
}

func DecodeValidateRequest(data []byte) (ValidateRequest, error) {
	var req ValidateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("malformed validate request: %w", err)
	}
	return req, nil
}

func DecodePullRequest(data []byte) (PullRequest, error) {
	var req PullRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("malformed pull request: %w", err)
	}
	if req.ID == "" && req.BlobID == "" {
		return req, fmt.Errorf("pull request missing repository identifier")
	}
	return req, nil
}

func DecodeRenameRequest(data []byte) (RenameRequest, error) {
	var req RenameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("malformed rename request: %w", err)
	}
	if req.ID == "" && req.BlobID == "" {
		return req, fmt.Errorf("rename request missing repository identifier")
	}
	return req, nil
}

// StatusResponse acknowledges a handshake.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries an auth-protocol error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NonceResponse carries a freshly issued challenge value.
type NonceResponse struct {
	Nonce uint64 `json:"nonce"`
}

// TokenResponse carries a newly issued session token.
type TokenResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

// ValidateResponse echoes the decoded claims on success. Status is "ok" on
// success and false on failure, matching the wire contract.
type ValidateResponse struct {
	Status  any                 `json:"status"`
	Decoded *core.SessionClaims `json:"decoded,omitempty"`
	Error   string              `json:"error,omitempty"`
	Expired bool                `json:"expired,omitempty"`
}

// TransferResponse is the single response shape for push, pull failures and
// rename.
type TransferResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	BlobID  string `json:"blobId,omitempty"`
	ID      string `json:"id,omitempty"`
}
