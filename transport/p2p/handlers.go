package p2p

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
	"github.com/sui-direct/node/protocol"
	"github.com/sui-direct/node/service"
)

const (
	// maxRequestBytes caps inbound request payloads. Requests are small
	// lookup keys and JSON envelopes; only push carries a blob, and it has
	// its own ceiling.
	maxRequestBytes = 1 << 20 // 1 MiB

	// pullTimeout bounds a whole pull exchange, request parse through final
	// chunk.
	pullTimeout = 30 * time.Second

	authFailureMessage = "Failed to authenticate. Please be sure you sign the message with the wallet you provided."
	fundsMessage       = "Not enough WAL coins to push repository. Deposit some WAL coins to your deposit account."
)

// AuthEngine is the slice of the authentication service the stream handlers
// depend on.
type AuthEngine interface {
	Register(ctx context.Context, peerID string) error
	Challenge(ctx context.Context, peerID string) (uint64, error)
	Prove(ctx context.Context, remoteID string, req protocol.SignatureRequest) (string, error)
	Validate(ctx context.Context, req protocol.ValidateRequest) (*core.SessionClaims, error)
}

// Handlers binds the authentication and transfer engines to their stream
// protocols.
type Handlers struct {
	auth     AuthEngine
	transfer *service.TransferService
}

func NewHandlers(auth AuthEngine, transfer *service.TransferService) *Handlers {
	return &Handlers{auth: auth, transfer: transfer}
}

// Register installs every protocol handler on the router.
func (h *Handlers) Register(r *Router) {
	r.Handle(protocol.Handshake, h.handleHandshake)
	r.Handle(protocol.Nonce, h.handleNonce)
	r.Handle(protocol.Signature, h.handleSignature)
	r.Handle(protocol.Validate, h.handleValidate)
	r.Handle(protocol.Push, h.handlePush)
	r.Handle(protocol.Pull, h.handlePull)
	r.Handle(protocol.Rename, h.handleRename)
}

// handleHandshake registers the peer. Malformed input drops the stream
// without a response; every later protocol answers with a message instead.
func (h *Handlers) handleHandshake(ctx context.Context, stream ports.Stream) {
	data, err := ReadAllLimit(ctx, stream, maxRequestBytes)
	if err != nil {
		return
	}
	req, err := protocol.DecodeHandshakeRequest(data)
	if err != nil {
		return
	}

	if err := h.auth.Register(ctx, req.PeerID); err != nil {
		return
	}
	writeJSON(ctx, stream, protocol.StatusResponse{Status: "ok"})
}

func (h *Handlers) handleNonce(ctx context.Context, stream ports.Stream) {
	data, err := ReadAllLimit(ctx, stream, maxRequestBytes)
	if err != nil {
		return
	}
	req, err := protocol.DecodeNonceRequest(data)
	if err != nil {
		writeJSON(ctx, stream, protocol.ErrorResponse{Error: "Invalid nonce data"})
		return
	}

	nonce, err := h.auth.Challenge(ctx, req.PeerID)
	switch {
	case err == nil:
		writeJSON(ctx, stream, protocol.NonceResponse{Nonce: nonce})
	case errors.Is(err, core.ErrInvalidPeer):
		writeJSON(ctx, stream, protocol.ErrorResponse{Error: "Invalid peer ID"})
	default:
		log.Printf("p2p: challenge failed: %v", err)
		writeJSON(ctx, stream, protocol.ErrorResponse{Error: "Failed to issue nonce"})
	}
}

func (h *Handlers) handleSignature(ctx context.Context, stream ports.Stream) {
	data, err := ReadAllLimit(ctx, stream, maxRequestBytes)
	if err != nil {
		return
	}
	req, err := protocol.DecodeSignatureRequest(data)
	if err != nil {
		writeJSON(ctx, stream, protocol.ErrorResponse{Error: "Invalid signature data"})
		return
	}

	token, err := h.auth.Prove(ctx, stream.RemoteIdentity(), req)
	switch {
	case err == nil:
		writeJSON(ctx, stream, protocol.TokenResponse{Token: token, Status: "ok"})
	case errors.Is(err, core.ErrInvalidPeer):
		writeJSON(ctx, stream, protocol.ErrorResponse{Error: "Invalid peer ID"})
	case errors.Is(err, core.ErrInvalidNonce):
		writeJSON(ctx, stream, protocol.ErrorResponse{Error: "Invalid nonce"})
	case errors.Is(err, core.ErrSignatureInvalid):
		writeJSON(ctx, stream, protocol.ErrorResponse{Error: authFailureMessage})
	default:
		log.Printf("p2p: signature exchange failed: %v", err)
		writeJSON(ctx, stream, protocol.ErrorResponse{Error: "Authentication failed"})
	}
}

func (h *Handlers) handleValidate(ctx context.Context, stream ports.Stream) {
	data, err := ReadAllLimit(ctx, stream, maxRequestBytes)
	if err != nil {
		return
	}
	req, err := protocol.DecodeValidateRequest(data)
	if err != nil || req.Token == "" {
		writeJSON(ctx, stream, protocol.ValidateResponse{Status: false, Error: "Invalid token"})
		return
	}
	if req.PeerID == "" {
		writeJSON(ctx, stream, protocol.ValidateResponse{Status: false, Error: "Invalid peer ID"})
		return
	}

	claims, err := h.auth.Validate(ctx, req)
	switch {
	case err == nil:
		writeJSON(ctx, stream, protocol.ValidateResponse{Status: "ok", Decoded: claims})
	case errors.Is(err, core.ErrTokenExpired):
		writeJSON(ctx, stream, protocol.ValidateResponse{
			Status:  false,
			Error:   "Session expired, please log in.",
			Expired: true,
		})
	default:
		writeJSON(ctx, stream, protocol.ValidateResponse{Status: false, Error: "Invalid token"})
	}
}

// handlePush checks authorization before reading a single payload byte, then
// accumulates the raw blob under the hard ceiling.
func (h *Handlers) handlePush(ctx context.Context, stream ports.Stream) {
	peerID := stream.RemoteIdentity()
	if err := h.transfer.Authorize(ctx, peerID); err != nil {
		writeJSON(ctx, stream, protocol.TransferResponse{
			Status:  false,
			Message: "You must be authenticated to push files.",
		})
		return
	}

	data, err := ReadAllLimit(ctx, stream, service.MaxPushBytes)
	if errors.Is(err, core.ErrSizeExceeded) {
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "File size exceeds limit"})
		return
	}
	if err != nil {
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Failed to receive files"})
		return
	}

	rec, err := h.transfer.Push(ctx, peerID, data)
	switch {
	case err == nil:
		writeJSON(ctx, stream, protocol.TransferResponse{Status: true, BlobID: rec.BlobID, ID: rec.Name})
	case errors.Is(err, core.ErrInsufficientFunds):
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: fundsMessage})
	default:
		log.Printf("p2p: push failed: %v", err)
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Failed to push repository"})
	}
}

// handlePull serves repository content as a chunk sequence. One wall-clock
// deadline covers request parsing and emission alike.
func (h *Handlers) handlePull(ctx context.Context, stream ports.Stream) {
	ctx, cancel := context.WithTimeout(ctx, pullTimeout)
	defer cancel()

	data, err := ReadAllLimit(ctx, stream, maxRequestBytes)
	if err != nil {
		return
	}
	req, err := protocol.DecodePullRequest(data)
	if err != nil {
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Invalid pull request"})
		return
	}

	_, content, err := h.transfer.Fetch(ctx, req.Key())
	switch {
	case err == nil:
	case errors.Is(err, core.ErrNotFound):
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Repository not found"})
		return
	case errors.Is(err, core.ErrBlobUnavailable):
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Repository content is unavailable"})
		return
	default:
		log.Printf("p2p: pull failed: %v", err)
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Failed to pull repository"})
		return
	}

	if err := WriteChunks(ctx, stream, content, ChunkSize, PacingDelay); err != nil {
		log.Printf("p2p: pull emission aborted: %v", err)
	}
}

func (h *Handlers) handleRename(ctx context.Context, stream ports.Stream) {
	data, err := ReadAllLimit(ctx, stream, maxRequestBytes)
	if err != nil {
		return
	}
	req, err := protocol.DecodeRenameRequest(data)
	if err != nil {
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Invalid rename request"})
		return
	}

	err = h.transfer.Rename(ctx, stream.RemoteIdentity(), req.Key(), req.Name)
	switch {
	case err == nil:
		writeJSON(ctx, stream, protocol.TransferResponse{Status: true, Message: "Repository renamed"})
	case errors.Is(err, core.ErrUnauthorized):
		writeJSON(ctx, stream, protocol.TransferResponse{
			Status:  false,
			Message: "You must be authenticated to rename repositories.",
		})
	case errors.Is(err, core.ErrNameRequired):
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Repository name is required"})
	case errors.Is(err, core.ErrNameLength):
		writeJSON(ctx, stream, protocol.TransferResponse{
			Status:  false,
			Message: "Repository name must be between 3 and 64 characters",
		})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Repository not found"})
	case errors.Is(err, core.ErrNotOwner):
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "You do not own this repository"})
	default:
		log.Printf("p2p: rename failed: %v", err)
		writeJSON(ctx, stream, protocol.TransferResponse{Status: false, Message: "Failed to rename repository"})
	}
}

func writeJSON(ctx context.Context, stream ports.Stream, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("p2p: marshaling response: %v", err)
		return
	}
	if err := stream.WriteAll(ctx, payload); err != nil {
		log.Printf("p2p: writing response: %v", err)
	}
}
