// Package p2p serves the node's stream protocols over QUIC. Each stream
// opens with a newline-terminated protocol identifier; the request payload
// follows and a single response (or chunk sequence) comes back on the same
// stream. Remote peer identities derive from the client's TLS certificate
// key.
package p2p

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"fmt"
	"log"

	quic "github.com/quic-go/quic-go"
)

const alpnProtocol = "direct-node"

// Server accepts QUIC connections and dispatches their streams to protocol
// handlers.
type Server struct {
	addr     string
	identity *Identity
	router   *Router
}

func NewServer(addr string, identity *Identity, router *Router) *Server {
	return &Server{addr: addr, identity: identity, router: router}
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	cert, err := s.identity.TLSCertificate()
	if err != nil {
		return err
	}
	tlsConf := &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{alpnProtocol},
		// Client certs carry the peer identity; their chains are
		// self-signed, so verification is skipped and the key itself is
		// the identity.
		ClientAuth: tls.RequireAnyClientCert,
	}

	listener, err := quic.ListenAddr(s.addr, tlsConf, nil)
	if err != nil {
		return fmt.Errorf("quic listen on %s: %w", s.addr, err)
	}
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	log.Printf("p2p: listening on %s", s.addr)
	for {
		conn, err := listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("quic accept: %w", err)
		}
		go s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn *quic.Conn) {
	remote := remoteIdentity(conn)
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}
		go s.serveStream(ctx, stream, remote)
	}
}

func (s *Server) serveStream(ctx context.Context, stream *quic.Stream, remote string) {
	protocolID, err := readProtocolHeader(stream)
	if err != nil {
		_ = stream.Close()
		return
	}
	s.router.Dispatch(ctx, protocolID, newQUICStream(stream, remote))
}

// remoteIdentity derives the peer ID from the client certificate's ed25519
// key. Connections without a usable certificate get an empty identity and
// fail the handshake's peer check naturally.
func remoteIdentity(conn *quic.Conn) string {
	certs := conn.ConnectionState().TLS.PeerCertificates
	if len(certs) == 0 {
		return ""
	}
	pub, ok := certs[0].PublicKey.(ed25519.PublicKey)
	if !ok {
		return ""
	}
	return PeerIDFromPublicKey(pub)
}
