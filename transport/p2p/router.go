package p2p

import (
	"context"
	"log"

	"github.com/sui-direct/node/ports"
)

// Handler serves one protocol exchange on a stream. The router closes the
// stream after the handler returns.
type Handler func(ctx context.Context, stream ports.Stream)

// Router maps versioned protocol identifiers to handlers.
type Router struct {
	handlers map[string]Handler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

func (r *Router) Handle(protocolID string, h Handler) {
	r.handlers[protocolID] = h
}

// Dispatch routes a stream to its protocol handler. Handler panics are
// contained: they drop the stream and leave the process alive.
func (r *Router) Dispatch(ctx context.Context, protocolID string, stream ports.Stream) {
	defer stream.Close()
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("p2p: handler for %s panicked: %v", protocolID, rec)
		}
	}()

	h, ok := r.handlers[protocolID]
	if !ok {
		log.Printf("p2p: no handler for protocol %q", protocolID)
		return
	}
	h(ctx, stream)
}
