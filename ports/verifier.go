package ports

// SignatureVerifier checks that a signature over a message was produced by
// the claimed address.
type SignatureVerifier interface {
	Verify(message []byte, signature, address string) (bool, error)
}
