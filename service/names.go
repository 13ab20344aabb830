package service

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/goombaio/namegenerator"
)

// NameFromBlobID derives a human-readable display name from a blob
// identifier. The generator is seeded from the identifier, so the same
// content always maps to the same name, independent of run.
func NameFromBlobID(blobID string) string {
	digest := sha256.Sum256([]byte(blobID))
	seed := int64(binary.BigEndian.Uint64(digest[:8]) >> 1)
	name := namegenerator.NewNameGenerator(seed).Generate()
	return strings.ToLower(name)
}
