package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameFromBlobIDIsDeterministic(t *testing.T) {
	a := NameFromBlobID("u6XO8pYf2eW9lQ4n")
	b := NameFromBlobID("u6XO8pYf2eW9lQ4n")
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
	assert.Equal(t, strings.ToLower(a), a)
}

func TestNameFromBlobIDVariesWithInput(t *testing.T) {
	seen := make(map[string]bool)
	for _, blobID := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		seen[NameFromBlobID(blobID)] = true
	}
	// Distinct inputs should not all collapse to one name.
	assert.Greater(t, len(seen), 1)
}
