package pkg

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// GenerateGameID returns a new random game identifier.
func GenerateGameID() string {
	return uuid.NewString()
}

// NewSeed reads a PRNG seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
