// Package commitment implements the cryptographic binding between a
// logged paddle position and the player's revealed seed.
//
// A commitment is SHA-256(seed || LE32(index) || LE64(paddleY)) — a single
// hash over a fixed 44-byte buffer, grounded on the teacher's
// llr_engine.go audit-hash pattern (hash over concatenated fields for an
// immutable audit trail), but swapped onto the teacher's own
// chaincfg/chainhash dependency for the concrete hash type.
package commitment

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// SeedSize is the required length, in bytes, of a player's commitment seed.
const SeedSize = 32

// Seed is a 32-byte per-player commitment seed.
type Seed [SeedSize]byte

// Compute returns SHA-256(seed || LE32(index) || LE64(paddleY)).
//
// chainhash.HashH performs a single SHA-256 pass (not btcd's usual
// double-SHA256) — exactly what the spec calls for.
func Compute(seed Seed, index uint32, paddleY int64) chainhash.Hash {
	buf := make([]byte, 0, SeedSize+4+8)
	buf = append(buf, seed[:]...)
	var idxBuf [4]byte
	binary.LittleEndian.PutUint32(idxBuf[:], index)
	buf = append(buf, idxBuf[:]...)
	var yBuf [8]byte
	binary.LittleEndian.PutUint64(yBuf[:], uint64(paddleY))
	buf = append(buf, yBuf[:]...)
	return chainhash.HashH(buf)
}

// Hex lowercase-hex-encodes a hash's raw bytes directly. It deliberately
// does not use chainhash.Hash.String(), which reverses byte order per
// Bitcoin's block-hash display convention — using it here would silently
// produce commitments that don't match the spec's plain big-endian hex.
func Hex(h chainhash.Hash) string {
	return hex.EncodeToString(h[:])
}

// ParseSeedHex decodes a lowercase hex string into a Seed, requiring exactly
// SeedSize bytes.
func ParseSeedHex(s string) (Seed, error) {
	var seed Seed
	b, err := hex.DecodeString(s)
	if err != nil {
		return seed, fmt.Errorf("commitment: invalid hex seed: %w", err)
	}
	if len(b) != SeedSize {
		return seed, fmt.Errorf("commitment: seed must decode to %d bytes, got %d", SeedSize, len(b))
	}
	copy(seed[:], b)
	return seed, nil
}

// ParseHash decodes a 64-character lowercase hex commitment into a hash.
func ParseHash(s string) (chainhash.Hash, error) {
	var h chainhash.Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("commitment: invalid hex commitment: %w", err)
	}
	if len(b) != chainhash.HashSize {
		return h, fmt.Errorf("commitment: commitment must decode to %d bytes, got %d", chainhash.HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// NonzeroBytes counts the non-zero bytes in a seed — used by the
// weak-seed entropy guard (spec invariant 8: each seed needs >3 nonzero
// bytes, i.e. fewer than 29 zero bytes out of 32).
func (s Seed) NonzeroBytes() int {
	n := 0
	for _, b := range s {
		if b != 0 {
			n++
		}
	}
	return n
}

// Equal reports whether two seeds are byte-identical.
func (s Seed) Equal(other Seed) bool {
	return s == other
}
