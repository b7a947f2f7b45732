// Package guestio implements the guest/host boundary: the SHA-256 log
// digest both sides commit to (spec.md §4.8). It has no dependency on
// the validator — it only knows how to build and hash the byte
// sequence both a host and a guest agree represents a given match.
package guestio

import (
	"crypto/sha256"
	"encoding/binary"
)

// logHashPrefix is the domain-separation tag prepended to every log
// hash input. Changing it invalidates every previously-computed hash.
var logHashPrefix = []byte("PONGLOGv1")

// LogHash computes SHA-256(b"PONGLOGv1" || LE32(gameID) || LE64(y) for
// each y in events) in a single call, matching spec.md §4.8 exactly —
// the prefix and every integer must land in one buffer before hashing,
// never hashed incrementally across separate Write calls, so the digest
// is reproducible byte-for-byte regardless of hashing library internals.
func LogHash(gameID uint32, events []int64) [32]byte {
	buf := make([]byte, 0, len(logHashPrefix)+4+8*len(events))
	buf = append(buf, logHashPrefix...)
	buf = binary.LittleEndian.AppendUint32(buf, gameID)
	for _, y := range events {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(y))
	}
	return sha256.Sum256(buf)
}
