package producer

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/kalepail/zkp-pong/internal/commitment"
)

// seedAsCommitment reinterprets a revealed seed's bytes as a hash value
// purely so commitment.Hex's plain (non-reversed) hex encoder can be
// reused to render it — a seed is not itself a commitment, but the byte
// layout and the hex rules are identical.
func seedAsCommitment(seed commitment.Seed) chainhash.Hash {
	var h chainhash.Hash
	copy(h[:], seed[:])
	return h
}
