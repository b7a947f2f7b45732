// Package proofboundary defines the thin collaborator interface between
// this repository and an external proof system. Building or wrapping a
// real zero-knowledge prover is out of scope here; this package exists
// so cmd/pong's prove/verify subcommands have something concrete to
// call, the way a thin RPC client wraps an external node behind a small
// interface without reimplementing the node itself.
package proofboundary

import (
	"github.com/kalepail/zkp-pong/internal/validator"
	"github.com/kalepail/zkp-pong/pkg/models"
)

// ProofBackend proves that a CompactLog replays fairly and lets a third
// party verify that claim from the serialized proof alone, without
// re-running replay themselves. The only implementation in this
// repository, CompositeBackend, is not a cryptographic proof — see its
// doc comment.
type ProofBackend interface {
	Prove(log models.CompactLog) (out models.ValidateLogOutput, proof []byte, err error)
	Verify(proof []byte) (models.ValidateLogOutput, error)
}

// CompositeBackend proves a log by running the real validator and
// serializing its ValidateLogOutput as the "proof" bytes.
//
// This is NOT a cryptographic proof. A verifier that trusts these bytes
// is trusting that they came from an honest run of CompositeBackend.Prove
// — there is no succinctness, no zero-knowledge property, and no binding
// commitment to a circuit. It stands in for a real backend (Groth16,
// PLONK, a STARK) that this repository does not implement, per the
// spec's explicit scope boundary around proof-system plumbing.
type CompositeBackend struct{}

// Prove runs the validator against log and serializes the result as the
// proof payload.
func (CompositeBackend) Prove(log models.CompactLog) (models.ValidateLogOutput, []byte, error) {
	out := validator.ValidateLog(log)
	proof, err := encodeOutput(out)
	if err != nil {
		return out, nil, err
	}
	return out, proof, nil
}

// Verify decodes a proof produced by Prove. Since CompositeBackend
// performs no actual proving, verification is just deserialization —
// it trusts the bytes came from a genuine Prove call.
func (CompositeBackend) Verify(proof []byte) (models.ValidateLogOutput, error) {
	return decodeOutput(proof)
}
