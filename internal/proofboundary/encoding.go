package proofboundary

import (
	"encoding/json"
	"fmt"

	"github.com/kalepail/zkp-pong/pkg/models"
)

// proofMagic tags the payload so Verify can reject bytes that aren't a
// CompositeBackend proof at all, rather than silently misinterpreting
// them.
const proofMagic = "PONGPROOFv1"

type proofEnvelope struct {
	Magic  string                    `json:"magic"`
	Output models.ValidateLogOutput `json:"output"`
}

func encodeOutput(out models.ValidateLogOutput) ([]byte, error) {
	return json.Marshal(proofEnvelope{Magic: proofMagic, Output: out})
}

func decodeOutput(proof []byte) (models.ValidateLogOutput, error) {
	var env proofEnvelope
	if err := json.Unmarshal(proof, &env); err != nil {
		return models.ValidateLogOutput{}, fmt.Errorf("proofboundary: malformed proof: %w", err)
	}
	if env.Magic != proofMagic {
		return models.ValidateLogOutput{}, fmt.Errorf("proofboundary: not a composite-backend proof")
	}
	return env.Output, nil
}
