package receipt

import (
	"crypto/rand"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"
)

// ES256 algorithm identifier for the COSE protected header.
const coseAlgES256 = int64(-7)

// Seal encodes the receipt as CBOR and signs it into an untagged COSE_Sign1
// 4-element array: [protected, unprotected, payload, signature]. The same
// structure is parsed back by Verify.
func (km *KeyManager) Seal(r Receipt) ([]byte, error) {
	payload, err := cbor.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal receipt payload: %w", err)
	}

	protectedBytes, err := cbor.Marshal(map[int64]int64{1: coseAlgES256})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal protected headers: %w", err)
	}

	// Sig_structure for COSE_Sign1: ["Signature1", protected, external_aad, payload]
	sigStructure := []any{
		"Signature1",
		protectedBytes,
		[]byte{}, // empty external_aad
		payload,
	}

	sigStructureBytes, err := cbor.Marshal(sigStructure)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Sig_structure: %w", err)
	}

	signer, err := cose.NewSigner(cose.AlgorithmES256, km.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	signature, err := signer.Sign(rand.Reader, sigStructureBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to sign receipt: %w", err)
	}

	coseArray := []any{
		protectedBytes,
		map[int64]any{}, // empty unprotected headers
		payload,
		signature,
	}

	coseBytes, err := cbor.Marshal(coseArray)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal COSE_Sign1: %w", err)
	}

	return coseBytes, nil
}
