package fhe

import "github.com/daovote/fhevote/types"

// simulatedEncryptor derives ciphertext-shaped byte blocks from the
// plaintext value alone. It is a deterministic placeholder used when no real
// FHE backend is available: the output leaks the input trivially and must
// never be presented as confidentiality-preserving. Its only purpose is to
// keep the submission path exercisable end to end.
type simulatedEncryptor struct{}

var _ Backend = simulatedEncryptor{}

// Encrypt32 produces two fixed-size blocks from value v:
// data[i] = (v*7 + i*13) mod 256 and proof[i] = (v*11 + i*17) mod 256.
func (simulatedEncryptor) Encrypt32(v uint32) (data, proof []byte, err error) {
	data = make([]byte, types.CiphertextSize)
	proof = make([]byte, types.CiphertextSize)
	for i := range data {
		data[i] = byte((uint64(v)*7 + uint64(i)*13) % 256)
		proof[i] = byte((uint64(v)*11 + uint64(i)*17) % 256)
	}
	return data, proof, nil
}
