package ibe

import (
	"fmt"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/codec"
)

type decryptOptions struct {
	expectedLength int
}

// DecryptOption customizes a single Decrypt call.
type DecryptOption func(*decryptOptions)

// WithExpectedLength rejects ciphertexts whose masked segment is not n bits long.
func WithExpectedLength(n int) DecryptOption {
	return func(o *decryptOptions) {
		o.expectedLength = n
	}
}

// Decrypt recovers the message bits: V XOR H2(e(d_ID, U), len(V)).
// A wrong key produces garbage bits, not an error.
func (p *Params) Decrypt(ct *Ciphertext, sk *PrivateKey, opts ...DecryptOption) (codec.Bits, error) {
	if ct == nil || ct.U == nil {
		return nil, fmt.Errorf("%w: incomplete ciphertext", ErrInvalidPoint)
	}
	if sk == nil || sk.DID == nil {
		return nil, fmt.Errorf("%w: incomplete private key", ErrInvalidPoint)
	}
	if err := ct.V.Validate(); err != nil {
		return nil, err
	}

	o := &decryptOptions{expectedLength: -1}
	for _, opt := range opts {
		opt(o)
	}
	if o.expectedLength >= 0 && len(ct.V) != o.expectedLength {
		return nil, fmt.Errorf("%w: got %d bits, expected %d", ErrLengthMismatch, len(ct.V), o.expectedLength)
	}

	g, err := p.Pair(sk.DID, ct.U)
	if err != nil {
		return nil, err
	}
	bits, err := ct.V.Xor(Mask(g, len(ct.V)))
	if err != nil {
		return nil, err
	}
	p.logger.Sugar().Debugw("Decrypted message", "bits", len(bits))
	return bits, nil
}

// DecryptText decrypts and decodes bits produced by EncryptText. The masked
// segment must be a whole number of bytes.
func (p *Params) DecryptText(ct *Ciphertext, sk *PrivateKey, opts ...DecryptOption) ([]byte, error) {
	if ct != nil && len(ct.V)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a whole number of bytes", ErrLengthMismatch, len(ct.V))
	}
	bits, err := p.Decrypt(ct, sk, opts...)
	if err != nil {
		return nil, err
	}
	return codec.DecodeBytes(bits)
}
