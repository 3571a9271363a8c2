package ibe

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/codec"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/drbg"
)

type encryptOptions struct {
	seed drbg.Seed
}

// EncryptOption customizes a single Encrypt call.
type EncryptOption func(*encryptOptions)

// WithSeed makes the ephemeral scalar r reproducible. Without it r is drawn from entropy.
func WithSeed(seed drbg.Seed) EncryptOption {
	return func(o *encryptOptions) {
		o.seed = seed
	}
}

// Encrypt masks msg for the holder of pk's private key:
// U = r*P and V = msg XOR H2(e(Q_ID, P_pub)^r, len(msg)).
func (p *Params) Encrypt(msg codec.Bits, pk *PublicKey, opts ...EncryptOption) (*Ciphertext, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if pk == nil || pk.QID == nil || pk.PPub == nil {
		return nil, fmt.Errorf("%w: incomplete public key", ErrInvalidPoint)
	}

	o := &encryptOptions{}
	for _, opt := range opts {
		opt(o)
	}
	stream, err := drbg.NewOrEntropy(o.seed)
	if err != nil {
		return nil, err
	}
	r, err := stream.IntRange(two, new(big.Int).Sub(p.order, big.NewInt(1)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	g, err := p.Pair(pk.QID, pk.PPub)
	if err != nil {
		return nil, err
	}
	u, err := p.engine.ScalarMul(r, p.generator)
	if err != nil {
		return nil, err
	}
	v, err := msg.Xor(Mask(g.Exp(r), len(msg)))
	if err != nil {
		return nil, err
	}

	p.logger.Sugar().Debugw("Encrypted message", "bits", len(msg), "seeded", o.seed != nil)
	return &Ciphertext{U: u, V: v}, nil
}

// EncryptText encodes msg with codec.EncodeBytes and encrypts the bits.
func (p *Params) EncryptText(msg []byte, pk *PublicKey, opts ...EncryptOption) (*Ciphertext, error) {
	return p.Encrypt(codec.EncodeBytes(msg), pk, opts...)
}
