package ibe

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/codec"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/drbg"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
)

const maskDomain = "eigenx-ibe/h2/v1"

// HashToPoint is H1: it maps an identity to (2 + m) * P where m is the identity
// reduced into [0, order-3]. Distinct identities may collide.
func (p *Params) HashToPoint(id Identity) (pairing.Point, error) {
	modulus := new(big.Int).Sub(p.order, two)
	m, err := id.multiplier(modulus)
	if err != nil {
		return nil, err
	}
	q, err := p.engine.ScalarMul(m.Add(m, two), p.generator)
	if err != nil {
		return nil, fmt.Errorf("failed to hash identity to point: %w", err)
	}
	return q, nil
}

// Mask is H2: a deterministic bit string of the given length derived from a
// pairing value. It keeps no state between calls.
func Mask(element pairing.GTElement, length int) codec.Bits {
	seed := append([]byte(maskDomain), element.Marshal()...)
	return drbg.New(seed).Bits(length)
}
