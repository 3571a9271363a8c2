package bls

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

const (
	g1CompressedSize = bls12381.SizeOfG1AffineCompressed
	g2CompressedSize = bls12381.SizeOfG2AffineCompressed
	// PointSize is the length of a marshaled diagonal point
	PointSize = g1CompressedSize + g2CompressedSize
)

// Point is an element (a*g1, a*g2) of the diagonal subgroup of G1 x G2.
// Both halves always carry the same discrete logarithm.
type Point struct {
	g1 bls12381.G1Affine
	g2 bls12381.G2Affine
}

var _ pairing.Point = (*Point)(nil)

// G1 returns the G1 half of the point
func (p *Point) G1() *bls12381.G1Affine {
	out := p.g1
	return &out
}

// G2 returns the G2 half of the point
func (p *Point) G2() *bls12381.G2Affine {
	out := p.g2
	return &out
}

// IsInfinity checks if the point is the identity
func (p *Point) IsInfinity() bool {
	return p.g1.IsInfinity() && p.g2.IsInfinity()
}

// Equal checks if two points are equal
func (p *Point) Equal(other pairing.Point) bool {
	o, ok := other.(*Point)
	if !ok || o == nil {
		return false
	}
	return p.g1.Equal(&o.g1) && p.g2.Equal(&o.g2)
}

// Marshal serializes the point as compressed G1 followed by compressed G2
func (p *Point) Marshal() []byte {
	g1Bytes := p.g1.Bytes()
	g2Bytes := p.g2.Bytes()
	out := make([]byte, 0, PointSize)
	out = append(out, g1Bytes[:]...)
	return append(out, g2Bytes[:]...)
}

func (p *Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.g1.String(), p.g2.String())
}

// GT wraps a pairing value of the BLS12-381 target group
type GT struct {
	v bls12381.GT
}

var _ pairing.GTElement = (*GT)(nil)

// Exp raises the value to k, reduced modulo the group order
func (g *GT) Exp(k *big.Int) pairing.GTElement {
	e := new(big.Int).Mod(k, groupOrder)
	var out bls12381.GT
	out.Exp(g.v, e)
	return &GT{v: out}
}

func (g *GT) Equal(other pairing.GTElement) bool {
	o, ok := other.(*GT)
	if !ok || o == nil {
		return false
	}
	return g.v.Equal(&o.v)
}

func (g *GT) IsOne() bool {
	return g.v.IsOne()
}

// Marshal serializes the value in gnark's canonical GT encoding
func (g *GT) Marshal() []byte {
	b := g.v.Bytes()
	return b[:]
}

func (g *GT) String() string {
	return g.v.String()
}

// Extension is F_p^12, the field holding both G2 coordinates' tower and GT.
type Extension struct {
	degree int
	size   *big.Int
}

var _ pairing.Field = (*Extension)(nil)

func (x *Extension) Size() *big.Int {
	return new(big.Int).Set(x.size)
}

func (x *Extension) Degree() int {
	return x.degree
}
