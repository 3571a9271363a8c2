// Package bls provides a pairing engine over BLS12-381 backed by gnark-crypto.
//
// BLS12-381 pairs G1 with G2, so the engine works in the diagonal subgroup
// {(a*g1, a*g2)} of G1 x G2, on which e((a*g1, a*g2), (b*g1, b*g2)) = e(g1, g2)^(ab)
// is a symmetric, non-degenerate bilinear map. No distortion map is needed and
// the trivial map is used. Both pairing kinds evaluate gnark's optimal ate pairing.
package bls

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// EmbeddingDegree of BLS12-381
const EmbeddingDegree = 12

var (
	groupOrder = fr.Modulus()
	// Generator is (g1, g2) for the standard generators
	Generator *Point
	g1Gen     bls12381.G1Affine
	g2Gen     bls12381.G2Affine
)

func init() {
	_, _, g1Gen, g2Gen = bls12381.Generators()
	Generator = &Point{g1: g1Gen, g2: g2Gen}
}

// Engine is stateless and safe for concurrent use.
type Engine struct{}

var _ pairing.Engine = (*Engine)(nil)

// NewEngine creates the BLS12-381 engine
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string {
	return "bls12381"
}

func (e *Engine) BaseFieldSize() *big.Int {
	return fp.Modulus()
}

// GroupOrder is the prime order r of G1, G2 and GT
func (e *Engine) GroupOrder() *big.Int {
	return new(big.Int).Set(groupOrder)
}

func asPoint(p pairing.Point) (*Point, error) {
	pt, ok := p.(*Point)
	if !ok || pt == nil {
		return nil, pairing.ErrForeignPoint
	}
	return pt, nil
}

// ScalarMul performs scalar multiplication on both halves
func (e *Engine) ScalarMul(k *big.Int, p pairing.Point) (pairing.Point, error) {
	pt, err := asPoint(p)
	if err != nil {
		return nil, err
	}
	scalar := new(big.Int).Mod(k, groupOrder)

	result := &Point{}
	result.g1.ScalarMultiplication(&pt.g1, scalar)
	result.g2.ScalarMultiplication(&pt.g2, scalar)
	return result, nil
}

// PointOrder is 1 for the identity and r otherwise, since r is prime and points
// are subgroup checked on decode.
func (e *Engine) PointOrder(p pairing.Point) (*big.Int, error) {
	pt, err := asPoint(p)
	if err != nil {
		return nil, err
	}
	if pt.IsInfinity() {
		return big.NewInt(1), nil
	}
	return e.GroupOrder(), nil
}

func (e *Engine) MultiplicativeOrder(value, modulus *big.Int) (int, error) {
	return pairing.MultiplicativeOrder(value, modulus, pairing.MaxEmbeddingDegree)
}

// ExtensionField only supports the curve's embedding degree
func (e *Engine) ExtensionField(degree int) (pairing.Field, error) {
	if degree != EmbeddingDegree {
		return nil, fmt.Errorf("%w: %d (supported: %d)", pairing.ErrUnsupportedDegree, degree, EmbeddingDegree)
	}
	return &Extension{
		degree: degree,
		size:   new(big.Int).Exp(fp.Modulus(), big.NewInt(EmbeddingDegree), nil),
	}, nil
}

// Embed is the identity: G2 already lives over the degree 12 tower
func (e *Engine) Embed(p pairing.Point, target pairing.Field) (pairing.Point, error) {
	pt, err := asPoint(p)
	if err != nil {
		return nil, err
	}
	if _, ok := target.(*Extension); !ok {
		return nil, fmt.Errorf("extension field does not belong to this engine")
	}
	return pt, nil
}

func (e *Engine) pair(p, q pairing.Point) (pairing.GTElement, error) {
	pp, err := asPoint(p)
	if err != nil {
		return nil, err
	}
	qq, err := asPoint(q)
	if err != nil {
		return nil, err
	}
	if pp.IsInfinity() || qq.IsInfinity() {
		return nil, fmt.Errorf("%w: point at infinity", pairing.ErrDegeneratePairing)
	}
	v, err := bls12381.Pair([]bls12381.G1Affine{pp.g1}, []bls12381.G2Affine{qq.g2})
	if err != nil {
		return nil, fmt.Errorf("failed to compute pairing: %w", err)
	}
	return &GT{v: v}, nil
}

func checkOrder(order *big.Int) error {
	if order == nil || order.Cmp(groupOrder) != 0 {
		return fmt.Errorf("pairing order must be the BLS12-381 group order")
	}
	return nil
}

// WeilPairing evaluates the optimal ate pairing e(p.g1, q.g2)
func (e *Engine) WeilPairing(p, q pairing.Point, order *big.Int) (pairing.GTElement, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	return e.pair(p, q)
}

// TatePairing evaluates the optimal ate pairing e(p.g1, q.g2), which is a fixed
// power of the reduced Tate pairing
func (e *Engine) TatePairing(p, q pairing.Point, order *big.Int, degree int, fieldSize *big.Int) (pairing.GTElement, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	if degree != EmbeddingDegree {
		return nil, fmt.Errorf("%w: %d", pairing.ErrUnsupportedDegree, degree)
	}
	if fieldSize == nil || fieldSize.Cmp(new(big.Int).Exp(fp.Modulus(), big.NewInt(EmbeddingDegree), nil)) != 0 {
		return nil, fmt.Errorf("field size must be p^%d", EmbeddingDegree)
	}
	return e.pair(p, q)
}

// UnmarshalPoint decodes compressed G1 || G2 and verifies both halves share the
// same discrete logarithm: e(a*g1, g2) == e(g1, a*g2).
func (e *Engine) UnmarshalPoint(data []byte) (pairing.Point, error) {
	if len(data) != PointSize {
		return nil, fmt.Errorf("invalid point encoding length %d, expected %d", len(data), PointSize)
	}
	pt := &Point{}
	if _, err := pt.g1.SetBytes(data[:g1CompressedSize]); err != nil {
		return nil, fmt.Errorf("failed to decode G1 half: %w", err)
	}
	if _, err := pt.g2.SetBytes(data[g1CompressedSize:]); err != nil {
		return nil, fmt.Errorf("failed to decode G2 half: %w", err)
	}
	if pt.g1.IsInfinity() != pt.g2.IsInfinity() {
		return nil, fmt.Errorf("point halves disagree on identity")
	}
	if pt.IsInfinity() {
		return pt, nil
	}

	left, err := bls12381.Pair([]bls12381.G1Affine{pt.g1}, []bls12381.G2Affine{g2Gen})
	if err != nil {
		return nil, fmt.Errorf("failed to compute pairing: %w", err)
	}
	right, err := bls12381.Pair([]bls12381.G1Affine{g1Gen}, []bls12381.G2Affine{pt.g2})
	if err != nil {
		return nil, fmt.Errorf("failed to compute pairing: %w", err)
	}
	if !left.Equal(&right) {
		return nil, fmt.Errorf("point halves are not on the diagonal")
	}
	return pt, nil
}

// Distortion returns the trivial map; the diagonal pairing is already non-degenerate
func (e *Engine) Distortion() pairing.DistortionMap {
	return &pairing.TrivialDistortion{Engine: e}
}
