// Package supersingular implements the pairing engine for the supersingular curve
// y^2 = x^3 + x over F_q with q = 3 (mod 4), backed by pbc type A pairings.
//
// The curve has q + 1 points over F_q and embedding degree 2 for its order r
// subgroup. pbc's symmetric pairing applies the distortion map (x, y) -> (-x, i*y)
// internally, so embedded and distorted points keep a handle to their base group
// element and only expose F_q^2 coordinates to the Weil pairing.
package supersingular

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	"github.com/Nik-U/pbc"
)

// Engine is safe for concurrent use. Points and pairing values are never mutated
// after construction.
type Engine struct {
	params  *TypeA
	pairing *pbc.Pairing
	arith   arith
	factors []primePower
}

var _ pairing.Engine = (*Engine)(nil)

// Extension is F_q^degree together with the curve lifted into it.
type Extension struct {
	q      *big.Int
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

// NewEngine validates params and loads them into pbc.
func NewEngine(params *TypeA) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid type a parameters: %w", err)
	}
	pbcParams, err := pbc.NewParamsFromString(params.String())
	if err != nil {
		return nil, fmt.Errorf("pbc rejected type a parameters: %w", err)
	}
	p := pbcParams.NewPairing()
	if !p.IsSymmetric() {
		return nil, fmt.Errorf("pbc pairing for type a parameters is not symmetric")
	}

	factors, err := groupFactors(params.H, params.R)
	if err != nil {
		return nil, err
	}
	return &Engine{
		params:  params,
		pairing: p,
		arith:   arith{p: new(big.Int).Set(params.Q)},
		factors: factors,
	}, nil
}

func (e *Engine) Name() string {
	return fmt.Sprintf("supersingular(p=%s)", e.params.Q)
}

func (e *Engine) BaseFieldSize() *big.Int {
	return new(big.Int).Set(e.params.Q)
}

// GroupOrder is #E(F_q) = q + 1 = h * r.
func (e *Engine) GroupOrder() *big.Int {
	return new(big.Int).Add(e.params.Q, big.NewInt(1))
}

// SubgroupOrder is the prime r that pbc's pairing is defined on.
func (e *Engine) SubgroupOrder() *big.Int {
	return new(big.Int).Set(e.params.R)
}

func (e *Engine) point(p pairing.Point) (*Point, error) {
	pt, ok := p.(*Point)
	if !ok || pt == nil || pt.engine != e {
		return nil, pairing.ErrForeignPoint
	}
	return pt, nil
}

// ScalarMul works on the base group element, so embedded and distorted points
// stay in their image: k*phi(P) = phi(k*P).
func (e *Engine) ScalarMul(k *big.Int, p pairing.Point) (pairing.Point, error) {
	pt, err := e.point(p)
	if err != nil {
		return nil, err
	}
	return pt.derive(e.mul(k, pt.el)), nil
}

// mul reduces k modulo q + 1, which every point order divides.
func (e *Engine) mul(k *big.Int, el *pbc.Element) *pbc.Element {
	exp := new(big.Int).Mod(k, e.GroupOrder())
	return e.pairing.NewG1().PowBig(el, exp)
}

// PointOrder strips prime factors from q + 1 while the point stays annihilated.
// Embedding and distortion are injective, so lifted points share the order of
// their base element.
func (e *Engine) PointOrder(p pairing.Point) (*big.Int, error) {
	pt, err := e.point(p)
	if err != nil {
		return nil, err
	}
	if pt.IsInfinity() {
		return big.NewInt(1), nil
	}

	order := e.GroupOrder()
	for _, pp := range e.factors {
		for i := 0; i < pp.exponent; i++ {
			candidate := new(big.Int).Quo(order, pp.prime)
			if !e.mul(candidate, pt.el).Is0() {
				break
			}
			order = candidate
		}
	}
	return order, nil
}

func (e *Engine) MultiplicativeOrder(value, modulus *big.Int) (int, error) {
	return pairing.MultiplicativeOrder(value, modulus, pairing.MaxEmbeddingDegree)
}

// ExtensionField supports degree 1 (the base field) and degree 2.
func (e *Engine) ExtensionField(degree int) (pairing.Field, error) {
	if degree != 1 && degree != 2 {
		return nil, fmt.Errorf("%w: %d (supported: 1, 2)", pairing.ErrUnsupportedDegree, degree)
	}
	return &Extension{
		q:      e.params.Q,
		degree: degree,
		size:   new(big.Int).Exp(e.params.Q, big.NewInt(int64(degree)), nil),
	}, nil
}

func (e *Engine) extension(target pairing.Field) (*Extension, error) {
	x, ok := target.(*Extension)
	if !ok || x == nil || x.q.Cmp(e.params.Q) != 0 {
		return nil, fmt.Errorf("extension field does not belong to this engine")
	}
	return x, nil
}

// Embed lifts a base field point into the curve over target. F_q embeds into
// F_q^2 as the real line, so coordinates are unchanged.
func (e *Engine) Embed(p pairing.Point, target pairing.Field) (pairing.Point, error) {
	pt, err := e.point(p)
	if err != nil {
		return nil, err
	}
	x, err := e.extension(target)
	if err != nil {
		return nil, err
	}
	if x.degree == 1 {
		if pt.distorted && !pt.IsInfinity() {
			return nil, fmt.Errorf("point %s is not defined over the base field", pt)
		}
		return &Point{el: pt.el, engine: e}, nil
	}
	if pt.extended {
		return pt, nil
	}
	return &Point{el: pt.el, extended: true, engine: e}, nil
}

// Distortion returns the map (x, y) -> (-x, i*y) applied after embedding into F_q^2.
func (e *Engine) Distortion() pairing.DistortionMap {
	return &pairing.DistortionFunc{
		Label:  "supersingular",
		Engine: e,
		Fn: func(p pairing.Point) (pairing.Point, error) {
			pt, err := e.point(p)
			if err != nil {
				return nil, err
			}
			if !pt.extended {
				return nil, fmt.Errorf("%w: distortion map needs F_q^2", pairing.ErrUnsupportedDegree)
			}
			if pt.distorted {
				return nil, fmt.Errorf("point %s is already distorted", pt)
			}
			return &Point{el: pt.el, extended: true, distorted: true, engine: e}, nil
		},
	}
}

// TatePairing evaluates pbc's reduced Tate pairing e(P, phi(Q)). p must be an
// embedded base point and q a distorted one; two points of the same F_q-rational
// subgroup always pair to 1 at embedding degree 2.
func (e *Engine) TatePairing(p, q pairing.Point, order *big.Int, degree int, fieldSize *big.Int) (pairing.GTElement, error) {
	pp, qq, err := e.pairingArgs(p, q, order)
	if err != nil {
		return nil, err
	}
	if degree != 1 && degree != 2 {
		return nil, fmt.Errorf("%w: %d", pairing.ErrUnsupportedDegree, degree)
	}
	if new(big.Int).Mod(new(big.Int).Sub(fieldSize, big.NewInt(1)), order).Sign() != 0 {
		return nil, fmt.Errorf("order %s does not divide field size - 1", order)
	}
	if order.Cmp(e.params.R) != 0 {
		return nil, fmt.Errorf("tate pairing is only available on the order %s subgroup, got %s", e.params.R, order)
	}
	if pp.IsInfinity() || qq.IsInfinity() {
		return nil, fmt.Errorf("%w: point at infinity", pairing.ErrDegeneratePairing)
	}
	switch {
	case pp.distorted:
		return nil, fmt.Errorf("tate pairing expects the distorted point second")
	case !qq.distorted:
		return nil, fmt.Errorf("%w: both points lie in the base field subgroup", pairing.ErrDegeneratePairing)
	}
	return &GT{el: e.pairing.NewGT().Pair(pp.el, qq.el), engine: e}, nil
}

func (e *Engine) pairingArgs(p, q pairing.Point, order *big.Int) (*Point, *Point, error) {
	pp, err := e.point(p)
	if err != nil {
		return nil, nil, err
	}
	qq, err := e.point(q)
	if err != nil {
		return nil, nil, err
	}
	if order == nil || order.Sign() <= 0 {
		return nil, nil, fmt.Errorf("pairing order must be positive")
	}
	return pp, qq, nil
}

// UnmarshalPoint decodes Point.Marshal output. Extension encodings must be the
// image of a base point under embedding or distortion.
func (e *Engine) UnmarshalPoint(data []byte) (pairing.Point, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty point encoding")
	}
	n := e.arith.byteLen()
	switch data[0] {
	case tagInfinity:
		if len(data) != 1 {
			return nil, fmt.Errorf("invalid infinity encoding")
		}
		return e.Infinity(), nil
	case tagBase:
		if len(data) != 1+2*n {
			return nil, fmt.Errorf("invalid base point encoding length %d", len(data))
		}
		return e.NewPoint(new(big.Int).SetBytes(data[1:1+n]), new(big.Int).SetBytes(data[1+n:]))
	case tagExtension:
		if len(data) != 1+4*n {
			return nil, fmt.Errorf("invalid extension point encoding length %d", len(data))
		}
		c := make([]*big.Int, 4)
		for i := range c {
			c[i] = new(big.Int).SetBytes(data[1+i*n : 1+(i+1)*n])
			if c[i].Cmp(e.params.Q) >= 0 {
				return nil, fmt.Errorf("coordinate out of range")
			}
		}
		switch {
		case c[1].Sign() == 0 && c[3].Sign() == 0:
			pt, err := e.NewPoint(c[0], c[2])
			if err != nil {
				return nil, err
			}
			return &Point{el: pt.el, extended: true, engine: e}, nil
		case c[1].Sign() == 0 && c[2].Sign() == 0:
			x := e.arith.mod(new(big.Int).Neg(c[0]))
			pt, err := e.NewPoint(x, c[3])
			if err != nil {
				return nil, err
			}
			return &Point{el: pt.el, extended: true, distorted: true, engine: e}, nil
		default:
			return nil, fmt.Errorf("extension point is neither embedded nor distorted from the base field")
		}
	default:
		return nil, fmt.Errorf("unknown point tag 0x%02x", data[0])
	}
}
