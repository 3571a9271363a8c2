package supersingular

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	"github.com/Nik-U/pbc"
)

// Point encoding tags
const (
	tagInfinity  byte = 0x00
	tagBase      byte = 0x01
	tagExtension byte = 0x02
)

// Point is a pbc G1 element, optionally lifted into E(F_q^2) by embedding or by
// embedding followed by the distortion map.
type Point struct {
	el        *pbc.Element
	extended  bool
	distorted bool
	engine    *Engine
}

var _ pairing.Point = (*Point)(nil)

// NewPoint validates (x, y) as a base field point of the curve.
func (e *Engine) NewPoint(x, y *big.Int) (*Point, error) {
	if x.Sign() < 0 || x.Cmp(e.params.Q) >= 0 || y.Sign() < 0 || y.Cmp(e.params.Q) >= 0 {
		return nil, fmt.Errorf("coordinates must lie in [0, q)")
	}
	n := e.arith.byteLen()
	buf := make([]byte, 2*n)
	x.FillBytes(buf[:n])
	y.FillBytes(buf[n:])

	// pbc replaces encodings that fail the curve equation with the identity.
	el := e.pairing.NewG1().SetBytes(buf)
	if el.Is0() {
		return nil, fmt.Errorf("point (%s, %s) is not on y^2 = x^3 + x", x, y)
	}
	return &Point{el: el, engine: e}, nil
}

// Infinity returns the base field identity.
func (e *Engine) Infinity() *Point {
	return &Point{el: e.pairing.NewG1().Set0(), engine: e}
}

func (pt *Point) derive(el *pbc.Element) *Point {
	return &Point{el: el, extended: pt.extended, distorted: pt.distorted, engine: pt.engine}
}

// X returns the x coordinate of the base element.
func (pt *Point) X() *big.Int {
	x, _ := pt.coords()
	return x
}

// Y returns the y coordinate of the base element.
func (pt *Point) Y() *big.Int {
	_, y := pt.coords()
	return y
}

func (pt *Point) coords() (x, y *big.Int) {
	if pt.IsInfinity() {
		return nil, nil
	}
	buf := pt.el.Bytes()
	n := len(buf) / 2
	return new(big.Int).SetBytes(buf[:n]), new(big.Int).SetBytes(buf[n:])
}

// affine returns the coordinates over F_q^2, with the distortion map applied.
func (pt *Point) affine() ext {
	if pt.IsInfinity() {
		return ext{infinity: true}
	}
	x, y := pt.coords()
	px, py := fp2FromInt(x), fp2FromInt(y)
	if pt.distorted {
		f := pt.engine.arith
		px, py = f.neg(px), f.mulI(py)
	}
	return ext{x: px, y: py}
}

func (pt *Point) IsInfinity() bool {
	return pt.el.Is0()
}

func (pt *Point) IsExtended() bool {
	return pt.extended
}

func (pt *Point) IsDistorted() bool {
	return pt.distorted
}

func (pt *Point) Equal(other pairing.Point) bool {
	o, ok := other.(*Point)
	if !ok || o == nil || o.engine != pt.engine {
		return false
	}
	if pt.IsInfinity() || o.IsInfinity() {
		return pt.IsInfinity() == o.IsInfinity()
	}
	return pt.distorted == o.distorted && pt.el.Equals(o.el)
}

func (pt *Point) Marshal() []byte {
	if pt.IsInfinity() {
		return []byte{tagInfinity}
	}
	if !pt.extended {
		return append([]byte{tagBase}, pt.el.Bytes()...)
	}
	f := pt.engine.arith
	a := pt.affine()
	out := []byte{tagExtension}
	out = append(out, f.marshal(a.x)...)
	return append(out, f.marshal(a.y)...)
}

func (pt *Point) String() string {
	if pt.IsInfinity() {
		return "(infinity)"
	}
	a := pt.affine()
	return fmt.Sprintf("(%s, %s)", a.x, a.y)
}
