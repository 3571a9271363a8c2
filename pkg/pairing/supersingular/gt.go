package supersingular

import (
	"math/big"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	"github.com/Nik-U/pbc"
)

// GT is a pbc GT element, an r-th root of unity in F_q^2.
type GT struct {
	el     *pbc.Element
	engine *Engine
}

var _ pairing.GTElement = (*GT)(nil)

// Exp reduces k modulo q^2 - 1, the order of F_q^2*.
func (g *GT) Exp(k *big.Int) pairing.GTElement {
	q := g.engine.params.Q
	groupOrder := new(big.Int).Mul(q, q)
	groupOrder.Sub(groupOrder, big.NewInt(1))
	exp := new(big.Int).Mod(k, groupOrder)
	return &GT{el: g.engine.pairing.NewGT().PowBig(g.el, exp), engine: g.engine}
}

func (g *GT) Equal(other pairing.GTElement) bool {
	o, ok := other.(*GT)
	if !ok || o == nil || o.engine != g.engine {
		return false
	}
	return g.el.Equals(o.el)
}

func (g *GT) IsOne() bool {
	return g.el.Is1()
}

// Marshal is the real part followed by the imaginary part, each fixed width.
func (g *GT) Marshal() []byte {
	return g.el.Bytes()
}

func (g *GT) String() string {
	buf := g.el.Bytes()
	n := len(buf) / 2
	return fp2{a: new(big.Int).SetBytes(buf[:n]), b: new(big.Int).SetBytes(buf[n:])}.String()
}
