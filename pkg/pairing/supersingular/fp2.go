package supersingular

import (
	"fmt"
	"math/big"
)

// fp2 is a + b*i in F_q[i]/(i^2 + 1). pbc keeps its F_q^2 internal, so the Weil
// pairing carries its own copy. Values are treated as immutable.
type fp2 struct {
	a, b *big.Int
}

func fp2FromInt(a *big.Int) fp2 {
	return fp2{a: new(big.Int).Set(a), b: new(big.Int)}
}

func fp2One() fp2 {
	return fp2{a: big.NewInt(1), b: new(big.Int)}
}

func (x fp2) isZero() bool {
	return x.a.Sign() == 0 && x.b.Sign() == 0
}

func (x fp2) equal(y fp2) bool {
	return x.a.Cmp(y.a) == 0 && x.b.Cmp(y.b) == 0
}

func (x fp2) String() string {
	if x.b.Sign() == 0 {
		return x.a.String()
	}
	return fmt.Sprintf("%s+%s*i", x.a, x.b)
}

// arith performs F_q^2 arithmetic for a fixed characteristic q = 3 (mod 4).
type arith struct {
	p *big.Int
}

func (f arith) mod(v *big.Int) *big.Int {
	return v.Mod(v, f.p)
}

func (f arith) add(x, y fp2) fp2 {
	return fp2{
		a: f.mod(new(big.Int).Add(x.a, y.a)),
		b: f.mod(new(big.Int).Add(x.b, y.b)),
	}
}

func (f arith) sub(x, y fp2) fp2 {
	return fp2{
		a: f.mod(new(big.Int).Sub(x.a, y.a)),
		b: f.mod(new(big.Int).Sub(x.b, y.b)),
	}
}

func (f arith) neg(x fp2) fp2 {
	return fp2{
		a: f.mod(new(big.Int).Neg(x.a)),
		b: f.mod(new(big.Int).Neg(x.b)),
	}
}

func (f arith) mul(x, y fp2) fp2 {
	ac := new(big.Int).Mul(x.a, y.a)
	bd := new(big.Int).Mul(x.b, y.b)
	ad := new(big.Int).Mul(x.a, y.b)
	bc := new(big.Int).Mul(x.b, y.a)
	return fp2{
		a: f.mod(ac.Sub(ac, bd)),
		b: f.mod(ad.Add(ad, bc)),
	}
}

func (f arith) mulInt(x fp2, k int64) fp2 {
	return f.mul(x, fp2{a: big.NewInt(k), b: new(big.Int)})
}

// mulI multiplies by i: (a + bi) * i = -b + ai.
func (f arith) mulI(x fp2) fp2 {
	return fp2{
		a: f.mod(new(big.Int).Neg(x.b)),
		b: new(big.Int).Set(x.a),
	}
}

func (f arith) inv(x fp2) (fp2, error) {
	norm := new(big.Int).Mul(x.a, x.a)
	norm.Add(norm, new(big.Int).Mul(x.b, x.b))
	f.mod(norm)
	if norm.Sign() == 0 {
		return fp2{}, fmt.Errorf("inverse of zero in F_q^2")
	}
	normInv := new(big.Int).ModInverse(norm, f.p)
	return fp2{
		a: f.mod(new(big.Int).Mul(x.a, normInv)),
		b: f.mod(new(big.Int).Mul(new(big.Int).Neg(x.b), normInv)),
	}, nil
}

func (f arith) div(x, y fp2) (fp2, error) {
	yInv, err := f.inv(y)
	if err != nil {
		return fp2{}, err
	}
	return f.mul(x, yInv), nil
}

// byteLen is the fixed width of one F_q coordinate in canonical encodings.
func (f arith) byteLen() int {
	return (f.p.BitLen() + 7) / 8
}

func (f arith) marshal(x fp2) []byte {
	n := f.byteLen()
	out := make([]byte, 2*n)
	x.a.FillBytes(out[:n])
	x.b.FillBytes(out[n:])
	return out
}
