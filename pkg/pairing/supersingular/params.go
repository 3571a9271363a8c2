package supersingular

import (
	"fmt"
	"math/big"
	"strings"
)

// TypeA is a pbc type A parameter set: y^2 = x^3 + x over F_q with q = 3 (mod 4),
// q + 1 = h * r and r = 2^Exp2 + Sign1 * 2^Exp1 + Sign0 prime.
type TypeA struct {
	Q, H, R *big.Int

	Exp2, Exp1   int
	Sign1, Sign0 int
}

// Validate checks the relations pbc relies on but does not verify itself.
func (t *TypeA) Validate() error {
	if t == nil || t.Q == nil || t.H == nil || t.R == nil {
		return fmt.Errorf("q, h and r are required")
	}
	if t.Q.Cmp(big.NewInt(3)) < 0 {
		return fmt.Errorf("characteristic must be at least 3")
	}
	if new(big.Int).Mod(t.Q, big.NewInt(4)).Int64() != 3 {
		return fmt.Errorf("characteristic %s is not congruent to 3 mod 4", t.Q)
	}
	if !t.Q.ProbablyPrime(32) {
		return fmt.Errorf("characteristic %s is not prime", t.Q)
	}
	if !t.R.ProbablyPrime(32) {
		return fmt.Errorf("subgroup order %s is not prime", t.R)
	}
	if t.H.Sign() <= 0 || new(big.Int).Mul(t.H, t.R).Cmp(new(big.Int).Add(t.Q, big.NewInt(1))) != 0 {
		return fmt.Errorf("h * r must equal q + 1")
	}
	if t.Exp1 <= 0 || t.Exp2 <= t.Exp1 {
		return fmt.Errorf("exponents must satisfy 0 < exp1 < exp2")
	}
	if (t.Sign1 != 1 && t.Sign1 != -1) || (t.Sign0 != 1 && t.Sign0 != -1) {
		return fmt.Errorf("signs must be 1 or -1")
	}
	solinas := new(big.Int).Lsh(big.NewInt(1), uint(t.Exp2))
	solinas.Add(solinas, new(big.Int).Lsh(big.NewInt(int64(t.Sign1)), uint(t.Exp1)))
	solinas.Add(solinas, big.NewInt(int64(t.Sign0)))
	if solinas.Cmp(t.R) != 0 {
		return fmt.Errorf("r = %s is not 2^%d %+d*2^%d %+d", t.R, t.Exp2, t.Sign1, t.Exp1, t.Sign0)
	}
	return nil
}

// String renders the parameters in pbc's param file format.
func (t *TypeA) String() string {
	var b strings.Builder
	fmt.Fprintln(&b, "type a")
	fmt.Fprintf(&b, "q %s\n", t.Q)
	fmt.Fprintf(&b, "h %s\n", t.H)
	fmt.Fprintf(&b, "r %s\n", t.R)
	fmt.Fprintf(&b, "exp2 %d\n", t.Exp2)
	fmt.Fprintf(&b, "exp1 %d\n", t.Exp1)
	fmt.Fprintf(&b, "sign1 %d\n", t.Sign1)
	fmt.Fprintf(&b, "sign0 %d\n", t.Sign0)
	return b.String()
}
