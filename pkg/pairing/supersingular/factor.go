package supersingular

import (
	"fmt"
	"math/big"
	"sort"
)

const trialDivisionBound = 1 << 20

type primePower struct {
	prime    *big.Int
	exponent int
}

// groupFactors factors q + 1 = h * r. r is prime, so only the cofactor needs
// trial division; a cofactor with a prime factor above the bound is rejected.
func groupFactors(h, r *big.Int) ([]primePower, error) {
	factors := map[string]int{r.String(): 1}
	rest := new(big.Int).Set(h)
	one := big.NewInt(1)

	q, m := new(big.Int), new(big.Int)
	for d := int64(2); d < trialDivisionBound && rest.Cmp(one) > 0; d++ {
		div := big.NewInt(d)
		for {
			q.QuoRem(rest, div, m)
			if m.Sign() != 0 {
				break
			}
			factors[div.String()]++
			rest.Set(q)
		}
	}
	if rest.Cmp(one) > 0 {
		if !rest.ProbablyPrime(32) {
			return nil, fmt.Errorf("cofactor %s has a composite part %s beyond trial division", h, rest)
		}
		factors[rest.String()]++
	}

	out := make([]primePower, 0, len(factors))
	for s, exp := range factors {
		p, _ := new(big.Int).SetString(s, 10)
		out = append(out, primePower{prime: p, exponent: exp})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].prime.Cmp(out[j].prime) < 0
	})
	return out, nil
}
