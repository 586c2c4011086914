package factor

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// SieveLimit bounds the number of candidates x tried by QuadraticSieve.
const SieveLimit = 1 << 20

// Relation records x^2 - n = Value with Value smooth over a factor base.
type Relation struct {
	X         *big.Int
	Value     *big.Int
	Negative  bool
	Exponents []int
}

// parity returns the exponent vector mod 2; bit 0 is the sign.
func (r Relation) parity() *bitset.BitSet {
	row := bitset.New(uint(len(r.Exponents) + 1))
	if r.Negative {
		row.Set(0)
	}
	for i, e := range r.Exponents {
		if e%2 == 1 {
			row.Set(uint(i + 1))
		}
	}
	return row
}

// FactorBase returns the primes q <= bound for which n is a quadratic
// residue.
func FactorBase(n *big.Int, bound int64) []*big.Int {
	var base []*big.Int
	for _, q := range Primes(bound) {
		if q.Cmp(two) == 0 || modular.Legendre(n, q) == 1 {
			base = append(base, q)
		}
	}
	return base
}

// QuadraticSieve factors odd composite n by collecting relations
// x^2 - n smooth over the factor base of primes <= bound, finding subsets
// whose product is a square and taking gcd(X ± Y, n). maxRelations <= 0
// collects |base| + 10 relations.
func QuadraticSieve(n *big.Int, bound int64, maxRelations int, opts ...ntk.Option) (*big.Int, error) {
	if n == nil || n.Cmp(big.NewInt(3)) <= 0 {
		return nil, fmt.Errorf("factor: sieve needs n > 3, got %v: %w", n, ntk.ErrInvalidParameters)
	}
	if err := CheckBound(bound); err != nil {
		return nil, err
	}
	if n.Bit(0) == 0 {
		return big.NewInt(2), nil
	}
	cfg := ntk.NewConfig(opts...)

	// 1. Factor base
	base := FactorBase(n, bound)
	cfg.Trace.Record("factor base", base)
	if maxRelations <= 0 {
		maxRelations = len(base) + 10
	}

	// 2. Collect smooth values of x^2 - n, starting just above sqrt(n)
	x := new(big.Int).Sqrt(n)
	x.Add(x, one)
	var relations []Relation
	for i := 0; i < SieveLimit && len(relations) < maxRelations; i++ {
		v := new(big.Int).Mul(x, x)
		v.Sub(v, n)
		if exps, ok := Smooth(new(big.Int).Abs(v), base); ok {
			relations = append(relations, Relation{
				X:         new(big.Int).Set(x),
				Value:     v,
				Negative:  v.Sign() < 0,
				Exponents: exps,
			})
			cfg.Trace.Record("relation", fmt.Sprintf("%s^2 - n = %s", x, v))
		}
		x.Add(x, one)
	}
	if len(relations) <= len(base) {
		return nil, fmt.Errorf("factor: only %d relations for a base of %d primes: %w", len(relations), len(base), ntk.ErrNoFactorFound)
	}

	// 3. Dependencies over GF(2)
	for _, dep := range dependencies(relations, len(base)+1) {
		X := big.NewInt(1)
		V := big.NewInt(1)
		for i, ok := dep.NextSet(0); ok; i, ok = dep.NextSet(i + 1) {
			X.Mul(X, relations[i].X)
			X.Mod(X, n)
			V.Mul(V, relations[i].Value)
		}
		V.Abs(V)
		Y := new(big.Int).Sqrt(V)
		if new(big.Int).Mul(Y, Y).Cmp(V) != 0 {
			continue
		}

		// 4. gcd(X ± Y, n)
		for _, cand := range []*big.Int{new(big.Int).Sub(X, Y), new(big.Int).Add(X, Y)} {
			g := new(big.Int).GCD(nil, nil, cand.Abs(cand), n)
			if g.Cmp(one) > 0 && g.Cmp(n) < 0 {
				cfg.Trace.Record("factor", g)
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("factor: sieve on %s found only trivial factors: %w", n, ntk.ErrNoFactorFound)
}

// dependencies runs Gaussian elimination over GF(2) and returns, for each
// row reduced to zero, the set of original relations that sum to zero.
func dependencies(relations []Relation, cols int) []*bitset.BitSet {
	rows := make([]*bitset.BitSet, len(relations))
	combos := make([]*bitset.BitSet, len(relations))
	for i, r := range relations {
		rows[i] = r.parity()
		combos[i] = bitset.New(uint(len(relations))).Set(uint(i))
	}

	used := make([]bool, len(rows))
	for c := 0; c < cols; c++ {
		pivot := -1
		for r := range rows {
			if !used[r] && rows[r].Test(uint(c)) {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		used[pivot] = true
		for r := range rows {
			if r != pivot && rows[r].Test(uint(c)) {
				rows[r].InPlaceSymmetricDifference(rows[pivot])
				combos[r].InPlaceSymmetricDifference(combos[pivot])
			}
		}
	}

	var deps []*bitset.BitSet
	for r := range rows {
		if rows[r].None() && combos[r].Any() {
			deps = append(deps, combos[r])
		}
	}
	return deps
}
