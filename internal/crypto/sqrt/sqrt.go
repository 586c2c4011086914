package sqrt

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
)

// TonelliShanks returns the two square roots (x, p-x) of n modulo an odd
// prime p. For n ≡ 0 both roots are 0.
func TonelliShanks(n, p *big.Int, opts ...ntk.Option) (*big.Int, *big.Int, error) {
	if p == nil || p.Cmp(three) < 0 || p.Bit(0) == 0 || !p.ProbablyPrime(20) {
		return nil, nil, fmt.Errorf("sqrt: modulus must be an odd prime, got %v: %w", p, ntk.ErrInvalidParameters)
	}
	cfg := ntk.NewConfig(opts...)

	a := modular.Reduce(n, p)
	if a.Sign() == 0 {
		return new(big.Int), new(big.Int), nil
	}

	if modular.Legendre(a, p) != 1 {
		return nil, nil, fmt.Errorf("sqrt: %s mod %s: %w", n, p, ntk.ErrNotQuadraticResidue)
	}

	// p ≡ 3 (mod 4): x = n^((p+1)/4).
	if new(big.Int).Mod(p, four).Cmp(three) == 0 {
		e := new(big.Int).Add(p, one)
		e.Rsh(e, 2)
		x := new(big.Int).Exp(a, e, p)
		cfg.Trace.Record("x", x)
		return x, new(big.Int).Sub(p, x), nil
	}

	// p - 1 = q * 2^s with q odd.
	q := new(big.Int).Sub(p, one)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}
	cfg.Trace.Record("q", q)
	cfg.Trace.Record("s", s)

	z := new(big.Int).Set(two)
	for modular.Legendre(z, p) != -1 {
		z.Add(z, one)
	}
	cfg.Trace.Record("z", z)

	c := new(big.Int).Exp(z, q, p)
	x := new(big.Int).Exp(a, new(big.Int).Rsh(new(big.Int).Add(q, one), 1), p)
	t := new(big.Int).Exp(a, q, p)
	m := s

	for t.Cmp(one) != 0 {
		// Smallest 0 < i < m with t^(2^i) ≡ 1.
		i := 0
		t2 := new(big.Int).Set(t)
		for t2.Cmp(one) != 0 {
			t2.Mul(t2, t2)
			t2.Mod(t2, p)
			i++
			if i == m {
				return nil, nil, fmt.Errorf("sqrt: %s mod %s: %w", n, p, ntk.ErrNotQuadraticResidue)
			}
		}

		b := new(big.Int).Set(c)
		for j := 0; j < m-i-1; j++ {
			b.Mul(b, b)
			b.Mod(b, p)
		}

		x.Mul(x, b)
		x.Mod(x, p)
		c.Mul(b, b)
		c.Mod(c, p)
		t.Mul(t, c)
		t.Mod(t, p)
		m = i

		cfg.Trace.Record("x", x)
		cfg.Trace.Record("t", t)
	}

	return x, new(big.Int).Sub(p, x), nil
}

// FourthRoots returns every x in [0, p) with x^4 ≡ a (mod p), sorted and
// without duplicates. The result has 0, 1 (a ≡ 0), 2 or 4 elements.
func FourthRoots(a, p *big.Int, opts ...ntk.Option) ([]*big.Int, error) {
	y1, y2, err := TonelliShanks(a, p, opts...)
	if err != nil {
		if isNonResidue(err) {
			return nil, nil
		}
		return nil, err
	}

	seen := make(map[string]bool)
	var roots []*big.Int
	for _, y := range []*big.Int{y1, y2} {
		x1, x2, err := TonelliShanks(y, p, opts...)
		if err != nil {
			if isNonResidue(err) {
				continue
			}
			return nil, err
		}
		for _, x := range []*big.Int{x1, x2} {
			r := modular.Reduce(x, p)
			if !seen[r.String()] {
				seen[r.String()] = true
				roots = append(roots, r)
			}
		}
	}

	sort.Slice(roots, func(i, j int) bool { return roots[i].Cmp(roots[j]) < 0 })
	return roots, nil
}

func isNonResidue(err error) bool {
	return errors.Is(err, ntk.ErrNotQuadraticResidue)
}
