package dlog

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/congruence"
	"github.com/smallyu/go-ntkit/internal/crypto/factor"
	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// IndexCalculus solves g^x ≡ a (mod p) for prime p.
//
// It collects exponents z whose power g^z mod p factors over the primes
// <= bound, solves the relations for log_g of every factor-base prime mod
// p-1, then searches y = 1, 2, ... for a smooth a*g^y and returns
// x = sum(e_i * log_g(q_i)) - y mod p-1. At most WithMaxRelations
// exponents are tried before failing with ErrSingularSystem.
func IndexCalculus(g, a, p *big.Int, bound int64, opts ...ntk.Option) (*big.Int, error) {
	if p == nil || p.Cmp(big.NewInt(3)) < 0 || !p.ProbablyPrime(20) {
		return nil, fmt.Errorf("dlog: index calculus needs a prime modulus, got %v: %w", p, ntk.ErrInvalidParameters)
	}
	if err := factor.CheckBound(bound); err != nil {
		return nil, fmt.Errorf("dlog: %w", err)
	}
	base := factor.Primes(bound)
	if len(base) == 0 {
		return nil, fmt.Errorf("dlog: empty factor base for bound %d: %w", bound, ntk.ErrInvalidParameters)
	}
	cfg := ntk.NewConfig(opts...)
	n := new(big.Int).Sub(p, one)
	gr := modular.Reduce(g, p)
	ar := modular.Reduce(a, p)
	if gr.Sign() == 0 || ar.Sign() == 0 {
		return nil, fmt.Errorf("dlog: g and a must be units mod %s: %w", p, ntk.ErrInvalidParameters)
	}
	cfg.Trace.Record("factor base", base)

	logs, err := factorBaseLogs(gr, p, n, base, cfg)
	if err != nil {
		return nil, err
	}

	// Search y with a*g^y smooth.
	v := new(big.Int).Set(ar)
	for y := big.NewInt(1); y.Cmp(p) < 0; y.Add(y, one) {
		v.Mul(v, gr)
		v.Mod(v, p)

		exps, ok := factor.Smooth(v, base)
		if !ok {
			continue
		}
		x := new(big.Int).Neg(y)
		for i, e := range exps {
			x.Add(x, new(big.Int).Mul(big.NewInt(int64(e)), logs[i]))
		}
		x.Mod(x, n)

		if new(big.Int).Exp(gr, x, p).Cmp(ar) == 0 {
			cfg.Trace.Record("y", y)
			cfg.Trace.Record("x", x)
			return x, nil
		}
	}
	return nil, fmt.Errorf("dlog: no smooth a*g^y for a=%s mod %s: %w", a, p, ntk.ErrNoSolution)
}

// factorBaseLogs gathers relations g^z = prod q_i^e_i and solves them for
// log_g(q_i) mod n.
func factorBaseLogs(g, p, n *big.Int, base []*big.Int, cfg *ntk.Config) ([]*big.Int, error) {
	var (
		rows [][]*big.Int
		rhs  []*big.Int
	)

	limit := int64(cfg.MaxRelations)
	if n.IsInt64() && n.Int64() < limit {
		limit = n.Int64()
	}

	v := big.NewInt(1)
	for z := int64(1); z <= limit; z++ {
		v.Mul(v, g)
		v.Mod(v, p)

		exps, ok := factor.Smooth(v, base)
		if !ok {
			continue
		}
		row := make([]*big.Int, len(exps))
		for i, e := range exps {
			row[i] = big.NewInt(int64(e))
		}
		rows = append(rows, row)
		rhs = append(rhs, big.NewInt(z))
		cfg.Trace.Record(fmt.Sprintf("relation %d", len(rows)), fmt.Sprintf("%d^%d = %s", g, z, v))

		if len(rows) < len(base) {
			continue
		}
		logs, err := congruence.SolveSystem(rows, rhs, n)
		if err == nil {
			for i, q := range base {
				cfg.Trace.Record(fmt.Sprintf("log %s", q), logs[i])
			}
			return logs, nil
		}
		if !errors.Is(err, ntk.ErrSingularSystem) {
			return nil, fmt.Errorf("dlog: solving relations: %w", err)
		}
	}
	return nil, fmt.Errorf("dlog: %d relations from %d exponents do not determine the factor base logs: %w",
		len(rows), limit, ntk.ErrSingularSystem)
}
