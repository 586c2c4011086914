package dlog

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/group"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

var one = big.NewInt(1)

// MaxTableSize bounds the baby-step table.
const MaxTableSize = 1 << 24

// stepCount returns ceil(sqrt(order)).
func stepCount(order *big.Int) *big.Int {
	m := new(big.Int).Sqrt(order)
	if new(big.Int).Mul(m, m).Cmp(order) < 0 {
		m.Add(m, one)
	}
	return m
}

func checkOrder(order *big.Int) error {
	if order == nil || order.Sign() <= 0 {
		return fmt.Errorf("dlog: group order must be positive, got %v: %w", order, ntk.ErrInvalidParameters)
	}
	return nil
}

// BabyStepGiantStep finds x in [0, order) with base^x = target.
//
// With m = ceil(sqrt(order)) it stores base^j for j < m, keeping the
// smallest j per element, then walks target * base^(-m*i) for i < m until
// it hits the table. It fails with ErrNoSolution when no match is found.
func BabyStepGiantStep(g group.Group, base, target group.Element, order *big.Int, opts ...ntk.Option) (*big.Int, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	cfg := ntk.NewConfig(opts...)

	m := stepCount(order)
	if m.Cmp(big.NewInt(MaxTableSize)) > 0 {
		return nil, fmt.Errorf("dlog: baby-step table of %s entries exceeds %d: %w", m, MaxTableSize, ntk.ErrInvalidParameters)
	}
	steps := m.Int64()
	cfg.Trace.Record("m", m)

	// 1. Baby steps
	table := make(map[string]int64, steps)
	e := g.Identity()
	for j := int64(0); j < steps; j++ {
		if _, ok := table[e.Key()]; !ok {
			table[e.Key()] = j
		}
		var err error
		if e, err = g.Combine(e, base); err != nil {
			return nil, fmt.Errorf("dlog: baby step %d: %w", j, err)
		}
	}

	// 2. factor = base^(-m)
	bm, err := g.Power(base, m)
	if err != nil {
		return nil, fmt.Errorf("dlog: computing base^m: %w", err)
	}
	factor, err := g.Invert(bm)
	if err != nil {
		return nil, fmt.Errorf("dlog: inverting base^m: %w", err)
	}
	cfg.Trace.Record("factor", factor)

	// 3. Giant steps
	gamma, err := g.Combine(target, g.Identity())
	if err != nil {
		return nil, fmt.Errorf("dlog: normalizing target: %w", err)
	}
	for i := int64(0); i < steps; i++ {
		if j, ok := table[gamma.Key()]; ok {
			x := big.NewInt(i)
			x.Mul(x, m)
			x.Add(x, big.NewInt(j))
			x.Mod(x, order)
			cfg.Trace.Record("i", i)
			cfg.Trace.Record("j", j)
			cfg.Trace.Record("x", x)
			return x, nil
		}
		if gamma, err = g.Combine(gamma, factor); err != nil {
			return nil, fmt.Errorf("dlog: giant step %d: %w", i, err)
		}
	}
	return nil, fmt.Errorf("dlog: %v not reached from %v within %s giant steps: %w", target, base, m, ntk.ErrNoSolution)
}

// BabyStepGiantStepModP solves g^x ≡ h (mod p) over (Z/pZ)* of order p-1.
func BabyStepGiantStepModP(g, h, p *big.Int, opts ...ntk.Option) (*big.Int, error) {
	grp, err := group.NewMultiplicative(p)
	if err != nil {
		return nil, err
	}
	return BabyStepGiantStep(grp, grp.Element(g), grp.Element(h), grp.Order(), opts...)
}

// BabyStepGiantStepCurve solves x*P = A on c where P has order n.
func BabyStepGiantStepCurve(c *curves.Curve, p, a curves.Point, n *big.Int, opts ...ntk.Option) (*big.Int, error) {
	return BabyStepGiantStep(group.NewCurve(c), p, a, n, opts...)
}

// BruteForce returns the smallest k in [0, limit] with base^k = target.
func BruteForce(g group.Group, base, target group.Element, limit *big.Int, opts ...ntk.Option) (*big.Int, error) {
	cfg := ntk.NewConfig(opts...)

	e := g.Identity()
	for k := new(big.Int); k.Cmp(limit) <= 0; k.Add(k, one) {
		if g.Equal(e, target) {
			cfg.Trace.Record("x", k)
			return k, nil
		}
		var err error
		if e, err = g.Combine(e, base); err != nil {
			return nil, fmt.Errorf("dlog: brute force step %s: %w", k, err)
		}
	}
	return nil, fmt.Errorf("dlog: %v not reached from %v within %s steps: %w", target, base, limit, ntk.ErrNoSolution)
}
