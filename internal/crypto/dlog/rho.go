package dlog

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/congruence"
	"github.com/smallyu/go-ntkit/internal/crypto/group"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// walk is a point v = base^a * target^b of the random walk.
type walk struct {
	v    group.Element
	a, b *big.Int
}

type walker struct {
	g         group.Group
	base      group.Element
	target    group.Element
	order     *big.Int
	partition func(ntk.Element) int
}

// step moves by class: 0 multiplies by base, 1 by target, 2 squares.
func (w *walker) step(s walk) (walk, error) {
	var (
		next walk
		err  error
	)
	switch w.partition(s.v) {
	case 0:
		next.v, err = w.g.Combine(s.v, w.base)
		next.a = new(big.Int).Add(s.a, one)
		next.b = s.b
	case 1:
		next.v, err = w.g.Combine(s.v, w.target)
		next.a = s.a
		next.b = new(big.Int).Add(s.b, one)
	default:
		next.v, err = w.g.Combine(s.v, s.v)
		next.a = new(big.Int).Lsh(s.a, 1)
		next.b = new(big.Int).Lsh(s.b, 1)
	}
	if err != nil {
		return walk{}, err
	}
	next.a.Mod(next.a, w.order)
	next.b.Mod(next.b, w.order)
	return next, nil
}

// PollardRho finds x with base^x = target by a three-way random walk with
// Floyd cycle detection. A collision base^a1 target^b1 = base^a2 target^b2
// gives B*x ≡ A (mod order) with A = a1 - a2 and B = b2 - b1; every
// solution of that congruence is checked against the target. A degenerate
// collision (B ≡ 0) or a congruence without a valid root fails with
// ErrNoSolution; callers may retry with another partition.
func PollardRho(g group.Group, base, target group.Element, order *big.Int, opts ...ntk.Option) (*big.Int, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	cfg := ntk.NewConfig(opts...)

	target, err := g.Combine(target, g.Identity())
	if err != nil {
		return nil, fmt.Errorf("dlog: normalizing target: %w", err)
	}
	w := &walker{g: g, base: base, target: target, order: order, partition: cfg.Partition}
	if w.partition == nil {
		w.partition = g.Partition
	}

	tortoise := walk{v: g.Identity(), a: new(big.Int), b: new(big.Int)}
	hare, err := w.step(tortoise)
	if err != nil {
		return nil, fmt.Errorf("dlog: rho step: %w", err)
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		if tortoise, err = w.step(tortoise); err != nil {
			return nil, fmt.Errorf("dlog: rho step: %w", err)
		}
		if hare, err = w.step(hare); err != nil {
			return nil, fmt.Errorf("dlog: rho step: %w", err)
		}
		if hare, err = w.step(hare); err != nil {
			return nil, fmt.Errorf("dlog: rho step: %w", err)
		}

		if !g.Equal(tortoise.v, hare.v) {
			continue
		}

		A := new(big.Int).Sub(tortoise.a, hare.a)
		A.Mod(A, order)
		B := new(big.Int).Sub(hare.b, tortoise.b)
		B.Mod(B, order)
		cfg.Trace.Record("collision", i)
		cfg.Trace.Record("A", A)
		cfg.Trace.Record("B", B)

		if B.Sign() == 0 {
			return nil, fmt.Errorf("dlog: degenerate collision after %d steps: %w", i, ntk.ErrNoSolution)
		}
		return resolve(g, base, target, A, B, order)
	}
	return nil, fmt.Errorf("dlog: no collision within %d steps: %w", cfg.MaxIterations, ntk.ErrNoSolution)
}

// resolve solves B*x ≡ A (mod order) and returns the first root that maps
// base to target.
func resolve(g group.Group, base, target group.Element, A, B, order *big.Int) (*big.Int, error) {
	candidates, err := congruence.Solve(B, A, order)
	if err != nil {
		return nil, fmt.Errorf("dlog: rho collision: %w", err)
	}
	for _, x := range candidates {
		e, err := g.Power(base, x)
		if err != nil {
			return nil, err
		}
		if g.Equal(e, target) {
			return x, nil
		}
	}
	return nil, fmt.Errorf("dlog: none of %d candidates maps %v to %v: %w", len(candidates), base, target, ntk.ErrNoSolution)
}
