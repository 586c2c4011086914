package dh

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/smallyu/go-ntkit/internal/crypto/dlog"
	"github.com/smallyu/go-ntkit/internal/crypto/group"
	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// Exchange holds the values of a Diffie-Hellman exchange over (Z/pZ)*.
// Unknown values are nil; P and G are required.
type Exchange struct {
	P *big.Int
	G *big.Int

	PrivA *big.Int
	PubA  *big.Int
	PrivB *big.Int
	PubB  *big.Int
	K     *big.Int

	// KEqualsG asks for private keys with a*b ≡ 1 (mod p-1) so that the
	// shared key equals g.
	KEqualsG bool
}

func (e *Exchange) clone() *Exchange {
	cp := func(x *big.Int) *big.Int {
		if x == nil {
			return nil
		}
		return new(big.Int).Set(x)
	}
	return &Exchange{
		P: cp(e.P), G: cp(e.G),
		PrivA: cp(e.PrivA), PubA: cp(e.PubA),
		PrivB: cp(e.PrivB), PubB: cp(e.PubB),
		K: cp(e.K), KEqualsG: e.KEqualsG,
	}
}

// Missing lists the names of the values that are still unknown.
func (e *Exchange) Missing() []string {
	var names []string
	for _, v := range []struct {
		name string
		x    *big.Int
	}{{"a", e.PrivA}, {"A", e.PubA}, {"b", e.PrivB}, {"B", e.PubB}, {"K", e.K}} {
		if v.x == nil {
			names = append(names, v.name)
		}
	}
	return names
}

func (e *Exchange) String() string {
	show := func(x *big.Int) string {
		if x == nil {
			return "?"
		}
		return x.String()
	}
	return fmt.Sprintf("p=%s g=%s a=%s A=%s b=%s B=%s K=%s",
		show(e.P), show(e.G), show(e.PrivA), show(e.PubA), show(e.PrivB), show(e.PubB), show(e.K))
}

// Complete derives every value it can from the known ones and returns the
// filled exchange. It repeats the rules below until nothing changes:
//
//	K = g requested: b = a^-1, a = b^-1 (mod p-1), then K = g
//	A = g^a, B = g^b
//	a = log_g A, b = log_g B
//	K = B^a, K = A^b
//	b = log_A K, a = log_B K
//
// Values that stay unknown are reported with ErrNoSolution alongside the
// partial result.
func (e *Exchange) Complete(opts ...ntk.Option) (*Exchange, error) {
	if e.P == nil || e.G == nil {
		return nil, fmt.Errorf("dh: p and g are required: %w", ntk.ErrInvalidParameters)
	}
	grp, err := group.NewMultiplicative(e.P)
	if err != nil {
		return nil, fmt.Errorf("dh: %w", err)
	}
	cfg := ntk.NewConfig(opts...)
	x := e.clone()
	order := grp.Order()

	power := func(base, exp *big.Int) (*big.Int, error) {
		return modular.Power(base, exp, x.P)
	}
	// log_base(target) in (Z/pZ)*; an unreachable target leaves the value
	// unknown rather than failing the exchange.
	logOf := func(base, target *big.Int) (*big.Int, error) {
		v, err := dlog.BabyStepGiantStep(grp, grp.Element(base), grp.Element(target), order)
		if errors.Is(err, ntk.ErrNoSolution) {
			return nil, nil
		}
		return v, err
	}

	for changed := true; changed; {
		changed = false
		set := func(dst **big.Int, label string, v *big.Int) {
			if v == nil {
				return
			}
			*dst = v
			cfg.Trace.Record(label, v)
			changed = true
		}

		if x.KEqualsG {
			if x.PrivA != nil && x.PrivB == nil {
				if inv, err := modular.Inverse(x.PrivA, order); err == nil {
					set(&x.PrivB, "b", inv)
				}
			}
			if x.PrivB != nil && x.PrivA == nil {
				if inv, err := modular.Inverse(x.PrivB, order); err == nil {
					set(&x.PrivA, "a", inv)
				}
			}
			if x.PrivA != nil && x.PrivB != nil && x.K == nil {
				set(&x.K, "K", modular.Reduce(x.G, x.P))
			}
		}

		if x.PrivA != nil && x.PubA == nil {
			v, err := power(x.G, x.PrivA)
			if err != nil {
				return x, fmt.Errorf("dh: computing A: %w", err)
			}
			set(&x.PubA, "A", v)
		}
		if x.PubA != nil && x.PrivA == nil {
			v, err := logOf(x.G, x.PubA)
			if err != nil {
				return x, fmt.Errorf("dh: recovering a: %w", err)
			}
			set(&x.PrivA, "a", v)
		}
		if x.PrivB != nil && x.PubB == nil {
			v, err := power(x.G, x.PrivB)
			if err != nil {
				return x, fmt.Errorf("dh: computing B: %w", err)
			}
			set(&x.PubB, "B", v)
		}
		if x.PubB != nil && x.PrivB == nil {
			v, err := logOf(x.G, x.PubB)
			if err != nil {
				return x, fmt.Errorf("dh: recovering b: %w", err)
			}
			set(&x.PrivB, "b", v)
		}

		if x.K == nil && x.PrivA != nil && x.PubB != nil {
			v, err := power(x.PubB, x.PrivA)
			if err != nil {
				return x, fmt.Errorf("dh: computing K: %w", err)
			}
			set(&x.K, "K", v)
		}
		if x.K == nil && x.PrivB != nil && x.PubA != nil {
			v, err := power(x.PubA, x.PrivB)
			if err != nil {
				return x, fmt.Errorf("dh: computing K: %w", err)
			}
			set(&x.K, "K", v)
		}

		if x.K != nil && x.PubA != nil && x.PrivB == nil && x.PubB == nil {
			v, err := logOf(x.PubA, x.K)
			if err != nil {
				return x, fmt.Errorf("dh: recovering b from K: %w", err)
			}
			set(&x.PrivB, "b", v)
		}
		if x.K != nil && x.PubB != nil && x.PrivA == nil && x.PubA == nil {
			v, err := logOf(x.PubB, x.K)
			if err != nil {
				return x, fmt.Errorf("dh: recovering a from K: %w", err)
			}
			set(&x.PrivA, "a", v)
		}
	}

	if missing := x.Missing(); len(missing) > 0 {
		return x, fmt.Errorf("dh: cannot determine %s: %w", strings.Join(missing, ", "), ntk.ErrNoSolution)
	}
	return x, nil
}
