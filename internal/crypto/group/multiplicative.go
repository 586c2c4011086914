package group

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/factor"
	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

var (
	one   = big.NewInt(1)
	three = big.NewInt(3)
)

// MaxEnumerable bounds the modulus for Generators.
const MaxEnumerable = 1 << 20

// Residue is an element of (Z/pZ)*.
type Residue struct {
	v *big.Int
}

// NewResidue wraps v. It is reduced when it enters a group operation.
func NewResidue(v *big.Int) Residue {
	return Residue{v: new(big.Int).Set(v)}
}

// Value returns a copy of the residue.
func (r Residue) Value() *big.Int {
	return new(big.Int).Set(r.v)
}

func (r Residue) Key() string {
	return r.v.String()
}

func (r Residue) String() string {
	return r.v.String()
}

// Multiplicative is the group (Z/pZ)*.
type Multiplicative struct {
	P *big.Int
}

// NewMultiplicative returns (Z/pZ)* for p > 1.
func NewMultiplicative(p *big.Int) (*Multiplicative, error) {
	if p == nil || p.Cmp(one) <= 0 {
		return nil, fmt.Errorf("group: modulus must exceed 1, got %v: %w", p, ntk.ErrInvalidParameters)
	}
	return &Multiplicative{P: new(big.Int).Set(p)}, nil
}

// Element returns v mod p as a group element.
func (g *Multiplicative) Element(v *big.Int) Residue {
	return Residue{v: modular.Reduce(v, g.P)}
}

// Order returns p - 1, the group order for prime p.
func (g *Multiplicative) Order() *big.Int {
	return new(big.Int).Sub(g.P, one)
}

func (g *Multiplicative) value(e Element) (*big.Int, error) {
	r, ok := e.(Residue)
	if !ok || r.v == nil {
		return nil, wrongElement(g, e)
	}
	return modular.Reduce(r.v, g.P), nil
}

func (g *Multiplicative) Identity() Element {
	return Residue{v: big.NewInt(1)}
}

func (g *Multiplicative) Combine(a, b Element) (Element, error) {
	x, err := g.value(a)
	if err != nil {
		return nil, err
	}
	y, err := g.value(b)
	if err != nil {
		return nil, err
	}
	return Residue{v: modular.Mul(x, y, g.P)}, nil
}

func (g *Multiplicative) Invert(a Element) (Element, error) {
	x, err := g.value(a)
	if err != nil {
		return nil, err
	}
	inv, err := modular.Inverse(x, g.P)
	if err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	return Residue{v: inv}, nil
}

func (g *Multiplicative) Power(a Element, k *big.Int) (Element, error) {
	x, err := g.value(a)
	if err != nil {
		return nil, err
	}
	v, err := modular.Power(x, k, g.P)
	if err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	return Residue{v: v}, nil
}

func (g *Multiplicative) Equal(a, b Element) bool {
	x, err := g.value(a)
	if err != nil {
		return false
	}
	y, err := g.value(b)
	if err != nil {
		return false
	}
	return x.Cmp(y) == 0
}

// Partition classifies by value mod 3.
func (g *Multiplicative) Partition(a Element) int {
	x, err := g.value(a)
	if err != nil {
		return 0
	}
	return int(new(big.Int).Mod(x, three).Int64())
}

// IsGenerator reports whether e generates (Z/pZ)* for prime p, by checking
// e^((p-1)/q) != 1 for every prime q dividing p - 1.
func (g *Multiplicative) IsGenerator(e *big.Int) (bool, error) {
	if !g.P.ProbablyPrime(20) {
		return false, fmt.Errorf("group: generator test needs a prime modulus, got %s: %w", g.P, ntk.ErrInvalidParameters)
	}
	x := modular.Reduce(e, g.P)
	if x.Sign() == 0 {
		return false, nil
	}

	order := g.Order()
	factors, err := factor.TrialDivision(order)
	if err != nil {
		return false, err
	}
	for _, f := range factors {
		exp := new(big.Int).Quo(order, f.Prime)
		if new(big.Int).Exp(x, exp, g.P).Cmp(one) == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Generators lists every generator of (Z/pZ)* in ascending order.
func (g *Multiplicative) Generators() ([]*big.Int, error) {
	if g.P.Cmp(big.NewInt(MaxEnumerable)) > 0 {
		return nil, fmt.Errorf("group: p = %s too large to enumerate: %w", g.P, ntk.ErrInvalidParameters)
	}

	var gens []*big.Int
	for e := big.NewInt(1); e.Cmp(g.P) < 0; e.Add(e, one) {
		ok, err := g.IsGenerator(e)
		if err != nil {
			return nil, err
		}
		if ok {
			gens = append(gens, new(big.Int).Set(e))
		}
	}
	return gens, nil
}
