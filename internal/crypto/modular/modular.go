package modular

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/pkg/ntk"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

// CheckModulus returns ErrInvalidParameters unless m > 0.
func CheckModulus(m *big.Int) error {
	if m == nil || m.Sign() <= 0 {
		return fmt.Errorf("modular: modulus must be positive, got %v: %w", m, ntk.ErrInvalidParameters)
	}
	return nil
}

// Reduce returns x mod m in [0, m). m must be positive.
func Reduce(x, m *big.Int) *big.Int {
	return new(big.Int).Mod(x, m)
}

// Add returns (a + b) mod m.
func Add(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, m)
}

// Sub returns (a - b) mod m.
func Sub(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, m)
}

// Mul returns (a * b) mod m.
func Mul(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, m)
}

// ExtendedGCD returns g = gcd(a, b) >= 0 and x, y with a*x + b*y = g.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		tmp.Mul(q, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(q, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)

		tmp.Mul(q, t)
		oldT, t = t, new(big.Int).Sub(oldT, tmp)
	}

	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// Inverse returns y in [0, m) with x*y ≡ 1 (mod m) using the extended
// Euclidean algorithm. It works for any positive modulus and fails with an
// *ntk.InverseError when gcd(x, m) != 1.
func Inverse(x, m *big.Int) (*big.Int, error) {
	if err := CheckModulus(m); err != nil {
		return nil, err
	}
	xr := Reduce(x, m)
	g, s, _ := ExtendedGCD(xr, m)
	if g.Cmp(one) != 0 {
		return nil, ntk.NewInverseError(x, m, g)
	}
	return Reduce(s, m), nil
}

// InverseFermat returns x^(p-2) mod p. It is only valid for prime p, which
// is checked first; a composite modulus yields ErrInvalidParameters.
func InverseFermat(x, p *big.Int) (*big.Int, error) {
	if p == nil || p.Cmp(two) < 0 || !p.ProbablyPrime(20) {
		return nil, fmt.Errorf("modular: fermat inverse needs a prime modulus, got %v: %w", p, ntk.ErrInvalidParameters)
	}
	xr := Reduce(x, p)
	if xr.Sign() == 0 {
		return nil, ntk.NewInverseError(x, p, p)
	}
	e := new(big.Int).Sub(p, two)
	return new(big.Int).Exp(xr, e, p), nil
}

// Power returns base^exp mod m. exp = 0 gives 1 mod m. A negative exponent
// inverts base first, which fails when base is not a unit.
func Power(base, exp, m *big.Int) (*big.Int, error) {
	if err := CheckModulus(m); err != nil {
		return nil, err
	}
	b := Reduce(base, m)
	e := new(big.Int).Set(exp)
	if e.Sign() < 0 {
		inv, err := Inverse(b, m)
		if err != nil {
			return nil, fmt.Errorf("modular: negative exponent: %w", err)
		}
		b = inv
		e.Neg(e)
	}
	return new(big.Int).Exp(b, e, m), nil
}

// Legendre returns the Legendre symbol (n/p) for an odd prime p using
// Euler's criterion: 0 if p | n, 1 for a residue, -1 otherwise.
func Legendre(n, p *big.Int) int {
	e := new(big.Int).Sub(p, one)
	e.Rsh(e, 1)
	r := new(big.Int).Exp(Reduce(n, p), e, p)
	switch {
	case r.Sign() == 0:
		return 0
	case r.Cmp(one) == 0:
		return 1
	default:
		return -1
	}
}

// MultiplicativeOrder returns the smallest k >= 1 with a^k ≡ 1 (mod m).
// The search is bounded by m; non-units fail with ErrOrderNotFound.
func MultiplicativeOrder(a, m *big.Int) (*big.Int, error) {
	if err := CheckModulus(m); err != nil {
		return nil, err
	}
	if m.Cmp(one) == 0 {
		return big.NewInt(1), nil
	}
	base := Reduce(a, m)
	if new(big.Int).GCD(nil, nil, base, m).Cmp(one) != 0 {
		return nil, fmt.Errorf("modular: %s is not a unit mod %s: %w", a, m, ntk.ErrOrderNotFound)
	}

	x := new(big.Int).Set(base)
	k := big.NewInt(1)
	for k.Cmp(m) <= 0 {
		if x.Cmp(one) == 0 {
			return k, nil
		}
		x.Mul(x, base)
		x.Mod(x, m)
		k.Add(k, one)
	}
	return nil, fmt.Errorf("modular: order of %s mod %s: %w", a, m, ntk.ErrOrderNotFound)
}

// LCM returns the least common multiple of a and b.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
	l := new(big.Int).Mul(a, b)
	l.Abs(l)
	return l.Quo(l, g)
}

// IsZero reports whether x ≡ 0 (mod m).
func IsZero(x, m *big.Int) bool {
	return Reduce(x, m).Cmp(zero) == 0
}
