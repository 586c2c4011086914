package polynomial

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// MaxModulus bounds the modulus Roots searches.
const MaxModulus = 1 << 24

// Polynomial represents a polynomial f(x) = a_0 + a_1*x + ... + a_t*x^t
// with coefficients in Z_m.
type Polynomial struct {
	Coefficients []*big.Int
	Modulus      *big.Int
}

// New returns the polynomial with the given coefficients, lowest degree
// first, reduced modulo m.
func New(m *big.Int, coeffs ...*big.Int) *Polynomial {
	cs := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		cs[i] = new(big.Int).Mod(c, m)
	}
	return &Polynomial{
		Coefficients: cs,
		Modulus:      new(big.Int).Set(m),
	}
}

// Degree returns the index of the highest nonzero coefficient, or -1 for
// the zero polynomial.
func (p *Polynomial) Degree() int {
	for i := len(p.Coefficients) - 1; i >= 0; i-- {
		if p.Coefficients[i].Sign() != 0 {
			return i
		}
	}
	return -1
}

// Evaluate calculates f(x) mod m
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	// Horner's method
	// result = a_t
	// for i = t-1 down to 0:
	//   result = result * x + a_i
	if len(p.Coefficients) == 0 {
		return new(big.Int)
	}

	degree := len(p.Coefficients) - 1
	result := new(big.Int).Set(p.Coefficients[degree])

	for i := degree - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, p.Coefficients[i])
		result.Mod(result, p.Modulus)
	}

	return result.Mod(result, p.Modulus)
}

// Roots returns every x in [0, m) with f(x) ≡ 0, by exhaustive search
// over moduli up to MaxModulus.
func (p *Polynomial) Roots() ([]*big.Int, error) {
	if p.Modulus.Sign() <= 0 || p.Modulus.Cmp(big.NewInt(MaxModulus)) > 0 {
		return nil, fmt.Errorf("polynomial: modulus %s outside (0, %d]: %w", p.Modulus, MaxModulus, ntk.ErrInvalidParameters)
	}
	var roots []*big.Int
	for x := new(big.Int); x.Cmp(p.Modulus) < 0; x.Add(x, big.NewInt(1)) {
		if p.Evaluate(x).Sign() == 0 {
			roots = append(roots, new(big.Int).Set(x))
		}
	}
	return roots, nil
}
