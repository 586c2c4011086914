package factor

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

// TrialLimit bounds the divisors tried by TrialDivision.
const TrialLimit = 1 << 24

// MaxBound bounds the smoothness bound of a factor base.
const MaxBound = 1 << 24

// Factor is a prime power p^e.
type Factor struct {
	Prime    *big.Int
	Exponent int
}

func (f Factor) String() string {
	if f.Exponent == 1 {
		return f.Prime.String()
	}
	return fmt.Sprintf("%s^%d", f.Prime, f.Exponent)
}

// Value returns p^e.
func (f Factor) Value() *big.Int {
	return new(big.Int).Exp(f.Prime, big.NewInt(int64(f.Exponent)), nil)
}

// CheckBound rejects factor-base bounds above MaxBound.
func CheckBound(bound int64) error {
	if bound > MaxBound {
		return fmt.Errorf("factor: bound %d exceeds %d: %w", bound, MaxBound, ntk.ErrInvalidParameters)
	}
	return nil
}

// Primes returns all primes <= bound using the sieve of Eratosthenes.
// Bounds below 2 or above MaxBound give nil.
func Primes(bound int64) []*big.Int {
	if bound < 2 || CheckBound(bound) != nil {
		return nil
	}
	composite := make([]bool, bound+1)
	var primes []*big.Int
	for i := int64(2); i <= bound; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, big.NewInt(i))
		for j := i * i; j <= bound; j += i {
			composite[j] = true
		}
	}
	return primes
}

// TrialDivision factors n >= 1 into ascending prime powers. Divisors are
// tried up to TrialLimit; a cofactor left above that must be prime.
func TrialDivision(n *big.Int) ([]Factor, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, fmt.Errorf("factor: cannot factor %v: %w", n, ntk.ErrInvalidParameters)
	}

	m := new(big.Int).Set(n)
	var factors []Factor
	q, r := new(big.Int), new(big.Int)
	d := big.NewInt(2)
	limit := big.NewInt(TrialLimit)

	changed := true
	for new(big.Int).Mul(d, d).Cmp(m) <= 0 {
		if changed && m.ProbablyPrime(20) {
			break
		}
		changed = false
		if d.Cmp(limit) > 0 {
			if !m.ProbablyPrime(20) {
				return nil, fmt.Errorf("factor: cofactor %s of %s has no divisor below %d: %w", m, n, TrialLimit, ntk.ErrNoFactorFound)
			}
			break
		}
		e := 0
		for {
			q.QuoRem(m, d, r)
			if r.Sign() != 0 {
				break
			}
			m.Set(q)
			e++
		}
		if e > 0 {
			changed = true
			factors = append(factors, Factor{Prime: new(big.Int).Set(d), Exponent: e})
		}
		if d.Cmp(two) == 0 {
			d.SetInt64(3)
		} else {
			d.Add(d, two)
		}
	}
	if m.Cmp(one) > 0 {
		factors = append(factors, Factor{Prime: m, Exponent: 1})
	}
	return factors, nil
}

// Smooth returns the exponent vector of v over base when v > 0 factors
// completely over it.
func Smooth(v *big.Int, base []*big.Int) ([]int, bool) {
	if v.Sign() <= 0 {
		return nil, false
	}
	m := new(big.Int).Set(v)
	exps := make([]int, len(base))
	q, r := new(big.Int), new(big.Int)
	for i, p := range base {
		for {
			q.QuoRem(m, p, r)
			if r.Sign() != 0 {
				break
			}
			m.Set(q)
			exps[i]++
		}
	}
	if m.Cmp(one) != 0 {
		return nil, false
	}
	return exps, true
}
