package congruence

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// MaxSolutions bounds the number of solutions Solve lists.
const MaxSolutions = 1 << 20

// Solve returns every x in [0, m) with a*x ≡ b (mod m), sorted ascending.
// There are exactly gcd(a, m) of them, or none (ErrNoSolution) when the gcd
// does not divide b. More than MaxSolutions fails with ErrInvalidParameters.
func Solve(a, b, m *big.Int, opts ...ntk.Option) ([]*big.Int, error) {
	if err := modular.CheckModulus(m); err != nil {
		return nil, err
	}
	cfg := ntk.NewConfig(opts...)

	ar := modular.Reduce(a, m)
	br := modular.Reduce(b, m)
	d := new(big.Int).GCD(nil, nil, ar, m)
	cfg.Trace.Record("gcd", d)

	if new(big.Int).Mod(br, d).Sign() != 0 {
		return nil, fmt.Errorf("congruence: gcd(%s, %s) = %s does not divide %s: %w", a, m, d, b, ntk.ErrNoSolution)
	}
	if d.Cmp(big.NewInt(MaxSolutions)) > 0 {
		return nil, fmt.Errorf("congruence: %s solutions exceed %d: %w", d, MaxSolutions, ntk.ErrInvalidParameters)
	}

	// Reduce to a'x ≡ b' (mod m') with gcd(a', m') = 1.
	a1 := new(big.Int).Quo(ar, d)
	b1 := new(big.Int).Quo(br, d)
	m1 := new(big.Int).Quo(m, d)

	inv, err := modular.Inverse(a1, m1)
	if err != nil {
		return nil, fmt.Errorf("congruence: reduced system: %w", err)
	}
	x0 := modular.Mul(b1, inv, m1)
	cfg.Trace.Record("x0", x0)

	solutions := make([]*big.Int, 0, int(d.Int64()))
	x := new(big.Int).Set(x0)
	for k := new(big.Int); k.Cmp(d) < 0; k.Add(k, big.NewInt(1)) {
		solutions = append(solutions, new(big.Int).Set(x))
		x.Add(x, m1)
	}
	return solutions, nil
}

// Combine merges x ≡ a1 (mod m1) and x ≡ a2 (mod m2) into a single
// congruence x ≡ a (mod lcm(m1, m2)). Inconsistent systems fail with
// ErrNoSolution.
func Combine(a1, m1, a2, m2 *big.Int) (*big.Int, *big.Int, error) {
	if err := modular.CheckModulus(m1); err != nil {
		return nil, nil, err
	}
	if err := modular.CheckModulus(m2); err != nil {
		return nil, nil, err
	}

	g, p, _ := modular.ExtendedGCD(m1, m2)
	diff := new(big.Int).Sub(a2, a1)
	if new(big.Int).Mod(diff, g).Sign() != 0 {
		return nil, nil, fmt.Errorf("congruence: x ≡ %s (mod %s) and x ≡ %s (mod %s) are inconsistent: %w",
			a1, m1, a2, m2, ntk.ErrNoSolution)
	}

	lcm := new(big.Int).Quo(m1, g)
	lcm.Mul(lcm, m2)

	// x = a1 + m1 * ((a2 - a1)/g * p mod m2/g)
	step := new(big.Int).Quo(diff, g)
	step.Mul(step, p)
	step.Mod(step, new(big.Int).Quo(m2, g))

	x := new(big.Int).Mul(m1, step)
	x.Add(x, a1)
	x.Mod(x, lcm)
	return x, lcm, nil
}

// CRT folds the congruences x ≡ residues[i] (mod moduli[i]) pairwise and
// returns the combined residue and modulus.
func CRT(residues, moduli []*big.Int, opts ...ntk.Option) (*big.Int, *big.Int, error) {
	if len(residues) == 0 || len(residues) != len(moduli) {
		return nil, nil, fmt.Errorf("congruence: need matching non-empty residues and moduli, got %d and %d: %w",
			len(residues), len(moduli), ntk.ErrInvalidParameters)
	}
	cfg := ntk.NewConfig(opts...)

	if err := modular.CheckModulus(moduli[0]); err != nil {
		return nil, nil, err
	}
	a := modular.Reduce(residues[0], moduli[0])
	m := new(big.Int).Set(moduli[0])

	for i := 1; i < len(residues); i++ {
		var err error
		a, m, err = Combine(a, m, residues[i], moduli[i])
		if err != nil {
			return nil, nil, fmt.Errorf("congruence: combining congruence %d: %w", i, err)
		}
		cfg.Trace.Record(fmt.Sprintf("x mod %s", m), a)
	}
	return a, m, nil
}
