package factor

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/polynomial"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// PollardRho looks for a nontrivial factor of n with Floyd's cycle
// detection over f(x) = x^2 + a mod n, starting at x0. It gives up with
// ErrNoFactorFound when the gcd reaches n or after maxIter steps; retry with
// another a or x0. Even n yields 2. maxIter <= 0 selects the default.
func PollardRho(n, x0, a *big.Int, maxIter int, opts ...ntk.Option) (*big.Int, error) {
	if n == nil || n.Cmp(two) <= 0 {
		return nil, fmt.Errorf("factor: rho needs n > 2, got %v: %w", n, ntk.ErrInvalidParameters)
	}
	if n.Bit(0) == 0 {
		return big.NewInt(2), nil
	}
	cfg := ntk.NewConfig(opts...)
	if maxIter <= 0 {
		maxIter = cfg.MaxIterations
	}

	f := polynomial.New(n, a, zero, one)
	x := new(big.Int).Mod(x0, n)
	y := new(big.Int).Set(x)
	d := big.NewInt(1)
	diff := new(big.Int)

	for i := 0; i < maxIter && d.Cmp(one) == 0; i++ {
		x = f.Evaluate(x)
		y = f.Evaluate(f.Evaluate(y))

		diff.Sub(x, y)
		diff.Abs(diff)
		d.GCD(nil, nil, diff, n)
		cfg.Trace.Record("d", d)
	}

	if d.Cmp(one) == 0 || d.Cmp(n) == 0 {
		return nil, fmt.Errorf("factor: rho on %s with x0=%s a=%s: %w", n, x0, a, ntk.ErrNoFactorFound)
	}
	return d, nil
}
