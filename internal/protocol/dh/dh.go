package dh

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/dlog"
	"github.com/smallyu/go-ntkit/internal/crypto/group"
	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// PublicKey returns g^a mod p.
func PublicKey(g, a, p *big.Int) (*big.Int, error) {
	return modular.Power(g, a, p)
}

// SharedSecret returns pub^a mod p.
func SharedSecret(pub, a, p *big.Int) (*big.Int, error) {
	return modular.Power(pub, a, p)
}

// PublicCurve returns k*P.
func PublicCurve(c *curves.Curve, P curves.Point, k *big.Int) (curves.Point, error) {
	return c.ScalarMult(k, P)
}

// SharedSecretCurve returns kB*(kA*P), the point both parties arrive at.
func SharedSecretCurve(c *curves.Curve, P curves.Point, kA, kB *big.Int, opts ...ntk.Option) (curves.Point, error) {
	cfg := ntk.NewConfig(opts...)

	A, err := c.ScalarMult(kA, P)
	if err != nil {
		return curves.Point{}, fmt.Errorf("dh: computing A: %w", err)
	}
	cfg.Trace.Record("A", A)

	B, err := c.ScalarMult(kB, P)
	if err != nil {
		return curves.Point{}, fmt.Errorf("dh: computing B: %w", err)
	}
	cfg.Trace.Record("B", B)

	K, err := c.ScalarMult(kB, A)
	if err != nil {
		return curves.Point{}, fmt.Errorf("dh: computing K: %w", err)
	}
	cfg.Trace.Record("K", K)
	return K, nil
}

// RecoverCurveKey finds the smallest k with k*base = target by stepping
// through multiples of base. A nil limit defaults to the Hasse bound of c.
func RecoverCurveKey(c *curves.Curve, base, target curves.Point, limit *big.Int, opts ...ntk.Option) (*big.Int, error) {
	if limit == nil {
		limit = c.HasseBound()
	}
	k, err := dlog.BruteForce(group.NewCurve(c), base, target, limit, opts...)
	if err != nil {
		return nil, fmt.Errorf("dh: recovering key: %w", err)
	}
	return k, nil
}
