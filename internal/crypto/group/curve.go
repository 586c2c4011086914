package group

import (
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
)

// Curve is the additive group E(F_p) viewed through the Group interface:
// Combine is point addition and Power is scalar multiplication.
type Curve struct {
	*curves.Curve
}

// NewCurve wraps c.
func NewCurve(c *curves.Curve) *Curve {
	return &Curve{Curve: c}
}

func (g *Curve) point(e Element) (curves.Point, error) {
	p, ok := e.(curves.Point)
	if !ok {
		return curves.Point{}, wrongElement(g, e)
	}
	return p, nil
}

func (g *Curve) Identity() Element {
	return curves.Infinity()
}

func (g *Curve) Combine(a, b Element) (Element, error) {
	p, err := g.point(a)
	if err != nil {
		return nil, err
	}
	q, err := g.point(b)
	if err != nil {
		return nil, err
	}
	return g.Add(p, q)
}

func (g *Curve) Invert(a Element) (Element, error) {
	p, err := g.point(a)
	if err != nil {
		return nil, err
	}
	return g.Negate(p), nil
}

func (g *Curve) Power(a Element, k *big.Int) (Element, error) {
	p, err := g.point(a)
	if err != nil {
		return nil, err
	}
	return g.ScalarMult(k, p)
}

func (g *Curve) Equal(a, b Element) bool {
	p, err := g.point(a)
	if err != nil {
		return false
	}
	q, err := g.point(b)
	if err != nil {
		return false
	}
	return p.Equal(q)
}

// Partition classifies by x mod 3; O is in class 0.
func (g *Curve) Partition(a Element) int {
	p, err := g.point(a)
	if err != nil || p.IsInfinity() {
		return 0
	}
	return int(new(big.Int).Mod(p.X(), big.NewInt(3)).Int64())
}
