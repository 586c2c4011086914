package curves

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/internal/crypto/polynomial"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// MaxEnumerable bounds the field size for Points and Count.
const MaxEnumerable = 1 << 20

// Curve is E: y^2 = x^3 + A*x + B over F_P. Every operation takes its
// points explicitly; a Curve holds no other state.
type Curve struct {
	P *big.Int
	A *big.Int
	B *big.Int
}

// New returns a validated curve with A and B reduced mod p.
func New(p, a, b *big.Int) (*Curve, error) {
	if err := modular.CheckModulus(p); err != nil {
		return nil, fmt.Errorf("curves: %w", err)
	}
	c := &Curve{
		P: new(big.Int).Set(p),
		A: modular.Reduce(a, p),
		B: modular.Reduce(b, p),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewSmall is New for small literals.
func NewSmall(p, a, b int64) (*Curve, error) {
	return New(big.NewInt(p), big.NewInt(a), big.NewInt(b))
}

// Discriminant returns -16(4a^3 + 27b^2) mod p.
func (c *Curve) Discriminant() *big.Int {
	a3 := new(big.Int).Exp(c.A, three, nil)
	a3.Mul(a3, big.NewInt(4))
	b2 := new(big.Int).Mul(c.B, c.B)
	b2.Mul(b2, big.NewInt(27))

	d := new(big.Int).Add(a3, b2)
	d.Mul(d, big.NewInt(-16))
	return d.Mod(d, c.P)
}

// Validate checks that p is an odd modulus above 3 and that the curve is
// non-singular.
func (c *Curve) Validate() error {
	if c == nil || c.P == nil || c.A == nil || c.B == nil {
		return fmt.Errorf("curves: missing parameters: %w", ntk.ErrInvalidCurve)
	}
	if c.P.Cmp(three) <= 0 || c.P.Bit(0) == 0 {
		return fmt.Errorf("curves: p = %s must be an odd prime above 3: %w", c.P, ntk.ErrInvalidCurve)
	}
	if c.Discriminant().Sign() == 0 {
		return fmt.Errorf("curves: singular curve y^2 = x^3 + %sx + %s mod %s: %w", c.A, c.B, c.P, ntk.ErrInvalidCurve)
	}
	return nil
}

func (c *Curve) String() string {
	return fmt.Sprintf("y^2 = x^3 + %sx + %s mod %s", c.A, c.B, c.P)
}

// RHS returns x^3 + ax + b mod p.
func (c *Curve) RHS(x *big.Int) *big.Int {
	return polynomial.New(c.P, c.B, c.A, big.NewInt(0), one).Evaluate(x)
}

// IsOnCurve reports whether p satisfies the curve equation. O is always on
// the curve.
func (c *Curve) IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return true
	}
	lhs := new(big.Int).Mul(p.y, p.y)
	lhs.Mod(lhs, c.P)
	return lhs.Cmp(c.RHS(p.x)) == 0
}

// Negate returns -p.
func (c *Curve) Negate(p Point) Point {
	if p.IsInfinity() {
		return p
	}
	return Point{
		x:      modular.Reduce(p.x, c.P),
		y:      modular.Reduce(new(big.Int).Neg(p.y), c.P),
		finite: true,
	}
}

// Add returns p + q. A non-invertible slope denominator fails with
// ErrNoInverse; the only results of O are p = -q and a vertical tangent.
func (c *Curve) Add(p, q Point) (Point, error) {
	if p.IsInfinity() {
		return c.reduce(q), nil
	}
	if q.IsInfinity() {
		return c.reduce(p), nil
	}

	x1, y1 := modular.Reduce(p.x, c.P), modular.Reduce(p.y, c.P)
	x2, y2 := modular.Reduce(q.x, c.P), modular.Reduce(q.y, c.P)

	if x1.Cmp(x2) == 0 && modular.IsZero(new(big.Int).Add(y1, y2), c.P) {
		return Infinity(), nil
	}

	var num, den *big.Int
	if x1.Cmp(x2) == 0 && y1.Cmp(y2) == 0 {
		// tangent: (3x^2 + a) / 2y
		num = new(big.Int).Mul(x1, x1)
		num.Mul(num, three)
		num.Add(num, c.A)
		den = new(big.Int).Mul(y1, two)
	} else {
		// secant: (y2 - y1) / (x2 - x1)
		num = new(big.Int).Sub(y2, y1)
		den = new(big.Int).Sub(x2, x1)
	}

	inv, err := modular.Inverse(den, c.P)
	if err != nil {
		return Point{}, fmt.Errorf("curves: adding %s and %s: %w", p, q, err)
	}
	lambda := modular.Mul(num, inv, c.P)

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, c.P)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, y1)
	y3.Mod(y3, c.P)

	return Point{x: x3, y: y3, finite: true}, nil
}

// Double returns p + p.
func (c *Curve) Double(p Point) (Point, error) {
	return c.Add(p, p)
}

// Sub returns p - q.
func (c *Curve) Sub(p, q Point) (Point, error) {
	return c.Add(p, c.Negate(q))
}

// ScalarMult returns k*p by double-and-add over the bits of |k|, most
// significant first. Negative k negates p.
func (c *Curve) ScalarMult(k *big.Int, p Point, opts ...ntk.Option) (Point, error) {
	cfg := ntk.NewConfig(opts...)

	base := p
	if k.Sign() < 0 {
		base = c.Negate(p)
	}
	e := new(big.Int).Abs(k)

	r := Infinity()
	for i := e.BitLen() - 1; i >= 0; i-- {
		var err error
		if r, err = c.Double(r); err != nil {
			return Point{}, err
		}
		if e.Bit(i) == 1 {
			if r, err = c.Add(r, base); err != nil {
				return Point{}, err
			}
		}
		cfg.Trace.Record(fmt.Sprintf("bit %d = %d", i, e.Bit(i)), r)
	}
	return r, nil
}

// HasseBound returns p + 1 + 2*floor(sqrt(p)) + 5, the iteration cap for
// order searches.
func (c *Curve) HasseBound() *big.Int {
	b := new(big.Int).Sqrt(c.P)
	b.Lsh(b, 1)
	b.Add(b, c.P)
	return b.Add(b, big.NewInt(6))
}

// Order returns the smallest n >= 1 with n*p = O. The curve is validated
// and p must lie on it.
func (c *Curve) Order(p Point) (*big.Int, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.IsOnCurve(p) {
		return nil, fmt.Errorf("curves: %s is not on %s: %w", p, c, ntk.ErrInvalidCurve)
	}

	bound := c.HasseBound()
	q := p
	for n := big.NewInt(1); n.Cmp(bound) <= 0; n.Add(n, one) {
		if q.IsInfinity() {
			return n, nil
		}
		var err error
		if q, err = c.Add(q, p); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("curves: order of %s exceeds %s: %w", p, bound, ntk.ErrOrderNotFound)
}

// Points enumerates the affine points of the curve, ordered by x then y.
func (c *Curve) Points() ([]Point, error) {
	if c.P.Cmp(big.NewInt(MaxEnumerable)) > 0 {
		return nil, fmt.Errorf("curves: p = %s too large to enumerate: %w", c.P, ntk.ErrInvalidParameters)
	}
	p := c.P.Int64()

	roots := make(map[int64][]int64, p)
	for y := int64(0); y < p; y++ {
		sq := y * y % p
		roots[sq] = append(roots[sq], y)
	}

	var points []Point
	for x := int64(0); x < p; x++ {
		rhs := c.RHS(big.NewInt(x)).Int64()
		for _, y := range roots[rhs] {
			points = append(points, NewPoint(x, y))
		}
	}
	return points, nil
}

// Count returns #E(F_p), including O.
func (c *Curve) Count() (int64, error) {
	points, err := c.Points()
	if err != nil {
		return 0, err
	}
	return int64(len(points)) + 1, nil
}

func (c *Curve) reduce(p Point) Point {
	if p.IsInfinity() {
		return p
	}
	return Point{x: modular.Reduce(p.x, c.P), y: modular.Reduce(p.y, c.P), finite: true}
}
