package curves

import (
	"fmt"
	"math/big"
	"strings"
)

// Point is either the point at infinity O or an affine pair (x, y).
// The zero value is O. Points are immutable and carry no curve.
type Point struct {
	x, y   *big.Int
	finite bool
}

// Infinity returns the identity element O.
func Infinity() Point {
	return Point{}
}

// Affine returns the finite point (x, y). The coordinates are copied.
func Affine(x, y *big.Int) Point {
	return Point{
		x:      new(big.Int).Set(x),
		y:      new(big.Int).Set(y),
		finite: true,
	}
}

// NewPoint is Affine for small literals.
func NewPoint(x, y int64) Point {
	return Point{x: big.NewInt(x), y: big.NewInt(y), finite: true}
}

// IsInfinity reports whether p is O.
func (p Point) IsInfinity() bool {
	return !p.finite
}

// X returns a copy of the x coordinate, or nil for O.
func (p Point) X() *big.Int {
	if !p.finite {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for O.
func (p Point) Y() *big.Int {
	if !p.finite {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal compares coordinates exactly; callers reduce first.
func (p Point) Equal(q Point) bool {
	if p.finite != q.finite {
		return false
	}
	if !p.finite {
		return true
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Key returns a canonical string used for hash lookups.
func (p Point) Key() string {
	if !p.finite {
		return "O"
	}
	return p.x.String() + "," + p.y.String()
}

func (p Point) String() string {
	if !p.finite {
		return "O"
	}
	return fmt.Sprintf("(%s, %s)", p.x, p.y)
}

// ParsePoint parses "O", "inf" or "(x, y)" with decimal or 0x coordinates.
func ParsePoint(s string) (Point, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "o", "inf", "infinity":
		return Infinity(), nil
	}

	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("curves: malformed point %q", s)
	}

	x, ok := new(big.Int).SetString(strings.TrimSpace(parts[0]), 0)
	if !ok {
		return Point{}, fmt.Errorf("curves: malformed x coordinate %q", parts[0])
	}
	y, ok := new(big.Int).SetString(strings.TrimSpace(parts[1]), 0)
	if !ok {
		return Point{}, fmt.Errorf("curves: malformed y coordinate %q", parts[1])
	}
	return Point{x: x, y: y, finite: true}, nil
}
