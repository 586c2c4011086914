package curves

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// Domain is a curve together with a base point G of order N.
type Domain struct {
	Name  string
	Curve *Curve
	G     Point
	N     *big.Int
}

type preset struct {
	p, a, b, gx, gy, n int64
}

var textbook = map[string]preset{
	"textbook-11":    {p: 11, a: 3, b: 9, gx: 2, gy: 1, n: 11},
	"textbook-23":    {p: 23, a: 3, b: 2, gx: 0, gy: 5, n: 28},
	"textbook-43":    {p: 43, a: 22, b: 17, gx: 37, gy: 20, n: 53},
	"textbook-179":   {p: 179, a: 8, b: 102, gx: 73, gy: 60, n: 167},
	"textbook-49037": {p: 49037, a: 11784, b: 29274, gx: 11181, gy: 14848, n: 49363},
}

// Lookup returns a fresh copy of the named domain.
func Lookup(name string) (*Domain, error) {
	if name == "secp256k1" {
		return Secp256k1Curve(), nil
	}
	ps, ok := textbook[name]
	if !ok {
		return nil, fmt.Errorf("curves: unknown curve %q: %w", name, ntk.ErrInvalidParameters)
	}
	return &Domain{
		Name: name,
		Curve: &Curve{
			P: big.NewInt(ps.p),
			A: big.NewInt(ps.a),
			B: big.NewInt(ps.b),
		},
		G: NewPoint(ps.gx, ps.gy),
		N: big.NewInt(ps.n),
	}, nil
}

// Names lists the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(textbook)+1)
	for name := range textbook {
		names = append(names, name)
	}
	names = append(names, "secp256k1")
	sort.Strings(names)
	return names
}
