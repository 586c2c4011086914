package exercise

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

type params map[string]string

func (p params) has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p params) int(name string) (*big.Int, error) {
	s, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("missing parameter %q: %w", name, ntk.ErrInvalidParameters)
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, fmt.Errorf("parameter %q: %q is not an integer: %w", name, s, ntk.ErrInvalidParameters)
	}
	return v, nil
}

// optional returns nil when the parameter is absent.
func (p params) optional(name string) (*big.Int, error) {
	if !p.has(name) {
		return nil, nil
	}
	return p.int(name)
}

func (p params) small(name string, def int64) (int64, error) {
	if !p.has(name) {
		return def, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(p[name]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %v: %w", name, err, ntk.ErrInvalidParameters)
	}
	return v, nil
}

func (p params) ints(name string) ([]*big.Int, error) {
	s, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("missing parameter %q: %w", name, ntk.ErrInvalidParameters)
	}
	var out []*big.Int
	for _, f := range strings.Split(s, ",") {
		v, ok := new(big.Int).SetString(strings.TrimSpace(f), 0)
		if !ok {
			return nil, fmt.Errorf("parameter %q: %q is not an integer: %w", name, f, ntk.ErrInvalidParameters)
		}
		out = append(out, v)
	}
	return out, nil
}

func (p params) point(name string) (curves.Point, error) {
	s, ok := p[name]
	if !ok {
		return curves.Point{}, fmt.Errorf("missing parameter %q: %w", name, ntk.ErrInvalidParameters)
	}
	pt, err := curves.ParsePoint(s)
	if err != nil {
		return curves.Point{}, fmt.Errorf("parameter %q: %v: %w", name, err, ntk.ErrInvalidParameters)
	}
	return pt, nil
}

func (p params) flag(name string) bool {
	switch strings.ToLower(strings.TrimSpace(p[name])) {
	case "true", "yes", "y", "j", "1":
		return true
	}
	return false
}

// curve returns the preset named by "curve" or the curve given by p, a, b.
func (p params) curve() (*curves.Curve, error) {
	if name, ok := p["curve"]; ok {
		dom, err := curves.Lookup(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		return dom.Curve, nil
	}
	fp, err := p.int("p")
	if err != nil {
		return nil, err
	}
	a, err := p.int("a")
	if err != nil {
		return nil, err
	}
	b, err := p.int("b")
	if err != nil {
		return nil, err
	}
	return curves.New(fp, a, b)
}

// domain returns the preset named by "curve", with G and n overridable,
// or a domain assembled from p, a, b, G and n.
func (p params) domain() (*curves.Domain, error) {
	dom := &curves.Domain{Name: "custom"}
	if name, ok := p["curve"]; ok {
		var err error
		if dom, err = curves.Lookup(strings.TrimSpace(name)); err != nil {
			return nil, err
		}
	} else {
		c, err := p.curve()
		if err != nil {
			return nil, err
		}
		dom.Curve = c
	}

	if p.has("G") || dom.N == nil {
		g, err := p.point("G")
		if err != nil {
			return nil, err
		}
		dom.G = g
	}
	if p.has("n") || dom.N == nil {
		n, err := p.int("n")
		if err != nil {
			return nil, err
		}
		dom.N = n
	}
	return dom, nil
}

// options turns the solver limits present in p into options.
func (p params) options() ([]ntk.Option, error) {
	var opts []ntk.Option
	if p.has("max_iterations") {
		n, err := p.small("max_iterations", 0)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ntk.WithMaxIterations(int(n)))
	}
	if p.has("max_relations") {
		n, err := p.small("max_relations", 0)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ntk.WithMaxRelations(int(n)))
	}
	return opts, nil
}
