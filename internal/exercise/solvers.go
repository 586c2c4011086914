package exercise

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/congruence"
	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/dlog"
	"github.com/smallyu/go-ntkit/internal/crypto/factor"
	"github.com/smallyu/go-ntkit/internal/crypto/group"
	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/internal/crypto/polynomial"
	"github.com/smallyu/go-ntkit/internal/crypto/sqrt"
	"github.com/smallyu/go-ntkit/internal/crypto/zk/schnorr"
	"github.com/smallyu/go-ntkit/internal/protocol/dh"
	"github.com/smallyu/go-ntkit/internal/protocol/ecdsa"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

var solvers = map[string]solver{
	"inverse":         solveInverse,
	"power":           solvePower,
	"order":           solveOrder,
	"congruence":      solveCongruence,
	"crt":             solveCRT,
	"sqrt":            solveSqrt,
	"fourth-root":     solveFourthRoot,
	"poly-roots":      solvePolyRoots,
	"bsgs":            solveBSGS,
	"bsgs-curve":      solveBSGSCurve,
	"rho":             solveRho,
	"rho-curve":       solveRhoCurve,
	"index-calculus":  solveIndexCalculus,
	"factor":          solveTrialDivision,
	"factor-rho":      solveFactorRho,
	"quadratic-sieve": solveQuadraticSieve,
	"generator":       solveGenerator,
	"ec-add":          solveECAdd,
	"ec-mul":          solveECMul,
	"ec-order":        solveECOrder,
	"ec-points":       solveECPoints,
	"ecdsa-sign":      solveECDSASign,
	"ecdsa-verify":    solveECDSAVerify,
	"ecdsa-nonce":     solveECDSANonce,
	"dh":              solveDH,
	"dh-curve":        solveDHCurve,
	"schnorr":         solveSchnorr,
}

func solveInverse(p params, r *Result, _ []ntk.Option) error {
	x, err := p.int("x")
	if err != nil {
		return err
	}
	m, err := p.int("m")
	if err != nil {
		return err
	}
	inv, err := modular.Inverse(x, m)
	if err != nil {
		return err
	}
	r.add("inverse", inv)
	return nil
}

func solvePower(p params, r *Result, _ []ntk.Option) error {
	b, err := p.int("base")
	if err != nil {
		return err
	}
	e, err := p.int("exp")
	if err != nil {
		return err
	}
	m, err := p.int("m")
	if err != nil {
		return err
	}
	v, err := modular.Power(b, e, m)
	if err != nil {
		return err
	}
	r.add("power", v)
	return nil
}

func solveOrder(p params, r *Result, _ []ntk.Option) error {
	a, err := p.int("a")
	if err != nil {
		return err
	}
	m, err := p.int("m")
	if err != nil {
		return err
	}
	k, err := modular.MultiplicativeOrder(a, m)
	if err != nil {
		return err
	}
	r.add("order", k)
	return nil
}

func solveCongruence(p params, r *Result, opts []ntk.Option) error {
	a, err := p.int("a")
	if err != nil {
		return err
	}
	b, err := p.int("b")
	if err != nil {
		return err
	}
	m, err := p.int("m")
	if err != nil {
		return err
	}
	xs, err := congruence.Solve(a, b, m, opts...)
	if err != nil {
		return err
	}
	r.add("solutions", xs)
	return nil
}

func solveCRT(p params, r *Result, opts []ntk.Option) error {
	residues, err := p.ints("residues")
	if err != nil {
		return err
	}
	moduli, err := p.ints("moduli")
	if err != nil {
		return err
	}
	x, m, err := congruence.CRT(residues, moduli, opts...)
	if err != nil {
		return err
	}
	r.add("x", x)
	r.add("modulus", m)
	return nil
}

func solveSqrt(p params, r *Result, opts []ntk.Option) error {
	n, err := p.int("n")
	if err != nil {
		return err
	}
	mod, err := p.int("p")
	if err != nil {
		return err
	}
	x1, x2, err := sqrt.TonelliShanks(n, mod, opts...)
	if err != nil {
		return err
	}
	r.add("roots", []*big.Int{x1, x2})
	return nil
}

func solveFourthRoot(p params, r *Result, opts []ntk.Option) error {
	a, err := p.int("a")
	if err != nil {
		return err
	}
	mod, err := p.int("p")
	if err != nil {
		return err
	}
	roots, err := sqrt.FourthRoots(a, mod, opts...)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return fmt.Errorf("x^4 = %s mod %s: %w", a, mod, ntk.ErrNoSolution)
	}
	r.add("roots", roots)
	return nil
}

// solvePolyRoots finds the roots of f(x) ≡ 0 (mod m) for coefficients
// given lowest degree first.
func solvePolyRoots(p params, r *Result, _ []ntk.Option) error {
	coeffs, err := p.ints("coeffs")
	if err != nil {
		return err
	}
	m, err := p.int("m")
	if err != nil {
		return err
	}
	if err := modular.CheckModulus(m); err != nil {
		return err
	}
	f := polynomial.New(m, coeffs...)
	if f.Degree() < 1 {
		return fmt.Errorf("constant polynomial mod %s: %w", m, ntk.ErrInvalidParameters)
	}
	r.add("degree", f.Degree())
	roots, err := f.Roots()
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return fmt.Errorf("no root of degree %d polynomial mod %s: %w", f.Degree(), m, ntk.ErrNoSolution)
	}
	r.add("roots", roots)
	return nil
}

// residueProblem reads g, h (or a) and p, plus an optional order that
// defaults to p-1.
func residueProblem(p params) (*group.Multiplicative, group.Element, group.Element, *big.Int, error) {
	g, err := p.int("g")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	name := "h"
	if !p.has(name) {
		name = "a"
	}
	h, err := p.int(name)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	mod, err := p.int("p")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	grp, err := group.NewMultiplicative(mod)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	order, err := p.optional("order")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if order == nil {
		order = grp.Order()
	}
	return grp, grp.Element(g), grp.Element(h), order, nil
}

// curveProblem reads a domain plus the target point Q (or A).
func curveProblem(p params) (*curves.Domain, curves.Point, error) {
	dom, err := p.domain()
	if err != nil {
		return nil, curves.Point{}, err
	}
	name := "Q"
	if !p.has(name) {
		name = "A"
	}
	q, err := p.point(name)
	if err != nil {
		return nil, curves.Point{}, err
	}
	return dom, q, nil
}

func solveBSGS(p params, r *Result, opts []ntk.Option) error {
	grp, g, h, order, err := residueProblem(p)
	if err != nil {
		return err
	}
	x, err := dlog.BabyStepGiantStep(grp, g, h, order, opts...)
	if err != nil {
		return err
	}
	r.add("x", x)
	return nil
}

func solveBSGSCurve(p params, r *Result, opts []ntk.Option) error {
	dom, q, err := curveProblem(p)
	if err != nil {
		return err
	}
	k, err := dlog.BabyStepGiantStepCurve(dom.Curve, dom.G, q, dom.N, opts...)
	if err != nil {
		return err
	}
	r.add("k", k)
	return nil
}

func solveRho(p params, r *Result, opts []ntk.Option) error {
	grp, g, h, order, err := residueProblem(p)
	if err != nil {
		return err
	}
	x, err := dlog.PollardRho(grp, g, h, order, opts...)
	if err != nil {
		return err
	}
	r.add("x", x)
	return nil
}

func solveRhoCurve(p params, r *Result, opts []ntk.Option) error {
	dom, q, err := curveProblem(p)
	if err != nil {
		return err
	}
	k, err := dlog.PollardRho(group.NewCurve(dom.Curve), dom.G, q, dom.N, opts...)
	if err != nil {
		return err
	}
	r.add("k", k)
	return nil
}

func solveIndexCalculus(p params, r *Result, opts []ntk.Option) error {
	g, err := p.int("g")
	if err != nil {
		return err
	}
	a, err := p.int("a")
	if err != nil {
		return err
	}
	mod, err := p.int("p")
	if err != nil {
		return err
	}
	bound, err := p.small("bound", 0)
	if err != nil {
		return err
	}
	x, err := dlog.IndexCalculus(g, a, mod, bound, opts...)
	if err != nil {
		return err
	}
	r.add("x", x)
	return nil
}

func solveTrialDivision(p params, r *Result, _ []ntk.Option) error {
	n, err := p.int("n")
	if err != nil {
		return err
	}
	fs, err := factor.TrialDivision(n)
	if err != nil {
		return err
	}
	r.add("factors", fs)
	return nil
}

func solveFactorRho(p params, r *Result, opts []ntk.Option) error {
	n, err := p.int("n")
	if err != nil {
		return err
	}
	x0, err := p.optional("x0")
	if err != nil {
		return err
	}
	if x0 == nil {
		x0 = big.NewInt(2)
	}
	a, err := p.optional("c")
	if err != nil {
		return err
	}
	if a == nil {
		a = big.NewInt(1)
	}
	maxIter, err := p.small("max_iterations", ntk.DefaultMaxIterations)
	if err != nil {
		return err
	}
	d, err := factor.PollardRho(n, x0, a, int(maxIter), opts...)
	if err != nil {
		return err
	}
	r.add("factor", d)
	r.add("cofactor", new(big.Int).Quo(n, d))
	return nil
}

func solveQuadraticSieve(p params, r *Result, opts []ntk.Option) error {
	n, err := p.int("n")
	if err != nil {
		return err
	}
	bound, err := p.small("bound", 0)
	if err != nil {
		return err
	}
	maxRel, err := p.small("max_relations", 0)
	if err != nil {
		return err
	}
	d, err := factor.QuadraticSieve(n, bound, int(maxRel), opts...)
	if err != nil {
		return err
	}
	r.add("factor", d)
	r.add("cofactor", new(big.Int).Quo(n, d))
	return nil
}

// solveGenerator checks g when given, otherwise lists all generators.
func solveGenerator(p params, r *Result, _ []ntk.Option) error {
	mod, err := p.int("p")
	if err != nil {
		return err
	}
	grp, err := group.NewMultiplicative(mod)
	if err != nil {
		return err
	}
	if p.has("g") {
		g, err := p.int("g")
		if err != nil {
			return err
		}
		ok, err := grp.IsGenerator(g)
		if err != nil {
			return err
		}
		r.add("generator", ok)
		return nil
	}
	gens, err := grp.Generators()
	if err != nil {
		return err
	}
	r.add("count", len(gens))
	r.add("generators", gens)
	return nil
}

func solveECAdd(p params, r *Result, _ []ntk.Option) error {
	c, err := p.curve()
	if err != nil {
		return err
	}
	P, err := p.point("P")
	if err != nil {
		return err
	}
	Q, err := p.point("Q")
	if err != nil {
		return err
	}
	sum, err := c.Add(P, Q)
	if err != nil {
		return err
	}
	r.add("P+Q", sum)
	return nil
}

func solveECMul(p params, r *Result, opts []ntk.Option) error {
	c, err := p.curve()
	if err != nil {
		return err
	}
	k, err := p.int("k")
	if err != nil {
		return err
	}
	P, err := p.point("P")
	if err != nil {
		return err
	}
	kP, err := c.ScalarMult(k, P, opts...)
	if err != nil {
		return err
	}
	r.add("kP", kP)
	return nil
}

func solveECOrder(p params, r *Result, _ []ntk.Option) error {
	c, err := p.curve()
	if err != nil {
		return err
	}
	P, err := p.point("P")
	if err != nil {
		return err
	}
	n, err := c.Order(P)
	if err != nil {
		return err
	}
	r.add("order", n)
	return nil
}

func solveECPoints(p params, r *Result, _ []ntk.Option) error {
	c, err := p.curve()
	if err != nil {
		return err
	}
	points, err := c.Points()
	if err != nil {
		return err
	}
	r.add("count", len(points)+1)
	r.add("points", points)
	return nil
}

func signature(p params) (*ecdsa.Signature, error) {
	rv, err := p.int("r")
	if err != nil {
		return nil, err
	}
	s, err := p.int("s")
	if err != nil {
		return nil, err
	}
	return &ecdsa.Signature{R: rv, S: s}, nil
}

func solveECDSASign(p params, r *Result, opts []ntk.Option) error {
	dom, err := p.domain()
	if err != nil {
		return err
	}
	d, err := p.int("d")
	if err != nil {
		return err
	}
	k, err := p.int("k")
	if err != nil {
		return err
	}
	h, err := p.int("h")
	if err != nil {
		return err
	}
	Q, err := ecdsa.PublicKey(dom, d)
	if err != nil {
		return err
	}
	sig, err := ecdsa.Sign(dom, d, k, h, opts...)
	if err != nil {
		return err
	}
	r.add("Q", Q)
	r.add("r", sig.R)
	r.add("s", sig.S)
	return nil
}

func solveECDSAVerify(p params, r *Result, opts []ntk.Option) error {
	dom, err := p.domain()
	if err != nil {
		return err
	}
	Q, err := p.point("Q")
	if err != nil {
		return err
	}
	h, err := p.int("h")
	if err != nil {
		return err
	}
	sig, err := signature(p)
	if err != nil {
		return err
	}
	r.add("valid", ecdsa.Verify(dom, Q, h, sig, opts...))
	return nil
}

// solveECDSANonce recovers k from d, or d from k.
func solveECDSANonce(p params, r *Result, _ []ntk.Option) error {
	dom, err := p.domain()
	if err != nil {
		return err
	}
	h, err := p.int("h")
	if err != nil {
		return err
	}
	sig, err := signature(p)
	if err != nil {
		return err
	}
	if p.has("d") {
		d, err := p.int("d")
		if err != nil {
			return err
		}
		k, err := ecdsa.RecoverNonce(dom, h, sig, d)
		if err != nil {
			return err
		}
		r.add("k", k)
		return nil
	}
	k, err := p.int("k")
	if err != nil {
		return err
	}
	d, err := ecdsa.RecoverKey(dom, h, sig, k)
	if err != nil {
		return err
	}
	r.add("d", d)
	return nil
}

func solveDH(p params, r *Result, opts []ntk.Option) error {
	ex := &dh.Exchange{KEqualsG: p.flag("k_equals_g")}
	for _, f := range []struct {
		name string
		dst  **big.Int
	}{
		{"p", &ex.P}, {"g", &ex.G},
		{"a", &ex.PrivA}, {"A", &ex.PubA},
		{"b", &ex.PrivB}, {"B", &ex.PubB},
		{"K", &ex.K},
	} {
		v, err := p.optional(f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	// A partial exchange still reports what was derived.
	done, err := ex.Complete(opts...)
	if done != nil {
		for _, v := range []struct {
			label string
			x     *big.Int
		}{{"a", done.PrivA}, {"A", done.PubA}, {"b", done.PrivB}, {"B", done.PubB}, {"K", done.K}} {
			if v.x != nil {
				r.add(v.label, v.x)
			}
		}
	}
	return err
}

// solveDHCurve computes the shared point from kA and kB, or recovers the
// missing kB from A and K.
func solveDHCurve(p params, r *Result, opts []ntk.Option) error {
	c, err := p.curve()
	if err != nil {
		return err
	}
	if !p.has("kB") {
		A, err := p.point("A")
		if err != nil {
			return err
		}
		K, err := p.point("K")
		if err != nil {
			return err
		}
		kB, err := dh.RecoverCurveKey(c, A, K, nil, opts...)
		if err != nil {
			return err
		}
		r.add("kB", kB)
		return nil
	}

	P, err := p.point("P")
	if err != nil {
		return err
	}
	kA, err := p.int("kA")
	if err != nil {
		return err
	}
	kB, err := p.int("kB")
	if err != nil {
		return err
	}
	A, err := dh.PublicCurve(c, P, kA)
	if err != nil {
		return err
	}
	B, err := dh.PublicCurve(c, P, kB)
	if err != nil {
		return err
	}
	K, err := dh.SharedSecretCurve(c, P, kA, kB, opts...)
	if err != nil {
		return err
	}
	r.add("A", A)
	r.add("B", B)
	r.add("K", K)
	return nil
}

// solveSchnorr proves knowledge of x for X = x*G with nonce k and checks
// the proof.
func solveSchnorr(p params, r *Result, _ []ntk.Option) error {
	dom, err := p.domain()
	if err != nil {
		return err
	}
	x, err := p.int("x")
	if err != nil {
		return err
	}
	grp := group.NewCurve(dom.Curve)

	var proof *schnorr.Proof
	if p.has("k") {
		k, err := p.int("k")
		if err != nil {
			return err
		}
		proof, err = schnorr.ProveWithNonce(grp, dom.G, x, k, dom.N)
		if err != nil {
			return err
		}
	} else if proof, err = schnorr.Prove(grp, dom.G, x, dom.N); err != nil {
		return err
	}

	X, err := grp.Power(dom.G, x)
	if err != nil {
		return err
	}
	r.add("X", X)
	r.add("R", proof.R)
	r.add("s", proof.S)
	r.add("valid", proof.Verify(grp, dom.G, X, dom.N))
	return nil
}
