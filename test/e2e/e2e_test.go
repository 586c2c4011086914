package e2e

import (
	"context"
	"math/big"
	"testing"

	"github.com/smallyu/go-ntkit/internal/batch"
	"github.com/smallyu/go-ntkit/internal/crypto/congruence"
	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/dlog"
	"github.com/smallyu/go-ntkit/internal/crypto/factor"
	"github.com/smallyu/go-ntkit/internal/crypto/group"
	"github.com/smallyu/go-ntkit/internal/crypto/sqrt"
	"github.com/smallyu/go-ntkit/internal/exercise"
	"github.com/smallyu/go-ntkit/internal/protocol/dh"
	"github.com/smallyu/go-ntkit/internal/protocol/ecdsa"
)

func TestTextbookScenarios(t *testing.T) {
	// 1. BSGS on E(F_43)
	c, err := curves.NewSmall(43, 22, 17)
	if err != nil {
		t.Fatalf("curve: %v", err)
	}
	P, A := curves.NewPoint(37, 20), curves.NewPoint(12, 26)
	x, err := dlog.BabyStepGiantStepCurve(c, P, A, big.NewInt(53))
	if err != nil {
		t.Fatalf("BSGS on curve failed: %v", err)
	}
	if xP, _ := c.ScalarMult(x, P); !xP.Equal(A) {
		t.Errorf("%s * %s = %s, want %s", x, P, xP, A)
	}

	// Pollard rho agrees with BSGS on the same instance.
	y, err := dlog.PollardRho(group.NewCurve(c), P, A, big.NewInt(53))
	if err != nil {
		t.Fatalf("rho on curve failed: %v", err)
	}
	if y.Cmp(x) != 0 {
		t.Errorf("rho gave %s, BSGS gave %s", y, x)
	}

	// 2. BSGS mod 113
	x, err = dlog.BabyStepGiantStepModP(big.NewInt(3), big.NewInt(57), big.NewInt(113))
	if err != nil {
		t.Fatalf("BSGS mod p failed: %v", err)
	}
	if new(big.Int).Exp(big.NewInt(3), x, big.NewInt(113)).Int64() != 57 {
		t.Errorf("3^%s mod 113 != 57", x)
	}

	// 3. Tonelli-Shanks
	r1, r2, err := sqrt.TonelliShanks(big.NewInt(57), big.NewInt(61))
	if err != nil {
		t.Fatalf("Tonelli-Shanks failed: %v", err)
	}
	if got := r1.Int64() + r2.Int64(); got != 61 || (r1.Int64() != 22 && r1.Int64() != 39) {
		t.Errorf("roots = %s, %s, want 22 and 39", r1, r2)
	}

	// 4. Linear congruence
	sols, err := congruence.Solve(big.NewInt(78), big.NewInt(246), big.NewInt(264))
	if err != nil {
		t.Fatalf("congruence failed: %v", err)
	}
	if len(sols) != 6 {
		t.Errorf("got %d solutions, want gcd(78, 264) = 6", len(sols))
	}

	// 5. CRT pair
	a, m, err := congruence.Combine(big.NewInt(7), big.NewInt(18), big.NewInt(12), big.NewInt(17))
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	if a.Int64() != 97 || m.Int64() != 306 {
		t.Errorf("combine = (%s, %s), want (97, 306)", a, m)
	}

	// 6. Pollard rho factorization
	f, err := factor.PollardRho(big.NewInt(1501), big.NewInt(1), big.NewInt(13), 1000)
	if err != nil {
		t.Fatalf("rho factor failed: %v", err)
	}
	if new(big.Int).Mod(big.NewInt(1501), f).Sign() != 0 || f.Int64() == 1 || f.Int64() == 1501 {
		t.Errorf("%s is not a proper factor of 1501", f)
	}
}

func TestKeyRecoveryAcrossPackages(t *testing.T) {
	// A DH public point leaks the key through a curve discrete log, and an
	// ECDSA signature with a known nonce leaks the private key.
	dom, err := curves.Lookup("textbook-179")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	d := big.NewInt(37)
	Q, err := ecdsa.PublicKey(dom, d)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}

	got, err := dh.RecoverCurveKey(dom.Curve, dom.G, Q, dom.N)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if got.Cmp(d) != 0 {
		t.Errorf("brute force gave %s, want %s", got, d)
	}

	h, k := big.NewInt(121), big.NewInt(94)
	sig, err := ecdsa.Sign(dom, d, k, h)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	key, err := ecdsa.RecoverKey(dom, h, sig, k)
	if err != nil {
		t.Fatalf("recover key: %v", err)
	}
	if key.Cmp(d) != 0 {
		t.Errorf("recovered key %s, want %s", key, d)
	}
}

func TestBatchFromYAML(t *testing.T) {
	exs, err := exercise.LoadFile("../../internal/exercise/testdata/textbook.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	results, err := batch.Solve(context.Background(), exs, 3)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if s := batch.Summarize(results); s.Solved != len(exs) {
		for _, r := range results {
			if r != nil && r.Err != nil {
				t.Errorf("%s: %v", r.Exercise.Name, r.Err)
			}
		}
		t.Fatalf("summary %+v", s)
	}
}
