package ecdsa

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/minio/sha256-simd"
	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

var (
	ErrPointAtInfinity = errors.New("ecdsa: R is the point at infinity")
	ErrZeroComponent   = errors.New("ecdsa: signature component is zero")
)

// HashToInt hashes msg with SHA-256 and keeps the leftmost bits up to the
// bit length of n.
func HashToInt(msg []byte, n *big.Int) *big.Int {
	digest := sha256.Sum256(msg)
	e := new(big.Int).SetBytes(digest[:])
	if excess := len(digest)*8 - n.BitLen(); excess > 0 {
		e.Rsh(e, uint(excess))
	}
	return e
}

// PublicKey returns Q = d*G.
func PublicKey(dom *curves.Domain, d *big.Int) (curves.Point, error) {
	if d.Sign() <= 0 || d.Cmp(dom.N) >= 0 {
		return curves.Point{}, fmt.Errorf("ecdsa: private key outside [1, n-1]: %w", ntk.ErrInvalidParameters)
	}
	return dom.Curve.ScalarMult(d, dom.G)
}

// Sign signs the hash h with private key d and nonce k:
// R = k*G, r = R.x mod n, s = k^-1 (h + r*d) mod n.
func Sign(dom *curves.Domain, d, k, h *big.Int, opts ...ntk.Option) (*Signature, error) {
	cfg := ntk.NewConfig(opts...)
	n := dom.N

	// 1. R = k * G
	R, err := dom.Curve.ScalarMult(k, dom.G)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: computing R: %w", err)
	}
	if R.IsInfinity() {
		return nil, ErrPointAtInfinity
	}
	cfg.Trace.Record("R", R)

	// 2. r = R.x mod n
	r := modular.Reduce(R.X(), n)
	if r.Sign() == 0 {
		return nil, fmt.Errorf("%w: r", ErrZeroComponent)
	}

	// 3. s = k^-1 (h + r*d) mod n
	kInv, err := modular.Inverse(k, n)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: inverting nonce: %w", err)
	}
	cfg.Trace.Record("k^-1", kInv)

	s := new(big.Int).Mul(r, d)
	s.Add(s, h)
	s.Mul(s, kInv)
	s.Mod(s, n)
	if s.Sign() == 0 {
		return nil, fmt.Errorf("%w: s", ErrZeroComponent)
	}

	return &Signature{R: r, S: s}, nil
}

// Verify checks sig over h against public key Q.
func Verify(dom *curves.Domain, Q curves.Point, h *big.Int, sig *Signature, opts ...ntk.Option) bool {
	if sig == nil || sig.R == nil || sig.S == nil {
		return false
	}
	cfg := ntk.NewConfig(opts...)
	n := dom.N

	// Check r, s in [1, n-1]
	if sig.R.Sign() <= 0 || sig.R.Cmp(n) >= 0 || sig.S.Sign() <= 0 || sig.S.Cmp(n) >= 0 {
		return false
	}
	if Q.IsInfinity() || !dom.Curve.IsOnCurve(Q) {
		return false
	}

	// 1. w = s^-1, u1 = h*w, u2 = r*w
	w, err := modular.Inverse(sig.S, n)
	if err != nil {
		return false
	}
	u1 := modular.Mul(h, w, n)
	u2 := modular.Mul(sig.R, w, n)
	cfg.Trace.Record("w", w)
	cfg.Trace.Record("u1", u1)
	cfg.Trace.Record("u2", u2)

	// 2. X = u1*G + u2*Q
	p1, err := dom.Curve.ScalarMult(u1, dom.G)
	if err != nil {
		return false
	}
	p2, err := dom.Curve.ScalarMult(u2, Q)
	if err != nil {
		return false
	}
	X, err := dom.Curve.Add(p1, p2)
	if err != nil || X.IsInfinity() {
		return false
	}
	cfg.Trace.Record("X", X)

	return modular.Reduce(X.X(), n).Cmp(sig.R) == 0
}

// RecoverNonce returns k = s^-1 (h + r*d) mod n for a known private key.
func RecoverNonce(dom *curves.Domain, h *big.Int, sig *Signature, d *big.Int) (*big.Int, error) {
	sInv, err := modular.Inverse(sig.S, dom.N)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: inverting s: %w", err)
	}
	k := new(big.Int).Mul(sig.R, d)
	k.Add(k, h)
	return modular.Mul(k, sInv, dom.N), nil
}

// RecoverKey returns d = r^-1 (s*k - h) mod n for a known nonce.
func RecoverKey(dom *curves.Domain, h *big.Int, sig *Signature, k *big.Int) (*big.Int, error) {
	rInv, err := modular.Inverse(sig.R, dom.N)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: inverting r: %w", err)
	}
	d := new(big.Int).Mul(sig.S, k)
	d.Sub(d, h)
	return modular.Mul(d, rInv, dom.N), nil
}

// VerifySecp256k1 checks a secp256k1 signature with the decred
// implementation. hash is the 32-byte message digest.
func VerifySecp256k1(Q curves.Point, hash []byte, sig *Signature) bool {
	if Q.IsInfinity() || sig == nil {
		return false
	}

	var fx, fy secp256k1.FieldVal
	fx.SetByteSlice(Q.X().Bytes())
	fy.SetByteSlice(Q.Y().Bytes())
	pk := secp256k1.NewPublicKey(&fx, &fy)

	// Parse Signature
	var rMod, sMod secp256k1.ModNScalar
	if rMod.SetByteSlice(sig.R.Bytes()) || sMod.SetByteSlice(sig.S.Bytes()) {
		return false
	}
	return decredecdsa.NewSignature(&rMod, &sMod).Verify(hash, pk)
}
