package schnorr

import (
	crand "crypto/rand"
	"errors"
	"math/big"

	"github.com/minio/sha256-simd"
	"github.com/smallyu/go-ntkit/internal/crypto/group"
)

// Proof represents a Schnorr proof of knowledge of a discrete logarithm.
// Proves knowledge of x such that X = base^x in a group of the given order.
type Proof struct {
	R group.Element // Commitment R = base^k
	S *big.Int      // Response s = k + e * x mod order
}

// Prove generates a Schnorr proof for the secret x with X = base^x.
func Prove(g group.Group, base group.Element, x, order *big.Int) (*Proof, error) {
	if order == nil || order.Sign() <= 0 {
		return nil, errors.New("schnorr: order must be positive")
	}

	// 1. Generate random nonce k
	k, err := randInt(order)
	if err != nil {
		return nil, err
	}
	return ProveWithNonce(g, base, x, k, order)
}

// ProveWithNonce is Prove with a caller-chosen nonce k.
func ProveWithNonce(g group.Group, base group.Element, x, k, order *big.Int) (*Proof, error) {
	if x == nil || k == nil || base == nil {
		return nil, errors.New("schnorr: inputs cannot be nil")
	}
	if order == nil || order.Sign() <= 0 {
		return nil, errors.New("schnorr: order must be positive")
	}

	X, err := g.Power(base, x)
	if err != nil {
		return nil, err
	}

	// 2. Compute R = base^k
	R, err := g.Power(base, k)
	if err != nil {
		return nil, err
	}

	// 3. Compute challenge e = H(base, X, R)
	e := challenge(base, X, R, order)

	// 4. Compute s = k + e * x mod order
	s := new(big.Int).Mul(e, x)
	s.Add(s, k)
	s.Mod(s, order)

	return &Proof{
		R: R,
		S: s,
	}, nil
}

// Verify checks the validity of the Schnorr proof for public value X.
func (p *Proof) Verify(g group.Group, base, X group.Element, order *big.Int) bool {
	if p == nil || p.R == nil || p.S == nil || X == nil || base == nil || order == nil {
		return false
	}

	// Check if s is in [0, order-1]
	if p.S.Sign() < 0 || p.S.Cmp(order) >= 0 {
		return false
	}

	// 1. Compute challenge e = H(base, X, R)
	e := challenge(base, X, p.R, order)

	// 2. Check base^s = R * X^e
	lhs, err := g.Power(base, p.S)
	if err != nil {
		return false
	}
	eX, err := g.Power(X, e)
	if err != nil {
		return false
	}
	rhs, err := g.Combine(p.R, eX)
	if err != nil {
		return false
	}
	return g.Equal(lhs, rhs)
}

// challenge computes H(base, X, R) mod order over the element keys.
func challenge(base, X, R group.Element, order *big.Int) *big.Int {
	h := sha256.New()
	for _, e := range []group.Element{base, X, R} {
		h.Write([]byte(e.Key()))
		h.Write([]byte{0})
	}
	e := new(big.Int).SetBytes(h.Sum(nil))
	e.Mod(e, order)
	return e
}

// randInt generates a random integer in [0, max)
func randInt(max *big.Int) (*big.Int, error) {
	return crand.Int(crand.Reader, max)
}
