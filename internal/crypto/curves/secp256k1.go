package curves

import (
	"crypto/elliptic"
	"crypto/rand"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Reference is an independent curve implementation used to cross-check the
// generic arithmetic on a real curve.
type Reference interface {
	// Params returns the curve parameters (Order, etc.)
	Params() *elliptic.CurveParams

	// NewScalar generates a random scalar in Z_n
	NewScalar() (*big.Int, error)

	// ScalarBaseMult computes k * G (base point multiplication)
	ScalarBaseMult(k *big.Int) Point

	// ScalarMult computes k * P
	ScalarMult(p Point, k *big.Int) Point

	// Add combines two points
	Add(p, q Point) Point
}

// Secp256k1 wraps the decred implementation of secp256k1.
type Secp256k1 struct{}

func (c *Secp256k1) Params() *elliptic.CurveParams {
	return secp256k1.S256().Params()
}

func (c *Secp256k1) NewScalar() (*big.Int, error) {
	params := c.Params()
	// Generate random integer in [0, N-1]
	k, err := rand.Int(rand.Reader, params.N)
	if err != nil {
		return nil, err
	}
	return k, nil
}

func (c *Secp256k1) ScalarBaseMult(k *big.Int) Point {
	return fromAffine(secp256k1.S256().ScalarBaseMult(k.Bytes()))
}

func (c *Secp256k1) ScalarMult(p Point, k *big.Int) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	return fromAffine(secp256k1.S256().ScalarMult(p.x, p.y, k.Bytes()))
}

func (c *Secp256k1) Add(p, q Point) Point {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	return fromAffine(secp256k1.S256().Add(p.x, p.y, q.x, q.y))
}

// NewSecp256k1 returns a new instance of the secp256k1 reference wrapper
func NewSecp256k1() Reference {
	return &Secp256k1{}
}

// Secp256k1Curve returns secp256k1 as a generic curve with its base point
// and group order.
func Secp256k1Curve() *Domain {
	params := secp256k1.S256().Params()
	return &Domain{
		Name: "secp256k1",
		Curve: &Curve{
			P: new(big.Int).Set(params.P),
			A: new(big.Int),
			B: new(big.Int).Set(params.B),
		},
		G: Affine(params.Gx, params.Gy),
		N: new(big.Int).Set(params.N),
	}
}

// The decred affine API encodes the identity as (0, 0).
func fromAffine(x, y *big.Int) Point {
	if x.Sign() == 0 && y.Sign() == 0 {
		return Infinity()
	}
	return Affine(x, y)
}
