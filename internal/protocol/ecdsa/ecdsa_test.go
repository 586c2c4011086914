package ecdsa

import (
	"errors"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/minio/sha256-simd"
	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/pkg/ntk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(t *testing.T, name string) *curves.Domain {
	t.Helper()
	dom, err := curves.Lookup(name)
	require.NoError(t, err)
	return dom
}

func TestSignVerifyTextbook(t *testing.T) {
	cases := []struct {
		curve        string
		d, k, h      int64
		qx, qy       int64
		wantR, wantS int64
	}{
		{"textbook-49037", 8249, 17413, 12345, 5678, 41610, 8188, 26992},
		{"textbook-179", 37, 94, 121, 39, 157, 138, 132},
	}
	for _, c := range cases {
		t.Run(c.curve, func(t *testing.T) {
			dom := lookup(t, c.curve)
			d, k, h := big.NewInt(c.d), big.NewInt(c.k), big.NewInt(c.h)

			Q, err := PublicKey(dom, d)
			require.NoError(t, err)
			assert.True(t, curves.NewPoint(c.qx, c.qy).Equal(Q), "Q = %s", Q)

			tr := &ntk.Trace{}
			sig, err := Sign(dom, d, k, h, ntk.WithTrace(tr))
			require.NoError(t, err)
			assert.Equal(t, c.wantR, sig.R.Int64())
			assert.Equal(t, c.wantS, sig.S.Int64())
			_, ok := tr.Last("R")
			assert.True(t, ok)

			assert.True(t, Verify(dom, Q, h, sig))

			nonce, err := RecoverNonce(dom, h, sig, d)
			require.NoError(t, err)
			assert.Equal(t, c.k, nonce.Int64())

			key, err := RecoverKey(dom, h, sig, k)
			require.NoError(t, err)
			assert.Equal(t, c.d, key.Int64())
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	dom := lookup(t, "textbook-49037")
	d, k, h := big.NewInt(8249), big.NewInt(17413), big.NewInt(12345)
	Q, err := PublicKey(dom, d)
	require.NoError(t, err)
	sig, err := Sign(dom, d, k, h)
	require.NoError(t, err)

	assert.False(t, Verify(dom, Q, big.NewInt(12346), sig), "wrong hash")

	tampered := &Signature{R: sig.R, S: new(big.Int).Add(sig.S, big.NewInt(1))}
	assert.False(t, Verify(dom, Q, h, tampered), "tampered s")

	other, err := PublicKey(dom, big.NewInt(8250))
	require.NoError(t, err)
	assert.False(t, Verify(dom, other, h, sig), "wrong key")

	assert.False(t, Verify(dom, Q, h, &Signature{R: big.NewInt(0), S: sig.S}))
	assert.False(t, Verify(dom, Q, h, &Signature{R: sig.R, S: dom.N}))
	assert.False(t, Verify(dom, Q, h, nil))
	assert.False(t, Verify(dom, curves.Infinity(), h, sig))
}

func TestSignFailures(t *testing.T) {
	dom := lookup(t, "textbook-179")

	_, err := Sign(dom, big.NewInt(37), dom.N, big.NewInt(121))
	assert.True(t, errors.Is(err, ErrPointAtInfinity))

	_, err = PublicKey(dom, big.NewInt(0))
	assert.True(t, errors.Is(err, ntk.ErrInvalidParameters))
	_, err = PublicKey(dom, dom.N)
	assert.True(t, errors.Is(err, ntk.ErrInvalidParameters))

	// h = -r*d makes s vanish.
	d, k := big.NewInt(37), big.NewInt(94)
	h := new(big.Int).Mul(big.NewInt(138), d)
	h.Neg(h)
	h.Mod(h, dom.N)
	_, err = Sign(dom, d, k, h)
	assert.True(t, errors.Is(err, ErrZeroComponent))
}

func TestHashToInt(t *testing.T) {
	msg := []byte("textbook ecdsa")
	digest := sha256.Sum256(msg)
	full := new(big.Int).SetBytes(digest[:])

	n := curves.Secp256k1Curve().N
	assert.Equal(t, full.String(), HashToInt(msg, n).String())

	small := big.NewInt(49363) // 16 bits
	assert.Equal(t, new(big.Int).Rsh(full, 240).String(), HashToInt(msg, small).String())
}

// Signatures produced by the generic arithmetic on secp256k1 must verify
// with the decred implementation.
func TestSecp256k1CrossCheck(t *testing.T) {
	dom := curves.Secp256k1Curve()
	ref := curves.NewSecp256k1()
	halfN := new(big.Int).Rsh(dom.N, 1)

	for i := 0; i < 3; i++ {
		d, err := ref.NewScalar()
		require.NoError(t, err)
		k, err := ref.NewScalar()
		require.NoError(t, err)
		if d.Sign() == 0 || k.Sign() == 0 {
			continue
		}

		Q, err := PublicKey(dom, d)
		require.NoError(t, err)

		priv := secp256k1.PrivKeyFromBytes(d.Bytes())
		assert.Equal(t, priv.PubKey().X().String(), Q.X().String())
		assert.Equal(t, priv.PubKey().Y().String(), Q.Y().String())

		msg := []byte("cross-check message")
		hash := sha256.Sum256(msg)
		h := HashToInt(msg, dom.N)

		sig, err := Sign(dom, d, k, h)
		require.NoError(t, err)
		require.True(t, Verify(dom, Q, h, sig))

		// Normalize to low s as decred signatures are canonical.
		if sig.S.Cmp(halfN) > 0 {
			sig.S.Sub(dom.N, sig.S)
		}
		assert.True(t, Verify(dom, Q, h, sig))
		assert.True(t, VerifySecp256k1(Q, hash[:], sig))

		hash[0] ^= 0xff
		assert.False(t, VerifySecp256k1(Q, hash[:], sig))
	}
}
