package dh

import (
	"errors"
	"math/big"
	"testing"

	"github.com/smallyu/go-ntkit/internal/crypto/curves"
	"github.com/smallyu/go-ntkit/pkg/ntk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedSecretModP(t *testing.T) {
	p, g := big.NewInt(23), big.NewInt(5)
	A, err := PublicKey(g, big.NewInt(6), p)
	require.NoError(t, err)
	B, err := PublicKey(g, big.NewInt(15), p)
	require.NoError(t, err)
	assert.Equal(t, int64(8), A.Int64())
	assert.Equal(t, int64(19), B.Int64())

	k1, err := SharedSecret(B, big.NewInt(6), p)
	require.NoError(t, err)
	k2, err := SharedSecret(A, big.NewInt(15), p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), k1.Int64())
	assert.Equal(t, k1.String(), k2.String())
}

func TestSharedSecretCurve(t *testing.T) {
	c, err := curves.NewSmall(23, 3, 2)
	require.NoError(t, err)
	P := curves.NewPoint(0, 5)
	kA, kB := big.NewInt(3), big.NewInt(9)

	A, err := PublicCurve(c, P, kA)
	require.NoError(t, err)
	assert.True(t, curves.NewPoint(2, 19).Equal(A), "A = %s", A)

	B, err := PublicCurve(c, P, kB)
	require.NoError(t, err)
	assert.True(t, curves.NewPoint(5, 21).Equal(B), "B = %s", B)

	tr := &ntk.Trace{}
	K, err := SharedSecretCurve(c, P, kA, kB, ntk.WithTrace(tr))
	require.NoError(t, err)
	assert.True(t, curves.NewPoint(0, 18).Equal(K), "K = %s", K)
	assert.Equal(t, 3, tr.Len())

	// Both sides agree.
	other, err := c.ScalarMult(kA, B)
	require.NoError(t, err)
	assert.True(t, K.Equal(other))
}

func TestRecoverCurveKey(t *testing.T) {
	c, err := curves.NewSmall(23, 3, 2)
	require.NoError(t, err)

	kB, err := RecoverCurveKey(c, curves.NewPoint(2, 19), curves.NewPoint(0, 18), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9), kB.Int64())

	_, err = RecoverCurveKey(c, curves.NewPoint(2, 19), curves.NewPoint(0, 18), big.NewInt(5))
	assert.True(t, errors.Is(err, ntk.ErrNoSolution))
}

func bi(v int64) *big.Int { return big.NewInt(v) }

func TestExchangeComplete(t *testing.T) {
	cases := []struct {
		name string
		in   Exchange
		want Exchange
	}{
		{
			name: "from private keys",
			in:   Exchange{P: bi(23), G: bi(5), PrivA: bi(6), PrivB: bi(15)},
			want: Exchange{PrivA: bi(6), PubA: bi(8), PrivB: bi(15), PubB: bi(19), K: bi(2)},
		},
		{
			name: "from public keys",
			in:   Exchange{P: bi(23), G: bi(5), PubA: bi(8), PubB: bi(19)},
			want: Exchange{PrivA: bi(6), PubA: bi(8), PrivB: bi(15), PubB: bi(19), K: bi(2)},
		},
		{
			name: "b from K",
			in:   Exchange{P: bi(23), G: bi(5), PubA: bi(8), K: bi(2)},
			want: Exchange{PrivA: bi(6), PubA: bi(8), PrivB: bi(4), PubB: bi(4), K: bi(2)},
		},
		{
			name: "K equals g",
			in:   Exchange{P: bi(467), G: bi(464), PrivA: bi(99), KEqualsG: true},
			want: Exchange{PrivA: bi(99), PrivB: bi(193), K: bi(464)},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.in.Complete()
			require.NoError(t, err, "%s", got)
			assert.Empty(t, got.Missing())
			assert.Equal(t, c.want.PrivA.String(), got.PrivA.String())
			assert.Equal(t, c.want.PrivB.String(), got.PrivB.String())
			assert.Equal(t, c.want.K.String(), got.K.String())
			if c.want.PubA != nil {
				assert.Equal(t, c.want.PubA.String(), got.PubA.String())
				assert.Equal(t, c.want.PubB.String(), got.PubB.String())
			}
		})
	}
}

func TestExchangeCompleteLeavesInputAlone(t *testing.T) {
	in := Exchange{P: bi(23), G: bi(5), PrivA: bi(6)}
	got, err := in.Complete()
	assert.True(t, errors.Is(err, ntk.ErrNoSolution))
	require.NotNil(t, got)
	assert.Equal(t, int64(8), got.PubA.Int64())
	assert.Equal(t, []string{"b", "B", "K"}, got.Missing())
	assert.Nil(t, in.PubA)
}

func TestExchangeCompleteInvalid(t *testing.T) {
	_, err := (&Exchange{G: bi(5)}).Complete()
	assert.True(t, errors.Is(err, ntk.ErrInvalidParameters))
}

func TestExchangeString(t *testing.T) {
	e := Exchange{P: bi(23), G: bi(5), PubA: bi(8)}
	assert.Equal(t, "p=23 g=5 a=? A=8 b=? B=? K=?", e.String())
}
