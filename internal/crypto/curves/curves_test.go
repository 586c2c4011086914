package curves

import (
	"errors"
	"math/big"
	"testing"

	"github.com/smallyu/go-ntkit/pkg/ntk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCurve(t testing.TB, p, a, b int64) *Curve {
	t.Helper()
	c, err := NewSmall(p, a, b)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c := mustCurve(t, 43, 22, 17)
	assert.Equal(t, int64(16), c.Discriminant().Int64())

	c = mustCurve(t, 11, -7, 12)
	assert.Equal(t, int64(4), c.A.Int64())
	assert.Equal(t, int64(1), c.B.Int64())

	for _, params := range [][3]int64{{23, 0, 0}, {3, 1, 1}, {22, 1, 1}, {0, 1, 1}} {
		_, err := NewSmall(params[0], params[1], params[2])
		assert.Error(t, err, "params %v", params)
	}

	_, err := NewSmall(23, 0, 0)
	assert.True(t, errors.Is(err, ntk.ErrInvalidCurve))

	// A literal curve is not validated until asked.
	singular := &Curve{P: big.NewInt(23), A: big.NewInt(0), B: big.NewInt(0)}
	assert.True(t, errors.Is(singular.Validate(), ntk.ErrInvalidCurve))
}

func TestIsOnCurve(t *testing.T) {
	c := mustCurve(t, 43, 22, 17)
	assert.True(t, c.IsOnCurve(NewPoint(37, 20)))
	assert.True(t, c.IsOnCurve(NewPoint(12, 26)))
	assert.True(t, c.IsOnCurve(Infinity()))
	assert.False(t, c.IsOnCurve(NewPoint(37, 21)))
}

func TestAdd(t *testing.T) {
	c := mustCurve(t, 11, 4, 1)

	cases := []struct {
		name string
		p, q Point
		want Point
	}{
		{"secant", NewPoint(5, 5), NewPoint(7, 8), NewPoint(4, 2)},
		{"inverse pair", NewPoint(2, 4), NewPoint(2, 7), Infinity()},
		{"off-curve points still add", NewPoint(2, 4), NewPoint(3, 5), NewPoint(7, 2)},
		{"doubling", NewPoint(5, 5), NewPoint(5, 5), NewPoint(5, 6)},
		{"identity left", Infinity(), NewPoint(5, 5), NewPoint(5, 5)},
		{"identity right", NewPoint(5, 5), Infinity(), NewPoint(5, 5)},
		{"identity both", Infinity(), Infinity(), Infinity()},
		{"unreduced input", NewPoint(16, -6), NewPoint(7, 8), NewPoint(4, 2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Add(tc.p, tc.q)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s, want %s", got, tc.want)
		})
	}

	t.Run("vertical tangent", func(t *testing.T) {
		c := mustCurve(t, 23, 1, 0)
		got, err := c.Double(NewPoint(0, 0))
		require.NoError(t, err)
		assert.True(t, got.IsInfinity())

		order, err := c.Order(NewPoint(0, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(2), order.Int64())
	})

	t.Run("non-invertible denominator", func(t *testing.T) {
		_, err := c.Add(NewPoint(2, 4), NewPoint(2, 5))
		assert.True(t, errors.Is(err, ntk.ErrNoInverse))
	})
}

func TestNegate(t *testing.T) {
	c := mustCurve(t, 11, 4, 1)
	points, err := c.Points()
	require.NoError(t, err)
	require.Len(t, points, 8)

	for _, p := range points {
		sum, err := c.Add(p, c.Negate(p))
		require.NoError(t, err)
		assert.True(t, sum.IsInfinity(), "%s + -%s", p, p)

		diff, err := c.Sub(p, p)
		require.NoError(t, err)
		assert.True(t, diff.IsInfinity())
	}
	assert.True(t, c.Negate(Infinity()).IsInfinity())
	assert.True(t, NewPoint(2, 8).Equal(mustCurve(t, 11, 3, 9).Negate(NewPoint(2, 3))))
}

func TestPoints(t *testing.T) {
	c := mustCurve(t, 11, 4, 1)
	points, err := c.Points()
	require.NoError(t, err)

	var keys []string
	for _, p := range points {
		keys = append(keys, p.Key())
		assert.True(t, c.IsOnCurve(p))
	}
	assert.Equal(t, []string{"0,1", "0,10", "4,2", "4,9", "5,5", "5,6", "7,3", "7,8"}, keys)

	n, err := mustCurve(t, 43, 22, 17).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(53), n)

	_, err = Secp256k1Curve().Curve.Points()
	assert.True(t, errors.Is(err, ntk.ErrInvalidParameters))
}

func TestScalarMult(t *testing.T) {
	c := mustCurve(t, 11, 3, 9)
	p := NewPoint(2, 1)

	cases := []struct {
		k    int64
		want Point
	}{
		{0, Infinity()},
		{1, NewPoint(2, 1)},
		{2, NewPoint(0, 3)},
		{3, NewPoint(10, 7)},
		{7, NewPoint(3, 10)},
		{11, Infinity()},
		{-3, NewPoint(10, 4)},
	}
	for _, tc := range cases {
		got, err := c.ScalarMult(big.NewInt(tc.k), p)
		require.NoError(t, err)
		assert.True(t, tc.want.Equal(got), "%d*P = %s, want %s", tc.k, got, tc.want)
	}

	t.Run("matches repeated addition", func(t *testing.T) {
		c := mustCurve(t, 43, 22, 17)
		p := NewPoint(37, 20)
		acc := Infinity()
		for k := int64(0); k < 60; k++ {
			got, err := c.ScalarMult(big.NewInt(k), p)
			require.NoError(t, err)
			assert.True(t, acc.Equal(got), "k = %d", k)

			acc, err = c.Add(acc, p)
			require.NoError(t, err)
		}
	})

	t.Run("trace records every bit", func(t *testing.T) {
		tr := &ntk.Trace{}
		_, err := c.ScalarMult(big.NewInt(7), p, ntk.WithTrace(tr))
		require.NoError(t, err)
		assert.Equal(t, 3, tr.Len())

		last, ok := tr.Last("bit 0 = 1")
		require.True(t, ok)
		assert.True(t, NewPoint(3, 10).Equal(last.Value.(Point)))
	})
}

func TestOrder(t *testing.T) {
	c := mustCurve(t, 43, 22, 17)
	n, err := c.Order(NewPoint(37, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(53), n.Int64())

	n, err = c.Order(Infinity())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.Int64())

	_, err = c.Order(NewPoint(37, 21))
	assert.True(t, errors.Is(err, ntk.ErrInvalidCurve))

	singular := &Curve{P: big.NewInt(23), A: big.NewInt(0), B: big.NewInt(0)}
	_, err = singular.Order(NewPoint(0, 0))
	assert.True(t, errors.Is(err, ntk.ErrInvalidCurve))

	assert.Equal(t, int64(43+12+6), c.HasseBound().Int64())
}

func TestPresets(t *testing.T) {
	for _, name := range Names() {
		dom, err := Lookup(name)
		require.NoError(t, err, name)
		require.NoError(t, dom.Curve.Validate(), name)
		assert.True(t, dom.Curve.IsOnCurve(dom.G), name)

		if name == "secp256k1" {
			nG, err := dom.Curve.ScalarMult(dom.N, dom.G)
			require.NoError(t, err)
			assert.True(t, nG.IsInfinity())
			continue
		}
		order, err := dom.Curve.Order(dom.G)
		require.NoError(t, err, name)
		assert.Equal(t, dom.N.String(), order.String(), name)
	}

	_, err := Lookup("nist-p42")
	assert.True(t, errors.Is(err, ntk.ErrInvalidParameters))
}

func TestSecp256k1Reference(t *testing.T) {
	ref := NewSecp256k1()
	dom := Secp256k1Curve()

	ks := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(0xdeadbeef)}
	for i := 0; i < 4; i++ {
		k, err := ref.NewScalar()
		require.NoError(t, err)
		ks = append(ks, k)
	}

	for _, k := range ks {
		want := ref.ScalarBaseMult(k)
		got, err := dom.Curve.ScalarMult(k, dom.G)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "k = %s", k)
		assert.True(t, dom.Curve.IsOnCurve(got))
	}

	g2, err := dom.Curve.Double(dom.G)
	require.NoError(t, err)
	sum, err := dom.Curve.Add(dom.G, g2)
	require.NoError(t, err)
	assert.True(t, ref.Add(dom.G, g2).Equal(sum))
	assert.True(t, ref.ScalarMult(dom.G, big.NewInt(3)).Equal(sum))
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("(37, 20)")
	require.NoError(t, err)
	assert.True(t, NewPoint(37, 20).Equal(p))

	p, err = ParsePoint("0x25,0x14")
	require.NoError(t, err)
	assert.True(t, NewPoint(37, 20).Equal(p))

	p, err = ParsePoint(" O ")
	require.NoError(t, err)
	assert.True(t, p.IsInfinity())

	for _, bad := range []string{"(1)", "(a, 2)", "(1, b)", ""} {
		_, err := ParsePoint(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "(37, 20)", NewPoint(37, 20).String())
	assert.Equal(t, "O", Infinity().String())
}

func FuzzAdd(f *testing.F) {
	c, err := NewSmall(43, 22, 17)
	if err != nil {
		f.Fatal(err)
	}
	points, err := c.Points()
	if err != nil {
		f.Fatal(err)
	}
	points = append(points, Infinity())

	f.Add(uint16(0), uint16(1), uint16(2))
	f.Add(uint16(5), uint16(5), uint16(52))

	f.Fuzz(func(t *testing.T, i, j, k uint16) {
		p := points[int(i)%len(points)]
		q := points[int(j)%len(points)]
		r := points[int(k)%len(points)]

		pq, err := c.Add(p, q)
		if err != nil {
			t.Fatalf("Add(%s, %s): %v", p, q, err)
		}
		qp, err := c.Add(q, p)
		if err != nil {
			t.Fatalf("Add(%s, %s): %v", q, p, err)
		}
		if !pq.Equal(qp) {
			t.Fatalf("Addition not commutative: %s != %s", pq, qp)
		}
		if !c.IsOnCurve(pq) {
			t.Fatalf("%s + %s = %s is not on the curve", p, q, pq)
		}

		left, _ := c.Add(pq, r)
		qr, _ := c.Add(q, r)
		right, _ := c.Add(p, qr)
		if !left.Equal(right) {
			t.Fatalf("Addition not associative for %s, %s, %s", p, q, r)
		}
	})
}
