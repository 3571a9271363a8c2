package bls

import (
	"math/big"
	"testing"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	"github.com/stretchr/testify/require"
)

func Test_BLSEngine(t *testing.T) {
	t.Run("PointOperations", func(t *testing.T) { testPointOperations(t) })
	t.Run("EmbeddingDegree", func(t *testing.T) { testEmbeddingDegree(t) })
	t.Run("Bilinearity", func(t *testing.T) { testBilinearity(t) })
	t.Run("MarshalRoundTrip", func(t *testing.T) { testMarshalRoundTrip(t) })
	t.Run("RejectsOffDiagonalPoint", func(t *testing.T) { testRejectsOffDiagonalPoint(t) })
}

func testPointOperations(t *testing.T) {
	e := NewEngine()

	p42, err := e.ScalarMul(big.NewInt(42), Generator)
	require.NoError(t, err)
	require.False(t, p42.IsInfinity())

	order, err := e.PointOrder(p42)
	require.NoError(t, err)
	require.Equal(t, 0, order.Cmp(e.GroupOrder()))

	zero, err := e.ScalarMul(e.GroupOrder(), Generator)
	require.NoError(t, err)
	require.True(t, zero.IsInfinity())
}

func testEmbeddingDegree(t *testing.T) {
	e := NewEngine()
	k, err := e.MultiplicativeOrder(e.BaseFieldSize(), e.GroupOrder())
	require.NoError(t, err)
	require.Equal(t, EmbeddingDegree, k)

	_, err = e.ExtensionField(2)
	require.ErrorIs(t, err, pairing.ErrUnsupportedDegree)
}

func testBilinearity(t *testing.T) {
	e := NewEngine()
	field, err := e.ExtensionField(EmbeddingDegree)
	require.NoError(t, err)
	order := e.GroupOrder()

	base, err := pairing.Pair(e, pairing.KindWeil, Generator, Generator, order, field)
	require.NoError(t, err)
	require.False(t, base.IsOne())

	a, b := big.NewInt(1234), big.NewInt(98765)
	pa, err := e.ScalarMul(a, Generator)
	require.NoError(t, err)
	pb, err := e.ScalarMul(b, Generator)
	require.NoError(t, err)

	for _, kind := range []pairing.Kind{pairing.KindWeil, pairing.KindTate} {
		got, err := pairing.Pair(e, kind, pa, pb, order, field)
		require.NoError(t, err)
		require.True(t, got.Equal(base.Exp(new(big.Int).Mul(a, b))), "kind=%s", kind)

		swapped, err := pairing.Pair(e, kind, pb, pa, order, field)
		require.NoError(t, err)
		require.True(t, got.Equal(swapped), "diagonal pairing must be symmetric")
	}
}

func testMarshalRoundTrip(t *testing.T) {
	e := NewEngine()
	p, err := e.ScalarMul(big.NewInt(7), Generator)
	require.NoError(t, err)

	data := p.Marshal()
	require.Len(t, data, PointSize)

	decoded, err := e.UnmarshalPoint(data)
	require.NoError(t, err)
	require.True(t, decoded.Equal(p))
}

func testRejectsOffDiagonalPoint(t *testing.T) {
	e := NewEngine()
	p2, err := e.ScalarMul(big.NewInt(2), Generator)
	require.NoError(t, err)
	p3, err := e.ScalarMul(big.NewInt(3), Generator)
	require.NoError(t, err)

	mixed := append(p2.Marshal()[:g1CompressedSize:g1CompressedSize], p3.Marshal()[g1CompressedSize:]...)
	_, err = e.UnmarshalPoint(mixed)
	require.Error(t, err)

	_, err = e.UnmarshalPoint([]byte{0x01, 0x02})
	require.Error(t, err)
}
