package pairing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":       KindWeil,
		"weil":   KindWeil,
		" Tate ": KindTate,
		"WEIL":   KindWeil,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("ate")
	require.ErrorIs(t, err, ErrUnsupportedPairing)
}

func Test_MultiplicativeOrder(t *testing.T) {
	t.Run("ToyCurve", func(t *testing.T) {
		// 83 = 6 (mod 7), 6^2 = 1 (mod 7)
		k, err := MultiplicativeOrder(big.NewInt(83), big.NewInt(7), MaxEmbeddingDegree)
		require.NoError(t, err)
		assert.Equal(t, 2, k)
	})

	t.Run("OrderOne", func(t *testing.T) {
		k, err := MultiplicativeOrder(big.NewInt(8), big.NewInt(7), MaxEmbeddingDegree)
		require.NoError(t, err)
		assert.Equal(t, 1, k)
	})

	t.Run("NotInvertible", func(t *testing.T) {
		_, err := MultiplicativeOrder(big.NewInt(14), big.NewInt(7), MaxEmbeddingDegree)
		require.ErrorIs(t, err, ErrNoMultiplicativeOrder)
	})

	t.Run("BoundExceeded", func(t *testing.T) {
		// 3 generates (Z/17)*, order 16
		_, err := MultiplicativeOrder(big.NewInt(3), big.NewInt(17), 8)
		require.ErrorIs(t, err, ErrNoMultiplicativeOrder)
	})

	t.Run("BadModulus", func(t *testing.T) {
		_, err := MultiplicativeOrder(big.NewInt(3), big.NewInt(1), 8)
		require.Error(t, err)
	})
}
