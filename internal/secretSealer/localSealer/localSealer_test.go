package localSealer

import (
	"context"
	"testing"

	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer"
	"github.com/stretchr/testify/require"
)

func Test_LocalSealer(t *testing.T) {
	ctx := context.Background()
	sealCtx := map[string]string{"curve": "ss65", "purpose": "master-secret"}

	s, err := NewLocalSealer("correct horse battery staple")
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		sealed, err := s.Seal(ctx, []byte{0x01, 0x02, 0x03}, sealCtx)
		require.NoError(t, err)
		require.NotContains(t, string(sealed), "\x01\x02\x03")

		opened, err := s.Unseal(ctx, sealed, sealCtx)
		require.NoError(t, err)
		require.Equal(t, []byte{0x01, 0x02, 0x03}, opened)
	})

	t.Run("FreshSaltPerSeal", func(t *testing.T) {
		a, err := s.Seal(ctx, []byte("secret"), sealCtx)
		require.NoError(t, err)
		b, err := s.Seal(ctx, []byte("secret"), sealCtx)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("WrongContext", func(t *testing.T) {
		sealed, err := s.Seal(ctx, []byte("secret"), sealCtx)
		require.NoError(t, err)
		_, err = s.Unseal(ctx, sealed, map[string]string{"curve": "toy83", "purpose": "master-secret"})
		require.ErrorIs(t, err, secretSealer.ErrUnsealFailed)
	})

	t.Run("WrongPassphrase", func(t *testing.T) {
		sealed, err := s.Seal(ctx, []byte("secret"), sealCtx)
		require.NoError(t, err)
		other, err := NewLocalSealer("a different passphrase")
		require.NoError(t, err)
		_, err = other.Unseal(ctx, sealed, sealCtx)
		require.ErrorIs(t, err, secretSealer.ErrUnsealFailed)
	})

	t.Run("Tampered", func(t *testing.T) {
		sealed, err := s.Seal(ctx, []byte("secret"), sealCtx)
		require.NoError(t, err)
		sealed[len(sealed)-1] ^= 0x01
		_, err = s.Unseal(ctx, sealed, sealCtx)
		require.ErrorIs(t, err, secretSealer.ErrUnsealFailed)

		_, err = s.Unseal(ctx, []byte{0x01}, sealCtx)
		require.ErrorIs(t, err, secretSealer.ErrUnsealFailed)
	})

	t.Run("EmptyPassphrase", func(t *testing.T) {
		_, err := NewLocalSealer("")
		require.Error(t, err)
	})
}
