package awsKms

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"testing"

	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeKMS "encrypts" by prefixing the key ID and remembering the context
type fakeKMS struct {
	contexts map[string]map[string]string
}

func (f *fakeKMS) Encrypt(_ context.Context, in *kms.EncryptInput, _ ...func(*kms.Options)) (*kms.EncryptOutput, error) {
	blob := append([]byte(aws.ToString(in.KeyId)+":"), in.Plaintext...)
	f.contexts[string(blob)] = maps.Clone(in.EncryptionContext)
	return &kms.EncryptOutput{CiphertextBlob: blob, KeyId: in.KeyId}, nil
}

func (f *fakeKMS) Decrypt(_ context.Context, in *kms.DecryptInput, _ ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	stored, ok := f.contexts[string(in.CiphertextBlob)]
	if !ok || !maps.Equal(stored, in.EncryptionContext) {
		return nil, fmt.Errorf("InvalidCiphertextException")
	}
	prefix := []byte(aws.ToString(in.KeyId) + ":")
	if !bytes.HasPrefix(in.CiphertextBlob, prefix) {
		return nil, fmt.Errorf("IncorrectKeyException")
	}
	return &kms.DecryptOutput{Plaintext: in.CiphertextBlob[len(prefix):]}, nil
}

func Test_AWSKMSSealer(t *testing.T) {
	ctx := context.Background()
	fake := &fakeKMS{contexts: map[string]map[string]string{}}
	sealCtx := map[string]string{"curve": "bls12381"}
	s := NewAWSKMSSealerWithClient(fake, "alias/ibe-master", "us-east-1", zap.NewNop())

	t.Run("RoundTrip", func(t *testing.T) {
		sealed, err := s.Seal(ctx, []byte("secret"), sealCtx)
		require.NoError(t, err)
		opened, err := s.Unseal(ctx, sealed, sealCtx)
		require.NoError(t, err)
		require.Equal(t, []byte("secret"), opened)
	})

	t.Run("ContextMismatch", func(t *testing.T) {
		sealed, err := s.Seal(ctx, []byte("secret"), sealCtx)
		require.NoError(t, err)
		_, err = s.Unseal(ctx, sealed, map[string]string{"curve": "ss65"})
		require.ErrorIs(t, err, secretSealer.ErrUnsealFailed)
		require.Contains(t, err.Error(), "alias/ibe-master")
	})

	t.Run("WrongKey", func(t *testing.T) {
		sealed, err := s.Seal(ctx, []byte("secret"), sealCtx)
		require.NoError(t, err)
		other := NewAWSKMSSealerWithClient(fake, "alias/other", "us-east-1", zap.NewNop())
		_, err = other.Unseal(ctx, sealed, sealCtx)
		require.ErrorIs(t, err, secretSealer.ErrUnsealFailed)
	})
}
