package awsKms

import (
	"context"

	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const Name = "aws-kms"

// KMSClient is the subset of *kms.Client the sealer needs
type KMSClient interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// AWSKMSSealer seals with a symmetric AWS KMS key. The seal context is passed as
// the KMS encryption context, so it shows up in CloudTrail and must match on decrypt.
type AWSKMSSealer struct {
	logger    *zap.Logger
	kmsClient KMSClient
	keyId     string
	awsRegion string
}

var _ secretSealer.ISecretSealer = (*AWSKMSSealer)(nil)

func NewAWSKMSSealer(awsCfg aws.Config, keyId string, logger *zap.Logger) *AWSKMSSealer {
	return NewAWSKMSSealerWithClient(kms.NewFromConfig(awsCfg), keyId, awsCfg.Region, logger)
}

func NewAWSKMSSealerWithClient(client KMSClient, keyId string, awsRegion string, logger *zap.Logger) *AWSKMSSealer {
	return &AWSKMSSealer{
		logger:    logger,
		kmsClient: client,
		keyId:     keyId,
		awsRegion: awsRegion,
	}
}

func (a *AWSKMSSealer) Name() string {
	return Name
}

func (a *AWSKMSSealer) Seal(ctx context.Context, plaintext []byte, sealContext map[string]string) ([]byte, error) {
	res, err := a.kmsClient.Encrypt(ctx, &kms.EncryptInput{
		KeyId:               aws.String(a.keyId),
		Plaintext:           plaintext,
		EncryptionContext:   sealContext,
		EncryptionAlgorithm: types.EncryptionAlgorithmSpecSymmetricDefault,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encrypt with key %s in region %s", a.keyId, a.awsRegion)
	}

	a.logger.Sugar().Infow("Sealed secret with AWS KMS",
		"key_id", aws.ToString(res.KeyId),
		"region", a.awsRegion,
	)
	return res.CiphertextBlob, nil
}

func (a *AWSKMSSealer) Unseal(ctx context.Context, sealed []byte, sealContext map[string]string) ([]byte, error) {
	res, err := a.kmsClient.Decrypt(ctx, &kms.DecryptInput{
		KeyId:               aws.String(a.keyId),
		CiphertextBlob:      sealed,
		EncryptionContext:   sealContext,
		EncryptionAlgorithm: types.EncryptionAlgorithmSpecSymmetricDefault,
	})
	if err != nil {
		return nil, errors.Wrapf(secretSealer.ErrUnsealFailed, "kms decrypt with key %s in region %s: %v", a.keyId, a.awsRegion, err)
	}
	return res.Plaintext, nil
}
