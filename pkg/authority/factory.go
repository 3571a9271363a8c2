package authority

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/eigenx-ibe-go/internal/aws"
	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer"
	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer/awsKms"
	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer/localSealer"
	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer/plaintextSealer"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/config"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence/badger"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence/memory"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence/redis"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewPersistence opens the store selected by cfg.
func NewPersistence(cfg *config.PersistenceConfig, logger *zap.Logger) (persistence.IAuthorityPersistence, error) {
	switch cfg.Type {
	case config.PersistenceTypeMemory, "":
		return memory.NewMemoryPersistence(), nil
	case config.PersistenceTypeBadger:
		store, err := badger.NewBadgerPersistence(cfg.DataPath, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.PersistenceTypeRedis:
		store, err := redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s", cfg.Type)
	}
}

// NewSealer builds the master secret sealer selected by cfg.
func NewSealer(ctx context.Context, cfg *config.SealerConfig, logger *zap.Logger) (secretSealer.ISecretSealer, error) {
	switch cfg.Type {
	case config.SealerTypePlaintext, "":
		return plaintextSealer.NewPlaintextSealer(logger), nil
	case config.SealerTypeLocal:
		sealer, err := localSealer.NewLocalSealer(cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		return sealer, nil
	case config.SealerTypeAWSKMS:
		awsCfg, err := aws.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS config")
		}
		if arn, err := aws.GetCallerIdentity(ctx, awsCfg); err == nil {
			logger.Sugar().Infow("Using AWS KMS sealer", "caller", arn, "key_id", cfg.KMSKeyID)
		} else {
			logger.Sugar().Warnw("Failed to resolve AWS caller identity", "error", err)
		}
		return awsKms.NewAWSKMSSealer(awsCfg, cfg.KMSKeyID, logger), nil
	default:
		return nil, fmt.Errorf("unsupported sealer type: %s", cfg.Type)
	}
}

// NewServiceFromConfig validates cfg, opens the store and sealer and bootstraps the
// authority. The caller owns the returned Service and must Close it.
func NewServiceFromConfig(ctx context.Context, cfg *config.AuthorityConfig, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := NewPersistence(&cfg.Persistence, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open persistence")
	}

	sealer, err := NewSealer(ctx, &cfg.Sealer, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	svc := NewService(cfg, store, sealer, logger)
	if err := svc.Bootstrap(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return svc, nil
}
