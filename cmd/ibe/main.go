package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/config"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/curves"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ibe",
		Usage: "Boneh-Franklin identity-based encryption authority and client",
		Description: `Runs a private key generator for BasicIdent identity-based encryption.

The authority holds a master secret, sealed at rest, and issues private keys for
identities. Anyone with the public parameters can encrypt to an identity.
Every private key issuance is logged and committed to with a merkle root.`,
		Version:  "1.0.0",
		Flags:    authorityFlags(),
		Commands: commands(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func authorityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "curve",
			Usage:   fmt.Sprintf("Parameter set: %s", strings.Join(curves.Names(), ", ")),
			Value:   string(curves.Default),
			EnvVars: []string{config.EnvIBECurve},
		},
		&cli.StringFlag{
			Name:    "pairing",
			Usage:   "Pairing: weil, tate",
			Value:   "weil",
			EnvVars: []string{config.EnvIBEPairing},
		},
		&cli.StringFlag{
			Name:    "seed",
			Usage:   "Seed for a reproducible master secret (testing only)",
			EnvVars: []string{config.EnvIBESeed},
		},
		&cli.StringFlag{
			Name:    "persistence",
			Usage:   fmt.Sprintf("State store: %s", config.GetSupportedPersistenceTypesString()),
			Value:   string(config.PersistenceTypeBadger),
			EnvVars: []string{config.EnvIBEPersistenceType},
		},
		&cli.StringFlag{
			Name:    "data-path",
			Usage:   "Badger data directory",
			Value:   "./ibe-data",
			EnvVars: []string{config.EnvIBEDataPath},
		},
		&cli.StringFlag{
			Name:    "redis-address",
			Usage:   "Redis address (host:port)",
			EnvVars: []string{config.EnvIBERedisAddress},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{config.EnvIBERedisPassword},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			EnvVars: []string{config.EnvIBERedisDB},
		},
		&cli.StringFlag{
			Name:    "redis-key-prefix",
			Usage:   "Prefix for every Redis key",
			EnvVars: []string{config.EnvIBERedisKeyPrefix},
		},
		&cli.StringFlag{
			Name:    "sealer",
			Usage:   fmt.Sprintf("Master secret sealer: %s", config.GetSupportedSealerTypesString()),
			Value:   string(config.SealerTypeLocal),
			EnvVars: []string{config.EnvIBESealerType},
		},
		&cli.StringFlag{
			Name:    "passphrase",
			Usage:   "Passphrase for the local sealer",
			EnvVars: []string{config.EnvIBESealerPassphrase},
		},
		&cli.StringFlag{
			Name:    "kms-key-id",
			Usage:   "AWS KMS key ID, ARN or alias for the aws-kms sealer",
			EnvVars: []string{config.EnvIBEKMSKeyID},
		},
		&cli.StringFlag{
			Name:    "aws-region",
			Usage:   "AWS region override",
			EnvVars: []string{config.EnvIBEAWSRegion},
		},
		&cli.Float64Flag{
			Name:    "extract-rate",
			Usage:   "Private key extractions per second, 0 for unlimited",
			EnvVars: []string{config.EnvIBEExtractRate},
		},
		&cli.IntFlag{
			Name:    "extract-burst",
			Usage:   "Extraction burst size when a rate is set",
			Value:   1,
			EnvVars: []string{config.EnvIBEExtractBurst},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "Enable debug logging",
			EnvVars: []string{config.EnvIBEDebug},
		},
	}
}

func parseAuthorityConfig(c *cli.Context) *config.AuthorityConfig {
	return &config.AuthorityConfig{
		Curve:   strings.ToLower(c.String("curve")),
		Pairing: c.String("pairing"),
		Seed:    c.String("seed"),
		Persistence: config.PersistenceConfig{
			Type:           config.PersistenceType(c.String("persistence")),
			DataPath:       c.String("data-path"),
			RedisAddress:   c.String("redis-address"),
			RedisPassword:  c.String("redis-password"),
			RedisDB:        c.Int("redis-db"),
			RedisKeyPrefix: c.String("redis-key-prefix"),
		},
		Sealer: config.SealerConfig{
			Type:       config.SealerType(c.String("sealer")),
			Passphrase: c.String("passphrase"),
			KMSKeyID:   c.String("kms-key-id"),
			AWSRegion:  c.String("aws-region"),
		},
		ExtractRate:  c.Float64("extract-rate"),
		ExtractBurst: c.Int("extract-burst"),
		Debug:        c.Bool("debug"),
	}
}
