package config

import (
	"fmt"
	"slices"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/curves"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the key authority
const (
	EnvIBECurve            = "IBE_CURVE"
	EnvIBEPairing          = "IBE_PAIRING"
	EnvIBESeed             = "IBE_SEED"
	EnvIBEDebug            = "IBE_DEBUG"
	EnvIBEPersistenceType  = "IBE_PERSISTENCE_TYPE"
	EnvIBEDataPath         = "IBE_DATA_PATH"
	EnvIBERedisAddress     = "IBE_REDIS_ADDRESS"
	EnvIBERedisPassword    = "IBE_REDIS_PASSWORD"
	EnvIBERedisDB          = "IBE_REDIS_DB"
	EnvIBERedisKeyPrefix   = "IBE_REDIS_KEY_PREFIX"
	EnvIBESealerType       = "IBE_SEALER_TYPE"
	EnvIBESealerPassphrase = "IBE_SEALER_PASSPHRASE"
	EnvIBEKMSKeyID         = "IBE_KMS_KEY_ID"
	EnvIBEAWSRegion        = "IBE_AWS_REGION"
	EnvIBEExtractRate      = "IBE_EXTRACT_RATE"
	EnvIBEExtractBurst     = "IBE_EXTRACT_BURST"
	EnvIBEPort             = "IBE_PORT"
)

type PersistenceType string

const (
	PersistenceTypeMemory PersistenceType = "memory"
	PersistenceTypeBadger PersistenceType = "badger"
	PersistenceTypeRedis  PersistenceType = "redis"
)

func (p PersistenceType) String() string {
	return string(p)
}

var supportedPersistenceTypes = []string{
	string(PersistenceTypeMemory),
	string(PersistenceTypeBadger),
	string(PersistenceTypeRedis),
}

type SealerType string

const (
	// SealerTypePlaintext stores the master secret unprotected. Testing only.
	SealerTypePlaintext SealerType = "plaintext"
	// SealerTypeLocal encrypts the master secret under a passphrase
	SealerTypeLocal SealerType = "local"
	// SealerTypeAWSKMS encrypts the master secret with an AWS KMS key
	SealerTypeAWSKMS SealerType = "aws-kms"
)

func (s SealerType) String() string {
	return string(s)
}

var supportedSealerTypes = []string{
	string(SealerTypePlaintext),
	string(SealerTypeLocal),
	string(SealerTypeAWSKMS),
}

// PersistenceConfig selects and configures the state store
type PersistenceConfig struct {
	Type     PersistenceType `json:"type"`
	DataPath string          `json:"data_path"` // badger only

	RedisAddress   string `json:"redis_address"`
	RedisPassword  string `json:"redis_password"`
	RedisDB        int    `json:"redis_db"`
	RedisKeyPrefix string `json:"redis_key_prefix"`
}

// SealerConfig selects how the master secret is protected at rest
type SealerConfig struct {
	Type       SealerType `json:"type"`
	Passphrase string     `json:"passphrase"` // local only
	KMSKeyID   string     `json:"kms_key_id"` // aws-kms only, key ID, ARN or alias
	AWSRegion  string     `json:"aws_region"`
}

// AuthorityConfig is the complete configuration for a key authority
type AuthorityConfig struct {
	Curve   string `json:"curve"`
	Pairing string `json:"pairing"`

	// Seed makes Setup reproducible. Empty draws the master secret from entropy.
	Seed string `json:"seed"`

	Persistence PersistenceConfig `json:"persistence"`
	Sealer      SealerConfig      `json:"sealer"`

	// ExtractRate limits private key extractions per second. Zero disables the limit.
	ExtractRate  float64 `json:"extract_rate"`
	ExtractBurst int     `json:"extract_burst"`

	Debug bool `json:"debug"`
}

// NewDefaultAuthorityConfig returns an in-memory, unsealed authority on the default curve.
func NewDefaultAuthorityConfig() *AuthorityConfig {
	return &AuthorityConfig{
		Curve:   string(curves.Default),
		Pairing: string(pairing.KindWeil),
		Persistence: PersistenceConfig{
			Type: PersistenceTypeMemory,
		},
		Sealer: SealerConfig{
			Type: SealerTypePlaintext,
		},
	}
}

// Validate checks every field and reports all problems at once
func (c *AuthorityConfig) Validate() error {
	var allErrors field.ErrorList

	if !slices.Contains(curves.Names(), c.Curve) {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("curve"), c.Curve, curves.Names()))
	}
	if _, err := pairing.ParseKind(c.Pairing); err != nil {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("pairing"), c.Pairing,
			[]string{string(pairing.KindWeil), string(pairing.KindTate)}))
	}

	allErrors = append(allErrors, c.Persistence.validate(field.NewPath("persistence"))...)
	allErrors = append(allErrors, c.Sealer.validate(field.NewPath("sealer"))...)

	if c.ExtractRate < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("extractRate"), c.ExtractRate, "must not be negative"))
	}
	if c.ExtractRate > 0 && c.ExtractBurst < 1 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("extractBurst"), c.ExtractBurst, "must be at least 1 when a rate is set"))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

func (p *PersistenceConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch p.Type {
	case PersistenceTypeMemory:
	case PersistenceTypeBadger:
		if p.DataPath == "" {
			allErrors = append(allErrors, field.Required(path.Child("dataPath"), "dataPath is required for badger persistence"))
		}
	case PersistenceTypeRedis:
		if p.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(path.Child("redisAddress"), "redisAddress is required for redis persistence"))
		}
		if p.RedisDB < 0 || p.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(path.Child("redisDB"), p.RedisDB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), p.Type.String(), supportedPersistenceTypes))
	}
	return allErrors
}

func (s *SealerConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch s.Type {
	case SealerTypePlaintext:
	case SealerTypeLocal:
		if len(s.Passphrase) < 12 {
			allErrors = append(allErrors, field.Invalid(path.Child("passphrase"), "<redacted>", "must be at least 12 characters"))
		}
	case SealerTypeAWSKMS:
		if s.KMSKeyID == "" {
			allErrors = append(allErrors, field.Required(path.Child("kmsKeyId"), "kmsKeyId is required for aws-kms sealing"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), s.Type.String(), supportedSealerTypes))
	}
	return allErrors
}

// GetSupportedPersistenceTypesString returns persistence types for CLI help
func GetSupportedPersistenceTypesString() string {
	return fmt.Sprintf("%v", supportedPersistenceTypes)
}

// GetSupportedSealerTypesString returns sealer types for CLI help
func GetSupportedSealerTypesString() string {
	return fmt.Sprintf("%v", supportedSealerTypes)
}
