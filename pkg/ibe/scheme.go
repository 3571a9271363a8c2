// Package ibe implements the Boneh-Franklin BasicIdent identity-based encryption
// scheme on top of any pairing.Engine.
//
// An Authority holds the master secret t and issues private keys d_ID = t*H1(ID).
// Anyone holding the public Params can derive PublicKey(ID) = (H1(ID), t*P) and
// encrypt to it; decryption recomputes the same pairing value from d_ID and U = r*P.
package ibe

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/drbg"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	"go.uber.org/zap"
)

var two = big.NewInt(2)

// Config holds the optional Setup inputs.
type Config struct {
	// Distortion is applied to the second pairing argument. Nil selects the
	// trivial, embedding-only map.
	Distortion pairing.DistortionMap
	// Order of the generator. Nil computes it with the engine.
	Order *big.Int
	// Pairing kind, weil when empty.
	Pairing pairing.Kind
	// EmbeddingDegree, computed as the multiplicative order of the base field
	// size modulo Order when zero.
	EmbeddingDegree int
	// Seed makes the master secret draw reproducible. Nil draws from entropy.
	Seed drbg.Seed
	Logger *zap.Logger
}

// Params is the public, read-only part of the scheme context. Safe for concurrent use.
type Params struct {
	engine     pairing.Engine
	generator  pairing.Point
	order      *big.Int
	degree     int
	kind       pairing.Kind
	field      pairing.Field
	distortion pairing.DistortionMap
	publicKey  pairing.Point
	logger     *zap.Logger
}

// Authority is the full scheme context including the master secret.
type Authority struct {
	params *Params
	secret *big.Int
}

func newParams(engine pairing.Engine, generator pairing.Point, cfg *Config) (*Params, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		return nil, fmt.Errorf("pairing engine is required")
	}
	if generator == nil || generator.IsInfinity() {
		return nil, fmt.Errorf("%w: generator must be a finite point", ErrInvalidPoint)
	}

	kind, err := pairing.ParseKind(string(cfg.Pairing))
	if err != nil {
		return nil, err
	}

	order := cfg.Order
	if order == nil {
		order, err = engine.PointOrder(generator)
		if err != nil {
			return nil, fmt.Errorf("failed to compute generator order: %w", err)
		}
	}
	if order.Cmp(two) <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrder, order)
	}
	order = new(big.Int).Set(order)

	degree := cfg.EmbeddingDegree
	if degree == 0 {
		degree, err = engine.MultiplicativeOrder(engine.BaseFieldSize(), order)
		if err != nil {
			return nil, fmt.Errorf("failed to compute embedding degree: %w", err)
		}
	}
	if degree < 1 {
		return nil, fmt.Errorf("embedding degree must be positive, got %d", degree)
	}

	field, err := engine.ExtensionField(degree)
	if err != nil {
		return nil, fmt.Errorf("failed to build extension field: %w", err)
	}

	distortion := cfg.Distortion
	if distortion == nil {
		distortion = &pairing.TrivialDistortion{Engine: engine}
		logger.Sugar().Warnw("No distortion map supplied, using the trivial embedding",
			"engine", engine.Name())
	}

	return &Params{
		engine:     engine,
		generator:  generator,
		order:      order,
		degree:     degree,
		kind:       kind,
		field:      field,
		distortion: distortion,
		logger:     logger,
	}, nil
}

// Setup builds the scheme context and draws the master secret t uniformly from
// [2, order-1].
func Setup(engine pairing.Engine, generator pairing.Point, cfg *Config) (*Authority, error) {
	params, err := newParams(engine, generator, cfg)
	if err != nil {
		return nil, err
	}

	var seed drbg.Seed
	if cfg != nil {
		seed = cfg.Seed
	}
	stream, err := drbg.NewOrEntropy(seed)
	if err != nil {
		return nil, err
	}
	secret, err := stream.IntRange(two, new(big.Int).Sub(params.order, big.NewInt(1)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	a, err := newAuthority(params, secret)
	if err != nil {
		return nil, err
	}
	params.logger.Sugar().Infow("Scheme context initialized",
		"engine", engine.Name(),
		"order", params.order.String(),
		"embedding_degree", params.degree,
		"pairing", params.kind.String(),
		"distortion", params.distortion.Name(),
		"seeded", seed != nil,
	)
	return a, nil
}

// Restore rebuilds an Authority around a previously drawn master secret.
func Restore(engine pairing.Engine, generator pairing.Point, cfg *Config, secret *big.Int) (*Authority, error) {
	params, err := newParams(engine, generator, cfg)
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.Cmp(two) < 0 || secret.Cmp(params.order) >= 0 {
		return nil, ErrInvalidMasterSecret
	}
	return newAuthority(params, new(big.Int).Set(secret))
}

func newAuthority(params *Params, secret *big.Int) (*Authority, error) {
	pub, err := params.engine.ScalarMul(secret, params.generator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive master public key: %w", err)
	}
	params.publicKey = pub
	return &Authority{params: params, secret: secret}, nil
}

// Params returns the public part of the context.
func (a *Authority) Params() *Params {
	return a.params
}

// PrivateKey issues d_ID = t * H1(ID).
func (a *Authority) PrivateKey(id Identity) (*PrivateKey, error) {
	q, err := a.params.HashToPoint(id)
	if err != nil {
		return nil, err
	}
	d, err := a.params.engine.ScalarMul(a.secret, q)
	if err != nil {
		return nil, fmt.Errorf("failed to derive private key: %w", err)
	}
	return &PrivateKey{DID: d}, nil
}

// MarshalMasterSecret returns t as a big-endian integer padded to the byte length
// of the order. Callers are responsible for protecting the result.
func (a *Authority) MarshalMasterSecret() []byte {
	out := make([]byte, (a.params.order.BitLen()+7)/8)
	return a.secret.FillBytes(out)
}

// UnmarshalMasterSecret is the inverse of MarshalMasterSecret.
func UnmarshalMasterSecret(data []byte) *big.Int {
	return new(big.Int).SetBytes(data)
}

func (p *Params) Engine() pairing.Engine {
	return p.engine
}

func (p *Params) Generator() pairing.Point {
	return p.generator
}

func (p *Params) Order() *big.Int {
	return new(big.Int).Set(p.order)
}

func (p *Params) EmbeddingDegree() int {
	return p.degree
}

func (p *Params) PairingKind() pairing.Kind {
	return p.kind
}

func (p *Params) ExtensionField() pairing.Field {
	return p.field
}

func (p *Params) Distortion() pairing.DistortionMap {
	return p.distortion
}

// MasterPublicKey is P_pub = t * P.
func (p *Params) MasterPublicKey() pairing.Point {
	return p.publicKey
}

// PublicKey derives (Q_ID, P_pub) for an identity. No secret is needed.
func (p *Params) PublicKey(id Identity) (*PublicKey, error) {
	q, err := p.HashToPoint(id)
	if err != nil {
		return nil, err
	}
	return &PublicKey{QID: q, PPub: p.publicKey}, nil
}

// Embed lifts a base curve point into the extension curve.
func (p *Params) Embed(pt pairing.Point) (pairing.Point, error) {
	return p.engine.Embed(pt, p.field)
}

// Distort lifts a base curve point and applies the distortion map.
func (p *Params) Distort(pt pairing.Point) (pairing.Point, error) {
	return p.distortion.Distort(pt, p.field)
}

// Pair evaluates the configured pairing on embed(a) and distort(b).
func (p *Params) Pair(a, b pairing.Point) (pairing.GTElement, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: nil pairing argument", ErrInvalidPoint)
	}
	lifted, err := p.Embed(a)
	if err != nil {
		return nil, fmt.Errorf("failed to embed point: %w", err)
	}
	distorted, err := p.Distort(b)
	if err != nil {
		return nil, fmt.Errorf("failed to apply distortion map: %w", err)
	}
	v, err := pairing.Pair(p.engine, p.kind, lifted, distorted, p.order, p.field)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s pairing: %w", p.kind, err)
	}
	return v, nil
}

// ParsePoint decodes a point and checks that it lies in the generator's subgroup.
func (p *Params) ParsePoint(data []byte) (pairing.Point, error) {
	pt, err := p.engine.UnmarshalPoint(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	check, err := p.engine.ScalarMul(p.order, pt)
	if err != nil {
		return nil, err
	}
	if !check.IsInfinity() {
		return nil, fmt.Errorf("%w: point is not in the generator subgroup", ErrInvalidPoint)
	}
	return pt, nil
}
