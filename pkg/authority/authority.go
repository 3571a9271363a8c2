// Package authority runs a long-lived private key generator on top of pkg/ibe.
//
// The Service owns the master secret for one parameter set. On Bootstrap it either
// restores a previously sealed secret from persistence or runs Setup and seals the
// fresh secret. Every private key extraction is appended to an issuance log whose
// merkle root can be published and audited.
package authority

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/config"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/curves"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/drbg"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/ibe"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/merkle"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const sealPurpose = "ibe-master-secret"

var (
	// ErrNotBootstrapped is returned by every operation that needs the master secret before Bootstrap.
	ErrNotBootstrapped = errors.New("authority is not bootstrapped")

	// ErrStateMismatch is returned when persisted state belongs to a different curve,
	// pairing or sealer than the one configured.
	ErrStateMismatch = errors.New("persisted authority state does not match configuration")

	// ErrRateLimited is returned when an extraction cannot get a limiter token
	// before its context ends.
	ErrRateLimited = errors.New("private key extraction rate limited")

	// ErrNoIssuances is returned when an audit root is requested for an empty log.
	ErrNoIssuances = errors.New("no private keys have been issued")

	// ErrIssuanceNotFound is returned when a proof is requested for an unknown issuance ID.
	ErrIssuanceNotFound = errors.New("issuance not found")
)

// Service is a private key generator. Safe for concurrent use after Bootstrap.
type Service struct {
	cfg     *config.AuthorityConfig
	store   persistence.IAuthorityPersistence
	sealer  secretSealer.ISecretSealer
	limiter *rate.Limiter
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.RWMutex
	curve     *curves.Curve
	authority *ibe.Authority
}

// NewService wires a Service. cfg must already be validated.
func NewService(
	cfg *config.AuthorityConfig,
	store persistence.IAuthorityPersistence,
	sealer secretSealer.ISecretSealer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if cfg.ExtractRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ExtractRate), cfg.ExtractBurst)
	}
	return &Service{
		cfg:     cfg,
		store:   store,
		sealer:  sealer,
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}
}

func sealContext(curve *curves.Curve, kind pairing.Kind) map[string]string {
	return map[string]string{
		"curve":   string(curve.Name),
		"pairing": kind.String(),
		"purpose": sealPurpose,
	}
}

func (s *Service) ibeConfig(curve *curves.Curve, kind pairing.Kind) *ibe.Config {
	cfg := &ibe.Config{
		Distortion: curve.Distortion,
		Order:      curve.Order,
		Pairing:    kind,
		Logger:     s.logger,
	}
	if s.cfg.Seed != "" {
		cfg.Seed = drbg.StringSeed(s.cfg.Seed)
	}
	return cfg
}

// Bootstrap restores the sealed master secret if one is persisted, otherwise runs
// Setup and persists the sealed result. Calling it again is a no-op.
func (s *Service) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authority != nil {
		return nil
	}

	curve, err := curves.Load(s.cfg.Curve)
	if err != nil {
		return err
	}
	kind, err := pairing.ParseKind(s.cfg.Pairing)
	if err != nil {
		return err
	}

	state, err := s.store.LoadAuthorityState()
	if err != nil {
		return errors.Wrap(err, "failed to load authority state")
	}

	var authority *ibe.Authority
	if state != nil {
		authority, err = s.restore(ctx, curve, kind, state)
	} else {
		authority, err = s.setup(ctx, curve, kind)
	}
	if err != nil {
		return err
	}

	s.curve = curve
	s.authority = authority
	return nil
}

func (s *Service) restore(ctx context.Context, curve *curves.Curve, kind pairing.Kind, state *persistence.AuthorityState) (*ibe.Authority, error) {
	if state.Curve != string(curve.Name) || state.Pairing != kind.String() {
		return nil, errors.Wrapf(ErrStateMismatch, "persisted %s/%s, configured %s/%s",
			state.Curve, state.Pairing, curve.Name, kind)
	}
	if state.Sealer != s.sealer.Name() {
		return nil, errors.Wrapf(ErrStateMismatch, "secret sealed by %q, configured sealer is %q",
			state.Sealer, s.sealer.Name())
	}

	plain, err := s.sealer.Unseal(ctx, state.SealedMasterSecret, sealContext(curve, kind))
	if err != nil {
		return nil, err
	}

	authority, err := ibe.Restore(curve.Engine, curve.Generator, s.ibeConfig(curve, kind), ibe.UnmarshalMasterSecret(plain))
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore master secret")
	}
	if !bytes.Equal(authority.Params().MasterPublicKey().Marshal(), state.MasterPublicKey) {
		return nil, errors.Wrap(ErrStateMismatch, "restored master public key differs from persisted one")
	}

	s.logger.Sugar().Infow("Restored authority from persisted state",
		"curve", state.Curve,
		"pairing", state.Pairing,
		"sealer", state.Sealer,
		"created_at", time.Unix(state.CreatedAt, 0).UTC(),
	)
	return authority, nil
}

func (s *Service) setup(ctx context.Context, curve *curves.Curve, kind pairing.Kind) (*ibe.Authority, error) {
	authority, err := ibe.Setup(curve.Engine, curve.Generator, s.ibeConfig(curve, kind))
	if err != nil {
		return nil, errors.Wrap(err, "setup failed")
	}

	sealed, err := s.sealer.Seal(ctx, authority.MarshalMasterSecret(), sealContext(curve, kind))
	if err != nil {
		return nil, err
	}

	state := &persistence.AuthorityState{
		Curve:              string(curve.Name),
		Pairing:            kind.String(),
		SealedMasterSecret: sealed,
		Sealer:             s.sealer.Name(),
		MasterPublicKey:    authority.Params().MasterPublicKey().Marshal(),
		CreatedAt:          s.now().Unix(),
	}
	if err := s.store.SaveAuthorityState(state); err != nil {
		return nil, errors.Wrap(err, "failed to persist authority state")
	}

	s.logger.Sugar().Infow("Initialized new authority",
		"curve", curve.Name,
		"pairing", kind,
		"sealer", s.sealer.Name(),
	)
	return authority, nil
}

func (s *Service) current() (*ibe.Authority, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.authority == nil {
		return nil, ErrNotBootstrapped
	}
	return s.authority, nil
}

// Curve returns the loaded parameter set.
func (s *Service) Curve() (*curves.Curve, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.curve == nil {
		return nil, ErrNotBootstrapped
	}
	return s.curve, nil
}

// Params returns the public scheme parameters.
func (s *Service) Params() (*ibe.Params, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	return a.Params(), nil
}

// PublicKey derives the public key for id. It is not logged as an issuance.
func (s *Service) PublicKey(id ibe.Identity) (*ibe.PublicKey, error) {
	params, err := s.Params()
	if err != nil {
		return nil, err
	}
	return params.PublicKey(id)
}

// ExtractPrivateKey issues d_ID and appends the issuance to the log. When a rate
// limit is configured it blocks until a token is available or ctx is done.
func (s *Service) ExtractPrivateKey(ctx context.Context, id ibe.Identity) (*ibe.PrivateKey, *persistence.IssuanceRecord, error) {
	a, err := s.current()
	if err != nil {
		return nil, nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, nil, errors.Wrapf(ErrRateLimited, "%v", err)
		}
	}

	sk, err := a.PrivateKey(id)
	if err != nil {
		return nil, nil, err
	}

	record := &persistence.IssuanceRecord{
		ID:       uuid.NewString(),
		Identity: id.String(),
		Kind:     id.Kind().String(),
		IssuedAt: s.now().UnixNano(),
	}
	if err := s.store.SaveIssuance(record); err != nil {
		return nil, nil, errors.Wrap(err, "failed to record issuance")
	}

	s.logger.Sugar().Infow("Issued private key",
		"issuance_id", record.ID,
		"identity_kind", record.Kind,
	)
	return sk, record, nil
}

// Issuances returns the issuance log in order.
func (s *Service) Issuances() ([]*persistence.IssuanceRecord, error) {
	return s.store.ListIssuances()
}

// IssuanceTree commits to the current issuance log.
func (s *Service) IssuanceTree() (*merkle.MerkleTree, error) {
	records, err := s.store.ListIssuances()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list issuances")
	}
	if len(records) == 0 {
		return nil, ErrNoIssuances
	}
	return merkle.BuildMerkleTree(records)
}

// ProveIssuance returns an inclusion proof for one issuance against the current root.
func (s *Service) ProveIssuance(issuanceID string) (*merkle.MerkleProof, [32]byte, error) {
	record, err := s.store.LoadIssuance(issuanceID)
	if err != nil {
		return nil, [32]byte{}, errors.Wrap(err, "failed to load issuance")
	}
	if record == nil {
		return nil, [32]byte{}, errors.Wrapf(ErrIssuanceNotFound, "issuance %s", issuanceID)
	}

	tree, err := s.IssuanceTree()
	if err != nil {
		return nil, [32]byte{}, err
	}
	proof, err := tree.ProofFor(record)
	if err != nil {
		return nil, [32]byte{}, err
	}
	return proof, tree.Root, nil
}

// HealthCheck reports whether the store is reachable and the secret is loaded.
func (s *Service) HealthCheck() error {
	if _, err := s.current(); err != nil {
		return err
	}
	return s.store.HealthCheck()
}

// Close releases the store.
func (s *Service) Close() error {
	return s.store.Close()
}
