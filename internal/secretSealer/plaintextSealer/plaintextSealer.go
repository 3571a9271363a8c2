package plaintextSealer

import (
	"context"

	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer"
	"go.uber.org/zap"
)

const Name = "plaintext"

// PlaintextSealer does not encrypt anything. It exists so that tests and local
// demos can run without key material. Never use it in production.
type PlaintextSealer struct{}

var _ secretSealer.ISecretSealer = (*PlaintextSealer)(nil)

func NewPlaintextSealer(logger *zap.Logger) *PlaintextSealer {
	logger.Sugar().Warnw("Using plaintext sealer - the master secret is stored UNENCRYPTED")
	return &PlaintextSealer{}
}

func (p *PlaintextSealer) Name() string {
	return Name
}

func (p *PlaintextSealer) Seal(_ context.Context, plaintext []byte, _ map[string]string) ([]byte, error) {
	return append([]byte{}, plaintext...), nil
}

func (p *PlaintextSealer) Unseal(_ context.Context, sealed []byte, _ map[string]string) ([]byte, error) {
	return append([]byte{}, sealed...), nil
}
