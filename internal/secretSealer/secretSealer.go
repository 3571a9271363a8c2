// Package secretSealer protects the master secret at rest. The authority only
// ever persists sealed bytes.
package secretSealer

import (
	"context"
	"errors"
	"sort"
)

// ErrUnsealFailed is returned when sealed bytes cannot be opened, either because
// they were tampered with or because the wrong key or context was used.
var ErrUnsealFailed = errors.New("failed to unseal secret")

// ISecretSealer encrypts and decrypts small secrets. The context map is bound to
// the ciphertext and must match on Unseal.
type ISecretSealer interface {
	Name() string
	Seal(ctx context.Context, plaintext []byte, sealContext map[string]string) ([]byte, error)
	Unseal(ctx context.Context, sealed []byte, sealContext map[string]string) ([]byte, error)
}

// CanonicalContext encodes a context map deterministically as sorted key=value
// lines for sealers that need it as additional authenticated data.
func CanonicalContext(sealContext map[string]string) []byte {
	keys := make([]string, 0, len(sealContext))
	for k := range sealContext {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []byte
	for _, k := range keys {
		out = append(out, k...)
		out = append(out, '=')
		out = append(out, sealContext[k]...)
		out = append(out, '\n')
	}
	return out
}
