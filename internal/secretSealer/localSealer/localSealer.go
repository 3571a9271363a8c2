package localSealer

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/Layr-Labs/eigenx-ibe-go/internal/secretSealer"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	Name = "local"

	saltSize = 16
	keySize  = chacha20poly1305.KeySize

	// scrypt cost parameters
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1

	version byte = 0x01
)

// LocalSealer derives a key from a passphrase with scrypt and seals with
// XChaCha20-Poly1305. Output layout: version || salt || nonce || ciphertext.
type LocalSealer struct {
	passphrase []byte
}

var _ secretSealer.ISecretSealer = (*LocalSealer)(nil)

func NewLocalSealer(passphrase string) (*LocalSealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	return &LocalSealer{passphrase: []byte(passphrase)}, nil
}

func (l *LocalSealer) Name() string {
	return Name
}

func (l *LocalSealer) deriveKey(salt []byte) ([]byte, error) {
	key, err := scrypt.Key(l.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive sealing key: %w", err)
	}
	return key, nil
}

func (l *LocalSealer) Seal(_ context.Context, plaintext []byte, sealContext map[string]string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	key, err := l.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, 1+saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, version)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, secretSealer.CanonicalContext(sealContext)), nil
}

func (l *LocalSealer) Unseal(_ context.Context, sealed []byte, sealContext map[string]string) ([]byte, error) {
	headerSize := 1 + saltSize + chacha20poly1305.NonceSizeX
	if len(sealed) < headerSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: sealed data too short", secretSealer.ErrUnsealFailed)
	}
	if sealed[0] != version {
		return nil, fmt.Errorf("%w: unknown format version %d", secretSealer.ErrUnsealFailed, sealed[0])
	}
	salt := sealed[1 : 1+saltSize]
	nonce := sealed[1+saltSize : headerSize]

	key, err := l.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, sealed[headerSize:], secretSealer.CanonicalContext(sealContext))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", secretSealer.ErrUnsealFailed, err)
	}
	return plaintext, nil
}
