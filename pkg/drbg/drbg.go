// Package drbg provides deterministic random bit generators. Every Stream is an
// independent value with its own state; there is no package level generator.
package drbg

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/chacha20"
)

// ErrEmptyRange is returned when a sampling range contains no integers.
var ErrEmptyRange = errors.New("empty sampling range")

const seedDomain = "eigenx-ibe/drbg/v1"

// Seed selects a reproducible stream. A nil Seed means "draw from entropy".
type Seed []byte

// IntSeed encodes v as an 8 byte big-endian seed.
func IntSeed(v int64) Seed {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(v))
	return out
}

// StringSeed uses the raw bytes of s as the seed.
func StringSeed(s string) Seed {
	return Seed(s)
}

// Stream is a ChaCha20 keystream keyed by Keccak-256(domain || seed). Not safe
// for concurrent use; create one per call.
type Stream struct {
	cipher *chacha20.Cipher
}

var _ io.Reader = (*Stream)(nil)

// New creates the stream determined by seed.
func New(seed Seed) *Stream {
	key := ethcrypto.Keccak256([]byte(seedDomain), seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// key and nonce sizes are fixed above
		panic(fmt.Sprintf("drbg: %v", err))
	}
	return &Stream{cipher: c}
}

// FromEntropy seeds a stream with 32 bytes read from r, or crypto/rand when r is nil.
func FromEntropy(r io.Reader) (*Stream, error) {
	if r == nil {
		r = rand.Reader
	}
	seed := make([]byte, 32)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}
	return New(seed), nil
}

// NewOrEntropy returns New(seed) when seed is set and FromEntropy(nil) otherwise.
func NewOrEntropy(seed Seed) (*Stream, error) {
	if seed != nil {
		return New(seed), nil
	}
	return FromEntropy(nil)
}

// Read fills p with keystream bytes. It never fails.
func (s *Stream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Bits draws n bits in sequence, least significant bit of each byte first.
func (s *Stream) Bits(n int) []uint8 {
	if n <= 0 {
		return []uint8{}
	}
	buf := make([]byte, (n+7)/8)
	_, _ = s.Read(buf)

	out := make([]uint8, n)
	for i := range out {
		out[i] = (buf[i/8] >> (uint(i) % 8)) & 1
	}
	return out
}

// IntRange draws an integer uniformly from [lo, hi] by rejection sampling.
func (s *Stream) IntRange(lo, hi *big.Int) (*big.Int, error) {
	if lo == nil || hi == nil || hi.Cmp(lo) < 0 {
		return nil, ErrEmptyRange
	}
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))

	bitLen := span.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	excess := uint(len(buf)*8 - bitLen)
	candidate := new(big.Int)
	for {
		_, _ = s.Read(buf)
		buf[0] &= 0xff >> excess
		candidate.SetBytes(buf)
		if candidate.Cmp(span) < 0 {
			return candidate.Add(candidate, lo), nil
		}
	}
}
