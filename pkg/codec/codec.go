// Package codec converts between byte strings, integers and bit sequences.
//
// Bit sequences are little-endian: index 0 holds the least significant bit.
// Byte strings are read as big-endian base-256 integers. Byte string encodings
// always carry 8 bits per input byte so leading zero bytes survive a round trip.
package codec

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidBit is returned when a bit value or digit is neither 0 nor 1.
var ErrInvalidBit = errors.New("invalid bit")

// Bits is an ordered sequence of bits, each 0 or 1.
type Bits []uint8

// String renders the bits as digit characters in sequence order.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		sb.WriteByte('0' + bit)
	}
	return sb.String()
}

// Validate checks every entry is 0 or 1.
func (b Bits) Validate() error {
	for i, bit := range b {
		if bit > 1 {
			return fmt.Errorf("%w: value %d at position %d", ErrInvalidBit, bit, i)
		}
	}
	return nil
}

// Xor adds two equal-length sequences modulo 2.
func (b Bits) Xor(other Bits) (Bits, error) {
	if len(b) != len(other) {
		return nil, fmt.Errorf("bit length mismatch: %d != %d", len(b), len(other))
	}
	out := make(Bits, len(b))
	for i := range b {
		out[i] = (b[i] + other[i]) % 2
	}
	return out, nil
}

// Equal compares two sequences bit for bit.
func (b Bits) Equal(other Bits) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseBits reads digit characters produced by Bits.String.
func ParseBits(s string) (Bits, error) {
	out := make(Bits, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			out[i] = 0
		case '1':
			out[i] = 1
		default:
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidBit, s[i], i)
		}
	}
	return out, nil
}

// EncodeInt decomposes v into little-endian bits, padded with zero bits up to minBits.
func EncodeInt(v *big.Int, minBits int) (Bits, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("cannot encode negative integer %s", v)
	}
	n := v.BitLen()
	if minBits > n {
		n = minBits
	}
	out := make(Bits, n)
	for i := 0; i < v.BitLen(); i++ {
		out[i] = uint8(v.Bit(i))
	}
	return out, nil
}

// DecodeInt reassembles the integer from little-endian bits.
func DecodeInt(bits Bits) (*big.Int, error) {
	if err := bits.Validate(); err != nil {
		return nil, err
	}
	v := new(big.Int)
	for i := len(bits) - 1; i >= 0; i-- {
		v.Lsh(v, 1)
		if bits[i] == 1 {
			v.SetBit(v, 0, 1)
		}
	}
	return v, nil
}

// EncodeBytes interprets msg as a big-endian integer and returns its 8*len(msg)
// little-endian bits.
func EncodeBytes(msg []byte) Bits {
	bits, _ := EncodeInt(new(big.Int).SetBytes(msg), 8*len(msg))
	return bits
}

// DecodeBytes reassembles the integer and splits it into ceil(len(bits)/8)
// base-256 digits, most significant byte first.
func DecodeBytes(bits Bits) ([]byte, error) {
	v, err := DecodeInt(bits)
	if err != nil {
		return nil, err
	}
	out := make([]byte, (len(bits)+7)/8)
	return v.FillBytes(out), nil
}
