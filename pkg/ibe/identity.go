package ibe

import (
	"fmt"
	"math/big"
)

// IdentityKind tags the two identity encodings. The encodings are not
// interchangeable: Numeric(42) and Textual("42") hash to different points.
type IdentityKind int

const (
	IdentityNumeric IdentityKind = iota + 1
	IdentityTextual
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityNumeric:
		return "numeric"
	case IdentityTextual:
		return "textual"
	default:
		return "unknown"
	}
}

// Identity is either a non-negative integer or an arbitrary byte string.
type Identity struct {
	kind    IdentityKind
	numeric *big.Int
	textual []byte
}

// NumericIdentity creates an integer identity. v must be non-negative.
func NumericIdentity(v *big.Int) (Identity, error) {
	if v == nil || v.Sign() < 0 {
		return Identity{}, fmt.Errorf("%w: numeric identity must be non-negative", ErrInvalidIdentity)
	}
	return Identity{kind: IdentityNumeric, numeric: new(big.Int).Set(v)}, nil
}

// TextualIdentity creates a byte string identity.
func TextualIdentity(b []byte) Identity {
	return Identity{kind: IdentityTextual, textual: append([]byte{}, b...)}
}

// StringIdentity is TextualIdentity([]byte(s)).
func StringIdentity(s string) Identity {
	return TextualIdentity([]byte(s))
}

// ParseIdentity treats a string made only of decimal digits as a numeric identity
// and anything else as textual. This is the only place where the numeric to
// textual fallback happens.
func ParseIdentity(s string) Identity {
	if isDecimal(s) {
		v, ok := new(big.Int).SetString(s, 10)
		if ok {
			return Identity{kind: IdentityNumeric, numeric: v}
		}
	}
	return StringIdentity(s)
}

// ParseIdentityAs parses s as the named kind. An empty kind behaves like ParseIdentity.
// The empty string is only accepted when the textual kind is named explicitly.
func ParseIdentityAs(s, kind string) (Identity, error) {
	if s == "" && kind != IdentityTextual.String() {
		return Identity{}, fmt.Errorf("%w: identity is required", ErrInvalidIdentity)
	}
	switch kind {
	case "":
		return ParseIdentity(s), nil
	case IdentityTextual.String():
		return StringIdentity(s), nil
	case IdentityNumeric.String():
		id := ParseIdentity(s)
		if id.Kind() != IdentityNumeric {
			return Identity{}, fmt.Errorf("%w: %q is not a non-negative decimal integer", ErrInvalidIdentity, s)
		}
		return id, nil
	default:
		return Identity{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidIdentity, kind)
	}
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (id Identity) Kind() IdentityKind {
	return id.kind
}

func (id Identity) String() string {
	switch id.kind {
	case IdentityNumeric:
		return id.numeric.String()
	case IdentityTextual:
		return string(id.textual)
	default:
		return ""
	}
}

// Bytes returns a copy of a textual identity's raw bytes, nil for numeric ones.
func (id Identity) Bytes() []byte {
	if id.kind != IdentityTextual {
		return nil
	}
	return append([]byte{}, id.textual...)
}

// multiplier maps the identity into [0, modulus-1].
func (id Identity) multiplier(modulus *big.Int) (*big.Int, error) {
	switch id.kind {
	case IdentityNumeric:
		return new(big.Int).Mod(id.numeric, modulus), nil
	case IdentityTextual:
		// base-256 rolling hash, reduced after every byte
		mult := new(big.Int)
		radix := big.NewInt(256)
		for _, b := range id.textual {
			mult.Mul(mult, radix)
			mult.Add(mult, big.NewInt(int64(b)))
			mult.Mod(mult, modulus)
		}
		return mult, nil
	default:
		return nil, fmt.Errorf("%w: zero identity", ErrInvalidIdentity)
	}
}
