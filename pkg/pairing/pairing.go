// Package pairing defines the capability set an identity-based encryption scheme
// consumes from a curve/pairing backend. Concrete engines live in subpackages.
package pairing

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrUnsupportedPairing is returned for a pairing kind other than weil or tate
	ErrUnsupportedPairing = errors.New("unsupported pairing kind")
	// ErrUnsupportedDegree is returned when an engine cannot build the requested extension
	ErrUnsupportedDegree = errors.New("unsupported embedding degree")
	// ErrDegeneratePairing is returned when a Miller loop evaluates a line at one of its zeros
	ErrDegeneratePairing = errors.New("degenerate pairing evaluation")
	// ErrForeignPoint is returned when a point from another engine is passed in
	ErrForeignPoint = errors.New("point does not belong to this engine")
	// ErrNoMultiplicativeOrder is returned when value has no order modulo modulus within the search bound
	ErrNoMultiplicativeOrder = errors.New("no multiplicative order within bound")
)

// MaxEmbeddingDegree bounds the search performed by MultiplicativeOrder.
const MaxEmbeddingDegree = 64

// Kind selects the pairing algorithm.
type Kind string

const (
	KindWeil Kind = "weil"
	KindTate Kind = "tate"
)

func (k Kind) String() string {
	return string(k)
}

// ParseKind maps a user supplied name to a Kind. An empty name selects the Weil pairing.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case "", KindWeil:
		return KindWeil, nil
	case KindTate:
		return KindTate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPairing, name)
	}
}

// Point is an engine-owned curve point, either over the base field or over an extension.
type Point interface {
	IsInfinity() bool
	Equal(other Point) bool
	// Marshal returns the canonical encoding of the point
	Marshal() []byte
	String() string
}

// GTElement is a pairing value in the multiplicative group of the extension field.
type GTElement interface {
	Exp(k *big.Int) GTElement
	Equal(other GTElement) bool
	IsOne() bool
	// Marshal returns the canonical encoding of the element
	Marshal() []byte
	String() string
}

// Field describes an extension field F_{q^k} together with the curve lifted into it.
type Field interface {
	Size() *big.Int
	Degree() int
}

// Engine is the pairing backend consumed by the scheme. Engines must be safe for
// concurrent use once constructed.
type Engine interface {
	Name() string
	BaseFieldSize() *big.Int

	ScalarMul(k *big.Int, p Point) (Point, error)
	PointOrder(p Point) (*big.Int, error)
	MultiplicativeOrder(value, modulus *big.Int) (int, error)

	ExtensionField(degree int) (Field, error)
	Embed(p Point, target Field) (Point, error)

	WeilPairing(p, q Point, order *big.Int) (GTElement, error)
	TatePairing(p, q Point, order *big.Int, degree int, fieldSize *big.Int) (GTElement, error)

	UnmarshalPoint(data []byte) (Point, error)
}

// DistortionMap lifts a base field point into the extension curve and moves it out
// of the base field subgroup so that self pairings are non-degenerate.
type DistortionMap interface {
	Name() string
	Distort(p Point, target Field) (Point, error)
}

// DistortionFunc adapts a point automorphism on the extension curve into a DistortionMap.
// The point handed to Fn has already been embedded.
type DistortionFunc struct {
	Label  string
	Engine Engine
	Fn     func(Point) (Point, error)
}

func (d *DistortionFunc) Name() string {
	return d.Label
}

func (d *DistortionFunc) Distort(p Point, target Field) (Point, error) {
	lifted, err := d.Engine.Embed(p, target)
	if err != nil {
		return nil, err
	}
	return d.Fn(lifted)
}

// TrivialDistortion only embeds the point into the extension curve. Pairing two
// points of the same subgroup through it is degenerate unless the engine's
// pairing is already non-degenerate on that subgroup.
type TrivialDistortion struct {
	Engine Engine
}

func (t *TrivialDistortion) Name() string {
	return "trivial"
}

func (t *TrivialDistortion) Distort(p Point, target Field) (Point, error) {
	return t.Engine.Embed(p, target)
}

// Pair evaluates the selected pairing kind on two extension points.
func Pair(e Engine, kind Kind, p, q Point, order *big.Int, field Field) (GTElement, error) {
	switch kind {
	case KindWeil:
		return e.WeilPairing(p, q, order)
	case KindTate:
		return e.TatePairing(p, q, order, field.Degree(), field.Size())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPairing, kind)
	}
}

// MultiplicativeOrder returns the smallest k >= 1 with value^k = 1 (mod modulus),
// searching up to bound.
func MultiplicativeOrder(value, modulus *big.Int, bound int) (int, error) {
	if modulus == nil || modulus.Cmp(big.NewInt(1)) <= 0 {
		return 0, fmt.Errorf("modulus must be greater than 1")
	}
	v := new(big.Int).Mod(value, modulus)
	if new(big.Int).GCD(nil, nil, v, modulus).Cmp(big.NewInt(1)) != 0 {
		return 0, fmt.Errorf("%w: %s is not invertible modulo %s", ErrNoMultiplicativeOrder, value, modulus)
	}

	acc := new(big.Int).Set(v)
	for k := 1; k <= bound; k++ {
		if acc.Cmp(big.NewInt(1)) == 0 {
			return k, nil
		}
		acc.Mul(acc, v).Mod(acc, modulus)
	}
	return 0, fmt.Errorf("%w: %d", ErrNoMultiplicativeOrder, bound)
}
