package ibe

import (
	"errors"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
)

var (
	// ErrInvalidOrder is returned by Setup when the subgroup order is at most 2,
	// which leaves no scalar in [2, order-1] to draw from.
	ErrInvalidOrder = errors.New("invalid subgroup order")

	// ErrUnsupportedPairing is returned for a pairing kind other than weil or tate.
	ErrUnsupportedPairing = pairing.ErrUnsupportedPairing

	// ErrLengthMismatch is returned when the masked segment of a ciphertext does not
	// have the length the caller expects.
	ErrLengthMismatch = errors.New("ciphertext length mismatch")

	// ErrInvalidIdentity is returned for the zero Identity or a negative numeric identity.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrInvalidMasterSecret is returned when a restored master secret is outside [2, order-1].
	ErrInvalidMasterSecret = errors.New("invalid master secret")

	// ErrInvalidPoint is returned for nil, identity or out-of-subgroup points.
	ErrInvalidPoint = errors.New("invalid point")
)
