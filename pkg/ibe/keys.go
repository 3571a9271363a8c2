package ibe

import (
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/codec"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
)

// PublicKey is (Q_ID, P_pub). Derivable by anyone from the Params.
type PublicKey struct {
	QID  pairing.Point
	PPub pairing.Point
}

// PrivateKey is d_ID = t * Q_ID, issued by the Authority.
type PrivateKey struct {
	DID pairing.Point
}

// Ciphertext is (U, V) with U = r*P and V the masked message bits.
type Ciphertext struct {
	U pairing.Point
	V codec.Bits
}
