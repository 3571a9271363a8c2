package persistence

import (
	"errors"
	"sort"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("persistence layer is closed")

// AuthorityState is everything needed to restore a key authority after a restart.
type AuthorityState struct {
	// Curve is the named parameter set the secret was drawn for
	Curve string `json:"curve"`

	// Pairing is the pairing kind, "weil" or "tate"
	Pairing string `json:"pairing"`

	// SealedMasterSecret is the master secret as returned by the configured sealer.
	// The plaintext secret is never persisted.
	SealedMasterSecret []byte `json:"sealedMasterSecret"`

	// Sealer names the sealer that produced SealedMasterSecret
	Sealer string `json:"sealer"`

	// MasterPublicKey is the encoded P_pub, used to verify a restored secret
	MasterPublicKey []byte `json:"masterPublicKey"`

	// CreatedAt is the Unix timestamp of Setup
	CreatedAt int64 `json:"createdAt"`
}

// IssuanceRecord is one entry of the private key issuance log.
type IssuanceRecord struct {
	// ID is a random UUID
	ID string `json:"id"`

	// Identity is the identity string the key was issued for
	Identity string `json:"identity"`

	// Kind is "numeric" or "textual"
	Kind string `json:"kind"`

	// IssuedAt is a Unix timestamp in nanoseconds
	IssuedAt int64 `json:"issuedAt"`
}

// SortIssuances orders records by IssuedAt, then ID, in place.
func SortIssuances(records []*IssuanceRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].IssuedAt != records[j].IssuedAt {
			return records[i].IssuedAt < records[j].IssuedAt
		}
		return records[i].ID < records[j].ID
	})
}

// CopyAuthorityState returns a deep copy of s.
func CopyAuthorityState(s *AuthorityState) *AuthorityState {
	if s == nil {
		return nil
	}
	c := *s
	c.SealedMasterSecret = append([]byte(nil), s.SealedMasterSecret...)
	c.MasterPublicKey = append([]byte(nil), s.MasterPublicKey...)
	return &c
}

// CopyIssuanceRecord returns a copy of r.
func CopyIssuanceRecord(r *IssuanceRecord) *IssuanceRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
