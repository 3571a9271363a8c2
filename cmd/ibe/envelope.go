package main

import (
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/codec"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/ibe"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// envelope is the on-disk form of a ciphertext. V keeps its exact bit length so
// bit-mode messages survive the round trip. Textual identities are hex so bytes
// that are not UTF-8 come back unchanged.
type envelope struct {
	Curve    string `json:"curve"`
	Identity string `json:"identity"`
	Kind     string `json:"kind"`
	U        string `json:"u"`
	V        string `json:"v"`
	Text     bool   `json:"text"`
}

func encodeEnvelope(curve string, id ibe.Identity, ct *ibe.Ciphertext, text bool) ([]byte, error) {
	identity := id.String()
	if id.Kind() == ibe.IdentityTextual {
		identity = hexutil.Encode(id.Bytes())
	}
	return json.MarshalIndent(envelope{
		Curve:    curve,
		Identity: identity,
		Kind:     id.Kind().String(),
		U:        hexutil.Encode(ct.U.Marshal()),
		V:        ct.V.String(),
		Text:     text,
	}, "", "  ")
}

func decodeEnvelope(data []byte, params *ibe.Params) (*envelope, *ibe.Ciphertext, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("failed to parse ciphertext: %w", err)
	}
	raw, err := hexutil.Decode(env.U)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode U: %w", err)
	}
	u, err := params.ParsePoint(raw)
	if err != nil {
		return nil, nil, err
	}
	v, err := codec.ParseBits(env.V)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode V: %w", err)
	}
	return &env, &ibe.Ciphertext{U: u, V: v}, nil
}

// identity rebuilds the identity with the kind it was encrypted under.
func (e *envelope) identity() (ibe.Identity, error) {
	if e.Kind != ibe.IdentityTextual.String() {
		return ibe.ParseIdentityAs(e.Identity, e.Kind)
	}
	raw, err := hexutil.Decode(e.Identity)
	if err != nil {
		return ibe.Identity{}, fmt.Errorf("failed to decode textual identity: %w", err)
	}
	return ibe.TextualIdentity(raw), nil
}
