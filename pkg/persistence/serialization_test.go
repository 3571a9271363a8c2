package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalAuthorityState_RoundTrip(t *testing.T) {
	original := &AuthorityState{
		Curve:              "ss65",
		Pairing:            "tate",
		SealedMasterSecret: []byte{0xde, 0xad, 0xbe, 0xef},
		Sealer:             "plaintext",
		MasterPublicKey:    []byte{0x01, 0x02, 0x03},
		CreatedAt:          1700000000,
	}

	data, err := MarshalAuthorityState(original)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	restored, err := UnmarshalAuthorityState(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestMarshalAuthorityState_NilInput(t *testing.T) {
	_, err := MarshalAuthorityState(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil AuthorityState")
}

func TestUnmarshalAuthorityState_InvalidJSON(t *testing.T) {
	_, err := UnmarshalAuthorityState([]byte(`{"createdAt": "yesterday"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")

	_, err = UnmarshalAuthorityState(nil)
	require.Error(t, err)
}

func TestMarshalUnmarshalIssuanceRecord_RoundTrip(t *testing.T) {
	original := &IssuanceRecord{
		ID:       "6f1c1a5e-8a34-4b7e-9a55-1f0b5c1f2d10",
		Identity: "alice@example.com",
		Kind:     "textual",
		IssuedAt: 1700000000123456789,
	}

	data, err := MarshalIssuanceRecord(original)
	require.NoError(t, err)

	restored, err := UnmarshalIssuanceRecord(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestSortIssuances(t *testing.T) {
	records := []*IssuanceRecord{
		{ID: "c", IssuedAt: 2},
		{ID: "b", IssuedAt: 1},
		{ID: "a", IssuedAt: 2},
	}
	SortIssuances(records)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "c", records[2].ID)
}

func TestCopyAuthorityState_Independent(t *testing.T) {
	original := &AuthorityState{SealedMasterSecret: []byte{1, 2}}
	c := CopyAuthorityState(original)
	c.SealedMasterSecret[0] = 9
	assert.Equal(t, byte(1), original.SealedMasterSecret[0])
	assert.Nil(t, CopyAuthorityState(nil))
}
