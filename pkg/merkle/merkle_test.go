package merkle

import (
	"fmt"
	"testing"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// createTestIssuances creates n issuances with increasing timestamps
func createTestIssuances(n int) []*persistence.IssuanceRecord {
	records := make([]*persistence.IssuanceRecord, n)
	for i := 0; i < n; i++ {
		records[i] = &persistence.IssuanceRecord{
			ID:       uuid.NewString(),
			Identity: fmt.Sprintf("user-%d@example.com", i),
			Kind:     "textual",
			IssuedAt: int64(1000 + i),
		}
	}
	return records
}

func TestBuildMerkleTree(t *testing.T) {
	testCases := []struct {
		name       string
		numRecords int
	}{
		{"Single issuance", 1},
		{"Two issuances", 2},
		{"Three issuances", 3},
		{"Seven issuances", 7},
		{"Eight issuances (power of 2)", 8},
		{"Seventeen issuances", 17},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := createTestIssuances(tc.numRecords)
			tree, err := BuildMerkleTree(records)
			require.NoError(t, err)
			require.Equal(t, tc.numRecords, len(tree.Leaves))
			require.NotEqual(t, [32]byte{}, tree.Root)

			for i := 0; i < tc.numRecords; i++ {
				proof, err := tree.GenerateProof(i)
				require.NoError(t, err)
				require.Equal(t, i, proof.LeafIndex)
				require.Equal(t, tree.Leaves[i], proof.Leaf)
				require.True(t, VerifyProof(proof, tree.Root), "proof for leaf %d should be valid", i)
			}
		})
	}
}

func TestBuildMerkleTreeEmpty(t *testing.T) {
	tree, err := BuildMerkleTree(nil)
	require.Error(t, err)
	require.Nil(t, tree)
	require.Contains(t, err.Error(), "empty")
}

func TestBuildMerkleTreeOrderIndependent(t *testing.T) {
	records := createTestIssuances(5)
	reversed := make([]*persistence.IssuanceRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	a, err := BuildMerkleTree(records)
	require.NoError(t, err)
	b, err := BuildMerkleTree(reversed)
	require.NoError(t, err)
	require.Equal(t, a.Root, b.Root)
	require.Equal(t, records[4].ID, reversed[0].ID, "input must not be reordered")
}

func TestMerkleProofVerification(t *testing.T) {
	records := createTestIssuances(4)
	tree, err := BuildMerkleTree(records)
	require.NoError(t, err)

	t.Run("Valid proof", func(t *testing.T) {
		proof, err := tree.ProofFor(records[2])
		require.NoError(t, err)
		require.True(t, VerifyProof(proof, tree.Root))
	})

	t.Run("Invalid proof - wrong root", func(t *testing.T) {
		proof, err := tree.GenerateProof(0)
		require.NoError(t, err)
		require.False(t, VerifyProof(proof, [32]byte{1, 2, 3}))
	})

	t.Run("Invalid proof - tampered leaf", func(t *testing.T) {
		proof, err := tree.GenerateProof(0)
		require.NoError(t, err)
		proof.Leaf[0] ^= 0xFF
		require.False(t, VerifyProof(proof, tree.Root))
	})

	t.Run("Invalid proof - tampered sibling", func(t *testing.T) {
		proof, err := tree.GenerateProof(1)
		require.NoError(t, err)
		require.NotEmpty(t, proof.Proof)
		proof.Proof[0][0] ^= 0xFF
		require.False(t, VerifyProof(proof, tree.Root))
	})

	t.Run("Invalid proof - nil proof", func(t *testing.T) {
		require.False(t, VerifyProof(nil, tree.Root))
	})

	t.Run("Unknown issuance", func(t *testing.T) {
		_, err := tree.ProofFor(&persistence.IssuanceRecord{ID: "missing"})
		require.Error(t, err)
	})
}

func TestGenerateProofInvalidIndex(t *testing.T) {
	tree, err := BuildMerkleTree(createTestIssuances(4))
	require.NoError(t, err)

	_, err = tree.GenerateProof(-1)
	require.Error(t, err)
	_, err = tree.GenerateProof(10)
	require.Error(t, err)
}

func TestHashIssuance(t *testing.T) {
	r := &persistence.IssuanceRecord{ID: "a", Identity: "bc", Kind: "textual", IssuedAt: 1}
	require.Equal(t, HashIssuance(r), HashIssuance(r))

	// length prefixes keep field boundaries unambiguous
	shifted := &persistence.IssuanceRecord{ID: "ab", Identity: "c", Kind: "textual", IssuedAt: 1}
	require.NotEqual(t, HashIssuance(r), HashIssuance(shifted))
}
