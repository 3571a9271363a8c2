// Package merkle builds a keccak256 merkle commitment over the issuance log so an
// authority can publish one root and later prove that a given key was, or was
// not, part of it.
package merkle

import (
	"encoding/binary"
	"fmt"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/crypto"
	merkletree "github.com/wealdtech/go-merkletree/v2"
	"github.com/wealdtech/go-merkletree/v2/keccak256"
)

// BuildMerkleTree commits to records in log order (IssuedAt, then ID). The input
// slice is not modified.
func BuildMerkleTree(records []*persistence.IssuanceRecord) (*MerkleTree, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot build merkle tree from empty issuance list")
	}

	sorted := make([]*persistence.IssuanceRecord, len(records))
	copy(sorted, records)
	persistence.SortIssuances(sorted)

	leaves := make([][32]byte, len(sorted))
	data := make([][]byte, len(sorted))
	for i, record := range sorted {
		leaves[i] = HashIssuance(record)
		data[i] = leaves[i][:]
	}

	tree, err := merkletree.NewTree(
		merkletree.WithData(data),
		merkletree.WithHashType(keccak256.New()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build merkle tree: %w", err)
	}

	var root [32]byte
	copy(root[:], tree.Root())

	return &MerkleTree{
		Leaves: leaves,
		Root:   root,
		tree:   tree,
	}, nil
}

// GenerateProof creates an inclusion proof for the leaf at leafIndex.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*MerkleProof, error) {
	if leafIndex < 0 || leafIndex >= len(mt.Leaves) {
		return nil, fmt.Errorf("leaf index %d out of bounds (tree has %d leaves)", leafIndex, len(mt.Leaves))
	}

	leaf := mt.Leaves[leafIndex]
	p, err := mt.tree.GenerateProof(leaf[:], 0)
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof for leaf %d: %w", leafIndex, err)
	}

	hashes := make([][32]byte, len(p.Hashes))
	for i, h := range p.Hashes {
		copy(hashes[i][:], h)
	}

	return &MerkleProof{
		LeafIndex: int(p.Index),
		Leaf:      leaf,
		Proof:     hashes,
	}, nil
}

// ProofFor finds the issuance with the given ID and proves its inclusion.
func (mt *MerkleTree) ProofFor(record *persistence.IssuanceRecord) (*MerkleProof, error) {
	target := HashIssuance(record)
	for i, leaf := range mt.Leaves {
		if leaf == target {
			return mt.GenerateProof(i)
		}
	}
	return nil, fmt.Errorf("issuance %s is not part of this tree", record.ID)
}

// VerifyProof recomputes the root from the proof and compares it with root.
func VerifyProof(proof *MerkleProof, root [32]byte) bool {
	if proof == nil {
		return false
	}

	hashes := make([][]byte, len(proof.Proof))
	for i := range proof.Proof {
		hashes[i] = proof.Proof[i][:]
	}

	ok, err := merkletree.VerifyProofUsing(
		proof.Leaf[:],
		false,
		&merkletree.Proof{Hashes: hashes, Index: uint64(proof.LeafIndex)},
		[][]byte{root[:]},
		keccak256.New(),
	)
	return err == nil && ok
}

// HashIssuance is keccak256 over the length-prefixed record fields:
// id || kind || identity || issuedAt (8 bytes, big-endian).
func HashIssuance(record *persistence.IssuanceRecord) [32]byte {
	data := make([]byte, 0, 64+len(record.Identity))
	data = appendField(data, []byte(record.ID))
	data = appendField(data, []byte(record.Kind))
	data = appendField(data, []byte(record.Identity))
	data = binary.BigEndian.AppendUint64(data, uint64(record.IssuedAt))

	return [32]byte(crypto.Keccak256Hash(data))
}

func appendField(dst, field []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(field)))
	return append(dst, field...)
}
