package merkle

import merkletree "github.com/wealdtech/go-merkletree/v2"

// MerkleTree commits to the private key issuance log. Leaves are issuance
// hashes in log order; branches use keccak256.
type MerkleTree struct {
	// Leaves contains the issuance hashes in log order
	Leaves [][32]byte

	// Root is the merkle root
	Root [32]byte

	tree *merkletree.MerkleTree
}

// MerkleProof shows that one issuance is part of a committed log.
type MerkleProof struct {
	// LeafIndex is the position of the issuance in the log
	LeafIndex int

	// Leaf is the hash of the issuance being proven
	Leaf [32]byte

	// Proof contains the sibling hashes from leaf to root
	Proof [][32]byte
}
