package merkle

import (
	"fmt"
	"testing"
)

func BenchmarkMerkleTreeBuild(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("Issuances_%d", size), func(b *testing.B) {
			records := createTestIssuances(size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = BuildMerkleTree(records)
			}
		})
	}
}

func BenchmarkMerkleProofGeneration(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		tree, _ := BuildMerkleTree(createTestIssuances(size))
		b.Run(fmt.Sprintf("Issuances_%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = tree.GenerateProof(i % size)
			}
		})
	}
}
