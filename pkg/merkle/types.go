package merkle

// MerkleTree is a binary merkle tree over the allocation leaves of one
// distribution run. The tree uses keccak256 hashing for on-chain
// compatibility and is immutable once built.
type MerkleTree struct {
	// Leaves contains the leaf hashes in input order. A leaf's position
	// here is the index the on-chain verifier expects; it never changes
	// after construction.
	Leaves [][32]byte

	// Root is the merkle root hash
	Root [32]byte

	// levels stores all tree levels for proof generation
	// levels[0] = leaves, levels[len-1] = root
	levels [][][32]byte
}

// MerkleProof proves that a leaf is included in the tree.
// The proof consists of sibling hashes along the path from leaf to root.
type MerkleProof struct {
	// LeafIndex is the index of the leaf in the input-ordered leaves array
	LeafIndex int

	// Leaf is the hash of the leaf being proven
	Leaf [32]byte

	// Proof contains the sibling hashes from leaf to root
	// proof[0] is the sibling of the leaf, proof[len-1] is near the root
	Proof [][32]byte
}

// Verify checks the proof against the given root using only the leaf,
// the sibling path and the leaf index.
func (p *MerkleProof) Verify(root [32]byte) bool {
	if p == nil {
		return false
	}
	return VerifyProof(p.Leaf, p.Proof, p.LeafIndex, root)
}
