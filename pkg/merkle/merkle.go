package merkle

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrEmptyLeaves is returned when a tree is requested for zero leaves.
	ErrEmptyLeaves = errors.New("cannot build merkle tree from empty leaf list")

	// ErrAmountOverflow is returned when an allocation amount does not fit
	// in an unsigned 256-bit integer.
	ErrAmountOverflow = errors.New("amount does not fit in 256 bits")
)

// HashLeaf creates the keccak256 leaf hash for one allocation.
// The hash format matches the deployed airdrop contract:
// keccak256(recipient (20 bytes) || amount (32 bytes, big-endian)).
// No length prefixes and no domain tag; the contract hashes the raw
// concatenation, so any change here breaks every claim.
func HashLeaf(recipient common.Address, amount *big.Int) ([32]byte, error) {
	if amount == nil || amount.Sign() < 0 {
		return [32]byte{}, fmt.Errorf("amount must be a non-negative integer, got %v", amount)
	}
	if amount.BitLen() > 256 {
		return [32]byte{}, fmt.Errorf("%w: %s", ErrAmountOverflow, amount.String())
	}

	// Pack recipient (20 bytes) || amount (32 bytes big-endian)
	data := make([]byte, 0, 20+32)
	data = append(data, recipient.Bytes()...)
	data = append(data, common.BigToHash(amount).Bytes()...)

	hash := crypto.Keccak256Hash(data)
	return [32]byte(hash), nil
}

// BuildMerkleTree creates a binary merkle tree from leaf hashes, kept in
// the order given. The leaf order defines each recipient's index, which is
// part of their claim; callers must never reorder leaves between runs.
//
// The tree uses keccak256 hashing for on-chain compatibility.
// If there's an odd number of nodes at any level, the last node is duplicated.
func BuildMerkleTree(leaves [][32]byte) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeaves
	}

	// Copy the bottom level so the tree owns its leaves outright
	bottom := make([][32]byte, len(leaves))
	copy(bottom, leaves)

	// Build tree levels bottom-up
	levels := make([][][32]byte, 0)
	levels = append(levels, bottom)

	currentLevel := bottom
	for len(currentLevel) > 1 {
		nextLevel := make([][32]byte, 0, (len(currentLevel)+1)/2)

		for i := 0; i < len(currentLevel); i += 2 {
			var left, right [32]byte
			left = currentLevel[i]

			// If odd number of nodes, duplicate the last one
			if i+1 < len(currentLevel) {
				right = currentLevel[i+1]
			} else {
				right = currentLevel[i]
			}

			// Hash the pair: keccak256(left || right)
			parent := hashPair(left, right)
			nextLevel = append(nextLevel, parent)
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	// The last level should contain only the root
	if len(currentLevel) != 1 {
		return nil, fmt.Errorf("merkle tree construction failed: final level has %d nodes instead of 1", len(currentLevel))
	}

	root := currentLevel[0]

	return &MerkleTree{
		Leaves: bottom,
		Root:   root,
		levels: levels,
	}, nil
}

// GenerateProof creates a merkle proof for the leaf at the given index.
// The proof consists of sibling hashes along the path from leaf to root.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*MerkleProof, error) {
	if leafIndex < 0 || leafIndex >= len(mt.Leaves) {
		return nil, fmt.Errorf("leaf index %d out of bounds (tree has %d leaves)", leafIndex, len(mt.Leaves))
	}

	proof := make([][32]byte, 0, len(mt.levels)-1)
	index := leafIndex

	// Traverse from leaf to root, collecting sibling hashes
	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		// Sibling of 2i is 2i+1 and vice versa
		siblingIndex := index ^ 1

		// Last node of an odd-length level pairs with itself; the proof
		// must carry the node's own hash to match the builder
		if siblingIndex >= len(currentLevel) {
			siblingIndex = index
		}

		proof = append(proof, currentLevel[siblingIndex])

		// Move to parent index in next level
		index = index / 2
	}

	return &MerkleProof{
		LeafIndex: leafIndex,
		Leaf:      mt.Leaves[leafIndex],
		Proof:     proof,
	}, nil
}

// VerifyProof verifies that a leaf is included in a merkle tree with the
// given root. It needs only the leaf hash, the sibling path and the leaf
// index, so it mirrors exactly what the on-chain verifier recomputes.
func VerifyProof(leaf [32]byte, proof [][32]byte, index int, root [32]byte) bool {
	if index < 0 {
		return false
	}

	currentHash := leaf

	// Traverse up the tree using the proof
	for _, siblingHash := range proof {
		if index%2 == 0 {
			// Current node is on the left, sibling is on the right
			currentHash = hashPair(currentHash, siblingHash)
		} else {
			// Current node is on the right, sibling is on the left
			currentHash = hashPair(siblingHash, currentHash)
		}

		// Move to parent index
		index = index / 2
	}

	return currentHash == root
}

// hashPair computes keccak256(left || right) for two 32-byte hashes.
// The same two-argument hash is used at every level of the tree; there is
// no leaf-vs-internal marker, matching the deployed contract.
func hashPair(left, right [32]byte) [32]byte {
	data := make([]byte, 64)
	copy(data[0:32], left[:])
	copy(data[32:64], right[:])

	hash := crypto.Keccak256Hash(data)
	return [32]byte(hash)
}
