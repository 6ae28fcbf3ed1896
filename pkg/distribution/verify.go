package distribution

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/inkdrop-labs/merkledrop-go/pkg/merkle"
	"github.com/inkdrop-labs/merkledrop-go/pkg/types"
)

// VerifyArtifact re-derives the merkle tree from the artifact's
// recipient/value pairs and checks it against the stored root, total supply
// and proofs. It is the audit path: anyone holding the artifact can confirm
// the root commits to exactly the published entitlements, without trusting
// the machine that generated it.
func VerifyArtifact(artifact *types.DistributionArtifact) error {
	if artifact == nil || len(artifact.Leaves) == 0 {
		return ErrEmptyDistribution
	}

	leaves := make([][32]byte, len(artifact.Leaves))
	totalSupply := new(big.Int)
	for i, leaf := range artifact.Leaves {
		if leaf.Index != i {
			return fmt.Errorf("leaf %d: stored index %d does not match position", i, leaf.Index)
		}
		amount, ok := leaf.Amount()
		if !ok {
			return fmt.Errorf("leaf %d: invalid value %q", i, leaf.Value)
		}
		digest, err := merkle.HashLeaf(leaf.Recipient, amount)
		if err != nil {
			return fmt.Errorf("leaf %d (%s): %w", i, leaf.Recipient.Hex(), err)
		}
		leaves[i] = digest
		totalSupply.Add(totalSupply, amount)
	}

	if got := totalSupply.String(); got != artifact.TotalSupply {
		return fmt.Errorf("total supply mismatch: leaves sum to %s, artifact says %s", got, artifact.TotalSupply)
	}

	tree, err := merkle.BuildMerkleTree(leaves)
	if err != nil {
		return err
	}
	if common.Hash(tree.Root) != artifact.Root {
		return fmt.Errorf("root mismatch: re-derived %s, artifact says %s",
			common.Hash(tree.Root).Hex(), artifact.Root.Hex())
	}

	for i, leaf := range artifact.Leaves {
		proof := make([][32]byte, len(leaf.Proof))
		for j, sibling := range leaf.Proof {
			proof[j] = [32]byte(sibling)
		}
		if !merkle.VerifyProof(leaves[i], proof, leaf.Index, [32]byte(artifact.Root)) {
			return fmt.Errorf("leaf %d (%s): stored proof does not verify against root", i, leaf.Recipient.Hex())
		}
	}

	return nil
}
