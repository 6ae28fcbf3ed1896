package distribution

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inkdrop-labs/merkledrop-go/pkg/merkle"
	"github.com/inkdrop-labs/merkledrop-go/pkg/types"
)

// ErrSupplyOverflow is returned when the sum of all allocation amounts does
// not fit in an unsigned 256-bit integer.
var ErrSupplyOverflow = errors.New("total supply does not fit in 256 bits")

// Pipeline turns a validated allocation list into a distribution artifact:
// leaf hashes, merkle tree, one proof per recipient, and the total supply
// the funding transaction must match.
type Pipeline struct {
	logger  *zap.Logger
	workers int
}

// NewPipeline creates a pipeline. Proof generation for the entries fans out
// over up to workers goroutines; workers < 1 means sequential.
func NewPipeline(logger *zap.Logger, workers int) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		logger:  logger,
		workers: workers,
	}
}

// Generate builds the distribution artifact for the given allocations.
// Allocation order is preserved end to end: entry i gets leaf index i, and
// that index is the identity the on-chain verifier checks the proof against.
//
// The run is deterministic: identical allocations in identical order always
// produce an identical artifact.
func (p *Pipeline) Generate(allocations []*types.Allocation) (*types.DistributionArtifact, error) {
	if len(allocations) == 0 {
		return nil, ErrEmptyDistribution
	}

	// Hash all leaves and accumulate the total supply
	leaves := make([][32]byte, len(allocations))
	totalSupply := new(big.Int)
	for i, alloc := range allocations {
		leaf, err := merkle.HashLeaf(alloc.Recipient, alloc.Amount)
		if err != nil {
			return nil, fmt.Errorf("leaf %d (%s): %w", i, alloc.Recipient.Hex(), err)
		}
		leaves[i] = leaf
		totalSupply.Add(totalSupply, alloc.Amount)
	}
	if totalSupply.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %s", ErrSupplyOverflow, totalSupply.String())
	}

	tree, err := merkle.BuildMerkleTree(leaves)
	if err != nil {
		return nil, err
	}

	p.logger.Info("built distribution tree",
		zap.Int("leaves", len(leaves)),
		zap.String("root", common.Hash(tree.Root).Hex()),
		zap.String("totalSupply", totalSupply.String()))

	// Generate proofs in parallel. Each goroutine writes only proofs[i] for
	// its own index, so the output order always equals the leaf order no
	// matter how the goroutines are scheduled.
	proofs := make([]*merkle.MerkleProof, len(allocations))
	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i := range allocations {
		i := i
		g.Go(func() error {
			proof, err := tree.GenerateProof(i)
			if err != nil {
				return err
			}
			// Every proof must verify before the artifact leaves the
			// pipeline; a proof that fails here would fail on-chain too
			if !proof.Verify(tree.Root) {
				return fmt.Errorf("proof for leaf %d does not verify against root", i)
			}
			proofs[i] = proof
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifactLeaves := make([]types.ArtifactLeaf, len(allocations))
	for i, alloc := range allocations {
		proofHashes := make([]common.Hash, len(proofs[i].Proof))
		for j, sibling := range proofs[i].Proof {
			proofHashes[j] = common.Hash(sibling)
		}
		artifactLeaves[i] = types.ArtifactLeaf{
			Recipient: alloc.Recipient,
			Value:     alloc.Amount.String(),
			Index:     i,
			Proof:     proofHashes,
		}
	}

	return &types.DistributionArtifact{
		Root:        common.Hash(tree.Root),
		TotalSupply: totalSupply.String(),
		Leaves:      artifactLeaves,
	}, nil
}
