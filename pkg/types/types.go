package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Allocation is one (recipient, amount) entitlement from the input list.
// Amount is an unsigned 256-bit quantity carried as a big.Int; it is
// validated at ingestion and never mutated afterwards.
type Allocation struct {
	Recipient common.Address
	Amount    *big.Int
}

// ArtifactLeaf is one recipient's entry in the distribution artifact.
// Index is the leaf's position in the tree's bottom level and doubles as
// the recipient's identity for on-chain verification.
type ArtifactLeaf struct {
	Recipient common.Address `json:"recipient"`
	Value     string         `json:"value"` // decimal string, may exceed 64 bits
	Index     int            `json:"index"`
	Proof     []common.Hash  `json:"proof"`
}

// DistributionArtifact is the self-contained output of one pipeline run:
// the merkle root, the total supply the funding transaction must match,
// and every recipient's claim material. It is written once and consumed
// by wallets and the on-chain contract; it is never re-mutated.
type DistributionArtifact struct {
	Root        common.Hash    `json:"root"`
	TotalSupply string         `json:"totalSupply"` // decimal string, sum of all values
	Leaves      []ArtifactLeaf `json:"leaves"`
}

// Amount parses the leaf's decimal value back into a big.Int.
// Returns false if the stored string is not a non-negative decimal.
func (l *ArtifactLeaf) Amount() (*big.Int, bool) {
	v, ok := new(big.Int).SetString(l.Value, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}
