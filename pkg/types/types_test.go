package types

import (
	"encoding/json"
	"math/big"
	"regexp"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestArtifactWireFormat(t *testing.T) {
	artifact := &DistributionArtifact{
		Root:        common.HexToHash("0xcd6753083ce90bc1358101b44eaf9ca8a9ce98fafdf345de4dd1b8648ed60691"),
		TotalSupply: "600000000",
		Leaves: []ArtifactLeaf{
			{
				Recipient: common.HexToAddress("0x1111111111111111111111111111111111111111"),
				Value:     "100000000",
				Index:     0,
				Proof: []common.Hash{
					common.HexToHash("0xc7ca23f68efd486d2bcd36003efa47860c08844119103bb3235e7f68f0810326"),
				},
			},
		},
	}

	data, err := json.Marshal(artifact)
	require.NoError(t, err)

	// Decode generically to check the wire shapes the consumers rely on
	var wire struct {
		Root        string `json:"root"`
		TotalSupply string `json:"totalSupply"`
		Leaves      []struct {
			Recipient string   `json:"recipient"`
			Value     string   `json:"value"`
			Index     int      `json:"index"`
			Proof     []string `json:"proof"`
		} `json:"leaves"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))

	hash32 := regexp.MustCompile(`^0x[0-9a-f]{64}$`)
	addr20 := regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	decimal := regexp.MustCompile(`^[0-9]+$`)

	require.Regexp(t, hash32, wire.Root)
	require.Regexp(t, decimal, wire.TotalSupply)
	require.Len(t, wire.Leaves, 1)
	require.Regexp(t, addr20, wire.Leaves[0].Recipient)
	require.Regexp(t, decimal, wire.Leaves[0].Value)
	require.Equal(t, 0, wire.Leaves[0].Index)
	require.Len(t, wire.Leaves[0].Proof, 1)
	require.Regexp(t, hash32, wire.Leaves[0].Proof[0])

	// And the round trip back into typed form is lossless
	var decoded DistributionArtifact
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, *artifact, decoded)
}

func TestArtifactLeafAmount(t *testing.T) {
	t.Run("Valid decimal", func(t *testing.T) {
		leaf := &ArtifactLeaf{Value: "340282366920938463463374607431768211456"} // 2^128
		amount, ok := leaf.Amount()
		require.True(t, ok)
		require.Equal(t, new(big.Int).Lsh(big.NewInt(1), 128), amount)
	})

	t.Run("Non-numeric rejected", func(t *testing.T) {
		leaf := &ArtifactLeaf{Value: "12x4"}
		_, ok := leaf.Amount()
		require.False(t, ok)
	})

	t.Run("Negative rejected", func(t *testing.T) {
		leaf := &ArtifactLeaf{Value: "-1"}
		_, ok := leaf.Amount()
		require.False(t, ok)
	})

	t.Run("Hex rejected", func(t *testing.T) {
		leaf := &ArtifactLeaf{Value: "0x64"}
		_, ok := leaf.Amount()
		require.False(t, ok)
	})
}
