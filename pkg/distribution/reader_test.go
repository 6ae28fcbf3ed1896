package distribution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/inkdrop-labs/merkledrop-go/pkg/merkle"
)

func writeTempList(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "distribution.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadAllocations(t *testing.T) {
	t.Run("Valid list preserves order", func(t *testing.T) {
		path := writeTempList(t, "address,amount\n"+
			"0x1111111111111111111111111111111111111111,100000000\n"+
			"0x2222222222222222222222222222222222222222,500000000\n")

		allocs, err := ReadAllocations(path)
		require.NoError(t, err)
		require.Len(t, allocs, 2)
		require.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), allocs[0].Recipient)
		require.Equal(t, "100000000", allocs[0].Amount.String())
		require.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222"), allocs[1].Recipient)
		require.Equal(t, "500000000", allocs[1].Amount.String())
	})

	t.Run("0x prefix is optional", func(t *testing.T) {
		path := writeTempList(t, "address,amount\n"+
			"1111111111111111111111111111111111111111,42\n")

		allocs, err := ReadAllocations(path)
		require.NoError(t, err)
		require.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), allocs[0].Recipient)
	})

	t.Run("Amounts beyond 64 bits parse", func(t *testing.T) {
		// 2^128
		path := writeTempList(t, "address,amount\n"+
			"0x1111111111111111111111111111111111111111,340282366920938463463374607431768211456\n")

		allocs, err := ReadAllocations(path)
		require.NoError(t, err)
		require.Equal(t, 129, allocs[0].Amount.BitLen())
	})

	t.Run("Non-numeric amount aborts with row index", func(t *testing.T) {
		path := writeTempList(t, "address,amount\n"+
			"0x1111111111111111111111111111111111111111,100\n"+
			"0x2222222222222222222222222222222222222222,not-a-number\n")

		_, err := ReadAllocations(path)
		require.Error(t, err)

		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		require.Equal(t, 2, rowErr.Row)
		require.Contains(t, err.Error(), "row 2")
	})

	t.Run("Negative amount rejected", func(t *testing.T) {
		path := writeTempList(t, "address,amount\n"+
			"0x1111111111111111111111111111111111111111,-5\n")

		_, err := ReadAllocations(path)
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		require.Equal(t, 1, rowErr.Row)
	})

	t.Run("257-bit amount rejected", func(t *testing.T) {
		// 2^256
		path := writeTempList(t, "address,amount\n"+
			"0x1111111111111111111111111111111111111111,115792089237316195423570985008687907853269984665640564039457584007913129639936\n")

		_, err := ReadAllocations(path)
		require.ErrorIs(t, err, merkle.ErrAmountOverflow)

		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		require.Equal(t, 1, rowErr.Row)
	})

	t.Run("Malformed address rejected", func(t *testing.T) {
		path := writeTempList(t, "address,amount\n"+
			"0x1234,100\n")

		_, err := ReadAllocations(path)
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		require.Equal(t, 1, rowErr.Row)
		require.Contains(t, err.Error(), "invalid address")
	})

	t.Run("Wrong column count rejected", func(t *testing.T) {
		path := writeTempList(t, "address,amount\n"+
			"0x1111111111111111111111111111111111111111,100,extra\n")

		_, err := ReadAllocations(path)
		require.Error(t, err)
	})

	t.Run("Unexpected header rejected", func(t *testing.T) {
		path := writeTempList(t, "recipient,value\n"+
			"0x1111111111111111111111111111111111111111,100\n")

		_, err := ReadAllocations(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "address,amount")
	})

	t.Run("Header only is empty distribution", func(t *testing.T) {
		path := writeTempList(t, "address,amount\n")

		_, err := ReadAllocations(path)
		require.ErrorIs(t, err, ErrEmptyDistribution)
	})

	t.Run("Empty file is empty distribution", func(t *testing.T) {
		path := writeTempList(t, "")

		_, err := ReadAllocations(path)
		require.ErrorIs(t, err, ErrEmptyDistribution)
	})

	t.Run("Missing file reports path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope.csv")

		_, err := ReadAllocations(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), path)
	})
}
