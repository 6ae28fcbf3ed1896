package distribution

import (
	"encoding/csv"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/inkdrop-labs/merkledrop-go/pkg/merkle"
	"github.com/inkdrop-labs/merkledrop-go/pkg/types"
)

// ErrEmptyDistribution is returned when the input list has no data rows.
var ErrEmptyDistribution = errors.New("distribution list contains no entries")

// RowError reports a malformed input row. Any single malformed row aborts
// the whole run; a partial distribution list would silently change who is
// entitled to what.
type RowError struct {
	// Row is the 1-based data row index (the header is not counted)
	Row int
	// Err describes what is wrong with the row
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadAllocations parses a distribution list from a CSV file with header
// "address,amount". Addresses accept an optional 0x prefix and must decode
// to exactly 20 bytes; amounts are arbitrary-precision non-negative decimal
// integers. Row order is preserved: a row's position determines the
// recipient's leaf index.
func ReadAllocations(path string) ([]*types.Allocation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open distribution list %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read distribution list %s", path)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDistribution
	}

	header := records[0]
	if !strings.EqualFold(strings.TrimSpace(header[0]), "address") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "amount") {
		return nil, fmt.Errorf("distribution list %s: expected header \"address,amount\", got %q",
			path, strings.Join(header, ","))
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, ErrEmptyDistribution
	}

	allocations := make([]*types.Allocation, 0, len(rows))
	for i, row := range rows {
		alloc, err := parseAllocationRow(row)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		allocations = append(allocations, alloc)
	}

	return allocations, nil
}

// parseAllocationRow validates and converts one address,amount row.
func parseAllocationRow(row []string) (*types.Allocation, error) {
	rawAddr := strings.TrimSpace(row[0])
	if !common.IsHexAddress(rawAddr) {
		return nil, fmt.Errorf("invalid address %q: want 20 bytes of hex with optional 0x prefix", rawAddr)
	}
	recipient := common.HexToAddress(rawAddr)

	rawAmount := strings.TrimSpace(row[1])
	amount, ok := new(big.Int).SetString(rawAmount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q: not a decimal integer", rawAmount)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q: must be non-negative", rawAmount)
	}
	if amount.BitLen() > 256 {
		return nil, fmt.Errorf("%w: amount %s", merkle.ErrAmountOverflow, rawAmount)
	}

	return &types.Allocation{
		Recipient: recipient,
		Amount:    amount,
	}, nil
}
