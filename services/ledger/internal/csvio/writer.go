package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/AfshinJalili/txledger/services/ledger/internal/ledger"
)

var accountHeader = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts serializes account snapshots, one row per account, computing
// the total at write time. Amounts are written with ledger.Scale digits.
func WriteAccounts(w io.Writer, accounts []ledger.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(accountHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(accountHeader))
	for _, account := range accounts {
		row[0] = strconv.FormatUint(uint64(account.Client), 10)
		row[1] = account.Available.StringFixed(ledger.Scale)
		row[2] = account.Held.StringFixed(ledger.Scale)
		row[3] = account.Total().StringFixed(ledger.Scale)
		row[4] = strconv.FormatBool(account.Locked)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write account %d: %w", account.Client, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush accounts: %w", err)
	}
	return nil
}
