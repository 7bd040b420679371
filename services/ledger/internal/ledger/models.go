package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every amount is normalized to.
const Scale int32 = 4

type ClientID uint16

type TxID uint32

type TransactionType int

const (
	Deposit TransactionType = iota + 1
	Withdrawal
	Dispute
	Resolve
	Chargeback
)

func (t TransactionType) String() string {
	switch t {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Dispute:
		return "dispute"
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseTransactionType maps the wire name of a transaction type to its value.
func ParseTransactionType(value string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "deposit":
		return Deposit, nil
	case "withdrawal":
		return Withdrawal, nil
	case "dispute":
		return Dispute, nil
	case "resolve":
		return Resolve, nil
	case "chargeback":
		return Chargeback, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTransactionType, value)
	}
}

// Transaction is one input record. Amount is set for deposits and withdrawals
// only; disputes, resolves and chargebacks reference a prior deposit by ID.
type Transaction struct {
	Type   TransactionType
	Client ClientID
	ID     TxID
	Amount decimal.NullDecimal
}

// Account holds the balances of a single client. The total is derived from
// available and held and never stored.
type Account struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// NormalizeAmount rounds an amount to Scale fractional digits.
func NormalizeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Scale)
}

// NewAmount is a convenience for building a present, normalized amount.
func NewAmount(amount decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(NormalizeAmount(amount))
}
