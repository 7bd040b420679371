package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount         = errors.New("transaction amount must not be negative")
	ErrMissingAmount          = errors.New("transaction amount is missing for deposit/withdrawal")
	ErrUnattendedForAmount    = errors.New("transaction amount not allowed for dispute/resolve/chargeback")
	ErrDuplicateTransaction   = errors.New("duplicate transaction")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrWrongDispute           = errors.New("only deposits can be disputed, resolved or charged back")
	ErrDisputeMismatch        = errors.New("referenced transaction belongs to a different client")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrAccountLocked          = errors.New("account locked")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// Error carries the details of a rejection that references a transaction or
// an amount. Kind is one of the sentinel errors above, so errors.Is works.
type Error struct {
	Kind      error
	TxID      TxID
	Asked     decimal.Decimal
	Available decimal.Decimal
}

func (e *Error) Error() string {
	if e == nil || e.Kind == nil {
		return ""
	}
	switch e.Kind {
	case ErrDuplicateTransaction:
		return fmt.Sprintf("duplicate transaction #%d", e.TxID)
	case ErrTransactionNotFound:
		return fmt.Sprintf("transaction #%d not found", e.TxID)
	case ErrInsufficientFunds:
		return fmt.Sprintf("insufficient funds (asked %s while %s available)", e.Asked.String(), e.Available.String())
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

func duplicateTransaction(id TxID) error {
	return &Error{Kind: ErrDuplicateTransaction, TxID: id}
}

func transactionNotFound(id TxID) error {
	return &Error{Kind: ErrTransactionNotFound, TxID: id}
}

func insufficientFunds(asked, available decimal.Decimal) error {
	return &Error{Kind: ErrInsufficientFunds, Asked: asked, Available: available}
}

// Reason returns a short, stable label for a rejection, suitable for metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, ErrMissingAmount):
		return "missing_amount"
	case errors.Is(err, ErrUnattendedForAmount):
		return "unattended_amount"
	case errors.Is(err, ErrDuplicateTransaction):
		return "duplicate_transaction"
	case errors.Is(err, ErrTransactionNotFound):
		return "transaction_not_found"
	case errors.Is(err, ErrWrongDispute):
		return "wrong_dispute"
	case errors.Is(err, ErrDisputeMismatch):
		return "dispute_mismatch"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, ErrUnknownTransactionType):
		return "unknown_type"
	default:
		return "other"
	}
}
