package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger applies transactions to client accounts. It owns the account states
// and the history of accepted deposits and withdrawals. Apply calls are
// serialized so the duplicate and funds checks always see current state.
type Ledger struct {
	mu       sync.Mutex
	accounts map[ClientID]*Account
	history  map[TxID]Transaction
}

func New() *Ledger {
	return &Ledger{
		accounts: make(map[ClientID]*Account),
		history:  make(map[TxID]Transaction),
	}
}

// Apply validates tx against the current state and, when valid, mutates the
// target account. A rejected transaction leaves balances and history as they were.
func (l *Ledger) Apply(tx Transaction) error {
	if tx.Amount.Valid && tx.Amount.Decimal.IsNegative() {
		return ErrNegativeAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	account := l.getAccount(tx.Client)
	// No operation unlocks an account, so a chargeback freezes it for good.
	if account.Locked {
		return ErrAccountLocked
	}

	switch tx.Type {
	case Deposit:
		return l.deposit(account, tx)
	case Withdrawal:
		return l.withdraw(account, tx)
	case Dispute:
		return l.dispute(account, tx)
	case Resolve:
		return l.resolve(account, tx)
	case Chargeback:
		return l.chargeback(account, tx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownTransactionType, tx.Type)
	}
}

func (l *Ledger) deposit(account *Account, tx Transaction) error {
	if !tx.Amount.Valid {
		return ErrMissingAmount
	}
	if _, exists := l.history[tx.ID]; exists {
		return duplicateTransaction(tx.ID)
	}
	account.Available = account.Available.Add(tx.Amount.Decimal)
	l.history[tx.ID] = tx
	return nil
}

func (l *Ledger) withdraw(account *Account, tx Transaction) error {
	if !tx.Amount.Valid {
		return ErrMissingAmount
	}
	if _, exists := l.history[tx.ID]; exists {
		return duplicateTransaction(tx.ID)
	}
	amount := tx.Amount.Decimal
	if account.Available.LessThan(amount) {
		return insufficientFunds(amount, account.Available)
	}
	account.Available = account.Available.Sub(amount)
	l.history[tx.ID] = tx
	return nil
}

func (l *Ledger) dispute(account *Account, tx Transaction) error {
	amount, err := l.referencedAmount(account, tx)
	if err != nil {
		return err
	}
	if account.Available.LessThan(amount) {
		return insufficientFunds(amount, account.Available)
	}
	account.Available = account.Available.Sub(amount)
	account.Held = account.Held.Add(amount)
	return nil
}

func (l *Ledger) resolve(account *Account, tx Transaction) error {
	amount, err := l.referencedAmount(account, tx)
	if err != nil {
		return err
	}
	if account.Held.LessThan(amount) {
		return insufficientFunds(amount, account.Held)
	}
	account.Held = account.Held.Sub(amount)
	account.Available = account.Available.Add(amount)
	return nil
}

func (l *Ledger) chargeback(account *Account, tx Transaction) error {
	amount, err := l.referencedAmount(account, tx)
	if err != nil {
		return err
	}
	if account.Held.LessThan(amount) {
		return insufficientFunds(amount, account.Held)
	}
	account.Held = account.Held.Sub(amount)
	account.Locked = true
	return nil
}

// referencedAmount checks a dispute, resolve or chargeback against the deposit
// it points at and returns that deposit's amount.
func (l *Ledger) referencedAmount(account *Account, tx Transaction) (decimal.Decimal, error) {
	if tx.Amount.Valid {
		return decimal.Zero, ErrUnattendedForAmount
	}
	ref, ok := l.history[tx.ID]
	if !ok {
		return decimal.Zero, transactionNotFound(tx.ID)
	}
	if ref.Type != Deposit {
		return decimal.Zero, ErrWrongDispute
	}
	if ref.Client != account.Client {
		return decimal.Zero, ErrDisputeMismatch
	}
	return ref.Amount.Decimal, nil
}

func (l *Ledger) getAccount(client ClientID) *Account {
	account := l.accounts[client]
	if account == nil {
		account = &Account{Client: client}
		l.accounts[client] = account
	}
	return account
}

// Account returns a copy of the state of one client.
func (l *Ledger) Account(client ClientID) (Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[client]
	if !ok {
		return Account{}, false
	}
	return *account, true
}

// Accounts returns a copy of every account, ordered by client.
func (l *Ledger) Accounts() []Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Account, 0, len(l.accounts))
	for _, account := range l.accounts {
		out = append(out, *account)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Client < out[j].Client
	})
	return out
}

// Transaction looks up an accepted deposit or withdrawal.
func (l *Ledger) Transaction(id TxID) (Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.history[id]
	return tx, ok
}
