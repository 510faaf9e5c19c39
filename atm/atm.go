// Package atm implements the transaction engine: it validates a
// requested withdrawal or deposit against the business rules and
// current balance, then applies exactly one balance delta and persists
// the full collection through the store.
package atm

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"go-atm/models"
	"go-atm/store"
)

// Transaction limits and currency labels. Amounts are whole rupees.
const (
	WithdrawalMultiple = 20
	MaxWithdrawal      = 50000
	MaxDeposit         = 100000
	Currency           = "INR"
	CurrencySymbol     = "₹"
)

// Direction says whether a transaction pays out or pays in.
type Direction int

const (
	Withdraw Direction = iota
	Deposit
)

func (d Direction) String() string {
	if d == Withdraw {
		return "withdrawal"
	}
	return "deposit"
}

// Engine applies transactions to the customer ledger. A single mutex
// serializes the whole load-validate-mutate-save cycle; without it two
// concurrent withdrawals could both read the pre-transaction balance
// and each conclude sufficient funds exist.
type Engine struct {
	store store.Store
	log   *zap.Logger
	mu    sync.Mutex
}

func NewEngine(st store.Store, log *zap.Logger) *Engine {
	return &Engine{store: st, log: log}
}

// Apply validates and applies one transaction, returning the
// post-update balance of the affected account. The magnitude is always
// positive; dir supplies the sign. On any validation failure the store
// is never written and no balance changes. Replaying a request applies
// the delta again; each call is a one-shot ledger entry.
func (e *Engine) Apply(ctx context.Context, customerID, account string, magnitude int64, dir Direction) (int64, error) {
	acct, ok := models.ParseAccountType(account)
	if !ok {
		return 0, ErrInvalidAccountType
	}
	if magnitude <= 0 {
		return 0, ErrInvalidAmount
	}
	switch dir {
	case Withdraw:
		if magnitude%WithdrawalMultiple != 0 {
			return 0, ErrInvalidMultiple
		}
		if magnitude > MaxWithdrawal {
			return 0, ErrLimitExceeded
		}
	case Deposit:
		if magnitude > MaxDeposit {
			return 0, ErrLimitExceeded
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	customers, err := e.store.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	id := strings.TrimSpace(customerID)
	idx := -1
	for i := range customers {
		if customers[i].ID == id || customers[i].CustomerNumber == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrCustomerNotFound
	}

	c := &customers[idx]
	if dir == Withdraw && magnitude > c.Balance(acct) {
		return 0, ErrInsufficientFunds
	}

	delta := magnitude
	if dir == Withdraw {
		delta = -magnitude
	}
	c.Apply(acct, delta)

	if err := e.store.SaveAll(ctx, customers); err != nil {
		return 0, err
	}

	newBalance := c.Balance(acct)
	e.log.Info("transaction applied",
		zap.String("customerId", c.ID),
		zap.String("account", string(acct)),
		zap.String("type", dir.String()),
		zap.Int64("amount", magnitude),
		zap.Int64("newBalance", newBalance),
	)
	return newBalance, nil
}

// IsNotFound reports whether err signals a missing customer from either
// the engine or the store.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) || errors.Is(err, store.ErrNotFound)
}
