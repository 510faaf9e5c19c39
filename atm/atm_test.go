package atm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"go-atm/models"
	"go-atm/store"
)

// Sample data gives customer 12345 basicChecking=5000 and savings=10000.

func newTestEngine(t *testing.T) (*Engine, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewEngine(st, zap.NewNop()), st
}

func balance(t *testing.T, st store.Store, id string, acct models.AccountType) int64 {
	t.Helper()
	c, err := st.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID(%s) err=%v", id, err)
	}
	return c.Balance(acct)
}

func TestDeposit(t *testing.T) {
	e, st := newTestEngine(t)
	got, err := e.Apply(context.Background(), "12345", "basic", 2500, Deposit)
	if err != nil {
		t.Fatal(err)
	}
	if got != 7500 {
		t.Fatalf("newBalance=%d want=7500", got)
	}
	// The other account and other customers stay untouched.
	if b := balance(t, st, "12345", models.AccountSavings); b != 10000 {
		t.Fatalf("savings=%d want=10000", b)
	}
	if b := balance(t, st, "67890", models.AccountBasic); b != 3000 {
		t.Fatalf("other customer basic=%d want=3000", b)
	}
}

func TestWithdraw(t *testing.T) {
	e, st := newTestEngine(t)
	got, err := e.Apply(context.Background(), "12345", "savings", 2000, Withdraw)
	if err != nil {
		t.Fatal(err)
	}
	if got != 8000 {
		t.Fatalf("newBalance=%d want=8000", got)
	}
	if b := balance(t, st, "12345", models.AccountBasic); b != 5000 {
		t.Fatalf("basic=%d want=5000", b)
	}
}

// TestDrainAndRefill walks customer 12345's basic checking to zero,
// trips the insufficient-funds check, then refills it.
func TestDrainAndRefill(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	got, err := e.Apply(ctx, "12345", "basic", 5000, Withdraw)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("newBalance=%d want=0", got)
	}

	if _, err := e.Apply(ctx, "12345", "basic", 20, Withdraw); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	got, err = e.Apply(ctx, "12345", "basic", 5000, Deposit)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5000 {
		t.Fatalf("newBalance=%d want=5000", got)
	}
}

func TestWithdrawNotMultipleOf20(t *testing.T) {
	e, st := newTestEngine(t)
	if _, err := e.Apply(context.Background(), "12345", "basic", 25, Withdraw); !errors.Is(err, ErrInvalidMultiple) {
		t.Fatalf("want ErrInvalidMultiple, got %v", err)
	}
	if b := balance(t, st, "12345", models.AccountBasic); b != 5000 {
		t.Fatalf("balance changed on rejected withdrawal: %d", b)
	}
}

func TestWithdrawOverLimit(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Apply(context.Background(), "12345", "basic", 50020, Withdraw); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("want ErrLimitExceeded, got %v", err)
	}
}

func TestWithdrawInsufficientUnderCap(t *testing.T) {
	e, _ := newTestEngine(t)
	// 6000 is a multiple of 20 and under the cap, but over the balance.
	if _, err := e.Apply(context.Background(), "12345", "basic", 6000, Withdraw); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
}

func TestDepositOverLimit(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Apply(context.Background(), "12345", "basic", 100001, Deposit); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("want ErrLimitExceeded, got %v", err)
	}
}

func TestInvalidAccountType(t *testing.T) {
	e, _ := newTestEngine(t)
	for _, acct := range []string{"", "checking", "BASIC", "Savings"} {
		if _, err := e.Apply(context.Background(), "12345", acct, 100, Deposit); !errors.Is(err, ErrInvalidAccountType) {
			t.Fatalf("account %q: want ErrInvalidAccountType, got %v", acct, err)
		}
	}
}

func TestInvalidAmount(t *testing.T) {
	e, _ := newTestEngine(t)
	for _, amt := range []int64{0, -20} {
		if _, err := e.Apply(context.Background(), "12345", "basic", amt, Withdraw); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: want ErrInvalidAmount, got %v", amt, err)
		}
		if _, err := e.Apply(context.Background(), "12345", "basic", amt, Deposit); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: want ErrInvalidAmount, got %v", amt, err)
		}
	}
}

func TestUnknownCustomer(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Apply(context.Background(), "99999", "basic", 20, Withdraw); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound, got %v", err)
	}
	if _, err := e.Apply(context.Background(), "99999", "savings", 20, Deposit); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound, got %v", err)
	}
}

// TestNoPartialEffects checks that a rejected transaction leaves the
// whole collection exactly as it was.
func TestNoPartialEffects(t *testing.T) {
	e, st := newTestEngine(t)
	before, err := st.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	rejections := []struct {
		account string
		amount  int64
		dir     Direction
	}{
		{"basic", 25, Withdraw},
		{"basic", 50020, Withdraw},
		{"basic", 6000, Withdraw},
		{"basic", 100001, Deposit},
		{"cheque", 100, Deposit},
	}
	for _, r := range rejections {
		if _, err := e.Apply(context.Background(), "12345", r.account, r.amount, r.dir); err == nil {
			t.Fatalf("%+v: expected rejection", r)
		}
	}
	after, err := st.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != len(after) {
		t.Fatalf("collection size changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("customer %s changed: %+v -> %+v", before[i].ID, before[i], after[i])
		}
	}
}

// TestConcurrentWithdrawals hammers one account from many goroutines.
// Every withdrawal must observe a balance that includes all prior
// commits; the serialized critical section prevents lost updates.
func TestConcurrentWithdrawals(t *testing.T) {
	e, st := newTestEngine(t)

	// 250 withdrawals of 20 drain basic checking from 5000 to exactly 0.
	var wg sync.WaitGroup
	errs := make(chan error, 250)
	for i := 0; i < 250; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Apply(context.Background(), "12345", "basic", 20, Withdraw)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if b := balance(t, st, "12345", models.AccountBasic); b != 0 {
		t.Fatalf("final balance=%d want=0", b)
	}
}
