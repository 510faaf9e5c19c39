package models

// Customer represents one row of the customer ledger. ID and
// CustomerNumber carry the same value; both names are kept because
// clients look customers up by either. The PIN never leaves the server
// in a JSON response.
type Customer struct {
	ID             string `json:"id"`
	CustomerNumber string `json:"customerNumber"`
	Name           string `json:"name"`
	PIN            string `json:"-"`
	BasicChecking  int64  `json:"basicChecking"`
	Savings        int64  `json:"savings"`
}

// AccountType selects one of the two balances a customer holds.
type AccountType string

const (
	AccountBasic   AccountType = "basic"
	AccountSavings AccountType = "savings"
)

// ParseAccountType validates the wire value for an account type.
func ParseAccountType(s string) (AccountType, bool) {
	switch AccountType(s) {
	case AccountBasic:
		return AccountBasic, true
	case AccountSavings:
		return AccountSavings, true
	}
	return "", false
}

// DisplayName returns the label used on transaction receipts.
func (t AccountType) DisplayName() string {
	if t == AccountBasic {
		return "Basic Checking"
	}
	return "Savings"
}

// Balance returns the balance of the selected account.
func (c *Customer) Balance(t AccountType) int64 {
	if t == AccountBasic {
		return c.BasicChecking
	}
	return c.Savings
}

// Apply adds a signed delta to the selected account's balance.
func (c *Customer) Apply(t AccountType, delta int64) {
	if t == AccountBasic {
		c.BasicChecking += delta
		return
	}
	c.Savings += delta
}
