package atm

import "errors"

// Domain errors for transaction validation. Each rejection reason has
// its own sentinel so the HTTP layer can report the exact cause; they
// map to 400 except ErrCustomerNotFound (404).
var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidMultiple    = errors.New("amount not a multiple of the withdrawal unit")
	ErrLimitExceeded      = errors.New("transaction limit exceeded")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrCustomerNotFound   = errors.New("customer not found")
)
