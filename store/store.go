// Package store owns the durable representation of customers. Each
// backend persists the whole collection as one unit: reads parse it in
// full and writes replace it in full, so no reader ever observes a
// partial update.
package store

import (
	"context"
	"errors"
	"strings"

	"go-atm/models"
)

var (
	// ErrNotFound means no customer matches the requested id.
	ErrNotFound = errors.New("customer not found")

	// ErrUnavailable means the backing medium could not be read or
	// written. "Does not exist yet" is not this error; a missing
	// collection is seeded with sample data instead.
	ErrUnavailable = errors.New("customer store unavailable")
)

// Store is the persistence seam for the customer ledger.
type Store interface {
	// LoadAll reads and parses the entire collection.
	LoadAll(ctx context.Context) ([]models.Customer, error)

	// SaveAll replaces the entire collection.
	SaveAll(ctx context.Context, customers []models.Customer) error

	// FindByID returns the first customer whose ID or CustomerNumber
	// equals the trimmed argument, or ErrNotFound.
	FindByID(ctx context.Context, id string) (models.Customer, error)
}

// seedCustomers returns the sample dataset written when a backend has
// no data yet.
func seedCustomers() []models.Customer {
	rows := []struct {
		id, name, pin  string
		basic, savings int64
	}{
		{"12345", "John Doe", "1234", 5000, 10000},
		{"67890", "Jane Smith", "5678", 3000, 7500},
		{"11111", "Bob Johnson", "9999", 2000, 5000},
		{"22222", "Alice Williams", "1111", 8000, 12000},
		{"33333", "Charlie Brown", "2222", 1500, 3000},
		{"44444", "Diana Prince", "3333", 6000, 9000},
		{"55555", "Edward Davis", "4444", 4000, 6500},
		{"66666", "Fiona Green", "5555", 2500, 4000},
		{"77777", "George Miller", "6666", 7000, 11000},
		{"88888", "Hannah White", "7777", 3500, 5500},
	}
	customers := make([]models.Customer, len(rows))
	for i, r := range rows {
		customers[i] = models.Customer{
			ID:             r.id,
			CustomerNumber: r.id,
			Name:           r.name,
			PIN:            r.pin,
			BasicChecking:  r.basic,
			Savings:        r.savings,
		}
	}
	return customers
}

func findByID(customers []models.Customer, id string) (models.Customer, error) {
	id = strings.TrimSpace(id)
	for _, c := range customers {
		if c.ID == id || c.CustomerNumber == id {
			return c, nil
		}
	}
	return models.Customer{}, ErrNotFound
}
