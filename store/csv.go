package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go-atm/models"
)

// CSVStore keeps the ledger in a comma-separated file, one customer per
// line: id,name,pin,basicChecking,savings. The format supports no
// quoting and no embedded commas; fields are trimmed on read. Writes go
// to a temporary file first and are renamed into place so a crash
// mid-write cannot truncate the ledger.
type CSVStore struct {
	path string
	mu   sync.RWMutex
}

// NewCSVStore returns a store backed by the file at path. The file is
// created with sample data on first read if it does not exist.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) LoadAll(ctx context.Context) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, s.path, err)
		}
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("%w: seeding sample data: %v", ErrUnavailable, err)
		}
		if data, err = os.ReadFile(s.path); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, s.path, err)
		}
	}
	return parseCustomers(string(data))
}

func (s *CSVStore) SaveAll(ctx context.Context, customers []models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(serializeCustomers(customers))
}

func (s *CSVStore) FindByID(ctx context.Context, id string) (models.Customer, error) {
	customers, err := s.LoadAll(ctx)
	if err != nil {
		return models.Customer{}, err
	}
	return findByID(customers, id)
}

// seed writes the sample dataset. Callers hold s.mu.
func (s *CSVStore) seed() error {
	return s.write(serializeCustomers(seedCustomers()))
}

// write replaces the ledger file atomically. Callers hold s.mu.
func (s *CSVStore) write(content string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: creating data directory: %v", ErrUnavailable, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrUnavailable, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", ErrUnavailable, s.path, err)
	}
	return nil
}

func parseCustomers(data string) ([]models.Customer, error) {
	var customers []models.Customer
	for i, line := range strings.Split(strings.TrimSpace(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			return nil, fmt.Errorf("%w: line %d: expected 5 fields, got %d", ErrUnavailable, i+1, len(fields))
		}
		for j, f := range fields {
			fields[j] = strings.TrimSpace(f)
		}
		basic, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad basicChecking %q", ErrUnavailable, i+1, fields[3])
		}
		savings, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad savings %q", ErrUnavailable, i+1, fields[4])
		}
		customers = append(customers, models.Customer{
			ID:             fields[0],
			CustomerNumber: fields[0],
			Name:           fields[1],
			PIN:            fields[2],
			BasicChecking:  basic,
			Savings:        savings,
		})
	}
	return customers, nil
}

func serializeCustomers(customers []models.Customer) string {
	lines := make([]string, len(customers))
	for i, c := range customers {
		lines[i] = fmt.Sprintf("%s,%s,%s,%d,%d", c.ID, c.Name, c.PIN, c.BasicChecking, c.Savings)
	}
	return strings.Join(lines, "\n")
}
